package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shakgill786/luxury-car-service/internal/model"
)

// BookingRepository is the storage interface for bookings. Conflict checking
// and the insert/update run inside one transaction so two concurrent requests
// for overlapping ranges cannot both succeed.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	Update(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id uint) (*model.Booking, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Booking, error)
	ListBySpot(ctx context.Context, spotID uint) ([]model.Booking, error)
	Delete(ctx context.Context, id uint) error
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository returns a GORM-backed booking repository.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Create inserts a booking after verifying its date range against existing
// bookings for the same spot. The spot row is locked for the duration of the
// transaction, serializing concurrent booking writes per spot.
func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockSpot(tx, booking.SpotID); err != nil {
			return err
		}
		conflict, err := hasConflict(tx, booking.SpotID, booking.StartDate, booking.EndDate, 0)
		if err != nil {
			return err
		}
		if conflict {
			return ErrBookingConflict
		}
		return tx.Create(booking).Error
	})
}

// Update rewrites a booking's date range with the same conflict check as
// Create, excluding the booking itself from the comparison.
func (r *bookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockSpot(tx, booking.SpotID); err != nil {
			return err
		}
		conflict, err := hasConflict(tx, booking.SpotID, booking.StartDate, booking.EndDate, booking.ID)
		if err != nil {
			return err
		}
		if conflict {
			return ErrBookingConflict
		}
		return tx.Save(booking).Error
	})
}

// lockSpot takes a row lock on the spot so booking writes for it serialize.
// SQLite has no row locks but allows only one writer, which gives the same
// guarantee in tests.
func lockSpot(tx *gorm.DB, spotID uint) error {
	query := tx
	if tx.Dialector.Name() == "postgres" {
		query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var spot model.Spot
	return query.First(&spot, spotID).Error
}

// hasConflict applies the half-open overlap test: [a, b) and [c, d)
// intersect iff a < d and b > c. Adjacent ranges do not conflict.
func hasConflict(tx *gorm.DB, spotID uint, start, end time.Time, excludeID uint) (bool, error) {
	query := tx.Model(&model.Booking{}).
		Where("spot_id = ? AND start_date < ? AND end_date > ?", spotID, end, start)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID uint) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) ListBySpot(ctx context.Context, spotID uint) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).Where("spot_id = ?", spotID).Order("id").Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Booking{}, id).Error
}

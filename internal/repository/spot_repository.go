package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shakgill786/luxury-car-service/internal/model"
)

// SpotFilter narrows and pages the spot listing query. Zero-valued bounds
// are ignored.
type SpotFilter struct {
	Page     int
	Size     int
	MinLat   *float64
	MaxLat   *float64
	MinLng   *float64
	MaxLng   *float64
	MinPrice *float64
	MaxPrice *float64
}

// SpotRepository is the storage interface for spots and their images.
type SpotRepository interface {
	Create(ctx context.Context, spot *model.Spot) error
	FindByID(ctx context.Context, id uint) (*model.Spot, error)
	FindByIDWithImages(ctx context.Context, id uint) (*model.Spot, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Spot, error)
	List(ctx context.Context, filter SpotFilter) ([]model.Spot, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Spot, error)
	Update(ctx context.Context, spot *model.Spot) error
	Delete(ctx context.Context, id uint) error
	AddImage(ctx context.Context, image *model.SpotImage) error
	FindImageByID(ctx context.Context, id uint) (*model.SpotImage, error)
	DeleteImage(ctx context.Context, id uint) error
	PreviewImages(ctx context.Context, spotIDs []uint) (map[uint]string, error)
}

type spotRepository struct {
	db *gorm.DB
}

// NewSpotRepository returns a GORM-backed spot repository.
func NewSpotRepository(db *gorm.DB) SpotRepository {
	return &spotRepository{db: db}
}

func (r *spotRepository) Create(ctx context.Context, spot *model.Spot) error {
	return r.db.WithContext(ctx).Create(spot).Error
}

func (r *spotRepository) FindByID(ctx context.Context, id uint) (*model.Spot, error) {
	var spot model.Spot
	if err := r.db.WithContext(ctx).First(&spot, id).Error; err != nil {
		return nil, err
	}
	return &spot, nil
}

func (r *spotRepository) FindByIDWithImages(ctx context.Context, id uint) (*model.Spot, error) {
	var spot model.Spot
	err := r.db.WithContext(ctx).Preload("SpotImages").First(&spot, id).Error
	if err != nil {
		return nil, err
	}
	return &spot, nil
}

func (r *spotRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Spot, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var spots []model.Spot
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&spots).Error; err != nil {
		return nil, err
	}
	return spots, nil
}

func (r *spotRepository) List(ctx context.Context, filter SpotFilter) ([]model.Spot, error) {
	query := r.db.WithContext(ctx).Model(&model.Spot{})

	if filter.MinLat != nil {
		query = query.Where("lat >= ?", *filter.MinLat)
	}
	if filter.MaxLat != nil {
		query = query.Where("lat <= ?", *filter.MaxLat)
	}
	if filter.MinLng != nil {
		query = query.Where("lng >= ?", *filter.MinLng)
	}
	if filter.MaxLng != nil {
		query = query.Where("lng <= ?", *filter.MaxLng)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	if filter.Size > 0 {
		query = query.Limit(filter.Size)
		if filter.Page > 1 {
			query = query.Offset((filter.Page - 1) * filter.Size)
		}
	}

	var spots []model.Spot
	if err := query.Order("id").Find(&spots).Error; err != nil {
		return nil, err
	}
	return spots, nil
}

func (r *spotRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Spot, error) {
	var spots []model.Spot
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&spots).Error
	if err != nil {
		return nil, err
	}
	return spots, nil
}

func (r *spotRepository) Update(ctx context.Context, spot *model.Spot) error {
	return r.db.WithContext(ctx).Save(spot).Error
}

// Delete removes a spot and everything hanging off it: images, reviews with
// their images, and bookings. The whole sequence runs in one transaction so
// a partial cascade is never visible.
func (r *spotRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("spot_id = ?", id).Delete(&model.SpotImage{}).Error; err != nil {
			return err
		}

		var reviewIDs []uint
		if err := tx.Model(&model.Review{}).Where("spot_id = ?", id).Pluck("id", &reviewIDs).Error; err != nil {
			return err
		}
		if len(reviewIDs) > 0 {
			if err := tx.Where("review_id IN ?", reviewIDs).Delete(&model.ReviewImage{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("spot_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}

		if err := tx.Where("spot_id = ?", id).Delete(&model.Booking{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.Spot{}, id).Error
	})
}

func (r *spotRepository) AddImage(ctx context.Context, image *model.SpotImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *spotRepository) FindImageByID(ctx context.Context, id uint) (*model.SpotImage, error) {
	var image model.SpotImage
	if err := r.db.WithContext(ctx).First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *spotRepository) DeleteImage(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.SpotImage{}, id).Error
}

// PreviewImages returns the preview-flagged image URL per spot, for shaping
// list responses.
func (r *spotRepository) PreviewImages(ctx context.Context, spotIDs []uint) (map[uint]string, error) {
	previews := make(map[uint]string)
	if len(spotIDs) == 0 {
		return previews, nil
	}

	var images []model.SpotImage
	err := r.db.WithContext(ctx).
		Where("spot_id IN ? AND preview = ?", spotIDs, true).
		Find(&images).Error
	if err != nil {
		return nil, err
	}

	for _, img := range images {
		if _, ok := previews[img.SpotID]; !ok {
			previews[img.SpotID] = img.URL
		}
	}
	return previews, nil
}

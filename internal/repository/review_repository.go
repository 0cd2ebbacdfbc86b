package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shakgill786/luxury-car-service/internal/model"
)

// MaxReviewImages caps the number of images a single review may hold.
const MaxReviewImages = 10

// ReviewRepository is the storage interface for reviews and their images.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id uint) (*model.Review, error)
	ListBySpot(ctx context.Context, spotID uint) ([]model.Review, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id uint) error
	AddImage(ctx context.Context, image *model.ReviewImage) error
	FindImageByID(ctx context.Context, id uint) (*model.ReviewImage, error)
	DeleteImage(ctx context.Context, id uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository returns a GORM-backed review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts a review, enforcing one review per (user, spot) inside the
// transaction.
func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.Review{}).
			Where("user_id = ? AND spot_id = ?", review.UserID, review.SpotID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateReview
		}
		return tx.Create(review).Error
	})
}

func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListBySpot(ctx context.Context, spotID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Preload("ReviewImages").
		Where("spot_id = ?", spotID).
		Order("id").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Preload("ReviewImages").
		Where("user_id = ?", userID).
		Order("id").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

// Delete removes a review together with its images in one transaction.
func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&model.ReviewImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Review{}, id).Error
	})
}

// AddImage inserts a review image, enforcing the ten-image cap inside the
// transaction so concurrent uploads cannot exceed it unnoticed.
func (r *reviewRepository) AddImage(ctx context.Context, image *model.ReviewImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.ReviewImage{}).
			Where("review_id = ?", image.ReviewID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count >= MaxReviewImages {
			return ErrTooManyImages
		}
		return tx.Create(image).Error
	})
}

func (r *reviewRepository) FindImageByID(ctx context.Context, id uint) (*model.ReviewImage, error) {
	var image model.ReviewImage
	if err := r.db.WithContext(ctx).First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *reviewRepository) DeleteImage(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.ReviewImage{}, id).Error
}

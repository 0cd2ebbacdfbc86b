package model

import "time"

// Review is a 1-5 star rating with text. A user may review a spot at most
// once, enforced by the composite unique index.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SpotID    uint      `json:"spotId" gorm:"not null;uniqueIndex:idx_reviews_user_spot"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_reviews_user_spot"`
	Review    string    `json:"review" gorm:"type:text"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User         *SafeUser     `json:"User,omitempty" gorm:"-"`
	ReviewImages []ReviewImage `json:"ReviewImages,omitempty" gorm:"foreignKey:ReviewID"`
}

// ReviewImage belongs to one review. A review holds at most ten images,
// enforced at insert time.
type ReviewImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ReviewID  uint      `json:"reviewId" gorm:"index;not null"`
	URL       string    `json:"url" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

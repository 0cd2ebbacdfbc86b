package model

import "time"

// Spot is a bookable listing owned by exactly one user.
type Spot struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OwnerID     uint      `json:"ownerId" gorm:"index;not null"`
	Address     string    `json:"address" gorm:"type:varchar(255)"`
	City        string    `json:"city" gorm:"type:varchar(100)"`
	State       string    `json:"state" gorm:"type:varchar(100)"`
	Country     string    `json:"country" gorm:"type:varchar(100)"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Name        string    `json:"name" gorm:"type:varchar(50)"`
	Description string    `json:"description" gorm:"type:text"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	SpotImages []SpotImage `json:"SpotImages,omitempty" gorm:"foreignKey:SpotID"`
}

// SpotImage belongs to one spot. The preview flag marks the image shown in
// list views.
type SpotImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SpotID    uint      `json:"spotId" gorm:"index;not null"`
	URL       string    `json:"url" gorm:"type:text"`
	Preview   bool      `json:"preview"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

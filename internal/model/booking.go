package model

import "time"

// DateLayout is the wire format for booking dates. Bookings carry calendar
// dates, not instants; both ends are stored as UTC midnight.
const DateLayout = "2006-01-02"

// Booking reserves a spot for a half-open date range [StartDate, EndDate).
// A booking ending on a given day does not conflict with one starting that
// same day.
type Booking struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SpotID    uint      `json:"spotId" gorm:"index;not null"`
	UserID    uint      `json:"userId" gorm:"index;not null"`
	StartDate time.Time `json:"-" gorm:"type:date;not null"`
	EndDate   time.Time `json:"-" gorm:"type:date;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Overlaps reports whether the booking's range intersects [start, end) under
// the half-open convention.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartDate.Before(end) && b.EndDate.After(start)
}

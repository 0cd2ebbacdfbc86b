package repository

import "errors"

var (
	// ErrBookingConflict is returned when a candidate date range overlaps an
	// existing booking for the same spot.
	ErrBookingConflict = errors.New("booking dates conflict with an existing booking")

	// ErrDuplicateReview is returned when a user already reviewed the spot.
	ErrDuplicateReview = errors.New("user already has a review for this spot")

	// ErrTooManyImages is returned when a review already holds the maximum
	// number of images.
	ErrTooManyImages = errors.New("maximum number of images reached")
)

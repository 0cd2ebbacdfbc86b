package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/shakgill786/luxury-car-service/internal/apperr"
	"github.com/shakgill786/luxury-car-service/internal/middleware"
	"github.com/shakgill786/luxury-car-service/internal/model"
	"github.com/shakgill786/luxury-car-service/internal/repository"
	"github.com/shakgill786/luxury-car-service/pkg/logger"
	"github.com/shakgill786/luxury-car-service/prometheus"
)

// BookingRequest defines the structure for booking creation/update requests.
// Dates arrive as YYYY-MM-DD strings.
type BookingRequest struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

// ValidationMessages maps failed booking fields to their error messages.
func (BookingRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"startDate": "Start date is required and must be in ISO 8601 format",
		"endDate":   "End date is required and must be in ISO 8601 format",
	}
}

// bookingResponse formats a booking's dates for the wire.
type bookingResponse struct {
	ID        uint      `json:"id"`
	SpotID    uint      `json:"spotId"`
	UserID    uint      `json:"userId"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func formatBooking(b *model.Booking) bookingResponse {
	return bookingResponse{
		ID:        b.ID,
		SpotID:    b.SpotID,
		UserID:    b.UserID,
		StartDate: b.StartDate.Format(model.DateLayout),
		EndDate:   b.EndDate.Format(model.DateLayout),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// bookingSpotSummary is the spot excerpt embedded in booking listings.
type bookingSpotSummary struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Country      string  `json:"country"`
	Price        float64 `json:"price"`
	PreviewImage *string `json:"previewImage"`
}

type bookingWithSpot struct {
	bookingResponse
	Spot *bookingSpotSummary `json:"Spot,omitempty"`
}

// bookingRange is the dates-only view shown to users who don't own the spot.
type bookingRange struct {
	SpotID    uint   `json:"spotId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// bookingUser is the booker projection shown to the spot's owner.
type bookingUser struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type bookingWithUser struct {
	bookingResponse
	User *bookingUser `json:"User,omitempty"`
}

// BookingHandler serves the booking surface, including the conflict-checked
// create and update paths.
type BookingHandler struct {
	bookings repository.BookingRepository
	spots    repository.SpotRepository
	users    repository.UserRepository
}

// NewBookingHandler wires the booking handler with its dependencies.
func NewBookingHandler(bookings repository.BookingRepository, spots repository.SpotRepository, users repository.UserRepository) *BookingHandler {
	return &BookingHandler{bookings: bookings, spots: spots, users: users}
}

// ListCurrent handles GET /api/bookings/current: the authenticated user's
// bookings with their spot summaries.
func (h *BookingHandler) ListCurrent(c echo.Context) error {
	user := middleware.CurrentUser(c)
	ctx := c.Request().Context()

	bookings, err := h.bookings.ListByUser(ctx, user.ID)
	if err != nil {
		return err
	}

	spotIDs := make([]uint, 0, len(bookings))
	for _, booking := range bookings {
		spotIDs = append(spotIDs, booking.SpotID)
	}
	spots, err := h.spots.FindByIDs(ctx, spotIDs)
	if err != nil {
		return err
	}
	previews, err := h.spots.PreviewImages(ctx, spotIDs)
	if err != nil {
		return err
	}

	spotsByID := make(map[uint]model.Spot, len(spots))
	for _, spot := range spots {
		spotsByID[spot.ID] = spot
	}

	formatted := make([]bookingWithSpot, len(bookings))
	for i, booking := range bookings {
		formatted[i] = bookingWithSpot{bookingResponse: formatBooking(&booking)}
		if spot, ok := spotsByID[booking.SpotID]; ok {
			summary := bookingSpotSummary{
				ID:      spot.ID,
				Name:    spot.Name,
				Address: spot.Address,
				City:    spot.City,
				State:   spot.State,
				Country: spot.Country,
				Price:   spot.Price,
			}
			if url, ok := previews[spot.ID]; ok {
				summary.PreviewImage = &url
			}
			formatted[i].Spot = &summary
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"Bookings": formatted})
}

// ListForSpot handles GET /api/spots/:id/bookings. The spot's owner sees who
// booked; everyone else sees only the reserved date ranges.
func (h *BookingHandler) ListForSpot(c echo.Context) error {
	user := middleware.CurrentUser(c)

	spotID, err := parseID(c, "id")
	if err != nil {
		return apperr.NotFound("Spot")
	}

	ctx := c.Request().Context()
	spot, err := h.spots.FindByID(ctx, spotID)
	if err != nil {
		return orNotFound(err, "Spot")
	}

	bookings, err := h.bookings.ListBySpot(ctx, spotID)
	if err != nil {
		return err
	}

	if spot.OwnerID != user.ID {
		ranges := make([]bookingRange, len(bookings))
		for i, booking := range bookings {
			ranges[i] = bookingRange{
				SpotID:    booking.SpotID,
				StartDate: booking.StartDate.Format(model.DateLayout),
				EndDate:   booking.EndDate.Format(model.DateLayout),
			}
		}
		return c.JSON(http.StatusOK, echo.Map{"Bookings": ranges})
	}

	userIDs := make([]uint, 0, len(bookings))
	for _, booking := range bookings {
		userIDs = append(userIDs, booking.UserID)
	}
	bookers, err := h.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return err
	}
	bookersByID := make(map[uint]model.User, len(bookers))
	for _, booker := range bookers {
		bookersByID[booker.ID] = booker
	}

	formatted := make([]bookingWithUser, len(bookings))
	for i, booking := range bookings {
		formatted[i] = bookingWithUser{bookingResponse: formatBooking(&booking)}
		if booker, ok := bookersByID[booking.UserID]; ok {
			formatted[i].User = &bookingUser{
				ID:        booker.ID,
				FirstName: booker.FirstName,
				LastName:  booker.LastName,
			}
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"Bookings": formatted})
}

// Create handles POST /api/spots/:id/bookings. Owners cannot book their own
// spot, and the date range must not overlap an existing booking.
func (h *BookingHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	user := middleware.CurrentUser(c)
	prometheus.RecordBookingOperation("create")

	spotID, err := parseID(c, "id")
	if err != nil {
		return apperr.NotFound("Spot")
	}

	start, end, err := h.bindDates(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	spot, err := h.spots.FindByID(ctx, spotID)
	if err != nil {
		return orNotFound(err, "Spot")
	}
	if spot.OwnerID == user.ID {
		return apperr.ForbiddenMessage("You cannot book your own spot", nil)
	}

	booking := model.Booking{
		SpotID:    spotID,
		UserID:    user.ID,
		StartDate: start,
		EndDate:   end,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.bookings.Create(ctx, &booking); err != nil {
		if errors.Is(err, repository.ErrBookingConflict) {
			prometheus.BookingConflictCounter.Inc()
			log.Info("Booking conflict",
				zap.Uint("spot_id", spotID),
				zap.String("start_date", start.Format(model.DateLayout)),
				zap.String("end_date", end.Format(model.DateLayout)))
			return bookingConflict()
		}
		log.Error("Failed to create booking", zap.Error(err))
		return err
	}

	log.Info("Booking created",
		zap.Uint("booking_id", booking.ID),
		zap.Uint("spot_id", spotID),
		zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusCreated, formatBooking(&booking))
}

// Update handles PUT /api/bookings/:id. Only the booking's user may change
// it, only before it starts, and the new range is conflict-checked against
// everything but itself.
func (h *BookingHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	user := middleware.CurrentUser(c)
	prometheus.RecordBookingOperation("update")

	id, err := parseID(c, "id")
	if err != nil {
		return apperr.NotFound("Booking")
	}

	start, end, err := h.bindDates(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	booking, err := h.bookings.FindByID(ctx, id)
	if err != nil {
		return orNotFound(err, "Booking")
	}
	if booking.UserID != user.ID {
		return apperr.Forbidden()
	}
	if !booking.StartDate.After(today()) {
		return apperr.ForbiddenMessage("Bookings that have started can't be modified", nil)
	}

	booking.StartDate = start
	booking.EndDate = end

	if err := h.bookings.Update(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrBookingConflict) {
			prometheus.BookingConflictCounter.Inc()
			return bookingConflict()
		}
		log.Error("Failed to update booking", zap.Uint("booking_id", id), zap.Error(err))
		return err
	}

	return c.JSON(http.StatusOK, formatBooking(booking))
}

// Delete handles DELETE /api/bookings/:id. Only the booking's user may
// delete, and only before the start date passes.
func (h *BookingHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	user := middleware.CurrentUser(c)
	prometheus.RecordBookingOperation("delete")

	id, err := parseID(c, "id")
	if err != nil {
		return apperr.NotFound("Booking")
	}

	ctx := c.Request().Context()
	booking, err := h.bookings.FindByID(ctx, id)
	if err != nil {
		return orNotFound(err, "Booking")
	}
	if booking.UserID != user.ID {
		return apperr.Forbidden()
	}
	if !booking.StartDate.After(today()) {
		return apperr.ForbiddenMessage("Bookings that have started can't be deleted", nil)
	}

	if err := h.bookings.Delete(ctx, id); err != nil {
		log.Error("Failed to delete booking", zap.Uint("booking_id", id), zap.Error(err))
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully deleted"})
}

// bindDates parses and validates the request's date pair.
func (h *BookingHandler) bindDates(c echo.Context) (time.Time, time.Time, error) {
	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		return time.Time{}, time.Time{}, apperr.BadRequest("Invalid request data")
	}
	if err := c.Validate(&req); err != nil {
		return time.Time{}, time.Time{}, err
	}

	messages := req.ValidationMessages()
	start, err := time.ParseInLocation(model.DateLayout, req.StartDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation(map[string]string{"startDate": messages["startDate"]})
	}
	end, err := time.ParseInLocation(model.DateLayout, req.EndDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation(map[string]string{"endDate": messages["endDate"]})
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, apperr.Validation(map[string]string{
			"endDate": "End date must be after the start date",
		})
	}
	return start, end, nil
}

func bookingConflict() error {
	return apperr.ForbiddenMessage(
		"Sorry, this spot is already booked for the specified dates",
		map[string]string{
			"startDate": "Start date conflicts with an existing booking",
			"endDate":   "End date conflicts with an existing booking",
		},
	)
}

// today returns the current calendar date at UTC midnight, the granularity
// bookings are compared at.
func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

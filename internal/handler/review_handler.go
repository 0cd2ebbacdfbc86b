package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/shakgill786/luxury-car-service/internal/apperr"
	"github.com/shakgill786/luxury-car-service/internal/middleware"
	"github.com/shakgill786/luxury-car-service/internal/model"
	"github.com/shakgill786/luxury-car-service/internal/repository"
	"github.com/shakgill786/luxury-car-service/pkg/logger"
)

// ReviewRequest defines the structure for review creation/update requests
type ReviewRequest struct {
	Review string `json:"review" validate:"required"`
	Stars  int    `json:"stars" validate:"required,min=1,max=5"`
}

// ValidationMessages maps failed review fields to their error messages.
func (ReviewRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"review": "Review text is required",
		"stars":  "Stars must be an integer from 1 to 5",
	}
}

// ReviewImageRequest defines the structure for adding an image to a review
type ReviewImageRequest struct {
	URL string `json:"url" validate:"required"`
}

// ValidationMessages maps failed image fields to their error messages.
func (ReviewImageRequest) ValidationMessages() map[string]string {
	return map[string]string{"url": "Image URL is required"}
}

// reviewWithSpot is a review decorated with its spot for the current-user
// listing.
type reviewWithSpot struct {
	model.Review
	Spot *spotResponse `json:"Spot,omitempty"`
}

// ReviewHandler serves reviews and review images.
type ReviewHandler struct {
	reviews repository.ReviewRepository
	spots   repository.SpotRepository
	users   repository.UserRepository
}

// NewReviewHandler wires the review handler with its dependencies.
func NewReviewHandler(reviews repository.ReviewRepository, spots repository.SpotRepository, users repository.UserRepository) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, spots: spots, users: users}
}

// ListForSpot handles GET /api/spots/:id/reviews.
func (h *ReviewHandler) ListForSpot(c echo.Context) error {
	spotID, err := parseID(c, "id")
	if err != nil {
		return apperr.NotFound("Spot")
	}

	ctx := c.Request().Context()
	if _, err := h.spots.FindByID(ctx, spotID); err != nil {
		return orNotFound(err, "Spot")
	}

	reviews, err := h.reviews.ListBySpot(ctx, spotID)
	if err != nil {
		return err
	}
	if err := h.attachAuthors(c, reviews); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"Reviews": reviews})
}

// ListCurrent handles GET /api/reviews/current: the authenticated user's
// reviews with their spots attached.
func (h *ReviewHandler) ListCurrent(c echo.Context) error {
	user := middleware.CurrentUser(c)
	ctx := c.Request().Context()

	reviews, err := h.reviews.ListByUser(ctx, user.ID)
	if err != nil {
		return err
	}

	spotIDs := make([]uint, 0, len(reviews))
	for _, review := range reviews {
		spotIDs = append(spotIDs, review.SpotID)
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

	safeUser := user.Safe()
	formatted := make([]reviewWithSpot, len(reviews))
	for i, review := range reviews {
		review.User = &safeUser
		formatted[i] = reviewWithSpot{Review: review}
		if spot, ok := spotsByID[review.SpotID]; ok {
			resp := spotResponse{Spot: spot}
			if url, ok := previews[spot.ID]; ok {
				resp.PreviewImage = &url
			}
			formatted[i].Spot = &resp
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"Reviews": formatted})
}

// Create handles POST /api/spots/:id/reviews. One review per user per spot.
func (h *ReviewHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	user := middleware.CurrentUser(c)

	spotID, err := parseID(c, "id")
	if err != nil {
		return apperr.NotFound("Spot")
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("Invalid request data")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.spots.FindByID(ctx, spotID); err != nil {
		return orNotFound(err, "Spot")
	}

	review := model.Review{
		SpotID: spotID,
		UserID: user.ID,
		Review: req.Review,
		Stars:  req.Stars,
	}

	if err := h.reviews.Create(ctx, &review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return apperr.BadRequest("User already has a review for this spot")
		}
		log.Error("Failed to create review", zap.Error(err))
		return err
	}

	log.Info("Review created",
		zap.Uint("review_id", review.ID),
		zap.Uint("spot_id", spotID),
		zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusCreated, review)
}

// Update handles PUT /api/reviews/:id. Only the author may update.
func (h *ReviewHandler) Update(c echo.Context) error {
	user := middleware.CurrentUser(c)

	id, err := parseID(c, "id")
	if err != nil {
		return apperr.NotFound("Review")
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("Invalid request data")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	review, err := h.reviews.FindByID(ctx, id)
	if err != nil {
		return orNotFound(err, "Review")
	}
	if review.UserID != user.ID {
		return apperr.Forbidden()
	}

	review.Review = req.Review
	review.Stars = req.Stars
	if err := h.reviews.Update(ctx, review); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, review)
}

// Delete handles DELETE /api/reviews/:id. Only the author may delete; the
// review's images go with it.
func (h *ReviewHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	user := middleware.CurrentUser(c)

	id, err := parseID(c, "id")
	if err != nil {
		return apperr.NotFound("Review")
	}

	ctx := c.Request().Context()
	review, err := h.reviews.FindByID(ctx, id)
	if err != nil {
		return orNotFound(err, "Review")
	}
	if review.UserID != user.ID {
		return apperr.Forbidden()
	}

	if err := h.reviews.Delete(ctx, id); err != nil {
		log.Error("Failed to delete review", zap.Uint("review_id", id), zap.Error(err))
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully deleted"})
}

// AddImage handles POST /api/reviews/:id/images, capped at ten images per
// review.
func (h *ReviewHandler) AddImage(c echo.Context) error {
	user := middleware.CurrentUser(c)

	id, err := parseID(c, "id")
	if err != nil {
		return apperr.NotFound("Review")
	}

	var req ReviewImageRequest
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("Invalid request data")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	review, err := h.reviews.FindByID(ctx, id)
	if err != nil {
		return orNotFound(err, "Review")
	}
	if review.UserID != user.ID {
		return apperr.Forbidden()
	}

	image := model.ReviewImage{ReviewID: review.ID, URL: req.URL}
	if err := h.reviews.AddImage(ctx, &image); err != nil {
		if errors.Is(err, repository.ErrTooManyImages) {
			return apperr.ForbiddenMessage("Maximum number of images for this resource was reached", nil)
		}
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": image.ID, "url": image.URL})
}

// attachAuthors fills in each review's author projection.
func (h *ReviewHandler) attachAuthors(c echo.Context, reviews []model.Review) error {
	userIDs := make([]uint, 0, len(reviews))
	seen := make(map[uint]bool)
	for _, review := range reviews {
		if !seen[review.UserID] {
			seen[review.UserID] = true
			userIDs = append(userIDs, review.UserID)
		}
	}

	users, err := h.users.FindByIDs(c.Request().Context(), userIDs)
	if err != nil {
		return err
	}

	byID := make(map[uint]model.SafeUser, len(users))
	for _, user := range users {
		byID[user.ID] = model.SafeUser{ID: user.ID, Username: user.Username}
	}

	for i := range reviews {
		if safe, ok := byID[reviews[i].UserID]; ok {
			reviews[i].User = &safe
		}
	}
	return nil
}

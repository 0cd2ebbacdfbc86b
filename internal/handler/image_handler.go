package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/shakgill786/luxury-car-service/internal/apperr"
	"github.com/shakgill786/luxury-car-service/internal/middleware"
	"github.com/shakgill786/luxury-car-service/internal/repository"
	"github.com/shakgill786/luxury-car-service/pkg/logger"
)

// ImageHandler serves standalone image deletion. Ownership is checked
// through the image's parent: the spot's owner or the review's author.
type ImageHandler struct {
	spots   repository.SpotRepository
	reviews repository.ReviewRepository
}

// NewImageHandler wires the image handler with its dependencies.
func NewImageHandler(spots repository.SpotRepository, reviews repository.ReviewRepository) *ImageHandler {
	return &ImageHandler{spots: spots, reviews: reviews}
}

// DeleteSpotImage handles DELETE /api/spot-images/:id.
func (h *ImageHandler) DeleteSpotImage(c echo.Context) error {
	log := logger.FromContext(c)
	user := middleware.CurrentUser(c)

	id, err := parseID(c, "id")
	if err != nil {
		return apperr.NotFound("Spot Image")
	}

	ctx := c.Request().Context()
	image, err := h.spots.FindImageByID(ctx, id)
	if err != nil {
		return orNotFound(err, "Spot Image")
	}

	spot, err := h.spots.FindByID(ctx, image.SpotID)
	if err != nil {
		return orNotFound(err, "Spot Image")
	}
	if spot.OwnerID != user.ID {
		return apperr.Forbidden()
	}

	if err := h.spots.DeleteImage(ctx, id); err != nil {
		log.Error("Failed to delete spot image", zap.Uint("image_id", id), zap.Error(err))
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully deleted"})
}

// DeleteReviewImage handles DELETE /api/review-images/:id.
func (h *ImageHandler) DeleteReviewImage(c echo.Context) error {
	log := logger.FromContext(c)
	user := middleware.CurrentUser(c)

	id, err := parseID(c, "id")
	if err != nil {
		return apperr.NotFound("Review Image")
	}

	ctx := c.Request().Context()
	image, err := h.reviews.FindImageByID(ctx, id)
	if err != nil {
		return orNotFound(err, "Review Image")
	}

	review, err := h.reviews.FindByID(ctx, image.ReviewID)
	if err != nil {
		return orNotFound(err, "Review Image")
	}
	if review.UserID != user.ID {
		return apperr.Forbidden()
	}

	if err := h.reviews.DeleteImage(ctx, id); err != nil {
		log.Error("Failed to delete review image", zap.Uint("image_id", id), zap.Error(err))
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully deleted"})
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shakgill786/luxury-car-service/internal/apperr"
	"github.com/shakgill786/luxury-car-service/internal/middleware"
	"github.com/shakgill786/luxury-car-service/internal/model"
	"github.com/shakgill786/luxury-car-service/internal/repository"
	"github.com/shakgill786/luxury-car-service/pkg/logger"
)

// SpotRequest defines the structure for spot creation/update requests
type SpotRequest struct {
	Address     string  `json:"address" validate:"required"`
	City        string  `json:"city" validate:"required"`
	State       string  `json:"state" validate:"required"`
	Country     string  `json:"country" validate:"required"`
	Lat         float64 `json:"lat" validate:"min=-90,max=90"`
	Lng         float64 `json:"lng" validate:"min=-180,max=180"`
	Name        string  `json:"name" validate:"max=50"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"min=0"`
}

// ValidationMessages maps failed spot fields to their error messages.
func (SpotRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"address": "Street address is required",
		"city":    "City is required",
		"state":   "State is required",
		"country": "Country is required",
		"lat":     "Latitude must be between -90 and 90",
		"lng":     "Longitude must be between -180 and 180",
		"name":    "Name must be less than 50 characters",
		"price":   "Price must be a positive number",
	}
}

// SpotImageRequest defines the structure for adding an image to a spot
type SpotImageRequest struct {
	URL     string `json:"url" validate:"required"`
	Preview bool   `json:"preview"`
}

// ValidationMessages maps failed image fields to their error messages.
func (SpotImageRequest) ValidationMessages() map[string]string {
	return map[string]string{"url": "Image URL is required"}
}

// spotResponse is a spot decorated with its preview image URL for list views.
type spotResponse struct {
	model.Spot
	PreviewImage *string `json:"previewImage"`
}

// SpotHandler serves the spot CRUD surface.
type SpotHandler struct {
	spots repository.SpotRepository
}

// NewSpotHandler wires the spot handler with its dependencies.
func NewSpotHandler(spots repository.SpotRepository) *SpotHandler {
	return &SpotHandler{spots: spots}
}

const (
	defaultPageSize = 20
	maxPageSize     = 20
)

// List handles GET /api/spots with paging and coordinate/price filters.
func (h *SpotHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	page := parseIntParam(c.QueryParam("page"), 1)
	if page < 1 {
		page = 1
	}
	size := parseIntParam(c.QueryParam("size"), defaultPageSize)
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	filter := repository.SpotFilter{
		Page:     page,
		Size:     size,
		MinLat:   parseFloatParam(c, "minLat"),
		MaxLat:   parseFloatParam(c, "maxLat"),
		MinLng:   parseFloatParam(c, "minLng"),
		MaxLng:   parseFloatParam(c, "maxLng"),
		MinPrice: parseFloatParam(c, "minPrice"),
		MaxPrice: parseFloatParam(c, "maxPrice"),
	}

	spots, err := h.spots.List(c.Request().Context(), filter)
	if err != nil {
		log.Error("Failed to list spots", zap.Error(err))
		return err
	}

	formatted, err := h.withPreviews(c, spots)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"Spots": formatted, "page": page, "size": size})
}

// ListCurrent handles GET /api/spots/current: the authenticated user's spots.
func (h *SpotHandler) ListCurrent(c echo.Context) error {
	user := middleware.CurrentUser(c)

	spots, err := h.spots.ListByOwner(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	formatted, err := h.withPreviews(c, spots)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"Spots": formatted})
}

// Get handles GET /api/spots/:id with the spot's images attached.
func (h *SpotHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return apperr.NotFound("Spot")
	}

	spot, err := h.spots.FindByIDWithImages(c.Request().Context(), id)
	if err != nil {
		return orNotFound(err, "Spot")
	}

	return c.JSON(http.StatusOK, spot)
}

// Create handles POST /api/spots.
func (h *SpotHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	user := middleware.CurrentUser(c)

	var req SpotRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return apperr.BadRequest("Invalid request data")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	spot := model.Spot{
		OwnerID:     user.ID,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		Lat:         req.Lat,
		Lng:         req.Lng,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}

	if err := h.spots.Create(c.Request().Context(), &spot); err != nil {
		log.Error("Failed to create spot", zap.Error(err))
		return err
	}

	log.Info("Spot created", zap.Uint("spot_id", spot.ID), zap.Uint("owner_id", user.ID))
	return c.JSON(http.StatusCreated, spot)
}

// Update handles PUT /api/spots/:id. Only the owner may update.
func (h *SpotHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	user := middleware.CurrentUser(c)

	id, err := parseID(c, "id")
	if err != nil {
		return apperr.NotFound("Spot")
	}

	var req SpotRequest
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("Invalid request data")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	spot, err := h.spots.FindByID(ctx, id)
	if err != nil {
		return orNotFound(err, "Spot")
	}
	if spot.OwnerID != user.ID {
		return apperr.Forbidden()
	}

	spot.Address = req.Address
	spot.City = req.City
	spot.State = req.State
	spot.Country = req.Country
	spot.Lat = req.Lat
	spot.Lng = req.Lng
	spot.Name = req.Name
	spot.Description = req.Description
	spot.Price = req.Price

	if err := h.spots.Update(ctx, spot); err != nil {
		log.Error("Failed to update spot", zap.Uint("spot_id", spot.ID), zap.Error(err))
		return err
	}

	return c.JSON(http.StatusOK, spot)
}

// Delete handles DELETE /api/spots/:id. Only the owner may delete; the
// spot's images, reviews, and bookings go with it.
func (h *SpotHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	user := middleware.CurrentUser(c)

	id, err := parseID(c, "id")
	if err != nil {
		return apperr.NotFound("Spot")
	}

	ctx := c.Request().Context()
	spot, err := h.spots.FindByID(ctx, id)
	if err != nil {
		return orNotFound(err, "Spot")
	}
	if spot.OwnerID != user.ID {
		return apperr.Forbidden()
	}

	if err := h.spots.Delete(ctx, id); err != nil {
		log.Error("Failed to delete spot", zap.Uint("spot_id", id), zap.Error(err))
		return err
	}

	log.Info("Spot deleted", zap.Uint("spot_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully deleted"})
}

// AddImage handles POST /api/spots/:id/images. Only the owner may add.
func (h *SpotHandler) AddImage(c echo.Context) error {
	user := middleware.CurrentUser(c)

	id, err := parseID(c, "id")
	if err != nil {
		return apperr.NotFound("Spot")
	}

	var req SpotImageRequest
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("Invalid request data")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	spot, err := h.spots.FindByID(ctx, id)
	if err != nil {
		return orNotFound(err, "Spot")
	}
	if spot.OwnerID != user.ID {
		return apperr.Forbidden()
	}

	image := model.SpotImage{SpotID: spot.ID, URL: req.URL, Preview: req.Preview}
	if err := h.spots.AddImage(ctx, &image); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, image)
}

// withPreviews decorates spots with their preview image URLs.
func (h *SpotHandler) withPreviews(c echo.Context, spots []model.Spot) ([]spotResponse, error) {
	ids := make([]uint, len(spots))
	for i, s := range spots {
		ids[i] = s.ID
	}

	previews, err := h.spots.PreviewImages(c.Request().Context(), ids)
	if err != nil {
		return nil, err
	}

	formatted := make([]spotResponse, len(spots))
	for i, s := range spots {
		formatted[i] = spotResponse{Spot: s}
		if url, ok := previews[s.ID]; ok {
			formatted[i].PreviewImage = &url
		}
	}
	return formatted, nil
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func parseIntParam(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func parseFloatParam(c echo.Context, name string) *float64 {
	value := c.QueryParam(name)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logger.FromContext(c).Warn("Invalid query parameter",
			zap.String("param", name), zap.String("value", value))
		return nil
	}
	return &f
}

// orNotFound maps a missing row to the resource's 404; other storage errors
// pass through.
func orNotFound(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(resource)
	}
	return err
}

// Package server wires the Echo application: middleware chain, route table,
// and handler dependencies. Keeping it out of main lets tests run the full
// stack against an in-memory database.
package server

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shakgill786/luxury-car-service/internal/apperr"
	"github.com/shakgill786/luxury-car-service/internal/handler"
	"github.com/shakgill786/luxury-car-service/internal/middleware"
	"github.com/shakgill786/luxury-car-service/internal/repository"
	"github.com/shakgill786/luxury-car-service/internal/validation"
	"github.com/shakgill786/luxury-car-service/pkg/config"
	"github.com/shakgill786/luxury-car-service/pkg/jwtutil"
	"github.com/shakgill786/luxury-car-service/pkg/logger"
	"github.com/shakgill786/luxury-car-service/prometheus"
)

// New builds the Echo application with all dependencies injected.
func New(cfg *config.Config, log *zap.Logger, db *gorm.DB) *echo.Echo {
	users := repository.NewUserRepository(db)
	spots := repository.NewSpotRepository(db)
	reviews := repository.NewReviewRepository(db)
	bookings := repository.NewBookingRepository(db)

	jwt := jwtutil.New(&cfg.JWT)
	auth := middleware.NewAuthenticator(cfg, jwt, users)

	userHandler := handler.NewUserHandler(users, auth)
	sessionHandler := handler.NewSessionHandler(users, auth)
	spotHandler := handler.NewSpotHandler(spots)
	reviewHandler := handler.NewReviewHandler(reviews, spots, users)
	bookingHandler := handler.NewBookingHandler(bookings, spots, users)
	imageHandler := handler.NewImageHandler(spots, reviews)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(log, !cfg.Server.IsProduction())

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// API routes - session restored on every request, required per route
	api := e.Group("/api")
	api.Use(auth.Authenticate)

	api.POST("/users", userHandler.Signup)

	api.GET("/session", sessionHandler.Restore)
	api.POST("/session", sessionHandler.Login)
	api.DELETE("/session", sessionHandler.Logout)

	api.GET("/spots", spotHandler.List)
	api.GET("/spots/current", spotHandler.ListCurrent, auth.RequireAuth)
	api.GET("/spots/:id", spotHandler.Get)
	api.POST("/spots", spotHandler.Create, auth.RequireAuth)
	api.PUT("/spots/:id", spotHandler.Update, auth.RequireAuth)
	api.DELETE("/spots/:id", spotHandler.Delete, auth.RequireAuth)
	api.POST("/spots/:id/images", spotHandler.AddImage, auth.RequireAuth)
	api.DELETE("/spot-images/:id", imageHandler.DeleteSpotImage, auth.RequireAuth)

	api.GET("/spots/:id/reviews", reviewHandler.ListForSpot)
	api.POST("/spots/:id/reviews", reviewHandler.Create, auth.RequireAuth)
	api.GET("/reviews/current", reviewHandler.ListCurrent, auth.RequireAuth)
	api.PUT("/reviews/:id", reviewHandler.Update, auth.RequireAuth)
	api.DELETE("/reviews/:id", reviewHandler.Delete, auth.RequireAuth)
	api.POST("/reviews/:id/images", reviewHandler.AddImage, auth.RequireAuth)
	api.DELETE("/review-images/:id", imageHandler.DeleteReviewImage, auth.RequireAuth)

	api.GET("/bookings/current", bookingHandler.ListCurrent, auth.RequireAuth)
	api.GET("/spots/:id/bookings", bookingHandler.ListForSpot, auth.RequireAuth)
	api.POST("/spots/:id/bookings", bookingHandler.Create, auth.RequireAuth)
	api.PUT("/bookings/:id", bookingHandler.Update, auth.RequireAuth)
	api.DELETE("/bookings/:id", bookingHandler.Delete, auth.RequireAuth)

	return e
}

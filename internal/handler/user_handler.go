package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shakgill786/luxury-car-service/internal/apperr"
	"github.com/shakgill786/luxury-car-service/internal/middleware"
	"github.com/shakgill786/luxury-car-service/internal/model"
	"github.com/shakgill786/luxury-car-service/internal/repository"
	"github.com/shakgill786/luxury-car-service/pkg/logger"
	"github.com/shakgill786/luxury-car-service/prometheus"
)

// SignupRequest defines the structure for user signup requests
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,min=4,max=30,excludes=@"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

// ValidationMessages maps failed signup fields to their error messages.
func (SignupRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"email":     "Invalid email",
		"username":  "Username must be at least 4 characters",
		"firstName": "First name is required",
		"lastName":  "Last name is required",
		"password":  "Password must be 6 characters or more",
	}
}

// UserHandler serves account signup.
type UserHandler struct {
	users repository.UserRepository
	auth  *middleware.Authenticator
}

// NewUserHandler wires the user handler with its dependencies.
func NewUserHandler(users repository.UserRepository, auth *middleware.Authenticator) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

// Signup handles POST /api/users: creates an account and starts a session.
func (h *UserHandler) Signup(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.SignupCounter.Inc()

	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse signup request", zap.Error(err))
		return apperr.BadRequest("Invalid request data")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	emailTaken, err := h.users.EmailTaken(ctx, req.Email)
	if err != nil {
		return err
	}
	if emailTaken {
		log.Warn("Signup with existing email", zap.String("email", req.Email))
		return &apperr.Error{
			Status:  http.StatusInternalServerError,
			Message: "User already exists",
			Errors:  map[string]string{"email": "User with that email already exists"},
		}
	}

	usernameTaken, err := h.users.UsernameTaken(ctx, req.Username)
	if err != nil {
		return err
	}
	if usernameTaken {
		log.Warn("Signup with existing username", zap.String("username", req.Username))
		return &apperr.Error{
			Status:  http.StatusInternalServerError,
			Message: "User already exists",
			Errors:  map[string]string{"username": "User with that username already exists"},
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return err
	}

	user := model.User{
		Email:          req.Email,
		Username:       req.Username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		HashedPassword: string(hashedPassword),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.users.Create(ctx, &user); err != nil {
		log.Error("Failed to create user", zap.Error(err))
		return err
	}

	if _, err := h.auth.SetTokenCookie(c, &user); err != nil {
		log.Error("Failed to issue session token", zap.Error(err))
		return err
	}

	log.Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username))
	return c.JSON(http.StatusCreated, echo.Map{"user": user.Safe()})
}

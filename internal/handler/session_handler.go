package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/shakgill786/luxury-car-service/internal/apperr"
	"github.com/shakgill786/luxury-car-service/internal/middleware"
	"github.com/shakgill786/luxury-car-service/internal/repository"
	"github.com/shakgill786/luxury-car-service/pkg/logger"
	"github.com/shakgill786/luxury-car-service/prometheus"
)

// LoginRequest defines the structure for login requests. Credential is a
// username or an email.
type LoginRequest struct {
	Credential string `json:"credential" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// ValidationMessages maps failed login fields to their error messages.
func (LoginRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"credential": "Please provide a valid email or username.",
		"password":   "Please provide a password.",
	}
}

// SessionHandler serves login, logout, and session restore.
type SessionHandler struct {
	users repository.UserRepository
	auth  *middleware.Authenticator
}

// NewSessionHandler wires the session handler with its dependencies.
func NewSessionHandler(users repository.UserRepository, auth *middleware.Authenticator) *SessionHandler {
	return &SessionHandler{users: users, auth: auth}
}

// Login handles POST /api/session. A credential/password mismatch returns
// 401 without setting a cookie.
func (h *SessionHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		return apperr.BadRequest("Invalid request data")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := h.users.FindByCredential(c.Request().Context(), req.Credential)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Login with unknown credential", zap.String("credential", req.Credential))
			prometheus.RecordAuthError("invalid_credentials")
			return apperr.LoginFailed()
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		log.Warn("Login with wrong password", zap.String("credential", req.Credential))
		prometheus.RecordAuthError("invalid_credentials")
		return apperr.LoginFailed()
	}

	if _, err := h.auth.SetTokenCookie(c, user); err != nil {
		log.Error("Failed to issue session token", zap.Error(err))
		return err
	}

	log.Info("User logged in", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return c.JSON(http.StatusOK, echo.Map{"user": user.Safe()})
}

// Logout handles DELETE /api/session: clears the session cookie.
func (h *SessionHandler) Logout(c echo.Context) error {
	h.auth.ClearTokenCookie(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "success"})
}

// Restore handles GET /api/session: returns the current user, or null when
// the request is anonymous.
func (h *SessionHandler) Restore(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusOK, echo.Map{"user": nil})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user.Safe()})
}

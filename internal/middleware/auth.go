package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/shakgill786/luxury-car-service/internal/apperr"
	"github.com/shakgill786/luxury-car-service/internal/model"
	"github.com/shakgill786/luxury-car-service/internal/repository"
	"github.com/shakgill786/luxury-car-service/pkg/config"
	"github.com/shakgill786/luxury-car-service/pkg/jwtutil"
	"github.com/shakgill786/luxury-car-service/pkg/logger"
)

// userContextKey is where Authenticate stores the resolved user.
const userContextKey = "currentUser"

// Authenticator owns the session cookie: it issues, verifies, and clears the
// signed token, and resolves it to a user row on every request.
type Authenticator struct {
	jwt        *jwtutil.JWTUtil
	users      repository.UserRepository
	cookieName string
	production bool
}

// NewAuthenticator wires the session middleware with its dependencies.
func NewAuthenticator(cfg *config.Config, jwt *jwtutil.JWTUtil, users repository.UserRepository) *Authenticator {
	return &Authenticator{
		jwt:        jwt,
		users:      users,
		cookieName: cfg.Session.CookieName,
		production: cfg.Server.IsProduction(),
	}
}

// Authenticate restores the session user from the token cookie. A missing,
// invalid, or expired token, or a token for a deleted user, leaves the
// request anonymous and clears the stale cookie. It never rejects.
func (a *Authenticator) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(a.cookieName)
		if err != nil || cookie.Value == "" {
			return next(c)
		}

		claims, err := a.jwt.ValidateToken(cookie.Value)
		if err != nil {
			logger.FromContext(c).Debug("Session token rejected", zap.Error(err))
			a.ClearTokenCookie(c)
			return next(c)
		}

		user, err := a.users.FindByID(c.Request().Context(), claims.UserID)
		if err != nil {
			// The user was deleted after the token was issued.
			a.ClearTokenCookie(c)
			return next(c)
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// RequireAuth rejects anonymous requests with 401.
func (a *Authenticator) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentUser(c) == nil {
			return apperr.AuthRequired()
		}
		return next(c)
	}
}

// SetTokenCookie issues a session token for the user and sets it as an
// HTTP-only cookie. Secure and a stricter SameSite policy apply outside
// development.
func (a *Authenticator) SetTokenCookie(c echo.Context, user *model.User) (string, error) {
	token, err := a.jwt.GenerateToken(user.ID, user.Email, user.Username)
	if err != nil {
		return "", err
	}

	sameSite := http.SameSiteStrictMode
	if a.production {
		sameSite = http.SameSiteLaxMode
	}

	c.SetCookie(&http.Cookie{
		Name:     a.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(a.jwt.ExpiresIn()),
		HttpOnly: true,
		Secure:   a.production,
		SameSite: sameSite,
	})
	return token, nil
}

// ClearTokenCookie expires the session cookie.
func (a *Authenticator) ClearTokenCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.production,
	})
}

// CurrentUser returns the authenticated user for the request, or nil.
func CurrentUser(c echo.Context) *model.User {
	if user, ok := c.Get(userContextKey).(*model.User); ok {
		return user
	}
	return nil
}

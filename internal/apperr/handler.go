package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HTTPErrorHandler returns the Echo error handler that maps service errors to
// response bodies. Unexpected errors become a 500 with the internal message
// suppressed outside development.
func HTTPErrorHandler(log *zap.Logger, development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var appErr *Error
		if errors.As(err, &appErr) {
			if jsonErr := c.JSON(appErr.Status, appErr); jsonErr != nil {
				log.Error("Failed to write error response", zap.Error(jsonErr))
			}
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			if jsonErr := c.JSON(httpErr.Code, echo.Map{"message": httpErr.Message}); jsonErr != nil {
				log.Error("Failed to write error response", zap.Error(jsonErr))
			}
			return
		}

		log.Error("Unhandled error",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err))

		body := echo.Map{"message": "Something went wrong"}
		if development {
			body["error"] = err.Error()
		}
		if jsonErr := c.JSON(http.StatusInternalServerError, body); jsonErr != nil {
			log.Error("Failed to write error response", zap.Error(jsonErr))
		}
	}
}

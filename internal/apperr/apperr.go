// Package apperr defines the service error taxonomy. Handlers return these
// errors instead of writing failure responses inline; the Echo error handler
// translates them to HTTP status codes and JSON bodies at the boundary.
package apperr

import "net/http"

// Error is a request-level failure with an HTTP status, a top-level message,
// and optional field-level details.
type Error struct {
	Status  int               `json:"-"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Validation reports failed request validation with field-level messages.
func Validation(fields map[string]string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: "Bad Request", Errors: fields}
}

// BadRequest reports a malformed or otherwise unprocessable request.
func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// AuthRequired reports a request that needs an authenticated session.
func AuthRequired() *Error {
	return &Error{
		Status:  http.StatusUnauthorized,
		Message: "Authentication required",
		Errors:  map[string]string{"message": "Authentication required"},
	}
}

// LoginFailed reports a credentials mismatch during login.
func LoginFailed() *Error {
	return &Error{
		Status:  http.StatusUnauthorized,
		Message: "Login failed",
		Errors:  map[string]string{"credential": "The provided credentials were invalid."},
	}
}

// Forbidden reports an ownership mismatch.
func Forbidden() *Error {
	return &Error{Status: http.StatusForbidden, Message: "Forbidden"}
}

// ForbiddenMessage reports a business-rule denial such as a booking conflict.
func ForbiddenMessage(message string, fields map[string]string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message, Errors: fields}
}

// NotFound reports a missing resource by its display name.
func NotFound(resource string) *Error {
	return &Error{Status: http.StatusNotFound, Message: resource + " couldn't be found"}
}

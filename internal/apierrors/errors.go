package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a standardized application error carrying the HTTP status it
// should be rendered with.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"` // internal cause, for logging only
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the internal cause to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFound creates a 404 error
func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

// BadRequest creates a 400 error
func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

// Unauthorized creates a 401 error
func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

// Internal creates a 500 error
func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "internal server error", err)
}

// StatusOf returns the HTTP status for err: the AppError code when err wraps
// one, 500 otherwise.
func StatusOf(err error) int {
	var app *AppError
	if errors.As(err, &app) {
		return app.Code
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-facing message for err. Non-AppError values
// are masked as an internal error so store internals never leak to callers.
func MessageOf(err error) string {
	var app *AppError
	if errors.As(err, &app) {
		return app.Message
	}
	return "internal server error"
}

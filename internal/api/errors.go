package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIError represents a structured API error with HTTP status code.
// It renders as {"error": "<message>"}.
type APIError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// NewAPIError creates a new API error.
func NewAPIError(code int, message string, details string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Common error constructors
func BadRequestError(message, details string) *APIError {
	return NewAPIError(http.StatusBadRequest, message, details)
}

// InternalError wraps cause as a 500 with a human message. The cause is
// only rendered in debug mode.
func InternalError(message string, cause error) *APIError {
	e := NewAPIError(http.StatusInternalServerError, message, "")
	if cause != nil {
		e.Details = cause.Error()
		e.cause = cause
	}
	return e
}

// HTTPErrorHandler is a custom error handler for Echo.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	var he *echo.HTTPError

	switch {
	case errors.As(err, &apiErr):
		apiErr = &APIError{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details}
	case errors.As(err, &he):
		apiErr = &APIError{Code: he.Code, Message: httpMessage(he)}
	default:
		apiErr = &APIError{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
			Details: err.Error(),
		}
	}

	// Don't expose internal errors in production
	if apiErr.Code >= http.StatusInternalServerError && !c.Echo().Debug {
		apiErr.Details = ""
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(apiErr.Code)
	} else {
		err = c.JSON(apiErr.Code, apiErr)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

// httpMessage returns the message of an echo error, falling back to a
// user-friendly message for the status code.
func httpMessage(he *echo.HTTPError) string {
	if msg, ok := he.Message.(string); ok && msg != "" {
		return msg
	}

	messages := map[int]string{
		http.StatusBadRequest:          "Bad request",
		http.StatusUnauthorized:        "Unauthorized",
		http.StatusForbidden:           "Forbidden",
		http.StatusNotFound:            "Resource not found",
		http.StatusMethodNotAllowed:    "Method not allowed",
		http.StatusTooManyRequests:     "Too many requests",
		http.StatusInternalServerError: "Internal server error",
		http.StatusServiceUnavailable:  "Service unavailable",
	}

	if msg, ok := messages[he.Code]; ok {
		return msg
	}
	return http.StatusText(he.Code)
}

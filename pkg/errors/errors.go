package errors

import (
	"errors"
	"fmt"
	"net/http"

	"japanese-doc-reader/internal/domain"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeRateLimited ErrorType = "rate_limited"
	ErrorTypeUpstream    ErrorType = "upstream"
	ErrorTypeUnavailable ErrorType = "unavailable"
	ErrorTypeInternal    ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// FromDomain maps a domain error to an AppError with the HTTP status the
// handler boundary should report. Local conditions (bad page, empty text)
// map to 4xx before any AI round trip is paid for; gateway failures map to
// 429/502/503 so the client can distinguish them from server bugs.
func FromDomain(err error) *AppError {
	switch {
	case errors.Is(err, domain.ErrEmptyUpload),
		errors.Is(err, domain.ErrDocumentOpen),
		errors.Is(err, domain.ErrImageDecode),
		errors.Is(err, domain.ErrEmptyText):
		return &AppError{Type: ErrorTypeValidation, Message: err.Error(), StatusCode: http.StatusBadRequest, Cause: err}
	case errors.Is(err, domain.ErrPageOutOfRange),
		errors.Is(err, domain.ErrNoDocument):
		return &AppError{Type: ErrorTypeNotFound, Message: err.Error(), StatusCode: http.StatusNotFound, Cause: err}
	case errors.Is(err, domain.ErrRateLimited):
		return &AppError{Type: ErrorTypeRateLimited, Message: err.Error(), StatusCode: http.StatusTooManyRequests, Cause: err}
	case errors.Is(err, domain.ErrInvalidResponse):
		return &AppError{Type: ErrorTypeUpstream, Message: err.Error(), StatusCode: http.StatusBadGateway, Cause: err}
	case errors.Is(err, domain.ErrServiceUnavailable):
		return &AppError{Type: ErrorTypeUnavailable, Message: err.Error(), StatusCode: http.StatusServiceUnavailable, Cause: err}
	default:
		return &AppError{Type: ErrorTypeInternal, Message: err.Error(), StatusCode: http.StatusInternalServerError, Cause: err}
	}
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

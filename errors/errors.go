package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/coreagenda/internal/usecase/errors"
)

// AppError is the error type rendered by the HTTP layer
type AppError struct {
	Raw      error
	HTTPCode int
	Code     ErrorCode
	Message  string
	Details  map[string]string
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying error
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

func ErrAlreadyExists(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_ALREADY_EXISTS,
		Message:  "Resource already exists",
	}
}

func ErrPermissionDenied(action string) AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_PERMISSION_DENIED,
		Message:  fmt.Sprintf("Permission denied: %s", action),
	}
}

func ErrUnauthenticated() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_UNAUTHENTICATED,
		Message:  "Authentication required",
	}
}

// Authentication Errors
func ErrInvalidToken() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_INVALID_TOKEN,
		Message:  "Invalid authentication token",
	}
}

func ErrTokenExpired() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_TOKEN_EXPIRED,
		Message:  "Authentication token expired",
	}
}

// Workflow Errors
func ErrInvalidTransition(err error) AppError {
	e := AppError{
		Raw:      err,
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_INVALID_TRANSITION,
		Message:  "Invalid status transition",
	}
	var te *entities.TransitionError
	if stdErrors.As(err, &te) {
		e = e.WithDetail("entity", string(te.Entity)).
			WithDetail("from", te.From).
			WithDetail("to", te.To)
	}
	return e
}

func ErrValidation(err error) AppError {
	e := AppError{
		Raw:      err,
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  "Validation failed",
	}
	var ve *entities.ValidationError
	if stdErrors.As(err, &ve) {
		e = e.WithDetail("field", ve.Field)
	}
	return e
}

func ErrMeetingClosed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_MEETING_CLOSED,
		Message:  "Meeting is closed",
	}
}

func ErrStorageFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_STORAGE_FAILED,
		Message:  fmt.Sprintf("Storage operation failed: %s", operation),
	}
}

// Custom Errors
func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

// FromDomain maps domain and use-case errors onto the AppError catalogue.
// Errors that already are AppErrors pass through unchanged.
func FromDomain(err error) AppError {
	var appErr AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stdErrors.Is(err, entities.ErrInvalidTransition):
		return ErrInvalidTransition(err)
	case stdErrors.Is(err, entities.ErrUnauthorized):
		e := ErrPermissionDenied("missing capability")
		e.Raw = err
		return e
	case stdErrors.Is(err, usecaseErrors.ErrMeetingClosed):
		return ErrMeetingClosed(err)
	case stdErrors.Is(err, entities.ErrValidation):
		return ErrValidation(err)
	case stdErrors.Is(err, entities.ErrAlreadyExists):
		return ErrAlreadyExists(err)
	case stdErrors.Is(err, entities.ErrNotFound):
		var nf *entities.NotFoundError
		if stdErrors.As(err, &nf) {
			return ErrNotFound(string(nf.Entity)).WithDetail("id", nf.ID.String())
		}
		e := ErrNotFound("resource")
		e.Raw = err
		return e
	default:
		return ErrInternal(err)
	}
}

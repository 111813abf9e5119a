package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidTransition indicates a state machine rule was violated
// (approving a non-pending transaction, advancing a completed cycle, ...).
var ErrInvalidTransition = errors.New("invalid state transition")

// ErrCapacityExceeded indicates a group cannot accept more members.
var ErrCapacityExceeded = errors.New("group capacity exceeded")

// ErrAlreadyMember indicates the user already belongs to the group.
var ErrAlreadyMember = errors.New("user is already a member of the group")

// ErrNotAMember indicates the user does not belong to the group.
var ErrNotAMember = errors.New("user is not a member of the group")

// ErrConflict indicates the operation is blocked by dependent data or a concurrent update.
var ErrConflict = errors.New("conflict")

// ErrCycleNotReady indicates profit-sharing was attempted before the cycle end date.
var ErrCycleNotReady = errors.New("cycle is not ready for sharing")

// ErrForbidden indicates the actor is not allowed to perform the operation.
var ErrForbidden = errors.New("permission denied")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrRefreshTokenExpired indicates the stored refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// ErrInternal is the fallback kind for unexpected failures.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish code, a human message and the underlying cause.
// errors.Is matches both the wrapped error and the kind sentinel.
type AppError struct {
	Code    int
	Message string
	Kind    error
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewAppError builds an error for unexpected failures, usually infrastructure.
func NewAppError(code int, message string, err error) *AppError {
	kind := ErrInternal
	switch code {
	case http.StatusNotFound:
		kind = ErrNotFound
	case http.StatusBadRequest:
		kind = ErrValidation
	case http.StatusConflict:
		kind = ErrConflict
	case http.StatusForbidden:
		kind = ErrForbidden
	case http.StatusUnauthorized:
		kind = ErrUnauthorized
	}
	return &AppError{Code: code, Message: message, Kind: kind, Err: err}
}

func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Kind: ErrValidation}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Kind: ErrNotFound}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Kind: ErrConflict}
}

func NewDuplicateError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Kind: ErrDuplicate}
}

func NewInvalidTransitionError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Kind: ErrInvalidTransition}
}

func NewPermissionDeniedError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message, Kind: ErrForbidden}
}

// Wrap attaches a domain kind to a message, e.g. Wrap(ErrCapacityExceeded, "group 4 is full").
func Wrap(kind error, message string) *AppError {
	return &AppError{Code: StatusFor(kind), Message: message, Kind: kind}
}

// StatusFor maps an error to the HTTP status the handlers respond with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrRefreshTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotAMember):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrCapacityExceeded),
		errors.Is(err, ErrAlreadyMember),
		errors.Is(err, ErrCycleNotReady),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

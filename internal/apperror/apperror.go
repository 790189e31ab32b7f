package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Kind classifies an error for the HTTP boundary
type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindBadRequest   Kind = "BAD_REQUEST"
	KindNotFound     Kind = "NOT_FOUND"
	KindInvalidState Kind = "INVALID_STATE"
	KindConflict     Kind = "CONFLICT"
	KindInternal     Kind = "INTERNAL"
)

// Error is a domain error carrying its Kind and an optional cause
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, apperror.ErrConflict) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons by kind
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrBadRequest   = &Error{Kind: KindBadRequest}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrInvalidState = &Error{Kind: KindInvalidState}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrInternal     = &Error{Kind: KindInternal}
)

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to a lower-level error
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// PostgreSQL codes that mean a concurrent transaction got in the way
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// IsConcurrencyError reports whether err is a serialization, deadlock or lock timeout failure
func IsConcurrencyError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
		return true
	}
	return false
}

// From classifies any error. Unknown errors become Internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		return Wrap(KindValidation, err, describeValidation(vErrs))
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Wrap(KindNotFound, err, "record not found")
	}

	if IsConcurrencyError(err) {
		return Wrap(KindConflict, err, "concurrent update detected, please retry")
	}

	return Wrap(KindInternal, err, "")
}

// HTTPStatus maps a Kind to its response status
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState, KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func describeValidation(errs validator.ValidationErrors) string {
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

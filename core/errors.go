package core

import (
	"net/http"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// APIError is a business error carrying the HTTP status it must be reported with.
type APIError struct {
	Status  int
	Message string
}

func NewAPIError(status int, msg string) *APIError {
	return &APIError{Status: status, Message: msg}
}

func (err *APIError) Error() string { return err.Message }

// NotFoundError is returned by the persistence layer when a document
// (or a referenced parent document) does not exist.
type NotFoundError struct {
	Entity string
}

func (err *NotFoundError) Error() string { return err.Entity + " not found" }

// ConflictError is returned by the persistence layer on a unique constraint violation.
type ConflictError struct {
	Field string
}

func (err *ConflictError) Error() string { return err.Field + " already exists" }

// IsNotFound reports whether err (or its cause) is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err (or its cause) is a ConflictError,
// optionally on a specific field.
func IsConflict(err error, field ...string) bool {
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		return false
	}
	if len(field) > 0 {
		return conflict.Field == field[0]
	}
	return true
}

// APIStatus extracts the HTTP status to report err with; defaults to 500.
func APIStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	if IsNotFound(err) {
		return http.StatusNotFound
	}
	if IsConflict(err) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

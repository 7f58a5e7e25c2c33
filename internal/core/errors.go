package core

import (
	"errors"
	"fmt"
)

// DataAccessError is raised for any failure communicating with or
// querying the store. The underlying cause is kept for logging and
// unwrapping; Error() only exposes the user-safe message so raw
// database errors never reach the end user.
type DataAccessError struct {
	Op      string
	Message string
	Err     error
}

func (e *DataAccessError) Error() string {
	return e.Message
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// NewDataAccessError builds the generic domain error for a failed
// store operation.
func NewDataAccessError(op, message string, err error) *DataAccessError {
	return &DataAccessError{Op: op, Message: message, Err: err}
}

// ValidationError reports an input that violates a documented
// constraint, raised before any query is attempted where feasible.
type ValidationError struct {
	Field  string
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

func NewValidationError(field string, reason error) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsDataAccess reports whether err is (or wraps) a DataAccessError.
func IsDataAccess(err error) bool {
	var dae *DataAccessError
	return errors.As(err, &dae)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

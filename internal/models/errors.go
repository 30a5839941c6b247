package models

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports a malformed or incomplete submitted record. Field
// names the offending field in its wire (snake_case) form.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// FilterError reports a malformed list filter, e.g. a non-positive limit.
type FilterError struct {
	Param  string
	Reason string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid filter %s: %s", e.Param, e.Reason)
}

// NewFilterError builds a FilterError for the given parameter.
func NewFilterError(param, reason string) *FilterError {
	return &FilterError{Param: param, Reason: reason}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsFilterError reports whether err is a FilterError.
func IsFilterError(err error) bool {
	var fe *FilterError
	return errors.As(err, &fe)
}

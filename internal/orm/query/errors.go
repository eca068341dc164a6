package query

import (
	"errors"
	"fmt"
	"strings"
)

// Compilation errors. No statement is produced when one of these is returned.
var (
	// ErrModelNotFound is returned when the entity has no registered model
	ErrModelNotFound = errors.New("invalid model")

	// ErrCollectionNotFound is returned when the model has no such sub-collection
	ErrCollectionNotFound = errors.New("invalid collection")

	// ErrInvalidID is returned when a record id is not a positive integer
	ErrInvalidID = errors.New("invalid id")

	// ErrInvalidField is returned when a lookup is requested for a field without values
	ErrInvalidField = errors.New("invalid field")

	// ErrNoValues is returned when a write carries no known field
	ErrNoValues = errors.New("no values to write")

	// ErrValidationFailed is wrapped by InvalidRecordError
	ErrValidationFailed = errors.New("invalid record")
)

// InvalidRecordError lists every submitted field that failed type validation
type InvalidRecordError struct {
	Fields []string
}

// Error implements the error interface
func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid record: %s", strings.Join(e.Fields, ", "))
}

// Unwrap allows errors.Is(err, ErrValidationFailed)
func (e *InvalidRecordError) Unwrap() error {
	return ErrValidationFailed
}

// IsBadRequest reports whether err is a compilation error caused by the request
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrModelNotFound) ||
		errors.Is(err, ErrCollectionNotFound) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidField) ||
		errors.Is(err, ErrNoValues)
}

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery signals a search request that fails validation.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidKind signals an unknown career blob kind.
	ErrInvalidKind = errors.New("invalid career kind")
	// ErrRosterUnavailable signals that the roster source could not be read.
	ErrRosterUnavailable = errors.New("roster unavailable")
	// ErrCacheMiss signals that a cache store holds no entry for the key.
	ErrCacheMiss = errors.New("cache miss")
	// ErrCityNotFound signals that the geocoder does not know the city.
	ErrCityNotFound = errors.New("city not found")
	// ErrGeocoderUnavailable signals a geocoding provider failure.
	ErrGeocoderUnavailable = errors.New("geocoder unavailable")
)

// ValidationError wraps ErrInvalidQuery with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidQuery.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidQuery }

// NewValidationError creates a validation error for a request field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery signals a proximity query with non-finite or out-of-range coordinates.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrDatasetNotLoaded signals a query issued before the dataset finished loading.
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
	// ErrPlaceNotFound signals an unknown place identifier.
	ErrPlaceNotFound = errors.New("place not found")
	// ErrUnknownLocation signals a location search term absent from the gazetteer.
	ErrUnknownLocation = errors.New("unknown location")
	// ErrSourceUnavailable signals a failed dataset fetch.
	ErrSourceUnavailable = errors.New("data source unavailable")
)

// SourceError wraps ErrSourceUnavailable with the upstream reason.
type SourceError struct {
	Source string
	Reason string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrSourceUnavailable.Error(), e.Source, e.Reason)
}

func (e *SourceError) Unwrap() error { return ErrSourceUnavailable }

// NewSourceError creates a data source error.
func NewSourceError(source, reason string) error {
	return &SourceError{Source: source, Reason: reason}
}

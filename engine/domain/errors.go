package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for catalog loading. A failed load is fatal: the process
// must not serve extraction over a partially loaded catalog.
var (
	ErrCatalogSource    = errors.New("catalog source unreadable")
	ErrMalformedCatalog = errors.New("malformed catalog entry")
	ErrMalformedAlias   = errors.New("malformed alias table")
)

// LoadError wraps a load sentinel with the source and key that failed.
type LoadError struct {
	Source  string
	Key     string
	Wrapped error
}

func (e *LoadError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("catalog load: %s: %s", e.Source, e.Wrapped)
	}
	return fmt.Sprintf("catalog load: %s: %s (key=%q)", e.Source, e.Wrapped, e.Key)
}

func (e *LoadError) Unwrap() error { return e.Wrapped }

// NewLoadError creates a LoadError.
func NewLoadError(source, key string, wrapped error) *LoadError {
	return &LoadError{Source: source, Key: key, Wrapped: wrapped}
}

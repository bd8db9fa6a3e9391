package catalog

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when no product carries the requested id.
	ErrNotFound = errors.New("product not found")
	// ErrStorageRead wraps failures to read or decode the catalog.
	ErrStorageRead = errors.New("catalog read failed")
	// ErrStorageWrite wraps failures to persist the catalog.
	ErrStorageWrite = errors.New("catalog write failed")
)

// ValidationError lists the submitted fields that were missing or invalid.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid product fields: " + strings.Join(e.Fields, ", ")
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

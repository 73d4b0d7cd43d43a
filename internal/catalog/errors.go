package catalog

import "errors"

var (
	// ErrNotFound indicates no catalog row matched the lookup.
	ErrNotFound = errors.New("catalog record not found")
	// ErrAmbiguous indicates a locator lookup matched more than one row.
	ErrAmbiguous = errors.New("catalog locator is ambiguous")
	// ErrConflict indicates a write would violate a uniqueness constraint.
	ErrConflict = errors.New("catalog record conflict")
)

package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound signals a missing catalog entry. Callers that render pages
// treat it as a soft failure and fall back to the first available entry.
var ErrNotFound = errors.New("not found")

// CatalogLoadError wraps transport or payload failures on the initial
// catalog fetch. The page stays unrendered when this happens.
type CatalogLoadError struct {
	Reason string
	Err    error
}

func (e *CatalogLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog load: %s: %v", e.Reason, e.Err)
	}
	return "catalog load: " + e.Reason
}

func (e *CatalogLoadError) Unwrap() error { return e.Err }

package domain

import "context"

// CatalogSource fetches the raw catalog document. Implementations must
// always revalidate; the catalog can change between visits.
type CatalogSource interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// PreferenceStore persists the visitor language preference under a single
// key. Reads that fail or return garbage resolve to the default language.
type PreferenceStore interface {
	Language() (string, error)
	SetLanguage(lang string) error
}

// ImageProber answers whether an asset path is actually servable.
type ImageProber interface {
	Exists(ctx context.Context, path string) bool
}

package domain

// LocalizedText holds one string per language code ("ar", "de").
type LocalizedText map[string]string

// Get returns the value for lang, falling back to fallbackLang, then "".
func (t LocalizedText) Get(lang, fallbackLang string) string {
	if t == nil {
		return ""
	}
	if v, ok := t[lang]; ok && v != "" {
		return v
	}
	if v, ok := t[fallbackLang]; ok {
		return v
	}
	return ""
}

type Category struct {
	ID                      string        `json:"id"`
	Title                   LocalizedText `json:"title"`
	Description             LocalizedText `json:"description"`
	RepresentativeProductID string        `json:"representativeProductId"`
}

type Product struct {
	ID          string        `json:"id"`
	Category    string        `json:"category"`
	Title       LocalizedText `json:"title"`
	Description LocalizedText `json:"description"`

	// ImageStem is the logical base name for the product's image set,
	// before size suffix and format are appended. Multi-angle products
	// carry a trailing "-NN" angle number in the stem.
	ImageStem string `json:"imageStem"`

	// GalleryCount is the number of selectable viewing angles.
	// 0 means single-image product.
	GalleryCount int `json:"galleryCount"`

	// RelatedIDs overrides the same-category similar-products list
	// when non-empty.
	RelatedIDs []string `json:"relatedIds,omitempty"`
}

// Catalog is the full dataset. Loaded once per process, read-only after.
type Catalog struct {
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
}

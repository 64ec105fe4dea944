package images

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/dekokraft/katalog/internal/domain"
)

// Product photos are exported in two widths plus webp; anything missing
// on disk falls through to the placeholder.
const (
	DefaultLargeSize = 1200
	DefaultSmallSize = 600
	DefaultFormat    = "webp"
)

// Ref is a resolved, displayable image reference.
type Ref struct {
	URL         string
	Alt         string
	Placeholder bool
}

// Resolver turns a logical image stem into a concrete asset reference via
// the existence-probe strategy: HEAD/stat the large variant, then the
// small one, then fall back to a placeholder. Probe results are cached
// for the process lifetime.
type Resolver struct {
	Prober    domain.ImageProber
	BaseURL   string
	LargeSize int
	SmallSize int
	Format    string

	// FallbackPath, when set, is served as the terminal placeholder
	// instead of the generated SVG.
	FallbackPath string

	// PlaceholderURL, when set, builds the placeholder reference for a
	// label. The page shell wires this to its /placeholder/ route;
	// html/template rewrites data: URIs in src attributes, so headless
	// use keeps the data URI and HTML rendering needs a plain path.
	PlaceholderURL func(label string) string

	mu    sync.Mutex
	cache map[string]bool
}

func NewResolver(p domain.ImageProber, baseURL string) *Resolver {
	return &Resolver{
		Prober:    p,
		BaseURL:   strings.TrimRight(baseURL, "/"),
		LargeSize: DefaultLargeSize,
		SmallSize: DefaultSmallSize,
		Format:    DefaultFormat,
		cache:     map[string]bool{},
	}
}

// Candidates returns the large and small asset paths for a stem, in
// probe order.
func (r *Resolver) Candidates(stem string) (large, small string) {
	large = fmt.Sprintf("%s/%s-%d.%s", r.BaseURL, stem, r.LargeSize, r.Format)
	small = fmt.Sprintf("%s/%s-%d.%s", r.BaseURL, stem, r.SmallSize, r.Format)
	return large, small
}

// Resolve returns a displayable reference for stem. A blank stem is the
// defined terminal state, not an error: it resolves straight to the
// placeholder.
func (r *Resolver) Resolve(ctx context.Context, stem, label string) Ref {
	stem = strings.TrimSpace(stem)
	if stem == "" {
		return r.placeholder(label)
	}
	large, small := r.Candidates(stem)
	if r.exists(ctx, large) {
		return Ref{URL: large, Alt: label}
	}
	if r.exists(ctx, small) {
		return Ref{URL: small, Alt: label}
	}
	return r.placeholder(label)
}

func (r *Resolver) placeholder(label string) Ref {
	if r.FallbackPath != "" {
		return Ref{URL: r.FallbackPath, Alt: label, Placeholder: true}
	}
	if r.PlaceholderURL != nil {
		return Ref{URL: r.PlaceholderURL(label), Alt: label, Placeholder: true}
	}
	return Ref{URL: PlaceholderDataURI(label), Alt: label, Placeholder: true}
}

func (r *Resolver) exists(ctx context.Context, path string) bool {
	r.mu.Lock()
	if ok, hit := r.cache[path]; hit {
		r.mu.Unlock()
		return ok
	}
	r.mu.Unlock()

	ok := r.Prober != nil && r.Prober.Exists(ctx, path)

	// A probe cut short by cancellation says nothing about the asset;
	// only settled answers are worth remembering.
	if ctx.Err() != nil {
		return false
	}
	r.mu.Lock()
	r.cache[path] = ok
	r.mu.Unlock()
	return ok
}

var angleSuffix = regexp.MustCompile(`-\d{2}$`)

// AngleStem swaps the trailing two-digit angle number of a stem for the
// given angle, zero-padded ("...-01", angle 3 -> "...-03"). Stems without
// an angle suffix are returned unchanged.
func AngleStem(stem string, angle int) string {
	if angle < 1 || !angleSuffix.MatchString(stem) {
		return stem
	}
	return angleSuffix.ReplaceAllString(stem, fmt.Sprintf("-%02d", angle))
}

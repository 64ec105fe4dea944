package images

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProber struct {
	available map[string]bool
	calls     []string
}

func (p *recordingProber) Exists(_ context.Context, path string) bool {
	p.calls = append(p.calls, path)
	return p.available[path]
}

func TestResolveFallbackChain(t *testing.T) {
	ctx := context.Background()

	t.Run("LargeVariantWins", func(t *testing.T) {
		p := &recordingProber{available: map[string]bool{
			"/assets/x-1200.webp": true,
			"/assets/x-600.webp":  true,
		}}
		r := NewResolver(p, "/assets")
		ref := r.Resolve(ctx, "x", "Label")
		assert.Equal(t, "/assets/x-1200.webp", ref.URL)
		assert.False(t, ref.Placeholder)
		assert.Equal(t, []string{"/assets/x-1200.webp"}, p.calls)
	})

	t.Run("SmallVariantSecond", func(t *testing.T) {
		p := &recordingProber{available: map[string]bool{"/assets/x-600.webp": true}}
		r := NewResolver(p, "/assets")
		ref := r.Resolve(ctx, "x", "Label")
		assert.Equal(t, "/assets/x-600.webp", ref.URL)
	})

	t.Run("PlaceholderLast", func(t *testing.T) {
		r := NewResolver(&recordingProber{}, "/assets")
		ref := r.Resolve(ctx, "x", "Label")
		assert.True(t, ref.Placeholder)
		assert.True(t, strings.HasPrefix(ref.URL, "data:image/svg+xml;base64,"))
	})

	t.Run("PlaceholderRouteBuilder", func(t *testing.T) {
		r := NewResolver(&recordingProber{}, "/assets")
		r.PlaceholderURL = PlaceholderPath
		ref := r.Resolve(ctx, "x", "Vase")
		assert.True(t, ref.Placeholder)
		assert.Equal(t, "/placeholder/Vase.svg", ref.URL)
	})

	t.Run("FixedFallbackAsset", func(t *testing.T) {
		r := NewResolver(&recordingProber{}, "/assets")
		r.FallbackPath = "/assets/logo.png"
		r.PlaceholderURL = PlaceholderPath
		ref := r.Resolve(ctx, "x", "Label")
		assert.True(t, ref.Placeholder)
		assert.Equal(t, "/assets/logo.png", ref.URL)
	})

	t.Run("BlankStemSkipsProbes", func(t *testing.T) {
		p := &recordingProber{}
		r := NewResolver(p, "/assets")
		ref := r.Resolve(ctx, "   ", "Label")
		assert.True(t, ref.Placeholder)
		assert.Empty(t, p.calls)
	})

	t.Run("ProbeResultsAreCached", func(t *testing.T) {
		p := &recordingProber{available: map[string]bool{"/assets/x-1200.webp": true}}
		r := NewResolver(p, "/assets")
		r.Resolve(ctx, "x", "Label")
		r.Resolve(ctx, "x", "Label")
		assert.Len(t, p.calls, 1)
	})

	t.Run("CanceledProbeNotCached", func(t *testing.T) {
		p := &recordingProber{available: map[string]bool{"/assets/x-1200.webp": true}}
		r := NewResolver(p, "/assets")
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		ref := r.Resolve(canceled, "x", "Label")
		assert.True(t, ref.Placeholder)

		ref = r.Resolve(ctx, "x", "Label")
		assert.Equal(t, "/assets/x-1200.webp", ref.URL)
	})
}

func TestCandidates(t *testing.T) {
	r := NewResolver(nil, "/assets")
	large, small := r.Candidates("images/candel-001-03-01")
	assert.Equal(t, "/assets/images/candel-001-03-01-1200.webp", large)
	assert.Equal(t, "/assets/images/candel-001-03-01-600.webp", small)
}

func TestAngleStem(t *testing.T) {
	assert.Equal(t, "candel-001-03-03", AngleStem("candel-001-03-01", 3))
	assert.Equal(t, "gift-002-03-12", AngleStem("gift-002-03-01", 12))
	// no trailing angle suffix: untouched
	assert.Equal(t, "services/wrap", AngleStem("services/wrap", 2))
	// invalid angle: untouched
	assert.Equal(t, "gift-002-03-01", AngleStem("gift-002-03-01", 0))
}

func TestPlaceholderDeterministic(t *testing.T) {
	a := PlaceholderSVG("Lavendelkerze")
	b := PlaceholderSVG("Lavendelkerze")
	assert.True(t, bytes.Equal(a, b))

	c := PlaceholderSVG("Vase")
	assert.False(t, bytes.Equal(a, c))

	assert.Equal(t, PlaceholderDataURI("Vase"), PlaceholderDataURI("Vase"))
}

func TestPlaceholderPaletteSelection(t *testing.T) {
	for _, label := range []string{"", "Vase", "Bilderrahmen", "سلة هدايا", "Geschenkkorb groß"} {
		svg := string(PlaceholderSVG(label))
		found := false
		for _, c := range placeholderPalette {
			if strings.Contains(svg, c) {
				found = true
				break
			}
		}
		assert.True(t, found, "label %q must pick a palette color", label)
	}
}

func TestPlaceholderPath(t *testing.T) {
	assert.Equal(t, "/placeholder/Vase.svg", PlaceholderPath("Vase"))
	assert.Equal(t, "/placeholder/Geschenkkorb%20gro%C3%9F.svg", PlaceholderPath("Geschenkkorb groß"))
}

func TestPlaceholderEscapesLabel(t *testing.T) {
	svg := string(PlaceholderSVG(`<script>"x"&'y'</script>`))
	assert.NotContains(t, svg, "<script>")
	assert.Contains(t, svg, "&lt;script&gt;")
}

func TestHTTPProber(t *testing.T) {
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		if strings.HasSuffix(r.URL.Path, "missing-1200.webp") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewHTTPProber()
	ctx := context.Background()

	assert.True(t, p.Exists(ctx, srv.URL+"/ok-1200.webp"))
	assert.Equal(t, http.MethodHead, method)
	assert.False(t, p.Exists(ctx, srv.URL+"/missing-1200.webp"))
	assert.False(t, p.Exists(ctx, "http://127.0.0.1:0/nope"))
}

func TestFileProber(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images", "x-1200.webp"), []byte("img"), 0o644))

	p := &FileProber{Root: dir, Prefix: "/assets"}
	ctx := context.Background()

	assert.True(t, p.Exists(ctx, "/assets/images/x-1200.webp"))
	assert.False(t, p.Exists(ctx, "/assets/images/x-600.webp"))
	assert.False(t, p.Exists(ctx, "/assets/images"))
}

package images

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// HTTPProber checks asset existence with a metadata-only HEAD request.
// Used when assets live on a CDN or another host.
type HTTPProber struct {
	Client *http.Client
}

func NewHTTPProber() *HTTPProber {
	return &HTTPProber{Client: &http.Client{Timeout: 5 * time.Second}}
}

func (p *HTTPProber) Exists(ctx context.Context, path string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, path, nil)
	if err != nil {
		return false
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("image probe failed")
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// FileProber checks asset existence on the local filesystem, for setups
// where the storefront serves its own asset directory. Prefix is the URL
// prefix that maps onto Root (e.g. "/assets" -> "./assets").
type FileProber struct {
	Root   string
	Prefix string
}

func (p *FileProber) Exists(_ context.Context, path string) bool {
	rel := strings.TrimPrefix(path, p.Prefix)
	rel = strings.TrimPrefix(rel, "/")
	info, err := os.Stat(filepath.Join(p.Root, filepath.FromSlash(rel)))
	return err == nil && !info.IsDir()
}

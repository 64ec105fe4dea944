// Package catalogsource provides the transports that fetch the raw
// catalog document: over HTTP with cache-busting, or from a local file.
package catalogsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// HTTPSource fetches the catalog document from a fixed URL. The catalog
// can change between visits, so every fetch revalidates: a no-cache
// header plus a timestamp query parameter to defeat intermediaries that
// ignore it.
type HTTPSource struct {
	URL    string
	Client *http.Client

	now func() time.Time
}

func NewHTTPSource(rawURL string) *HTTPSource {
	return &HTTPSource{
		URL:    rawURL,
		Client: &http.Client{Timeout: 15 * time.Second},
		now:    time.Now,
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return nil, fmt.Errorf("catalog url: %w", err)
	}
	q := u.Query()
	q.Set("ts", strconv.FormatInt(s.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, s.URL)
	}
	return io.ReadAll(resp.Body)
}

// Package content serves the static marketing pages (about, contact) as
// localized markdown instead of baked-in markup.
package content

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/dekokraft/katalog/internal/domain"
)

// Page is one rendered content page in one language.
type Page struct {
	Slug  string
	Lang  string
	Title string
	Body  template.HTML
}

// Library holds every content page, rendered and sanitized once at boot.
// Lookups fall back to the primary language like any localized record.
type Library struct {
	primary string
	pages   map[string]map[string]Page
}

var sanitizer = bluemonday.UGCPolicy()

// Load reads "<slug>.<lang>.md" files from dir. The first "# " line is
// the page title; the rest is the body. A missing directory yields an
// empty library, not an error — content pages are optional.
func Load(dir, primaryLang string) (*Library, error) {
	lib := &Library{primary: primaryLang, pages: map[string]map[string]Page{}}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return lib, nil
	}
	if err != nil {
		return nil, fmt.Errorf("content: read dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		parts := strings.Split(strings.TrimSuffix(e.Name(), ".md"), ".")
		if len(parts) != 2 {
			continue
		}
		slug, lang := parts[0], parts[1]

		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("content: read %s: %w", e.Name(), err)
		}
		page, err := render(slug, lang, raw)
		if err != nil {
			return nil, err
		}
		if lib.pages[slug] == nil {
			lib.pages[slug] = map[string]Page{}
		}
		lib.pages[slug][lang] = page
	}
	return lib, nil
}

func render(slug, lang string, raw []byte) (Page, error) {
	title := slug
	body := raw
	if line, rest, ok := bytes.Cut(raw, []byte("\n")); ok && bytes.HasPrefix(line, []byte("# ")) {
		title = strings.TrimSpace(string(line[2:]))
		body = rest
	} else if !ok && bytes.HasPrefix(raw, []byte("# ")) {
		title = strings.TrimSpace(string(raw[2:]))
		body = nil
	}

	var buf bytes.Buffer
	if err := goldmark.Convert(body, &buf); err != nil {
		return Page{}, fmt.Errorf("content: render %s.%s: %w", slug, lang, err)
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return Page{Slug: slug, Lang: lang, Title: title, Body: template.HTML(safe)}, nil
}

// Page returns the content page for slug in lang, falling back to the
// primary language rendition.
func (l *Library) Page(slug, lang string) (*Page, error) {
	byLang, ok := l.pages[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p, ok := byLang[lang]; ok {
		return &p, nil
	}
	if p, ok := byLang[l.primary]; ok {
		return &p, nil
	}
	return nil, domain.ErrNotFound
}

// Slugs lists the known pages in stable order.
func (l *Library) Slugs() []string {
	out := make([]string, 0, len(l.pages))
	for slug := range l.pages {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

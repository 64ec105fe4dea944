package httpserver

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dekokraft/katalog/internal/adapters/content"
	"github.com/dekokraft/katalog/internal/adapters/images"
	"github.com/dekokraft/katalog/internal/domain"
	"github.com/dekokraft/katalog/internal/i18n"
	"github.com/dekokraft/katalog/internal/usecase"
)

const langCookie = "dekokraft_lang"

// Server is the page shell: it turns requests into engine commands and
// view models into HTML. All catalog logic lives in the usecase layer.
type Server struct {
	mux     *http.ServeMux
	tmpl    *template.Template
	views   *usecase.ViewUC
	locales *i18n.Resolver
	prefs   domain.PreferenceStore
	pages   *content.Library
	assets  string
}

func New(t *template.Template, views *usecase.ViewUC, prefs domain.PreferenceStore, pages *content.Library, assetDir string) http.Handler {
	s := &Server{
		mux:     http.NewServeMux(),
		tmpl:    t,
		views:   views,
		locales: views.Locales,
		prefs:   prefs,
		pages:   pages,
		assets:  assetDir,
	}
	s.routes()
	return Chain(s.mux,
		Gzip,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(s.assets))))

	s.mux.HandleFunc("/robots.txt", s.handleRobots)
	s.mux.HandleFunc("/placeholder/", s.handlePlaceholder)

	s.mux.HandleFunc("/", s.handleHome)
	s.mux.HandleFunc("/category", s.handleCategory)
	s.mux.HandleFunc("/product", s.handleProduct)
	s.mux.HandleFunc("/page/", s.handlePage)
	s.mux.HandleFunc("/lang", s.handleLang)
}

// language resolves the request language: cookie, then the persisted
// default preference, then Accept-Language, then primary.
func (s *Server) language(r *http.Request) string {
	if c, err := r.Cookie(langCookie); err == nil && c.Value != "" {
		return s.locales.Canonical(c.Value)
	}
	if s.prefs != nil {
		if stored, err := s.prefs.Language(); err == nil && stored != "" {
			return s.locales.Canonical(stored)
		}
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		var vals []string
		for _, part := range strings.Split(accept, ",") {
			vals = append(vals, strings.TrimSpace(strings.Split(part, ";")[0]))
		}
		return s.locales.Match(vals...)
	}
	return s.locales.Primary()
}

func (s *Server) render(w http.ResponseWriter, name string, data map[string]any) {
	data["Year"] = time.Now().Year()
	if s.pages != nil {
		data["ContentPages"] = s.pages.Slugs()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render")
	}
}

// catalogDown logs the diagnostic and leaves the page unrendered: no
// retry UI, just an empty state.
func (s *Server) catalogDown(w http.ResponseWriter, err error) {
	var loadErr *domain.CatalogLoadError
	if errors.As(err, &loadErr) {
		log.Error().Str("reason", loadErr.Reason).Err(loadErr.Err).Msg("catalog unavailable")
	} else {
		log.Error().Err(err).Msg("catalog unavailable")
	}
	http.Error(w, "catalog unavailable", http.StatusServiceUnavailable)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	lang := s.language(r)
	view, err := s.views.Home(r.Context(), lang)
	if err != nil {
		s.catalogDown(w, err)
		return
	}
	s.render(w, "home.html", map[string]any{
		"View": view, "Lang": view.Lang, "Dir": view.Dir, "UI": view.UI,
		"Path": r.URL.RequestURI(),
	})
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	lang := s.language(r)
	view, err := s.views.Category(r.Context(), r.URL.Query().Get("cat"), lang)
	if err != nil {
		s.catalogDown(w, err)
		return
	}
	s.render(w, "category.html", map[string]any{
		"View": view, "Lang": view.Lang, "Dir": view.Dir, "UI": view.UI,
		"Path": r.URL.RequestURI(),
	})
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	lang := s.language(r)
	sess := usecase.NewSession(s.views, nil)
	if _, err := sess.SetLanguage(r.Context(), lang); err != nil {
		s.catalogDown(w, err)
		return
	}
	view, err := sess.Start(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		s.catalogDown(w, err)
		return
	}
	if n, aerr := strconv.Atoi(r.URL.Query().Get("angle")); aerr == nil && n > 1 {
		if v, serr := sess.SetAngle(r.Context(), n); serr == nil {
			view = v
		}
	}

	// the shell drives the swipe wraparound with plain links
	prev, next := view.Angle, view.Angle
	if view.GalleryCount > 1 {
		next = view.Angle%view.GalleryCount + 1
		prev = view.Angle - 1
		if prev < 1 {
			prev = view.GalleryCount
		}
	}
	s.render(w, "product.html", map[string]any{
		"View": view, "Lang": view.Lang, "Dir": view.Dir, "UI": view.UI,
		"Path":     "/product?" + sess.Query().Encode(),
		"PrevHref": "/product?id=" + url.QueryEscape(view.ID) + "&angle=" + strconv.Itoa(prev),
		"NextHref": "/product?id=" + url.QueryEscape(view.ID) + "&angle=" + strconv.Itoa(next),
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimPrefix(r.URL.Path, "/page/")
	if slug == "" || s.pages == nil {
		http.NotFound(w, r)
		return
	}
	lang := s.language(r)
	page, err := s.pages.Page(slug, lang)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	s.render(w, "page.html", map[string]any{
		"Page": page,
		"Lang": lang,
		"Dir":  s.locales.Direction(lang),
		"UI":   s.locales.UI(lang),
		"Path": r.URL.RequestURI(),
	})
}

// handleLang switches the visitor language: cookie for this visitor,
// persisted default for the process, then back to the page the visitor
// came from. Switching to the already active language just round-trips.
func (s *Server) handleLang(w http.ResponseWriter, r *http.Request) {
	to := s.locales.Canonical(r.FormValue("to"))
	http.SetCookie(w, &http.Cookie{
		Name:     langCookie,
		Value:    to,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	if s.prefs != nil {
		if err := s.prefs.SetLanguage(to); err != nil {
			log.Warn().Err(err).Str("lang", to).Msg("persist language preference")
		}
	}
	next := r.FormValue("next")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/"
		if ref, err := url.Parse(r.Referer()); err == nil && ref.Path != "" {
			next = ref.RequestURI()
		}
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// handlePlaceholder serves the generated stand-in graphic. Output is
// deterministic per label, so clients may cache it hard.
func (s *Server) handlePlaceholder(w http.ResponseWriter, r *http.Request) {
	label := strings.TrimPrefix(r.URL.Path, "/placeholder/")
	label = strings.TrimSuffix(label, ".svg")
	label, err := url.PathUnescape(label)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	_, _ = w.Write(images.PlaceholderSVG(label))
}

func (s *Server) handleRobots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("User-agent: *\nAllow: /\n"))
}

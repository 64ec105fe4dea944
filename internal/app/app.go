package app

import (
	"context"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dekokraft/katalog/internal/adapters/catalogsource"
	"github.com/dekokraft/katalog/internal/adapters/content"
	"github.com/dekokraft/katalog/internal/adapters/httpserver"
	"github.com/dekokraft/katalog/internal/adapters/images"
	"github.com/dekokraft/katalog/internal/adapters/storage/localfs"
	"github.com/dekokraft/katalog/internal/domain"
	"github.com/dekokraft/katalog/internal/i18n"
	"github.com/dekokraft/katalog/internal/usecase"
	"github.com/dekokraft/katalog/internal/views"
)

type App struct {
	Catalog  *usecase.CatalogUC
	Views    *usecase.ViewUC
	Locales  *i18n.Resolver
	Prefs    domain.PreferenceStore
	Content  *content.Library
	Tmpl     *template.Template
	AssetDir string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func NewApp() (*App, error) {
	locales := i18n.New()
	if err := locales.LoadLocales(getenv("LOCALES_DIR", "locales")); err != nil {
		return nil, err
	}

	var source domain.CatalogSource
	if u := os.Getenv("CATALOG_URL"); u != "" {
		source = catalogsource.NewHTTPSource(u)
	} else {
		source = &catalogsource.FileSource{Path: getenv("CATALOG_FILE", filepath.Join("assets", "data", "products.json"))}
	}
	catalogUC := &usecase.CatalogUC{Source: source}

	assetDir := getenv("ASSET_DIR", "assets")
	assetBase := getenv("ASSET_BASE_URL", "/assets")
	var prober domain.ImageProber
	if strings.HasPrefix(assetBase, "http://") || strings.HasPrefix(assetBase, "https://") {
		prober = images.NewHTTPProber()
	} else {
		prober = &images.FileProber{Root: assetDir, Prefix: assetBase}
	}
	resolver := images.NewResolver(prober, assetBase)
	// empty means the generated SVG, served via the placeholder route so
	// the reference survives template URL sanitization
	resolver.FallbackPath = os.Getenv("IMAGE_FALLBACK")
	if resolver.FallbackPath == "" {
		resolver.PlaceholderURL = images.PlaceholderPath
	}

	featured := usecase.DefaultFeaturedCap
	if v, err := strconv.Atoi(os.Getenv("FEATURED_COUNT")); err == nil && v > 0 {
		featured = v
	}

	viewUC := &usecase.ViewUC{
		Catalog:     catalogUC,
		Locales:     locales,
		Images:      resolver,
		FeaturedCap: featured,
	}

	prefs := localfs.New(getenv("LANG_PREF_FILE", filepath.Join("data", "lang.json")))

	lib, err := content.Load(getenv("CONTENT_DIR", "content"), locales.Primary())
	if err != nil {
		return nil, err
	}

	appEnv := strings.ToLower(os.Getenv("APP_ENV"))
	isDev := appEnv == "" || appEnv == "development" || appEnv == "dev"

	var tmpl *template.Template
	if isDev {
		tmpl, err = template.ParseGlob("internal/views/*.html")
	} else {
		tmpl, err = template.ParseFS(views.FS, "*.html")
	}
	if err != nil {
		return nil, err
	}

	return &App{
		Catalog:  catalogUC,
		Views:    viewUC,
		Locales:  locales,
		Prefs:    prefs,
		Content:  lib,
		Tmpl:     tmpl,
		AssetDir: assetDir,
	}, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.Tmpl, a.Views, a.Prefs, a.Content, a.AssetDir)
}

// WarmCatalog loads the catalog once at boot so the first visitor does
// not pay for the fetch. A failure is reported, not fatal; the store
// retries on the next request.
func (a *App) WarmCatalog(ctx context.Context) error {
	_, err := a.Catalog.Load(ctx)
	return err
}

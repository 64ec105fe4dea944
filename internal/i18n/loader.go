package i18n

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadLocales reads flat YAML string maps from dir, one file per locale
// ("ar.yml", "de.yml"). Files for unsupported locales are ignored.
func (r *Resolver) LoadLocales(dir string) error {
	return r.loadLocalesFS(os.DirFS(dir))
}

func (r *Resolver) loadLocalesFS(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("i18n: read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		locale := strings.TrimSuffix(name, ext)
		if !r.supported(locale) {
			continue
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("i18n: read %s: %w", name, err)
		}
		msgs := map[string]string{}
		if err := yaml.Unmarshal(data, &msgs); err != nil {
			return fmt.Errorf("i18n: decode %s: %w", name, err)
		}
		if r.ui[locale] == nil {
			r.ui[locale] = map[string]string{}
		}
		for k, v := range msgs {
			r.ui[locale][k] = v
		}
	}
	return nil
}

// SetUI installs interface strings directly, mainly for tests.
func (r *Resolver) SetUI(locale string, msgs map[string]string) {
	if !r.supported(locale) {
		return
	}
	if r.ui[locale] == nil {
		r.ui[locale] = map[string]string{}
	}
	for k, v := range msgs {
		r.ui[locale][k] = v
	}
}

func (r *Resolver) supported(locale string) bool {
	for _, l := range r.langs {
		if l == locale {
			return true
		}
	}
	return false
}

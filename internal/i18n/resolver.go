package i18n

import (
	"golang.org/x/text/language"

	"github.com/dekokraft/katalog/internal/domain"
)

// The catalog is bilingual: Arabic is the primary language and drives
// right-to-left layout, German is the secondary one.
const (
	Arabic = "ar"
	German = "de"

	DirRTL = "rtl"
	DirLTR = "ltr"
)

// Resolver extracts localized strings and direction metadata for the
// closed {ar, de} language set. Read-only after construction.
type Resolver struct {
	primary string
	langs   []string
	tags    []language.Tag
	matcher language.Matcher
	ui      map[string]map[string]string
}

// New builds a resolver with Arabic as primary and German as secondary.
func New() *Resolver {
	tags := []language.Tag{language.Arabic, language.German}
	return &Resolver{
		primary: Arabic,
		langs:   []string{Arabic, German},
		tags:    tags,
		matcher: language.NewMatcher(tags),
		ui:      map[string]map[string]string{},
	}
}

func (r *Resolver) Primary() string { return r.primary }

// Languages returns the supported codes, primary first.
func (r *Resolver) Languages() []string {
	out := make([]string, len(r.langs))
	copy(out, r.langs)
	return out
}

// Text returns record[lang], falling back to the primary language value,
// then to the empty string. Never fails.
func (r *Resolver) Text(record domain.LocalizedText, lang string) string {
	return record.Get(r.Canonical(lang), r.primary)
}

// Direction returns "rtl" for the primary language and "ltr" otherwise.
func (r *Resolver) Direction(lang string) string {
	if r.Canonical(lang) == r.primary {
		return DirRTL
	}
	return DirLTR
}

// Canonical maps a raw language value onto the supported set. Regional
// variants collapse ("de-AT" -> "de"); anything unmatchable resolves to
// the primary language.
func (r *Resolver) Canonical(raw string) string {
	if raw == "" {
		return r.primary
	}
	for _, l := range r.langs {
		if raw == l {
			return l
		}
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return r.primary
	}
	_, idx, conf := r.matcher.Match(tag)
	if conf == language.No {
		return r.primary
	}
	return r.langs[idx]
}

// Match picks the best supported language from a list of raw candidates,
// e.g. an Accept-Language header split into values. Empty candidates are
// skipped; no match resolves to the primary language.
func (r *Resolver) Match(candidates ...string) string {
	var tags []language.Tag
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if t, err := language.Parse(c); err == nil {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return r.primary
	}
	_, idx, conf := r.matcher.Match(tags...)
	if conf == language.No {
		return r.primary
	}
	return r.langs[idx]
}

// UIString returns the interface string for key in lang, falling back to
// the primary locale, then to the key itself so missing entries stay
// visible in the page instead of vanishing.
func (r *Resolver) UIString(lang, key string) string {
	lang = r.Canonical(lang)
	if m := r.ui[lang]; m != nil {
		if v, ok := m[key]; ok && v != "" {
			return v
		}
	}
	if m := r.ui[r.primary]; m != nil {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}

// UI returns the full interface string map for lang with primary-language
// fallback already applied. The result is a copy.
func (r *Resolver) UI(lang string) map[string]string {
	lang = r.Canonical(lang)
	out := map[string]string{}
	for k, v := range r.ui[r.primary] {
		out[k] = v
	}
	for k, v := range r.ui[lang] {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

package images

import (
	"encoding/base64"
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"
)

// Background tints for generated placeholders, picked by label hash so a
// given product always gets the same card color.
var placeholderPalette = []string{
	"#b45309", "#0f766e", "#7c3aed", "#be185d", "#4d7c0f", "#1d4ed8",
}

var svgEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// PlaceholderSVG renders a synthetic stand-in graphic bearing the given
// label. Pure and deterministic: the same label always yields
// byte-identical output, so results can be cached and compared.
func PlaceholderSVG(label string) []byte {
	h := fnv.New32a()
	h.Write([]byte(label))
	bg := placeholderPalette[h.Sum32()%uint32(len(placeholderPalette))]

	text := svgEscaper.Replace(label)
	if text == "" {
		text = "DekoKraft"
	}
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="600" height="600" viewBox="0 0 600 600">`+
		`<rect width="600" height="600" fill="%s"/>`+
		`<rect x="24" y="24" width="552" height="552" fill="none" stroke="#ffffff" stroke-opacity="0.4" stroke-width="2"/>`+
		`<text x="300" y="310" font-family="sans-serif" font-size="36" fill="#ffffff" text-anchor="middle">%s</text>`+
		`</svg>`, bg, text)
	return []byte(svg)
}

// PlaceholderDataURI wraps PlaceholderSVG for direct use as an image
// source without any network dependency.
func PlaceholderDataURI(label string) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(PlaceholderSVG(label))
}

// PlaceholderPath builds the request path the page shell serves
// PlaceholderSVG under. Escaping round-trips with url.PathUnescape on
// the handler side.
func PlaceholderPath(label string) string {
	return "/placeholder/" + url.PathEscape(label) + ".svg"
}

package render

import (
	"html/template"
	"net/url"
	"strings"
)

// GoogleFontsPrefix marks a font that is loaded from Google Fonts.
const GoogleFontsPrefix = "gf:"

const googleFontsCSS = "https://fonts.googleapis.com/css2"

// Font is a font family for part of the page.
type Font struct {
	Family      string
	GoogleFonts bool
}

// ParseFont reads a font option such as "serif" or "gf:Fira Code".
func ParseFont(spec string) Font {
	spec = strings.TrimSpace(spec)
	if rest, ok := strings.CutPrefix(spec, GoogleFontsPrefix); ok {
		return Font{Family: strings.TrimSpace(rest), GoogleFonts: true}
	}
	return Font{Family: spec}
}

// CSS returns the value for a font-family declaration, ending in fallback.
// Characters that cannot appear in a family name are dropped.
func (f Font) CSS(fallback string) template.CSS {
	family := sanitizeFamily(f.Family)
	switch {
	case family == "" || family == fallback:
		return template.CSS(fallback)
	case strings.Contains(family, " ") || f.GoogleFonts:
		return template.CSS("'" + family + "', " + fallback)
	default:
		return template.CSS(family + ", " + fallback)
	}
}

func sanitizeFamily(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// GoogleFontsURL returns the stylesheet URL for every Google Fonts family
// in fonts, or "" when there are none.
func GoogleFontsURL(fonts ...Font) string {
	var families []string
	seen := make(map[string]bool)
	for _, f := range fonts {
		family := sanitizeFamily(f.Family)
		if !f.GoogleFonts || family == "" || seen[family] {
			continue
		}
		seen[family] = true
		families = append(families, "family="+url.QueryEscape(family))
	}
	if len(families) == 0 {
		return ""
	}
	return googleFontsCSS + "?" + strings.Join(families, "&") + "&display=swap"
}

package theme

import (
	"github.com/lucasb-eyer/go-colorful"
)

// FallbackForeground seeds every token class when a theme does not define
// editor.foreground.
const FallbackForeground = "#ffffff"

// parseColor parses the hex forms VS Code accepts (#rgb, #rgba, #rrggbb,
// #rrggbbaa). The alpha channel is ignored.
func parseColor(s string) (colorful.Color, bool) {
	hex := s
	switch len(s) {
	case 5:
		hex = s[:4]
	case 9:
		hex = s[:7]
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, false
	}
	if len(s) == 5 || len(s) == 9 {
		for _, r := range s[len(hex):] {
			if !isHexDigit(r) {
				return colorful.Color{}, false
			}
		}
	}
	return c, true
}

// ValidColor reports whether s is a usable hex colour.
func ValidColor(s string) bool {
	_, ok := parseColor(s)
	return ok
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// isDarkColor reports whether a colour reads as a dark background.
func isDarkColor(s string) (dark, ok bool) {
	c, ok := parseColor(s)
	if !ok {
		return false, false
	}
	l, _, _ := c.Lab()
	return l < 0.5, true
}

package theme

import (
	"encoding/json"
	"fmt"
)

// TokenColors holds exactly one colour per TokenClass. Being a fixed-size
// array it cannot be partial.
type TokenColors [numTokenClasses]string

// MarshalJSON encodes the colours as an object keyed by class name.
func (tc TokenColors) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, numTokenClasses)
	for i, c := range tc {
		m[TokenClass(i).String()] = c
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the object form and rejects any missing class.
func (tc *TokenColors) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	var out TokenColors
	for _, class := range AllTokenClasses() {
		c, ok := m[class.String()]
		if !ok || c == "" {
			return fmt.Errorf("token colour for %q is missing", class)
		}
		out[class] = c
	}
	*tc = out
	return nil
}

// UIColors are the document-level colours taken from the editor UI
// section of a theme. Empty means unset; the renderer picks CSS defaults.
type UIColors struct {
	BodyBackground string `json:"body_background,omitempty"`
	BodyForeground string `json:"body_foreground,omitempty"`
	CodeBackground string `json:"code_background,omitempty"`
	CodeForeground string `json:"code_foreground,omitempty"`
	Link           string `json:"link,omitempty"`
	LinkHover      string `json:"link_hover,omitempty"`
}

// Theme is the canonical, immutable colour set for one conversion run.
type Theme struct {
	Name   string      `json:"name"`
	IsDark *bool       `json:"is_dark,omitempty"` // nil when the source does not say
	Tokens TokenColors `json:"token_colors"`
	UI     UIColors    `json:"ui_colors"`
}

// Color returns the colour for a token class. Unknown classes get the
// default colour.
func (t *Theme) Color(class TokenClass) string {
	if !class.Valid() {
		class = Default
	}
	return t.Tokens[class]
}

// DefaultForeground is the colour of text that belongs to no other class.
func (t *Theme) DefaultForeground() string {
	return t.Tokens[Default]
}

// Dark reports whether the theme is meant for a dark background. When the
// theme does not declare it, the background luminance decides.
func (t *Theme) Dark() bool {
	if t.IsDark != nil {
		return *t.IsDark
	}
	if dark, ok := isDarkColor(t.UI.BodyBackground); ok {
		return dark
	}
	if dark, ok := isDarkColor(t.DefaultForeground()); ok {
		return !dark
	}
	return true
}

func boolPtr(b bool) *bool {
	return &b
}

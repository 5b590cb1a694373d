package theme

import "strings"

// ScopePattern maps a scope substring to the class it colours.
type ScopePattern struct {
	Substring string
	Class     TokenClass
}

// ScopePatterns is evaluated top to bottom. A pattern must come before any
// broader pattern it contains, so keyword.operator precedes keyword.
var ScopePatterns = []ScopePattern{
	{"comment", Comment},
	{"keyword.operator", Operator},
	{"keyword", Keyword},
	{"constant.numeric", Number},
	{"entity.name.function", FunctionDefinition},
	{"entity.name.class", ClassDefinition},
	{"variable", Variable},
	{"punctuation", Punctuation},
	{"support.function.builtin", Builtin},
	{"string", String},
}

// MatchScope returns the class of the first pattern contained in scope.
func MatchScope(scope string) (TokenClass, bool) {
	for _, p := range ScopePatterns {
		if strings.Contains(scope, p.Substring) {
			return p.Class, true
		}
	}
	return 0, false
}

// Resolve builds the canonical Theme for a raw theme document. It never
// fails: anything missing or malformed falls back to the default
// foreground. A matching rule without a valid foreground resets its class
// to the default foreground. A nil raw theme is treated as an empty
// document.
func Resolve(raw *RawTheme) *Theme {
	if raw == nil {
		raw = &RawTheme{}
	}

	t := &Theme{Name: raw.Name}
	if t.Name == "" {
		t.Name = "Unnamed Theme"
	}

	switch strings.ToLower(raw.Type) {
	case "dark", "hc", "hcdark":
		t.IsDark = boolPtr(true)
	case "light", "hclight":
		t.IsDark = boolPtr(false)
	}

	fg := raw.color("editor.foreground")
	bg := raw.color("editor.background")
	t.UI = UIColors{
		BodyBackground: bg,
		BodyForeground: fg,
		CodeBackground: bg,
		CodeForeground: fg,
		Link:           raw.color("textLink.foreground"),
		LinkHover:      raw.color("textLink.activeForeground"),
	}

	if fg == "" {
		fg = FallbackForeground
	}
	b := newBuilder(fg)

	// Document order, later rules overwrite earlier ones for the same class.
	for _, rule := range raw.TokenColors {
		color := rule.Foreground
		if !ValidColor(color) {
			color = fg
		}
		for _, scope := range rule.Scope {
			if class, ok := MatchScope(scope); ok {
				b.set(class, color)
				break
			}
		}
	}

	t.Tokens = b.colors
	return t
}

// color returns a colours entry if it holds a valid hex colour.
func (r *RawTheme) color(key string) string {
	c := r.Colors[key]
	if !ValidColor(c) {
		return ""
	}
	return c
}

// builder starts with every slot filled so the result is total without any
// read-time checks.
type builder struct {
	colors TokenColors
}

func newBuilder(fallback string) *builder {
	b := &builder{}
	for i := range b.colors {
		b.colors[i] = fallback
	}
	return b
}

func (b *builder) set(class TokenClass, color string) {
	b.colors[class] = color
}

package theme

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// chromaTypes is the chroma token type whose style entry colours each class.
var chromaTypes = [numTokenClasses]chroma.TokenType{
	Comment:            chroma.Comment,
	Keyword:            chroma.Keyword,
	String:             chroma.LiteralString,
	Number:             chroma.LiteralNumber,
	FunctionDefinition: chroma.NameFunction,
	ClassDefinition:    chroma.NameClass,
	Variable:           chroma.NameVariable,
	Operator:           chroma.Operator,
	Punctuation:        chroma.Punctuation,
	Builtin:            chroma.NameBuiltin,
	Default:            chroma.Text,
}

// BuiltinStyleNames lists the chroma styles usable by name.
func BuiltinStyleNames() []string {
	return styles.Names()
}

// IsBuiltinStyle reports whether name is a chroma style.
func IsBuiltinStyle(name string) bool {
	_, ok := lookupStyle(name)
	return ok
}

// FromChromaStyle translates a chroma built-in style into a Theme. Classes
// the style leaves uncoloured get the style's text colour.
func FromChromaStyle(name string) (*Theme, error) {
	style, ok := lookupStyle(name)
	if !ok {
		return nil, &NotFoundError{Name: name}
	}

	bg := style.Get(chroma.Background)
	t := &Theme{Name: style.Name}

	fg := FallbackForeground
	if bg.Colour.IsSet() {
		fg = bg.Colour.String()
	}
	if bg.Background.IsSet() {
		t.UI.BodyBackground = bg.Background.String()
		t.UI.CodeBackground = t.UI.BodyBackground
		t.IsDark = boolPtr(bg.Background.Brightness() < 0.5)
		if !bg.Colour.IsSet() && !*t.IsDark {
			fg = "#000000"
		}
	}
	t.UI.BodyForeground = fg
	t.UI.CodeForeground = fg

	b := newBuilder(fg)
	for class, tt := range chromaTypes {
		if entry := style.Get(tt); entry.Colour.IsSet() {
			b.set(TokenClass(class), entry.Colour.String())
		}
	}
	t.Tokens = b.colors
	return t, nil
}

func lookupStyle(name string) (*chroma.Style, bool) {
	if style, ok := styles.Registry[name]; ok {
		return style, true
	}
	for key, style := range styles.Registry {
		if strings.EqualFold(key, name) {
			return style, true
		}
	}
	return nil, false
}

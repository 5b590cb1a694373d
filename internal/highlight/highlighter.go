package highlight

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/jmylchreest/elara/internal/theme"
)

// DefaultMaxBytes bounds the size of a single source string. Larger sources
// are reported as a LexError instead of being tokenized.
const DefaultMaxBytes = 512 * 1024

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithLexer replaces the default Python lexer.
func WithLexer(l Lexer) Option {
	return func(h *Highlighter) {
		h.lexer = l
	}
}

// WithMaxBytes bounds the size of a single source string. Larger sources
// fail with a LexError before any lexer runs. A non-positive limit disables
// the guard.
func WithMaxBytes(n int) Option {
	return func(h *Highlighter) {
		h.maxBytes = n
	}
}

// Highlighter turns source code into class-annotated HTML for one theme.
// It is immutable after construction and safe for concurrent use.
type Highlighter struct {
	theme    *theme.Theme
	lexer    Lexer
	maxBytes int
	css      string
}

// New returns a Highlighter bound to t. A nil theme is the resolution of an
// empty theme document.
func New(t *theme.Theme, opts ...Option) *Highlighter {
	if t == nil {
		t = theme.Resolve(nil)
	}
	h := &Highlighter{theme: t, maxBytes: DefaultMaxBytes}
	for _, opt := range opts {
		opt(h)
	}
	if h.lexer == nil {
		h.lexer = NewPythonLexer()
	}
	h.css = buildStyles(t)
	return h
}

// NewFromSource resolves src once and returns a Highlighter for the result.
func NewFromSource(src theme.Source, opts ...Option) (*Highlighter, error) {
	t, err := theme.FromSource(src)
	if err != nil {
		return nil, err
	}
	return New(t, opts...), nil
}

// Theme returns the theme the Highlighter is bound to.
func (h *Highlighter) Theme() *theme.Theme {
	return h.theme
}

// Highlight is HighlightContext with a background context.
func (h *Highlighter) Highlight(source string) (string, error) {
	return h.HighlightContext(context.Background(), source)
}

// HighlightContext renders source as HTML. Each token becomes
// <span class="token CLASS">text</span>; the text between tokens is copied
// from the source, so removing the tags and unescaping yields source
// exactly. A lexical failure returns a *LexError and no partial output.
func (h *Highlighter) HighlightContext(ctx context.Context, source string) (string, error) {
	if h.maxBytes > 0 && len(source) > h.maxBytes {
		return "", &LexError{Reason: fmt.Sprintf("source is %d bytes, limit is %d", len(source), h.maxBytes)}
	}

	var b strings.Builder
	b.Grow(len(source) * 2)

	var last Position
	for tok, err := range h.lexer.Tokenize(ctx, source) {
		if err != nil {
			return "", err
		}

		if tok.Start.Row == last.Row {
			if tok.Start.Col > last.Col {
				b.WriteString(html.EscapeString(tok.Line[last.Col:tok.Start.Col]))
			}
		} else {
			for range tok.Start.Row - last.Row {
				b.WriteByte('\n')
			}
			b.WriteString(html.EscapeString(tok.Line[:tok.Start.Col]))
		}

		switch tok.Type {
		case Newline:
			b.WriteString(tok.Text)
		case EndMarker:
		default:
			b.WriteString(`<span class="token `)
			b.WriteString(Classify(tok))
			b.WriteString(`">`)
			b.WriteString(html.EscapeString(tok.Text))
			b.WriteString(`</span>`)
		}
		last = tok.End
	}
	return b.String(), nil
}

// PlainHTML escapes source without highlighting it. It is the rendering
// used for a cell whose source could not be tokenized.
func PlainHTML(source string) string {
	return html.EscapeString(source)
}

// Styles returns the token stylesheet: one rule per token class, with the
// default rule also covering plain names.
func (h *Highlighter) Styles() string {
	return h.css
}

func buildStyles(t *theme.Theme) string {
	var b strings.Builder
	for _, class := range theme.AllTokenClasses() {
		b.WriteString(".token.")
		b.WriteString(class.String())
		if class == theme.Default {
			b.WriteString(", .token.")
			b.WriteString(NameClass)
		}
		fmt.Fprintf(&b, " { color: %s; }\n", t.Color(class))
	}
	return b.String()
}

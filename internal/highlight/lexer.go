package highlight

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Synthetic token types produced next to chroma's own.
const (
	// Newline is a line break outside any other token.
	Newline chroma.TokenType = -1001 - iota
	// EndMarker closes every token stream; its text is empty.
	EndMarker
)

// Position is a 0-based row and a byte column within that row.
type Position struct {
	Row int
	Col int
}

// Token is one lexical unit of a source string.
type Token struct {
	Type  chroma.TokenType
	Text  string
	Start Position
	End   Position
	Line  string // source line the token starts on, including its line break
}

// Lexer turns a source string into a lazy token sequence. Whitespace other
// than line breaks is not emitted; it is recovered from token positions.
// A failure ends the sequence with a *LexError.
type Lexer interface {
	Tokenize(ctx context.Context, source string) iter.Seq2[Token, error]
}

// ChromaLexer adapts a chroma lexer to the Lexer interface.
type ChromaLexer struct {
	lexer chroma.Lexer
}

// NewPythonLexer returns a Lexer for Python source.
func NewPythonLexer() *ChromaLexer {
	return &ChromaLexer{lexer: lexers.Get("python")}
}

// NewChromaLexer returns a Lexer for any language chroma knows.
func NewChromaLexer(language string) (*ChromaLexer, error) {
	l := lexers.Get(language)
	if l == nil {
		return nil, fmt.Errorf("no lexer for language %q", language)
	}
	return &ChromaLexer{lexer: l}, nil
}

// Tokenize implements Lexer.
func (c *ChromaLexer) Tokenize(ctx context.Context, source string) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		if !utf8.ValidString(source) {
			yield(Token{}, &LexError{Reason: "source is not valid UTF-8"})
			return
		}

		// EnsureLF stays off so CRLF line endings survive.
		it, err := c.lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, source)
		if err != nil {
			yield(Token{}, &LexError{Reason: "lexer setup failed", Err: err})
			return
		}

		s := newScanner(source)
		for n := 0; ; n++ {
			if n%64 == 0 {
				if err := ctx.Err(); err != nil {
					yield(Token{}, &LexError{Pos: s.pos, Reason: "tokenization cancelled", Err: err})
					return
				}
			}

			ct, err := next(it)
			if err != nil {
				yield(Token{}, &LexError{Pos: s.pos, Reason: "lexer failed", Err: err})
				return
			}
			if ct == chroma.EOF {
				break
			}
			if ct.Type == chroma.Error {
				yield(Token{}, &LexError{Pos: s.pos, Reason: fmt.Sprintf("unexpected %q", ct.Value)})
				return
			}

			toks, err := s.scan(ct)
			if err != nil {
				yield(Token{}, err)
				return
			}
			for _, tok := range toks {
				if !yield(tok, nil) {
					return
				}
			}
		}

		if s.off != len(source) {
			yield(Token{}, &LexError{Pos: s.pos, Reason: "lexer stopped before the end of the source"})
			return
		}
		yield(s.endMarker(), nil)
	}
}

// next pulls one token, turning a lexer panic into an error.
func next(it chroma.Iterator) (tok chroma.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return it(), nil
}

// scanner tracks where chroma's tokens sit in the source.
type scanner struct {
	source string
	lines  []string
	off    int
	pos    Position
}

func newScanner(source string) *scanner {
	return &scanner{source: source, lines: strings.SplitAfter(source, "\n")}
}

func (s *scanner) line(row int) string {
	if row < len(s.lines) {
		return s.lines[row]
	}
	return ""
}

// scan positions one chroma token. Whitespace only yields Newline tokens;
// everything else yields the token itself.
func (s *scanner) scan(ct chroma.Token) ([]Token, error) {
	v := ct.Value
	if v == "" {
		return nil, nil
	}
	// chroma may append a line break to the last line; it is not source.
	if s.off+len(v) > len(s.source) && strings.HasSuffix(v, "\n") {
		v = v[:len(v)-1]
	}
	if !strings.HasPrefix(s.source[s.off:], v) {
		return nil, &LexError{Pos: s.pos, Reason: fmt.Sprintf("token %q does not match the source", ct.Value)}
	}

	if strings.TrimSpace(v) == "" {
		var out []Token
		for i := 0; i < len(v); i++ {
			if v[i] != '\n' {
				s.pos.Col++
				continue
			}
			start := s.pos
			s.pos = Position{Row: start.Row + 1}
			out = append(out, Token{Type: Newline, Text: "\n", Start: start, End: s.pos, Line: s.line(start.Row)})
		}
		s.off += len(v)
		return out, nil
	}

	start := s.pos
	for i := 0; i < len(v); i++ {
		if v[i] == '\n' {
			s.pos = Position{Row: s.pos.Row + 1}
		} else {
			s.pos.Col++
		}
	}
	s.off += len(v)
	return []Token{{Type: ct.Type, Text: v, Start: start, End: s.pos, Line: s.line(start.Row)}}, nil
}

func (s *scanner) endMarker() Token {
	return Token{Type: EndMarker, Start: s.pos, End: s.pos, Line: s.line(s.pos.Row)}
}

package highlight

import (
	"context"
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, l Lexer, source string) []Token {
	t.Helper()
	var toks []Token
	for tok, err := range l.Tokenize(context.Background(), source) {
		require.NoError(t, err)
		toks = append(toks, tok)
	}
	return toks
}

func TestChromaLexer_Positions(t *testing.T) {
	toks := collect(t, NewPythonLexer(), "# hi\nx = 1\n")

	require.Len(t, toks, 7)
	assert.Equal(t, Token{Type: chroma.CommentSingle, Text: "# hi", Start: Position{0, 0}, End: Position{0, 4}, Line: "# hi\n"}, toks[0])
	assert.Equal(t, Token{Type: Newline, Text: "\n", Start: Position{0, 4}, End: Position{1, 0}, Line: "# hi\n"}, toks[1])
	assert.Equal(t, Position{1, 0}, toks[2].Start)
	assert.Equal(t, "x", toks[2].Text)
	assert.Equal(t, Position{1, 2}, toks[3].Start)
	assert.Equal(t, "=", toks[3].Text)
	assert.Equal(t, Position{1, 4}, toks[4].Start)
	assert.Equal(t, "1", toks[4].Text)
	assert.Equal(t, Newline, toks[5].Type)
	assert.Equal(t, Token{Type: EndMarker, Start: Position{2, 0}, End: Position{2, 0}}, toks[6])
}

func TestChromaLexer_MultiLineToken(t *testing.T) {
	toks := collect(t, NewPythonLexer(), "s = '''a\n  b'''")

	var str []Token
	for _, tok := range toks {
		if tok.Type.InSubCategory(chroma.LiteralString) {
			str = append(str, tok)
		}
	}
	require.NotEmpty(t, str)
	last := toks[len(toks)-1]
	assert.Equal(t, EndMarker, last.Type)
	assert.Equal(t, Position{1, 6}, last.Start)
}

func TestChromaLexer_EndMarkerAfterTrailingBlanks(t *testing.T) {
	toks := collect(t, NewPythonLexer(), "x  ")

	last := toks[len(toks)-1]
	assert.Equal(t, EndMarker, last.Type)
	assert.Equal(t, Position{0, 3}, last.Start)
	assert.Equal(t, "x  ", last.Line)
}

func TestChromaLexer_StopsEarly(t *testing.T) {
	n := 0
	for range NewPythonLexer().Tokenize(context.Background(), "a = b + c\n") {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestNewChromaLexer(t *testing.T) {
	_, err := NewChromaLexer("go")
	require.NoError(t, err)

	_, err = NewChromaLexer("definitely-not-a-language")
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Type: chroma.CommentSingle}, "comment"},
		{Token{Type: chroma.KeywordNamespace, Text: "import"}, "keyword"},
		{Token{Type: chroma.Keyword, Text: "def"}, "keyword"},
		{Token{Type: chroma.LiteralStringDouble}, "string"},
		{Token{Type: chroma.LiteralStringDoc}, "string"},
		{Token{Type: chroma.LiteralNumberFloat}, "number"},
		{Token{Type: chroma.NameFunction, Text: "f"}, "function_definition"},
		{Token{Type: chroma.NameClass, Text: "C"}, "class_definition"},
		{Token{Type: chroma.NameVariableMagic, Text: "__name__"}, "variable"},
		{Token{Type: chroma.Operator, Text: "+"}, "operator"},
		{Token{Type: chroma.OperatorWord, Text: "not"}, "operator"},
		{Token{Type: chroma.Punctuation, Text: ":"}, "punctuation"},
		{Token{Type: chroma.NameBuiltin, Text: "print"}, "builtin"},
		{Token{Type: chroma.NameBuiltinPseudo, Text: "self"}, "builtin"},
		{Token{Type: chroma.Name, Text: "range"}, "builtin"},
		{Token{Type: chroma.Name, Text: "value"}, "name"},
		{Token{Type: chroma.NameNamespace, Text: "os"}, "name"},
		{Token{Type: chroma.Text, Text: "\\\n"}, "default"},
		{Token{Type: Newline, Text: "\n"}, ""},
		{Token{Type: EndMarker}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.tok.Type.String()+"/"+tt.tok.Text, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.tok))
		})
	}
}

func TestLexError(t *testing.T) {
	err := &LexError{Pos: Position{Row: 1, Col: 2}, Reason: "unexpected \"$\"", Err: context.Canceled}
	assert.Equal(t, `lexical error at 2:3: unexpected "$": context canceled`, err.Error())
	assert.ErrorIs(t, err, ErrLex)
	assert.ErrorIs(t, err, context.Canceled)
}

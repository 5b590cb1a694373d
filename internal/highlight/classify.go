package highlight

import (
	"github.com/alecthomas/chroma/v2"

	"github.com/jmylchreest/elara/internal/theme"
)

// NameClass marks ordinary identifiers. It is not a theme.TokenClass; the
// stylesheet colours it like the default class.
const NameClass = "name"

// builtinNames are plain names that are always coloured as builtins, even
// when the lexer reports them as ordinary identifiers.
var builtinNames = map[string]bool{
	"print": true,
	"len":   true,
	"dict":  true,
	"list":  true,
	"int":   true,
	"str":   true,
	"range": true,
	"type":  true,
}

// Classify returns the CSS class for a token. Newline and EndMarker tokens
// are never wrapped and classify as "".
func Classify(tok Token) string {
	t := tok.Type
	switch {
	case t == Newline || t == EndMarker:
		return ""
	case t.InCategory(chroma.Comment):
		return theme.Comment.String()
	case t.InCategory(chroma.Keyword):
		return theme.Keyword.String()
	case t.InSubCategory(chroma.LiteralString):
		return theme.String.String()
	case t.InSubCategory(chroma.LiteralNumber):
		return theme.Number.String()
	case t.InCategory(chroma.Operator):
		return theme.Operator.String()
	case t.InCategory(chroma.Punctuation):
		return theme.Punctuation.String()
	case t.InCategory(chroma.Name):
		return classifyName(tok)
	}
	return theme.Default.String()
}

func classifyName(tok Token) string {
	switch tok.Type {
	case chroma.NameFunction:
		return theme.FunctionDefinition.String()
	case chroma.NameClass:
		return theme.ClassDefinition.String()
	case chroma.NameBuiltin, chroma.NameBuiltinPseudo, chroma.NameException:
		return theme.Builtin.String()
	case chroma.NameVariable, chroma.NameVariableClass, chroma.NameVariableGlobal,
		chroma.NameVariableInstance, chroma.NameVariableMagic:
		return theme.Variable.String()
	}
	if builtinNames[tok.Text] {
		return theme.Builtin.String()
	}
	return NameClass
}

// Package highlight renders Python source as HTML with one span per token.
//
// Tokens come from a Lexer (chroma's Python lexer by default). The
// Highlighter reproduces the whitespace between tokens from the source
// itself, so stripping the markup from its output and unescaping entities
// gives back the original source byte for byte.
package highlight

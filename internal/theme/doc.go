// Package theme turns third-party editor colour themes into the canonical
// token colour set used by the highlighter.
//
// Themes are looked up by reference: a file path, a file in
// ~/.config/elara/themes/, one of the bundled themes, or the name of a
// chroma built-in style. Whatever the source, the result is a Theme whose
// token colours are total.
package theme

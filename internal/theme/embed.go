package theme

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
)

// EmbeddedThemes contains all bundled theme documents.
//
//go:embed themes/*.json
var EmbeddedThemes embed.FS

// DefaultThemeName is the theme used when nothing else is configured.
// It names a chroma built-in style.
const DefaultThemeName = "vs"

// BundledThemes lists all embedded theme names.
var BundledThemes = []string{"elara-dark", "elara-light"}

// GetEmbeddedTheme retrieves a bundled theme document by name.
// Returns the raw bytes and whether it was found.
func GetEmbeddedTheme(name string) ([]byte, bool) {
	if name == "" {
		return nil, false
	}
	data, err := EmbeddedThemes.ReadFile("themes/" + name + ".json")
	if err != nil {
		return nil, false
	}
	return data, true
}

// ListEmbeddedThemes returns names of all embedded themes.
func ListEmbeddedThemes() []string {
	var themes []string

	entries, err := fs.ReadDir(EmbeddedThemes, "themes")
	if err != nil {
		return BundledThemes
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if ext := filepath.Ext(name); ext == ".json" {
			themes = append(themes, strings.TrimSuffix(name, ext))
		}
	}

	return themes
}

// IsEmbeddedTheme checks if a theme name is bundled.
func IsEmbeddedTheme(name string) bool {
	_, found := GetEmbeddedTheme(name)
	return found
}

package theme

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format is the on-disk encoding of a raw theme document.
type Format int

const (
	// FormatJSON is VS Code's JSON-with-comments theme format.
	FormatJSON Format = iota
	// FormatYAML is the YAML rendition used by some theme authoring repos.
	FormatYAML
)

// FormatForPath picks a Format from a file extension. Anything that is not
// YAML is read as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// RawTheme is the lenient projection of a third-party theme document.
// Nothing in it is guaranteed to be present.
type RawTheme struct {
	Name        string
	Type        string
	Include     string
	Colors      map[string]string
	TokenColors []RawRule
}

// RawRule is one entry of a theme's tokenColors list.
type RawRule struct {
	Name       string
	Scope      []string
	Foreground string
}

// ParseRaw decodes a theme document. Only an unreadable document is an
// error; fields of the wrong shape are dropped.
func ParseRaw(data []byte, format Format) (*RawTheme, error) {
	var doc any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse theme yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return nil, fmt.Errorf("failed to parse theme json: %w", err)
		}
	}
	return RawFromDocument(doc), nil
}

// RawFromDocument builds a RawTheme from an already decoded document
// (the generic map produced by encoding/json or yaml.v3).
func RawFromDocument(doc any) *RawTheme {
	raw := &RawTheme{}
	m, ok := doc.(map[string]any)
	if !ok {
		return raw
	}

	raw.Name, _ = m["name"].(string)
	raw.Type, _ = m["type"].(string)
	raw.Include, _ = m["include"].(string)

	if colors, ok := m["colors"].(map[string]any); ok {
		raw.Colors = make(map[string]string, len(colors))
		for key, value := range colors {
			if s, ok := value.(string); ok {
				raw.Colors[key] = s
			}
		}
	}

	if rules, ok := m["tokenColors"].([]any); ok {
		for _, r := range rules {
			rm, ok := r.(map[string]any)
			if !ok {
				continue
			}
			rule := RawRule{Scope: parseScope(rm["scope"])}
			rule.Name, _ = rm["name"].(string)
			if settings, ok := rm["settings"].(map[string]any); ok {
				rule.Foreground, _ = settings["foreground"].(string)
			}
			raw.TokenColors = append(raw.TokenColors, rule)
		}
	}

	return raw
}

// parseScope normalises a scope value to a list. A bare string is a
// single entry, matched as a whole.
func parseScope(v any) []string {
	switch s := v.(type) {
	case string:
		return []string{s}
	case []any:
		scopes := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				scopes = append(scopes, str)
			}
		}
		return scopes
	}
	return nil
}

package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRaw_JSONWithComments(t *testing.T) {
	doc := `{
		// VS Code themes are JSONC
		"name": "Commented",
		"colors": {
			"editor.foreground": "#c0c0c0", /* trailing comma below */
		},
		"tokenColors": [
			{"scope": "comment", "settings": {"foreground": "#00ff00"}},
		],
	}`

	raw, err := ParseRaw([]byte(doc), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "Commented", raw.Name)
	assert.Equal(t, "#c0c0c0", raw.Colors["editor.foreground"])
	require.Len(t, raw.TokenColors, 1)
	assert.Equal(t, []string{"comment"}, raw.TokenColors[0].Scope)
	assert.Equal(t, "#00ff00", raw.TokenColors[0].Foreground)
}

func TestParseRaw_YAML(t *testing.T) {
	doc := `
name: Yaml Theme
type: light
colors:
  editor.foreground: "#202020"
tokenColors:
  - scope: [keyword, storage]
    settings:
      foreground: "#aa00aa"
`
	raw, err := ParseRaw([]byte(doc), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "Yaml Theme", raw.Name)
	assert.Equal(t, "light", raw.Type)
	require.Len(t, raw.TokenColors, 1)
	assert.Equal(t, []string{"keyword", "storage"}, raw.TokenColors[0].Scope)

	th := Resolve(raw)
	assert.Equal(t, "#aa00aa", th.Color(Keyword))
	assert.Equal(t, "#202020", th.Color(String))
}

func TestParseRaw_Unreadable(t *testing.T) {
	_, err := ParseRaw([]byte(`{"name": `), FormatJSON)
	assert.Error(t, err)
}

func TestRawFromDocument_WrongShapes(t *testing.T) {
	assert.Equal(t, &RawTheme{}, RawFromDocument(nil))
	assert.Equal(t, &RawTheme{}, RawFromDocument([]any{"not", "a", "map"}))

	raw := RawFromDocument(map[string]any{
		"colors":      []any{"#fff"},
		"tokenColors": "./theme.tmTheme",
	})
	assert.Nil(t, raw.Colors)
	assert.Nil(t, raw.TokenColors)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForPath("a/b/theme.yaml"))
	assert.Equal(t, FormatYAML, FormatForPath("theme.YML"))
	assert.Equal(t, FormatJSON, FormatForPath("theme.json"))
	assert.Equal(t, FormatJSON, FormatForPath("theme.jsonc"))
}

func TestValidColor(t *testing.T) {
	for _, c := range []string{"#fff", "#ffff", "#a1b2c3", "#A1B2C3", "#a1b2c3d4"} {
		assert.True(t, ValidColor(c), c)
	}
	for _, c := range []string{"", "fff", "#ff", "#12345", "#gggggg", "#a1b2c3zz", "red"} {
		assert.False(t, ValidColor(c), c)
	}
}

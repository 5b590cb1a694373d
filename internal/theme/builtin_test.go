package theme

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromChromaStyle_Known(t *testing.T) {
	th, err := FromChromaStyle("monokai")
	require.NoError(t, err)

	assert.Equal(t, "monokai", th.Name)
	require.NotNil(t, th.IsDark)
	assert.True(t, *th.IsDark)
	assert.NotEmpty(t, th.UI.BodyBackground)
	for _, class := range AllTokenClasses() {
		assert.True(t, ValidColor(th.Color(class)), "class %s has %q", class, th.Color(class))
	}
	assert.NotEqual(t, th.Color(Comment), th.Color(Keyword))
}

func TestFromChromaStyle_CaseInsensitive(t *testing.T) {
	th, err := FromChromaStyle("Monokai")
	require.NoError(t, err)
	assert.Equal(t, "monokai", th.Name)
}

func TestFromChromaStyle_NotFound(t *testing.T) {
	_, err := FromChromaStyle("definitely-not-a-style")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrThemeNotFound))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "definitely-not-a-style", nf.Name)
}

func TestBuiltinStyleNames_IncludesDefault(t *testing.T) {
	names := BuiltinStyleNames()
	assert.Contains(t, names, DefaultThemeName)
	assert.True(t, IsBuiltinStyle(DefaultThemeName))
}

func TestFromSource(t *testing.T) {
	custom := Resolve(&RawTheme{Name: "mine"})

	got, err := FromSource(Custom{Theme: custom})
	require.NoError(t, err)
	assert.Same(t, custom, got)

	got, err = FromSource(BuiltinNamed{Name: "vs"})
	require.NoError(t, err)
	assert.Equal(t, "vs", got.Name)

	_, err = FromSource(BuiltinNamed{Name: "nope"})
	assert.ErrorIs(t, err, ErrThemeNotFound)
}

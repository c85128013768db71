package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, 50, c.Arithmetic.Count)
	assert.Equal(t, 120, c.Arithmetic.TimeLimitSeconds)
	assert.Len(t, c.Stroop.Colors, 6)
	assert.Equal(t, 12, c.Memory.Count)
	assert.Equal(t, 3, c.Memory.ListsPerSet)
	assert.Len(t, c.Memory.Lists, 4)
	assert.Len(t, c.Reading.Texts, 3)
	assert.Equal(t, "Morning in the Village", c.Reading.Texts[0].Title)
	assert.NotContains(t, c.Reading.Texts[0].Content, "\\")
}

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadCatalog_MissingFileUsesBuiltin(t *testing.T) {
	c, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Len(t, c.Reading.Texts, 3)

	c, err = LoadCatalog("")
	require.NoError(t, err)
	assert.Len(t, c.Stroop.Colors, 6)
}

func TestLoadCatalog_SectionsReplaceBuiltin(t *testing.T) {
	path := writeCatalog(t, `
[[reading.texts]]
title = "Short"
content = "one two three"
`)
	c, err := LoadCatalog(path)
	require.NoError(t, err)

	require.Len(t, c.Reading.Texts, 1)
	assert.Equal(t, "Short", c.Reading.Texts[0].Title)
	assert.Len(t, c.Stroop.Colors, 6, "undefined sections keep the built-in content")
	assert.Equal(t, 50, c.Arithmetic.Count)
}

func TestLoadCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", `[stroop`},
		{"unknown key", "[memory]\nwordz = 3\n"},
		{"one color", "[stroop]\ncount = 5\n[[stroop.colors]]\nname = \"red\"\nhex = \"#f00\"\n"},
		{"duplicate color", "[stroop]\ncount = 5\n[[stroop.colors]]\nname = \"red\"\nhex = \"#f00\"\n[[stroop.colors]]\nname = \"RED\"\nhex = \"#e00\"\n"},
		{"empty reading", "[reading]\ntexts = []\n"},
		{"bad factors", "[arithmetic]\ncount = 5\nmax_addend = 3\nmin_factor = 5\nmax_factor = 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(writeCatalog(t, tt.body))
			assert.Error(t, err)
		})
	}
}

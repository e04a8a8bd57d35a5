package styles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/texmerge/pkg/errors"
)

func restoreDefaults(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, Reset())
	})
}

func TestStyleRegistry(t *testing.T) {
	for _, name := range []string{
		"Header", "Success", "Error", "Warning", "Planned",
		"FilePath", "Location", "Muted", "MutedItalic", "Size",
		"DryRunBanner", "Summary",
	} {
		t.Run(name, func(t *testing.T) {
			_, exists := StyleRegistry[name]
			assert.True(t, exists, "Style %s should exist in registry", name)
		})
	}
}

func TestGetStyleFallback(t *testing.T) {
	assert.Equal(t, "plain", GetStyle("NonExistentStyle").Render("plain"))
}

func TestSuccessStyleUsesAdaptiveColor(t *testing.T) {
	fg := GetStyle("Success").GetForeground()
	color, ok := fg.(lipgloss.AdaptiveColor)
	require.True(t, ok)
	assert.Equal(t, "#1a7f37", color.Light)
	assert.True(t, GetStyle("Success").GetBold())
}

func TestLoadStyles(t *testing.T) {
	restoreDefaults(t)

	path := filepath.Join(t.TempDir(), "styles.yaml")
	content := "colors:\n  pink:\n    light: \"#ff00ff\"\n    dark: \"#ff88ff\"\nstyles:\n  Success:\n    underline: true\n    foreground: pink\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	require.NoError(t, LoadStyles(path))
	assert.True(t, GetStyle("Success").GetUnderline())
	_, exists := StyleRegistry["Error"]
	assert.False(t, exists, "a loaded file replaces the whole table")
}

func TestLoadStylesErrors(t *testing.T) {
	restoreDefaults(t)

	err := LoadStyles(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))

	err = LoadStylesData([]byte("styles: [not, a, map]"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	_, exists := StyleRegistry["Success"]
	assert.True(t, exists, "a failed load keeps the previous table")
}

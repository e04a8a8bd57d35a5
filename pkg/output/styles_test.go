package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/texmerge/pkg/output/styles"
)

func TestSize(t *testing.T) {
	assert.Equal(t, "0 B", Size(0))
	assert.Equal(t, "0 B", Size(-5))
	assert.Equal(t, "512 B", Size(512))
	assert.Equal(t, "12 kB", Size(12000))
	assert.Equal(t, "1.5 MB", Size(1500000))
}

func TestLoadStylesFromFile(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, styles.Reset())
	})

	path := filepath.Join(t.TempDir(), "styles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("styles:\n  Success:\n    italic: true\n"), 0644))
	require.NoError(t, LoadStylesFromFile(path))
	assert.True(t, styles.GetStyle("Success").GetItalic())
}

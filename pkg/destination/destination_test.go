package destination

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/texmerge/pkg/errors"
	"github.com/arthur-debert/texmerge/pkg/records"
)

func record(values map[string]string) records.Record {
	return records.Record{Values: values, Source: "people.csv", Line: 2}
}

func TestResolve(t *testing.T) {
	t.Setenv("HOME", "/home/u")
	r := &Resolver{BaseDir: "/home/u", Workspace: "/tmp/texmerge-1", Field: "Destination"}

	tests := []struct {
		name        string
		values      map[string]string
		defaultBase string
		want        string
	}{
		{"relative", map[string]string{"Destination": "out/doc"}, "letter", "/home/u/out/doc"},
		{"extension_stripped", map[string]string{"Destination": "out/doc.pdf"}, "letter", "/home/u/out/doc"},
		{"absolute", map[string]string{"Destination": "/srv/docs/ada"}, "letter", "/srv/docs/ada"},
		{"tilde", map[string]string{"Destination": "~/letters/ada"}, "letter", "/home/u/letters/ada"},
		{"bare_tilde", map[string]string{"Destination": "~"}, "letter", "/home/u"},
		{"blank_uses_default", map[string]string{"Destination": "  "}, "letter_1", "/home/u/letter_1"},
		{"absent_uses_default", map[string]string{"Name": "Ada"}, "letter", "/home/u/letter"},
		{"cleaned", map[string]string{"Destination": "out/../final//ada"}, "letter", "/home/u/final/ada"},
		{"dot_file_kept", map[string]string{"Destination": ".hidden"}, "letter", "/home/u/.hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(record(tt.values), tt.defaultBase)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCustomField(t *testing.T) {
	r := &Resolver{BaseDir: "/base", Field: "Out"}

	got, err := r.Resolve(record(map[string]string{"Out": "x", "Destination": "y"}), "letter")
	require.NoError(t, err)
	assert.Equal(t, "/base/x", got)
}

func TestResolverExplicit(t *testing.T) {
	r := &Resolver{}

	v, ok := r.Explicit(record(map[string]string{"Destination": " out/ada "}))
	assert.True(t, ok)
	assert.Equal(t, "out/ada", v)

	_, ok = r.Explicit(record(map[string]string{"Destination": "  "}))
	assert.False(t, ok)

	_, ok = r.Explicit(record(map[string]string{"Name": "Ada"}))
	assert.False(t, ok)
}

func TestResolveRejectsWorkspace(t *testing.T) {
	r := &Resolver{BaseDir: "/tmp/texmerge-1", Workspace: "/tmp/texmerge-1"}

	_, err := r.Resolve(record(map[string]string{"Destination": "inside"}), "letter")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = r.Resolve(record(nil), "letter")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestResolveErrors(t *testing.T) {
	r := &Resolver{BaseDir: "relative/base"}

	_, err := r.Resolve(record(nil), "letter")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	r = &Resolver{BaseDir: "/base"}
	_, err = r.Resolve(record(nil), "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestWithExtAndLogPath(t *testing.T) {
	assert.Equal(t, "/out/ada.pdf", WithExt("/out/ada", "pdf"))
	assert.Equal(t, "/out/ada.dvi", WithExt("/out/ada", ".dvi"))
	assert.Equal(t, "/out/ada.log", LogPath("/out/ada"))
}

func TestPlace(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "scratch.out.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1"), 0600))

	dst := filepath.Join(dir, "deep", "er", "ada.pdf")
	require.NoError(t, Place(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1", string(data))
	assert.NoFileExists(t, src)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(placedMode), info.Mode().Perm())
}

func TestPlaceReplaces(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "ada.pdf")
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0640))

	src := filepath.Join(dir, "new")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0600))
	require.NoError(t, Place(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm())
}

func TestPlaceMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := Place(filepath.Join(dir, "nope"), filepath.Join(dir, "out.pdf"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrPlace))
}

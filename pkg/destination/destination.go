// Package destination decides where each finished document goes and moves
// files there atomically.
package destination

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/arthur-debert/texmerge/pkg/errors"
	"github.com/arthur-debert/texmerge/pkg/logging"
	"github.com/arthur-debert/texmerge/pkg/paths"
	"github.com/arthur-debert/texmerge/pkg/records"
)

// DefaultField is the reserved record key naming the destination.
const DefaultField = "Destination"

// LogSuffix is appended to a destination to name its preserved compiler log.
const LogSuffix = ".log"

const placedMode = 0644

// Resolver turns a record into an absolute, extension-less destination.
type Resolver struct {
	// BaseDir resolves relative destinations. It must be absolute: the
	// caller's original directory, joined with any output directory.
	BaseDir string
	// Workspace is refused as a destination parent.
	Workspace string
	// Field is the record key holding an explicit destination.
	Field string
}

// Explicit returns the trimmed destination rec names under Field, and
// whether it names one at all.
func (r *Resolver) Explicit(rec records.Record) (string, bool) {
	field := r.Field
	if field == "" {
		field = DefaultField
	}
	v, ok := rec.Get(field)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Resolve picks the destination for rec. A non-blank value under Field
// wins; otherwise defaultBase is used. "~" expands to the home directory,
// relative paths are joined onto BaseDir and any extension is removed.
func (r *Resolver) Resolve(rec records.Record, defaultBase string) (string, error) {
	target := defaultBase
	if v, ok := r.Explicit(rec); ok {
		target = v
	}
	if target == "" {
		return "", errors.Newf(errors.ErrInvalidInput, "record %s has no destination", rec.Location())
	}

	dest, err := paths.Normalize(target, r.BaseDir)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid destination %q", target).
			WithDetail(errors.DetailPath, target)
	}
	dest = paths.StripExt(dest)

	if r.Workspace != "" && paths.ContainsPath(r.Workspace, dest) {
		return "", errors.Newf(errors.ErrInvalidInput, "destination %s lies inside the workspace", dest).
			WithDetail(errors.DetailPath, dest)
	}
	return dest, nil
}

// WithExt appends the compiler's output extension to a resolved destination.
func WithExt(dest, ext string) string {
	return dest + "." + strings.TrimPrefix(ext, ".")
}

// LogPath names the preserved compiler log for a destination.
func LogPath(dest string) string {
	return dest + LogSuffix
}

// Place moves src to dst, creating dst's parent directories. The
// destination is replaced atomically, so a reader never sees a partial
// file, and the move works across filesystems. src is removed once dst
// is in place.
func Place(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory for %s", dst).
			WithDetail(errors.DetailPath, dst)
	}

	f, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrPlace, "cannot read %s", src).
			WithDetail(errors.DetailPath, src)
	}
	_, statErr := os.Stat(dst)
	existed := statErr == nil

	err = atomic.WriteFile(dst, f)
	_ = f.Close()
	if err != nil {
		return errors.Wrapf(err, errors.ErrPlace, "cannot place %s", dst).
			WithDetail(errors.DetailPath, dst)
	}
	if !existed {
		if err := os.Chmod(dst, placedMode); err != nil {
			return errors.Wrapf(err, errors.ErrPlace, "cannot set mode on %s", dst).
				WithDetail(errors.DetailPath, dst)
		}
	}

	if err := os.Remove(src); err != nil {
		logger := logging.GetLogger("destination")
		logger.Warn().
			Err(err).
			Str("path", src).
			Msg("Could not remove placed source")
	}
	return nil
}

// Package workspace manages the private scratch directory a batch compiles in.
package workspace

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/texmerge/pkg/errors"
	"github.com/arthur-debert/texmerge/pkg/logging"
)

const dirPattern = "texmerge-"

// Workspace is a private temporary directory. Scratch sources, compiler
// companions and finished artifacts live there until placed.
type Workspace struct {
	dir string
}

// Create makes a new workspace below parent, or below the system temp
// directory when parent is empty.
func Create(parent string) (*Workspace, error) {
	dir, err := os.MkdirTemp(parent, dirPattern)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrWorkspace, "cannot create workspace").
			WithDetail(errors.DetailPath, parent)
	}
	// Scratch names are compared against resolved destinations.
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}

	logger := logging.GetLogger("workspace")
	logger.Debug().
		Str("dir", dir).
		Msg("Workspace created")
	return &Workspace{dir: dir}, nil
}

// Dir returns the absolute workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path joins name onto the workspace directory.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// Remove deletes the workspace and everything in it. It is safe to call
// more than once.
func (w *Workspace) Remove() error {
	if w == nil || w.dir == "" {
		return nil
	}
	if err := os.RemoveAll(w.dir); err != nil {
		return errors.Wrap(err, errors.ErrWorkspace, "cannot remove workspace").
			WithDetail(errors.DetailPath, w.dir)
	}
	logger := logging.GetLogger("workspace")
	logger.Debug().
		Str("dir", w.dir).
		Msg("Workspace removed")
	return nil
}

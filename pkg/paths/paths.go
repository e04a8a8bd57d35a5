package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/texmerge/pkg/errors"
)

// EnvHome is the standard home directory variable
const EnvHome = "HOME"

// GetHomeDirectory returns the user's home directory.
// It first tries os.UserHomeDir(), then falls back to the HOME environment variable.
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err == nil && homeDir != "" {
		return homeDir, nil
	}

	if homeDir = os.Getenv(EnvHome); homeDir != "" {
		return homeDir, nil
	}

	return "", errors.New(errors.ErrNotFound, "unable to determine home directory")
}

// ExpandHome expands a leading "~" or "~/" to the home directory.
// "~user" forms are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	if len(path) > 1 && path[1] != '/' && path[1] != filepath.Separator {
		return path, nil
	}

	homeDir, err := GetHomeDirectory()
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot expand ~ in %s", path)
	}
	if len(path) == 1 {
		return homeDir, nil
	}
	return filepath.Join(homeDir, path[2:]), nil
}

// ValidatePath rejects empty paths and paths containing null bytes.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}
	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidInput, "path contains null bytes")
	}
	return nil
}

// Normalize expands home, resolves a relative path against base and
// cleans the result. base must be absolute when path is relative.
func Normalize(path, base string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}

	expanded, err := ExpandHome(path)
	if err != nil {
		return "", err
	}

	if !filepath.IsAbs(expanded) {
		if !filepath.IsAbs(base) {
			return "", errors.Newf(errors.ErrInvalidInput, "cannot resolve %s against non-absolute base %q", path, base)
		}
		expanded = filepath.Join(base, expanded)
	}

	return filepath.Clean(expanded), nil
}

// ContainsPath checks if child is parent itself or lies below it.
// Both must be absolute; no symlinks are resolved.
func ContainsPath(parent, child string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(child))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// StripExt removes the final extension of the last path element.
// Dot files such as ".env" keep their name.
func StripExt(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return path
	}
	return strings.TrimSuffix(path, ext)
}

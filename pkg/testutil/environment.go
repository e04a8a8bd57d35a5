package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestEnvironment is an isolated directory tree for one test.
type TestEnvironment struct {
	// Root holds everything the test creates.
	Root string
	// WorkDir plays the caller's original directory.
	WorkDir string
	// HomeDir is exported as HOME so "~" resolves inside the tree.
	HomeDir string
	// TempDir is where workspaces are created.
	TempDir string

	t *testing.T
}

// NewTestEnvironment creates the tree and points HOME and the XDG
// variables into it.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	root := t.TempDir()
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	env := &TestEnvironment{
		Root:    root,
		WorkDir: filepath.Join(root, "work"),
		HomeDir: filepath.Join(root, "home"),
		TempDir: filepath.Join(root, "tmp"),
		t:       t,
	}
	for _, dir := range []string{env.WorkDir, env.HomeDir, env.TempDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(env.HomeDir, ".config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(env.HomeDir, ".local", "state"))
	return env
}

// WriteFile writes content to a path relative to WorkDir and returns the
// absolute path.
func (env *TestEnvironment) WriteFile(rel, content string) string {
	env.t.Helper()

	path := filepath.Join(env.WorkDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("Failed to create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// Path joins rel onto WorkDir.
func (env *TestEnvironment) Path(rel string) string {
	return filepath.Join(env.WorkDir, rel)
}

// LetterTemplate is a small letter with a required Name and an optional City.
const LetterTemplate = `\documentclass{letter}
\begin{document}
Dear \VAR{.Name},
\BLOCK{if has . "City"}
greetings to \VAR{.City}.
\BLOCK{end}
\end{document}
`

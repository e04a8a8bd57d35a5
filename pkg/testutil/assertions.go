package testutil

import (
	"os"
	"strings"
	"testing"
)

// AssertFileContains checks that path exists and contains substr.
func AssertFileContains(t *testing.T, path, substr string) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("Expected file %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("File %s does not contain %q\nContent: %s", path, substr, data)
	}
}

// AssertNoFile checks that nothing exists at path.
func AssertNoFile(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Lstat(path); err == nil {
		t.Errorf("Expected no file at %s", path)
	}
}

// AssertDirEmpty checks that dir exists and has no entries.
func AssertDirEmpty(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Errorf("Failed to read %s: %v", dir, err)
		return
	}
	if len(entries) > 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Expected %s to be empty, found: %s", dir, strings.Join(names, ", "))
	}
}

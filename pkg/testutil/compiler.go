package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

// Markers recognised by the fake compiler when they appear in a source.
const (
	MarkFail     = "FAKE_FAIL"
	MarkNoOutput = "FAKE_NO_OUTPUT"
	MarkSlow     = "FAKE_SLOW"
)

// The fake compiler copies the source into <base>.pdf, so its output is a
// pure function of the input. It writes a log and an aux file like a real
// TeX run and reacts to the markers above.
const fakeCompilerScript = `#!/bin/sh
for last in "$@"; do :; done
base="${last%.tex}"
echo "This is FakeTeX, compiling $last"
if grep -q ` + MarkFail + ` "$last"; then
  echo "! Undefined control sequence." > "$base.log"
  exit 1
fi
if grep -q ` + MarkSlow + ` "$last"; then
  exec sleep 10
fi
echo "Output written on $base.pdf" > "$base.log"
echo relax > "$base.aux"
if grep -q ` + MarkNoOutput + ` "$last"; then
  exit 0
fi
cp "$last" "$base.pdf"
`

// FakeCompiler installs the fake compiler script and returns its path.
// Tests are skipped where no POSIX shell is available.
func FakeCompiler(t *testing.T) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake compiler needs a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("fake compiler needs sh on PATH")
	}

	path := filepath.Join(t.TempDir(), "faketex")
	if err := os.WriteFile(path, []byte(fakeCompilerScript), 0755); err != nil {
		t.Fatalf("Failed to write fake compiler: %v", err)
	}
	return path
}

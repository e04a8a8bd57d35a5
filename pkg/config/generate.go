package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/arthur-debert/texmerge/pkg/errors"
	"github.com/arthur-debert/texmerge/pkg/logging"
)

// GenerateConfigContent returns the defaults with every value commented
// out, ready to be edited into a user or project config.
func GenerateConfigContent() string {
	return commentOutConfigValues(GetDefaultsContent())
}

// commentOutConfigValues comments out every assignment line, keeping
// comments, blank lines and section headers untouched.
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}

// WriteConfigFile writes the generated config to path unless a file is
// already there. It reports whether the file was written.
func WriteConfigFile(path string) (bool, error) {
	logger := logging.GetLogger("config.generate")

	if _, err := os.Stat(path); err == nil {
		logger.Warn().Str("path", path).Msg("Config file already exists, skipping")
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory for %s", path)
	}

	if err := atomic.WriteFile(path, strings.NewReader(GenerateConfigContent())); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileWrite, "failed to write config to %s", path)
	}

	logger.Info().Str("path", path).Msg("Written config file")
	return true, nil
}

package records

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/texmerge/pkg/errors"
)

// StdinName is the path that selects standard input.
const StdinName = "-"

// Record is one set of substitutions producing one document.
type Record struct {
	// Values maps placeholder names to their substitution values.
	Values map[string]string
	// Source names where the record came from, for diagnostics.
	Source string
	// Line is the 1-based position of the record in its source.
	Line int
}

// Get returns the value stored under key.
func (r Record) Get(key string) (string, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// Keys returns the record's keys in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.Values))
	for k := range r.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Location formats the record position as "source:line".
func (r Record) Location() string {
	return fmt.Sprintf("%s:%d", r.Source, r.Line)
}

// Source is a lazy, forward-only sequence of records.
//
// Next returns io.EOF once the source is exhausted. An error carrying
// errors.ErrInputParse reports a malformed entry that was skipped; the
// caller may keep calling Next. Any other error is fatal for the source.
type Source interface {
	Name() string
	Next() (Record, error)
	Close() error
}

// FormatForPath derives the format from a file extension. Unrecognized
// extensions, and stdin, are read as key=value lines.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".tsv", ".tab":
		return FormatTSV
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	}
	return FormatKeyValue
}

// Open opens path (or stdin for "-") and returns a source for format.
func Open(path string, format Format) (Source, error) {
	var (
		rc   io.ReadCloser
		name string
	)
	if path == StdinName {
		rc, name = io.NopCloser(os.Stdin), "stdin"
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInputOpen, "cannot open substitutions %s", path).
				WithDetail(errors.DetailPath, path)
		}
		rc, name = f, path
	}

	src, err := NewSource(rc, name, format)
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	return &closingSource{Source: src, closer: rc}, nil
}

type closingSource struct {
	Source
	closer io.Closer
}

func (c *closingSource) Close() error {
	return c.closer.Close()
}

// parseError builds the skippable error reported for a malformed entry.
func parseError(source string, line int, format string, args ...interface{}) error {
	return errors.Newf(errors.ErrInputParse, "%s:%d: %s", source, line, fmt.Sprintf(format, args...)).
		WithDetail(errors.DetailSource, source).
		WithDetail(errors.DetailLine, line)
}

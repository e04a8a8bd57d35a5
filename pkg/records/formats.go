package records

import (
	"io"
	"strings"

	"github.com/arthur-debert/texmerge/pkg/errors"
	"github.com/arthur-debert/texmerge/pkg/registry"
)

// Format selects how a substitution input is parsed.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatTSV      Format = "tsv"
	FormatKeyValue Format = "kv"
	FormatYAML     Format = "yaml"
	FormatTOML     Format = "toml"
)

// Formats lists the built-in formats.
var Formats = []Format{FormatCSV, FormatTSV, FormatKeyValue, FormatYAML, FormatTOML}

// Opener builds a source that reads records from r.
type Opener func(r io.Reader, name string) Source

var (
	openers = registry.New[Opener]()

	aliases = map[string]Format{
		"tab":       FormatTSV,
		"keyvalue":  FormatKeyValue,
		"key=value": FormatKeyValue,
		"text":      FormatKeyValue,
		"txt":       FormatKeyValue,
		"yml":       FormatYAML,
	}
)

func init() {
	registry.MustRegister(openers, string(FormatCSV), func(r io.Reader, name string) Source {
		return NewCSVSource(r, name, ',')
	})
	registry.MustRegister(openers, string(FormatTSV), func(r io.Reader, name string) Source {
		return NewCSVSource(r, name, '\t')
	})
	registry.MustRegister(openers, string(FormatKeyValue), func(r io.Reader, name string) Source {
		return NewKeyValueSource(r, name)
	})
	registry.MustRegister(openers, string(FormatYAML), func(r io.Reader, name string) Source {
		return NewYAMLSource(r, name)
	})
	registry.MustRegister(openers, string(FormatTOML), func(r io.Reader, name string) Source {
		return NewTOMLSource(r, name)
	})
}

// RegisterFormat adds a record format under name. Names are matched
// case-insensitively by ParseFormat.
func RegisterFormat(format Format, open Opener) error {
	if open == nil {
		return errors.Newf(errors.ErrInvalidInput, "format %q has no opener", format)
	}
	return openers.Register(strings.ToLower(string(format)), open)
}

// RegisteredFormats returns every format NewSource accepts, sorted.
func RegisteredFormats() []Format {
	names := openers.List()
	out := make([]Format, len(names))
	for i, name := range names {
		out[i] = Format(name)
	}
	return out
}

// ParseFormat parses a format name as given on the command line.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if f, ok := aliases[name]; ok {
		return f, nil
	}
	if openers.Has(name) {
		return Format(name), nil
	}
	return "", errors.Newf(errors.ErrInputFormat, "unknown record format %q", s)
}

// NewSource builds a source for format reading from r.
func NewSource(r io.Reader, name string, format Format) (Source, error) {
	open, err := openers.Get(string(format))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInputFormat, "unknown record format %q", format)
	}
	return open(r, name), nil
}

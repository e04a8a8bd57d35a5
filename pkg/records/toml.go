package records

import (
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/texmerge/pkg/errors"
)

// TOMLSource reads records from an array of tables named "record":
//
//	[[record]]
//	Name = "Ada"
//	Destination = "out/ada"
//
// TOML has no streaming decoder, so the file is decoded on the first call
// to Next. Line holds the 1-based index of the table.
type TOMLSource struct {
	name    string
	reader  io.Reader
	tables  []map[string]interface{}
	pos     int
	decoded bool
}

type tomlFile struct {
	Record []map[string]interface{} `toml:"record"`
}

// NewTOMLSource returns a source over r.
func NewTOMLSource(r io.Reader, name string) *TOMLSource {
	return &TOMLSource{name: name, reader: r}
}

func (s *TOMLSource) Name() string { return s.name }

func (s *TOMLSource) Close() error { return nil }

func (s *TOMLSource) Next() (Record, error) {
	if !s.decoded {
		s.decoded = true
		var file tomlFile
		if err := toml.NewDecoder(s.reader).Decode(&file); err != nil {
			tmErr := errors.Wrapf(err, errors.ErrInputFormat, "cannot decode %s", s.name).
				WithDetail(errors.DetailSource, s.name)
			var derr *toml.DecodeError
			if stderrors.As(err, &derr) {
				row, _ := derr.Position()
				tmErr.WithDetail(errors.DetailLine, row)
			}
			return Record{}, tmErr
		}
		s.tables = file.Record
	}

	if s.pos >= len(s.tables) {
		return Record{}, io.EOF
	}
	table := s.tables[s.pos]
	s.pos++

	values := make(map[string]string, len(table))
	for key, raw := range table {
		v, ok := tomlScalar(raw)
		if !ok {
			return Record{}, parseError(s.name, s.pos, "value of %q must be a scalar", key)
		}
		values[key] = v
	}
	return Record{Values: values, Source: s.name, Line: s.pos}, nil
}

func tomlScalar(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int64, float64, bool:
		return fmt.Sprint(t), true
	case time.Time:
		return t.Format(time.RFC3339), true
	case toml.LocalDate, toml.LocalTime, toml.LocalDateTime:
		return fmt.Sprint(t), true
	}
	return "", false
}

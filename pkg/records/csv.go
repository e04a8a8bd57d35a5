package records

import (
	"encoding/csv"
	stderrors "errors"
	"io"
	"strings"

	"github.com/arthur-debert/texmerge/pkg/errors"
)

const utf8BOM = "\ufeff"

// CSVSource reads delimited rows; the first row names the fields.
type CSVSource struct {
	name   string
	reader *csv.Reader
	header []string
	err    error
}

// NewCSVSource returns a source reading rows separated by comma.
func NewCSVSource(r io.Reader, name string, comma rune) *CSVSource {
	reader := csv.NewReader(r)
	reader.Comma = comma
	// Field count is checked against the header per row so a short or
	// long row is skipped instead of ending the read.
	reader.FieldsPerRecord = -1
	if comma == '\t' {
		reader.LazyQuotes = true
	}
	return &CSVSource{name: name, reader: reader}
}

func (s *CSVSource) Name() string { return s.name }

func (s *CSVSource) Close() error { return nil }

// Header returns the field names once the first row has been read.
func (s *CSVSource) Header() []string { return s.header }

func (s *CSVSource) Next() (Record, error) {
	if s.err != nil {
		return Record{}, s.err
	}
	if s.header == nil {
		if err := s.readHeader(); err != nil {
			s.err = err
			return Record{}, err
		}
	}

	for {
		row, err := s.reader.Read()
		if err == io.EOF {
			return Record{}, io.EOF
		}
		if err != nil {
			var perr *csv.ParseError
			if stderrors.As(err, &perr) {
				return Record{}, parseError(s.name, perr.StartLine, "%v", perr.Err)
			}
			s.err = errors.Wrapf(err, errors.ErrInputOpen, "failed reading %s", s.name)
			return Record{}, s.err
		}

		line, _ := s.reader.FieldPos(0)
		if isBlankRow(row) {
			continue
		}
		if len(row) != len(s.header) {
			return Record{}, parseError(s.name, line, "expected %d fields, got %d", len(s.header), len(row))
		}

		values := make(map[string]string, len(row))
		for i, v := range row {
			values[s.header[i]] = v
		}
		return Record{Values: values, Source: s.name, Line: line}, nil
	}
}

func (s *CSVSource) readHeader() error {
	row, err := s.reader.Read()
	if err == io.EOF {
		return io.EOF
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrInputFormat, "cannot read header of %s", s.name).
			WithDetail(errors.DetailSource, s.name)
	}

	header := make([]string, len(row))
	seen := make(map[string]bool, len(row))
	for i, field := range row {
		if i == 0 {
			field = strings.TrimPrefix(field, utf8BOM)
		}
		field = strings.TrimSpace(field)
		if field == "" {
			return errors.Newf(errors.ErrInputFormat, "%s:1: header column %d has no name", s.name, i+1).
				WithDetail(errors.DetailSource, s.name).
				WithDetail(errors.DetailLine, 1)
		}
		if seen[field] {
			return errors.Newf(errors.ErrInputFormat, "%s:1: duplicate header %q", s.name, field).
				WithDetail(errors.DetailSource, s.name).
				WithDetail(errors.DetailLine, 1)
		}
		seen[field] = true
		header[i] = field
	}
	s.header = header
	return nil
}

// isBlankRow matches the single empty field csv yields for whitespace-only lines.
func isBlankRow(row []string) bool {
	return len(row) == 1 && strings.TrimSpace(row[0]) == ""
}

package records

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/arthur-debert/texmerge/pkg/errors"
)

// maxLineSize bounds one key=value line. Longer lines are skipped as
// malformed.
const maxLineSize = 1024 * 1024

// KeyValueSource reads one record per line of key=value pairs:
//
//	Name=Ada "Street address"="12 Analytical Row" Destination=out/ada
//
// Blank lines and lines starting with # are ignored.
type KeyValueSource struct {
	name   string
	reader *bufio.Reader
	line   int
}

// NewKeyValueSource returns a source over r.
func NewKeyValueSource(r io.Reader, name string) *KeyValueSource {
	return &KeyValueSource{name: name, reader: bufio.NewReaderSize(r, 64*1024)}
}

func (s *KeyValueSource) Name() string { return s.name }

func (s *KeyValueSource) Close() error { return nil }

func (s *KeyValueSource) Next() (Record, error) {
	for {
		raw, tooLong, err := s.readLine()
		if err == io.EOF {
			return Record{}, io.EOF
		}
		if err != nil {
			return Record{}, errors.Wrapf(err, errors.ErrInputOpen, "failed reading %s", s.name)
		}
		s.line++
		if tooLong {
			return Record{}, parseError(s.name, s.line, "line is longer than %d bytes", maxLineSize)
		}

		text := strings.TrimSpace(raw)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		values, err := ParsePairs(text)
		if err != nil {
			return Record{}, parseError(s.name, s.line, "%v", err)
		}
		return Record{Values: values, Source: s.name, Line: s.line}, nil
	}
}

// readLine returns the next line without its terminator. A line over
// maxLineSize is read to its end and discarded, with tooLong set, so the
// following lines stay readable.
func (s *KeyValueSource) readLine() (line string, tooLong bool, err error) {
	var (
		buf  []byte
		read bool
	)
	for {
		chunk, rerr := s.reader.ReadSlice('\n')
		if len(chunk) > 0 {
			read = true
		}
		if !tooLong {
			if len(buf)+len(chunk) > maxLineSize+1 {
				tooLong, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}

		switch {
		case rerr == bufio.ErrBufferFull:
			continue
		case rerr == io.EOF && read:
			// Last line without a trailing newline.
		case rerr != nil:
			return "", false, rerr
		}
		return strings.TrimRight(string(buf), "\r\n"), tooLong, nil
	}
}

// ParsePairs splits a line into key=value pairs. Double or single quotes
// group text containing spaces; the quotes themselves are dropped.
// Backslashes are literal, except \" and \\ inside double quotes, so TeX
// control sequences survive unquoted.
func ParsePairs(line string) (map[string]string, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(tokens))
	for _, tok := range tokens {
		if tok.eq < 0 {
			return nil, errors.Newf(errors.ErrInvalidInput, "%q is not a key=value pair", tok.text)
		}
		key := tok.text[:tok.eq]
		if strings.TrimSpace(key) == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, "%q has an empty key", tok.text)
		}
		values[key] = tok.text[tok.eq+1:]
	}
	return values, nil
}

type token struct {
	text string
	// eq is the byte offset of the first unquoted '=', or -1.
	eq int
}

func tokenize(line string) ([]token, error) {
	var (
		tokens  []token
		buf     strings.Builder
		inToken bool
		eq      = -1
		quote   rune
	)

	flush := func() {
		if inToken {
			tokens = append(tokens, token{text: buf.String(), eq: eq})
		}
		buf.Reset()
		inToken, eq = false, -1
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote == '"':
			if r == '\\' && i+1 < len(runes) && (runes[i+1] == '"' || runes[i+1] == '\\') {
				i++
				buf.WriteRune(runes[i])
			} else if r == '"' {
				quote = 0
			} else {
				buf.WriteRune(r)
			}
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				buf.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote, inToken = r, true
		case unicode.IsSpace(r):
			flush()
		default:
			if r == '=' && eq < 0 {
				eq = buf.Len()
			}
			buf.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, "unterminated %c quote", quote)
	}
	flush()
	return tokens, nil
}

// FromArgs builds the single record described by command-line tokens.
// The shell has already removed quoting, so each token splits on its first '='.
func FromArgs(args []string) (Source, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, errors.Newf(errors.ErrInvalidInput,
				"invalid substitution %q, use key=value", arg)
		}
		values[key] = value
	}
	return NewSliceSource("command line", []Record{{Values: values, Line: 1}}), nil
}

// SliceSource serves records already held in memory.
type SliceSource struct {
	name string
	recs []Record
	pos  int
}

// NewSliceSource returns a source over recs. Records without a Source
// name get name.
func NewSliceSource(name string, recs []Record) *SliceSource {
	for i := range recs {
		if recs[i].Source == "" {
			recs[i].Source = name
		}
		if recs[i].Line == 0 {
			recs[i].Line = i + 1
		}
	}
	return &SliceSource{name: name, recs: recs}
}

func (s *SliceSource) Name() string { return s.name }

func (s *SliceSource) Close() error { return nil }

func (s *SliceSource) Next() (Record, error) {
	if s.pos >= len(s.recs) {
		return Record{}, io.EOF
	}
	rec := s.recs[s.pos]
	s.pos++
	return rec, nil
}

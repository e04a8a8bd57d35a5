package records

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/texmerge/pkg/errors"
)

// collect drains src, returning the records and the skipped-entry errors.
// It stops at the first fatal error.
func collect(src Source) ([]Record, []error, error) {
	var (
		recs    []Record
		skipped []error
	)
	for {
		rec, err := src.Next()
		switch {
		case err == io.EOF:
			return recs, skipped, nil
		case errors.IsErrorCode(err, errors.ErrInputParse):
			skipped = append(skipped, err)
		case err != nil:
			return recs, skipped, err
		default:
			recs = append(recs, rec)
		}
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"people.csv", FormatCSV},
		{"PEOPLE.CSV", FormatCSV},
		{"people.tsv", FormatTSV},
		{"people.yaml", FormatYAML},
		{"people.yml", FormatYAML},
		{"people.toml", FormatTOML},
		{"people.txt", FormatKeyValue},
		{"-", FormatKeyValue},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatForPath(tt.path))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xlsx")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInputFormat))
}

func TestRegisterFormat(t *testing.T) {
	pipe := Format("psv")
	require.NoError(t, RegisterFormat(pipe, func(r io.Reader, name string) Source {
		return NewCSVSource(r, name, '|')
	}))

	f, err := ParseFormat("PSV")
	require.NoError(t, err)
	assert.Equal(t, pipe, f)
	assert.Contains(t, RegisteredFormats(), pipe)

	src, err := NewSource(strings.NewReader("Name|City\nAda|London\n"), "people.psv", pipe)
	require.NoError(t, err)
	rec, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "London", rec.Values["City"])

	err = RegisterFormat(FormatCSV, func(r io.Reader, name string) Source { return nil })
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

	_, err = NewSource(strings.NewReader(""), "x", Format("xlsx"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInputFormat))
}

func TestCSVSource(t *testing.T) {
	input := "\ufeffName, City ,Destination\nAda,London,ada\n\nLin,\"Paris, FR\",\nbroken,row\nGrace,Arlington,grace\n"
	src := NewCSVSource(strings.NewReader(input), "people.csv", ',')

	recs, skipped, err := collect(src)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "City", "Destination"}, src.Header())
	require.Len(t, recs, 3)
	assert.Equal(t, map[string]string{"Name": "Ada", "City": "London", "Destination": "ada"}, recs[0].Values)
	assert.Equal(t, 2, recs[0].Line)
	assert.Equal(t, "Paris, FR", recs[1].Values["City"])
	assert.Equal(t, "", recs[1].Values["Destination"])
	assert.Equal(t, 4, recs[1].Line)
	assert.Equal(t, "Grace", recs[2].Values["Name"])

	require.Len(t, skipped, 1)
	assert.True(t, errors.IsErrorCode(skipped[0], errors.ErrInputParse))
	assert.Equal(t, "people.csv", errors.GetDetailString(skipped[0], errors.DetailSource))
	line, ok := errors.GetDetailInt(skipped[0], errors.DetailLine)
	require.True(t, ok)
	assert.Equal(t, 5, line)
}

func TestCSVSourceTabs(t *testing.T) {
	src := NewCSVSource(strings.NewReader("Name\tTitle\nAda\t\\textbf{Countess}\n"), "people.tsv", '\t')

	recs, skipped, err := collect(src)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, recs, 1)
	assert.Equal(t, `\textbf{Countess}`, recs[0].Values["Title"])
}

func TestCSVSourceHeaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty_column_name", "Name,,City\nAda,x,y\n"},
		{"duplicate_column", "Name,Name\nAda,Lin\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewCSVSource(strings.NewReader(tt.input), "bad.csv", ',')
			_, err := src.Next()
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInputFormat))
			assert.True(t, errors.IsFatal(err))
		})
	}

	t.Run("empty_file", func(t *testing.T) {
		src := NewCSVSource(strings.NewReader(""), "empty.csv", ',')
		_, err := src.Next()
		assert.Equal(t, io.EOF, err)
	})
}

func TestParsePairs(t *testing.T) {
	tests := []struct {
		name string
		line string
		want map[string]string
	}{
		{
			name: "plain",
			line: "Name=Ada City=London",
			want: map[string]string{"Name": "Ada", "City": "London"},
		},
		{
			name: "quoted_key_and_value",
			line: `"key with space"="value with space" Name=Ada`,
			want: map[string]string{"key with space": "value with space", "Name": "Ada"},
		},
		{
			name: "single_quotes",
			line: `Title='The "Analytical" Engine'`,
			want: map[string]string{"Title": `The "Analytical" Engine`},
		},
		{
			name: "tex_backslashes_survive",
			line: `Title=\textbf{Countess} Sig="\emph{Ada}"`,
			want: map[string]string{"Title": `\textbf{Countess}`, "Sig": `\emph{Ada}`},
		},
		{
			name: "escaped_quote_in_double_quotes",
			line: `Quote="she said \"hi\""`,
			want: map[string]string{"Quote": `she said "hi"`},
		},
		{
			name: "value_with_equals",
			line: `Formula=a=b`,
			want: map[string]string{"Formula": "a=b"},
		},
		{
			name: "empty_value",
			line: `Destination= Name=""`,
			want: map[string]string{"Destination": "", "Name": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePairs(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePairsErrors(t *testing.T) {
	for _, line := range []string{
		`Name=Ada orphan`,
		`=value`,
		`Name="unterminated`,
		`Name='open`,
	} {
		t.Run(line, func(t *testing.T) {
			_, err := ParsePairs(line)
			assert.Error(t, err)
		})
	}
}

func TestKeyValueSourceSkipsMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		"# people to write to",
		"Name=Ada Destination=ada",
		"",
		`Name="broken`,
		"Name=Lin",
		"just words",
		`"Full name"="Grace Hopper"`,
	}, "\n")

	src := NewKeyValueSource(strings.NewReader(input), "people.txt")
	recs, skipped, err := collect(src)
	require.NoError(t, err)

	require.Len(t, recs, 3)
	assert.Equal(t, 2, recs[0].Line)
	assert.Equal(t, "Lin", recs[1].Values["Name"])
	assert.Equal(t, 5, recs[1].Line)
	assert.Equal(t, "Grace Hopper", recs[2].Values["Full name"])

	require.Len(t, skipped, 2)
	for i, wantLine := range []int{4, 6} {
		line, _ := errors.GetDetailInt(skipped[i], errors.DetailLine)
		assert.Equal(t, wantLine, line)
		assert.Contains(t, skipped[i].Error(), "people.txt:")
	}
}

func TestKeyValueSourceSkipsOverlongLine(t *testing.T) {
	input := "Name=Ada\r\nName=" + strings.Repeat("x", maxLineSize+10) + "\nName=Lin"

	src := NewKeyValueSource(strings.NewReader(input), "stdin")
	recs, skipped, err := collect(src)
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, "Ada", recs[0].Values["Name"])
	assert.Equal(t, "Lin", recs[1].Values["Name"])
	assert.Equal(t, 3, recs[1].Line)

	require.Len(t, skipped, 1)
	assert.False(t, errors.IsFatal(skipped[0]))
	line, _ := errors.GetDetailInt(skipped[0], errors.DetailLine)
	assert.Equal(t, 2, line)
}

func TestKeyValueSourceLineAtLimit(t *testing.T) {
	value := strings.Repeat("x", maxLineSize-len("Name="))
	src := NewKeyValueSource(strings.NewReader("Name="+value+"\n"), "stdin")

	rec, err := src.Next()
	require.NoError(t, err)
	assert.Len(t, rec.Values["Name"], len(value))

	_, err = src.Next()
	assert.Equal(t, io.EOF, err)
}

func TestFromArgs(t *testing.T) {
	src, err := FromArgs([]string{"Name=Ada", "key with space=value with space", "Empty="})
	require.NoError(t, err)

	recs, _, err := collect(src)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, map[string]string{"Name": "Ada", "key with space": "value with space", "Empty": ""}, recs[0].Values)
	assert.Equal(t, "command line", recs[0].Source)

	_, err = FromArgs([]string{"Name=Ada", "nonsense"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestYAMLSource(t *testing.T) {
	input := `Name: Ada
Destination: out/ada
Zip: 007
---
- Name: Lin
  Active: true
- Name: Grace
  Note: ~
---
- Name: Nested
  Tags: [a, b]
`
	src := NewYAMLSource(strings.NewReader(input), "people.yaml")
	recs, skipped, err := collect(src)
	require.NoError(t, err)

	require.Len(t, recs, 3)
	assert.Equal(t, map[string]string{"Name": "Ada", "Destination": "out/ada", "Zip": "007"}, recs[0].Values)
	assert.Equal(t, 1, recs[0].Line)
	assert.Equal(t, "true", recs[1].Values["Active"])
	assert.Equal(t, "", recs[2].Values["Note"])

	require.Len(t, skipped, 1)
	assert.Contains(t, skipped[0].Error(), `"Tags"`)
}

func TestYAMLSourceSyntaxErrorStops(t *testing.T) {
	src := NewYAMLSource(strings.NewReader("Name: Ada\n---\nName: [unclosed\n"), "bad.yaml")

	rec, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "Ada", rec.Values["Name"])

	_, err = src.Next()
	assert.True(t, errors.IsErrorCode(err, errors.ErrInputParse))

	_, err = src.Next()
	assert.Equal(t, io.EOF, err)
}

func TestTOMLSource(t *testing.T) {
	input := `
[[record]]
Name = "Ada"
Destination = "out/ada"
Year = 1843

[[record]]
Name = "Lin"
Ratio = 0.5
Active = false

[[record]]
Name = "Nested"
Tags = ["a"]
`
	src := NewTOMLSource(strings.NewReader(input), "people.toml")
	recs, skipped, err := collect(src)
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, map[string]string{"Name": "Ada", "Destination": "out/ada", "Year": "1843"}, recs[0].Values)
	assert.Equal(t, "0.5", recs[1].Values["Ratio"])
	assert.Equal(t, "false", recs[1].Values["Active"])
	assert.Equal(t, 2, recs[1].Line)
	require.Len(t, skipped, 1)
}

func TestTOMLSourceDecodeError(t *testing.T) {
	src := NewTOMLSource(strings.NewReader("[[record]\nName = 1\n"), "bad.toml")
	_, err := src.Next()
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name\nAda\nLin\n"), 0644))

	src, err := Open(path, FormatForPath(path))
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	assert.Equal(t, path, src.Name())
	recs, _, err := collect(src)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	_, err = Open(filepath.Join(dir, "missing.csv"), FormatCSV)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInputOpen))
}

func TestRecordHelpers(t *testing.T) {
	rec := Record{Values: map[string]string{"b": "2", "a": "1"}, Source: "x.csv", Line: 3}
	assert.Equal(t, []string{"a", "b"}, rec.Keys())
	assert.Equal(t, "x.csv:3", rec.Location())
	v, ok := rec.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

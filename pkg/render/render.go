package render

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/arthur-debert/texmerge/pkg/errors"
	"github.com/arthur-debert/texmerge/pkg/logging"
)

// DefaultDirKey is the implicit placeholder holding the template's directory.
const DefaultDirKey = "TemplateDir"

// Options tune how a template is loaded.
type Options struct {
	// DirKey names the implicit placeholder set to the template directory.
	// Empty means DefaultDirKey.
	DirKey string
	// BaseDir resolves a relative template path. Empty means the process
	// working directory.
	BaseDir string
}

// Template is a parsed TeX template, ready to render any number of records.
// It is safe for concurrent use: rendering never modifies it.
type Template struct {
	// Path is the absolute path of the template file.
	Path string
	// Dir is the directory containing the template.
	Dir string
	// Name is the file name, extension included.
	Name string

	dirKey string
	tmpl   *template.Template
}

var missingKeyPattern = regexp.MustCompile(`map has no entry for key ("(?:[^"\\]|\\.)*")`)

// Load reads and parses the template at path. A missing or unreadable file
// is reported as ErrTemplateNotFound and a malformed one as
// ErrTemplateSyntax, with the offending line when the parser gives one.
func Load(path string, opts Options) (*Template, error) {
	logger := logging.GetLogger("render")

	if !filepath.IsAbs(path) {
		if opts.BaseDir != "" {
			path = filepath.Join(opts.BaseDir, path)
		} else if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateNotFound, "template %s not found", path).
			WithDetail(errors.DetailPath, path)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.Newf(errors.ErrTemplateNotFound, "template %s is not a regular file", path).
			WithDetail(errors.DetailPath, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateNotFound, "cannot read template %s", path).
			WithDetail(errors.DetailPath, path)
	}

	t, err := Parse(filepath.Base(path), string(content), opts)
	if err != nil {
		if tmErr, ok := err.(*errors.TexmergeError); ok {
			tmErr.WithDetail(errors.DetailPath, path)
		}
		return nil, err
	}
	t.Path = path
	t.Dir = filepath.Dir(path)

	logger.Debug().
		Str("template", path).
		Int("bytes", len(content)).
		Msg("Template loaded")
	return t, nil
}

// Parse builds a template from source text. name is used in error messages.
// The resulting template has no directory, so the implicit directory
// placeholder is only set when the caller provides it.
func Parse(name, source string, opts Options) (*Template, error) {
	dirKey := opts.DirKey
	if dirKey == "" {
		dirKey = DefaultDirKey
	}

	tmpl, err := template.New(name).
		Delims(VarStart, ActionEnd).
		Option("missingkey=error").
		Funcs(funcMap()).
		Parse(translate(source))
	if err != nil {
		tmErr := errors.Wrapf(err, errors.ErrTemplateSyntax, "template %s is malformed", name).
			WithDetail(errors.DetailSource, name)
		if line, ok := errorLine(name, err); ok {
			tmErr.WithDetail(errors.DetailLine, line)
		}
		return nil, tmErr
	}

	return &Template{Name: name, dirKey: dirKey, tmpl: tmpl}, nil
}

// BaseName is the file name without its final extension.
func (t *Template) BaseName() string {
	return strings.TrimSuffix(t.Name, filepath.Ext(t.Name))
}

// Render substitutes values into the template. Values are inserted
// verbatim, without any TeX escaping. A placeholder absent from values
// fails with ErrUndefinedPlaceholder naming the key.
func (t *Template) Render(values map[string]string) ([]byte, error) {
	data := make(Data, len(values)+1)
	if t.Dir != "" {
		data[t.dirKey] = t.Dir
	}
	for k, v := range values {
		data[k] = v
	}

	var out strings.Builder
	if err := t.tmpl.Execute(&out, data); err != nil {
		return nil, t.execError(err)
	}
	return []byte(out.String()), nil
}

func (t *Template) execError(err error) error {
	var undefined *undefinedKeyError
	key := ""
	if stderrors.As(err, &undefined) {
		key = undefined.key
	} else if m := missingKeyPattern.FindStringSubmatch(err.Error()); m != nil {
		if k, uerr := strconv.Unquote(m[1]); uerr == nil {
			key = k
		}
	}

	var tmErr *errors.TexmergeError
	if key != "" {
		tmErr = errors.Newf(errors.ErrUndefinedPlaceholder, "placeholder %q is not defined", key).
			WithDetail(errors.DetailKey, key)
	} else {
		tmErr = errors.Wrapf(err, errors.ErrRender, "cannot render %s", t.Name)
	}
	tmErr.WithDetail(errors.DetailSource, t.Name)
	if line, ok := errorLine(t.Name, err); ok {
		tmErr.WithDetail(errors.DetailLine, line)
	}
	return tmErr
}

// errorLine extracts the template line from a text/template error, which
// is formatted as "template: NAME:LINE:..." for both parse and exec errors.
// An unclosed action is reported where it started, not at the end of the
// file. Translation keeps every line in place, so the numbers hold for the
// original source.
func errorLine(name string, err error) (int, bool) {
	quoted := regexp.QuoteMeta(name)
	for _, pattern := range []string{
		`started at ` + quoted + `:(\d+)`,
		`template: ` + quoted + `:(\d+)`,
	} {
		if m := regexp.MustCompile(pattern).FindStringSubmatch(err.Error()); m != nil {
			line, convErr := strconv.Atoi(m[1])
			return line, convErr == nil
		}
	}
	return 0, false
}

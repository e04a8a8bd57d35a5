package render

import (
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// undefinedKeyError is returned by field and index for an absent key. Its
// message matches the one text/template produces for a missing map key.
type undefinedKeyError struct {
	key string
}

func (e *undefinedKeyError) Error() string {
	return fmt.Sprintf("map has no entry for key %q", e.key)
}

// Data is what a template executes against: a record's values plus the
// implicit directory key.
type Data = map[string]string

// funcMap returns the template functions. Functions that read the record
// take it as their first argument, usually "." or "$" inside range.
func funcMap() template.FuncMap {
	return template.FuncMap{
		// field reads keys that are not valid identifiers, such as
		// "Full name".
		"field": lookup,
		"has": func(rec Data, key string) bool {
			_, ok := rec[key]
			return ok
		},
		// index replaces the builtin, which yields "" for an absent key.
		"index": strictIndex,
		"default": func(fallback, value string) string {
			if value == "" {
				return fallback
			}
			return value
		},
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"title": func(s string) string {
			return cases.Title(language.Und).String(s)
		},
		"trim":    strings.TrimSpace,
		"replace": func(old, new, s string) string { return strings.ReplaceAll(s, old, new) },
		"split":   func(sep, s string) []string { return strings.Split(s, sep) },
		"join":    func(sep string, parts []string) string { return strings.Join(parts, sep) },
		"escape":  Escape,
	}
}

func lookup(rec Data, key string) (string, error) {
	v, ok := rec[key]
	if !ok {
		return "", &undefinedKeyError{key: key}
	}
	return v, nil
}

// strictIndex indexes records by key and lists by position.
func strictIndex(item interface{}, keys ...interface{}) (interface{}, error) {
	for _, k := range keys {
		switch v := item.(type) {
		case Data:
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("cannot index a record with %T", k)
			}
			s, err := lookup(v, key)
			if err != nil {
				return nil, err
			}
			item = s
		case []string:
			i, ok := k.(int)
			if !ok {
				return nil, fmt.Errorf("cannot index a list with %T", k)
			}
			if i < 0 || i >= len(v) {
				return nil, fmt.Errorf("index %d out of range for %d items", i, len(v))
			}
			item = v[i]
		default:
			return nil, fmt.Errorf("cannot index %T", item)
		}
	}
	return item, nil
}

var texEscapes = map[rune]string{
	'\\': `\textbackslash{}`,
	'{':  `\{`,
	'}':  `\}`,
	'$':  `\$`,
	'&':  `\&`,
	'#':  `\#`,
	'^':  `\textasciicircum{}`,
	'_':  `\_`,
	'%':  `\%`,
	'~':  `\textasciitilde{}`,
}

// Escape makes s safe to typeset as literal text. Values are inserted
// verbatim unless a template pipes them through escape.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if rep, ok := texEscapes[r]; ok {
			b.WriteString(rep)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

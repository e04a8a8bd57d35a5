package render

import (
	"strings"
)

// Placeholder syntax. Every marker starts with a backslash or a percent
// sign followed by a character that has no meaning in ordinary TeX, so
// none of them collide with document markup.
const (
	VarStart         = `\VAR{`
	BlockStart       = `\BLOCK{`
	CommentStart     = `\#{`
	ActionEnd     = `}`
	LineStatement = `%-`
	LineComment   = `%#`
	goCommentOpen = `/*`
)

// translate rewrites template source into text/template source that uses
// \VAR{ and } as its only delimiters:
//
//	\BLOCK{x}      -> \VAR{x}, and the newline right after it is dropped
//	\#{x}          -> removed
//	%- x (a line)  -> \VAR{x}, the whole line is consumed
//	%# x (a line)  -> consumed
//
// Every dropped newline is kept inside a raw string of an action that
// prints nothing, so the output has exactly the lines of src and error
// positions need no mapping back.
func translate(src string) string {
	var out strings.Builder
	out.Grow(len(src) + len(src)/8)

	lineStart := true
	for i := 0; i < len(src); {
		if lineStart {
			if next, ok := translateLine(src, i, &out); ok {
				i = next
				continue
			}
		}

		switch {
		case strings.HasPrefix(src[i:], VarStart):
			end := actionEnd(src, i+len(VarStart))
			if end < 0 {
				out.WriteString(src[i:])
				return out.String()
			}
			out.WriteString(src[i : end+1])
			i = end + 1
			lineStart = false

		case strings.HasPrefix(src[i:], BlockStart):
			body := i + len(BlockStart)
			end := actionEnd(src, body)
			if end < 0 {
				out.WriteString(VarStart)
				out.WriteString(src[body:])
				return out.String()
			}
			out.WriteString(VarStart)
			out.WriteString(src[body : end+1])
			i = end + 1
			if i < len(src) && src[i] == '\n' {
				out.WriteString(keepLines(1))
				i++
				lineStart = true
			} else {
				lineStart = false
			}

		case strings.HasPrefix(src[i:], CommentStart):
			body := i + len(CommentStart)
			end := strings.Index(src[body:], ActionEnd)
			if end < 0 {
				// Left unclosed so the parser reports it at this line.
				out.WriteString(VarStart + goCommentOpen)
				out.WriteString(strings.Repeat("\n", strings.Count(src[body:], "\n")))
				return out.String()
			}
			out.WriteString(keepLines(strings.Count(src[body:body+end], "\n")))
			i = body + end + 1
			lineStart = false

		default:
			out.WriteByte(src[i])
			lineStart = src[i] == '\n'
			i++
		}
	}
	return out.String()
}

// translateLine handles line statements and line comments starting at a
// line beginning. It returns the offset just past the consumed line.
func translateLine(src string, start int, out *strings.Builder) (int, bool) {
	lineEnd := strings.IndexByte(src[start:], '\n')
	var line string
	next := len(src)
	if lineEnd >= 0 {
		line = src[start : start+lineEnd]
		next = start + lineEnd + 1
	} else {
		line = src[start:]
	}

	trimmed := strings.TrimLeft(line, " \t")
	switch {
	case strings.HasPrefix(trimmed, LineStatement):
		stmt := strings.TrimSpace(strings.TrimPrefix(trimmed, LineStatement))
		out.WriteString(VarStart + stmt + ActionEnd)
	case strings.HasPrefix(trimmed, LineComment):
	default:
		return start, false
	}

	if lineEnd >= 0 {
		out.WriteString(keepLines(1))
	}
	return next, true
}

// actionEnd finds the closing brace of an action body starting at from,
// skipping quoted strings, raw strings and character constants.
func actionEnd(src string, from int) int {
	for i := from; i < len(src); i++ {
		switch c := src[i]; c {
		case '}':
			return i
		case '"', '\'':
			for i++; i < len(src) && src[i] != c; i++ {
				if src[i] == '\\' {
					i++
				}
				if i < len(src) && src[i] == '\n' {
					return -1
				}
			}
		case '`':
			if j := strings.IndexByte(src[i+1:], '`'); j >= 0 {
				i += j + 1
			} else {
				return -1
			}
		case '\n':
			// Actions do not span lines outside comments and raw strings.
			return -1
		}
	}
	return -1
}

// keepLines returns an action holding n newlines that renders nothing, or
// "" when n is 0.
func keepLines(n int) string {
	if n == 0 {
		return ""
	}
	return VarStart + "$_ := `" + strings.Repeat("\n", n) + "`" + ActionEnd
}

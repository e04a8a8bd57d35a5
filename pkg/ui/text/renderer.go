// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/texmerge/pkg/batch"
	"github.com/arthur-debert/texmerge/pkg/errors"
	"github.com/arthur-debert/texmerge/pkg/output"
)

// DryRunBanner heads the summary of a run that compiled nothing.
const DryRunBanner = "DRY RUN: nothing was compiled or written"

// StyleFunc decorates s with the named style.
type StyleFunc func(name, s string) string

// Plain leaves text untouched.
func Plain(_, s string) string { return s }

// Renderer writes one line per record and a closing summary.
type Renderer struct {
	output io.Writer
	style  StyleFunc
	err    error
}

// New creates a new text renderer
func New(w io.Writer) *Renderer {
	return NewStyled(w, Plain)
}

// NewStyled creates a renderer whose markers, paths and notes pass
// through style.
func NewStyled(w io.Writer, style StyleFunc) *Renderer {
	return &Renderer{output: w, style: style}
}

// RecordDone prints the line for one outcome. Write errors are kept and
// returned by the next RenderSummary.
func (r *Renderer) RecordDone(o batch.Outcome) {
	var b strings.Builder
	switch {
	case o.Err != nil:
		fmt.Fprintf(&b, "%s ", r.style("Error", "✗"))
		if loc := where(o); loc != "" {
			fmt.Fprintf(&b, "%s ", r.style("Location", loc))
		}
		b.WriteString(errors.Describe(o.Err))
		if o.LogPath != "" {
			fmt.Fprintf(&b, "\n    %s", r.style("Muted", "log: "+o.LogPath))
		}
	case o.Planned:
		fmt.Fprintf(&b, "%s %s", r.style("Planned", "→"), r.style("FilePath", o.Destination))
	default:
		fmt.Fprintf(&b, "%s %s", r.style("Success", "✓"), r.style("FilePath", o.Destination))
		if o.Artifact != nil {
			fmt.Fprintf(&b, " %s", r.style("Size", "("+output.Size(o.Artifact.Size)+")"))
		}
	}
	if _, err := fmt.Fprintln(r.output, b.String()); err != nil && r.err == nil {
		r.err = err
	}
}

// RenderSummary prints the totals line.
func (r *Renderer) RenderSummary(result *batch.Result) error {
	if r.err != nil {
		return r.err
	}
	if result.DryRun {
		if _, err := fmt.Fprintln(r.output, r.style("DryRunBanner", DryRunBanner)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(r.output, r.style("Summary", Summary(result)))
	return err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "%s %s\n", r.style("Error", "Error:"), errors.Describe(err))
	return werr
}

// Summary describes a finished run in one line.
func Summary(result *batch.Result) string {
	if len(result.Outcomes) == 0 {
		return "No records found."
	}

	ok, failed := len(result.Succeeded()), len(result.Failed())
	verb := "placed"
	if result.DryRun {
		verb = "planned"
	}
	parts := []string{fmt.Sprintf("%d %s %s", ok, plural(ok, "document", "documents"), verb)}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	if size := result.TotalSize(); size > 0 {
		parts = append(parts, output.Size(size)+" total")
	}
	return strings.Join(parts, ", ") + "."
}

// where locates a failed outcome. Parse errors already carry their
// position in the message.
func where(o batch.Outcome) string {
	if o.Index < 0 {
		return ""
	}
	if o.Destination != "" {
		return o.Destination
	}
	if o.Source != "" && o.Line > 0 {
		return fmt.Sprintf("%s:%d", o.Source, o.Line)
	}
	return fmt.Sprintf("record %d", o.Index)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

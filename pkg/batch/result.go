package batch

import (
	"github.com/arthur-debert/texmerge/pkg/compiler"
)

// Outcome is what happened to one record, or to one malformed entry of
// the source.
type Outcome struct {
	// Index is the 0-based position among parsed records, or -1 for an
	// entry the source could not parse.
	Index int
	// Source and Line locate the record in its input.
	Source string
	Line   int
	// Destination is the final document path, once resolved.
	Destination string
	// Artifact describes the placed document on success.
	Artifact *compiler.Artifact
	// LogPath is where the compiler log was preserved after a failure.
	LogPath string
	// Planned marks a dry-run record that rendered cleanly.
	Planned bool
	Err     error
}

// OK reports whether the record was placed, or would be in a dry run.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Result collects every outcome of a run, in source order.
type Result struct {
	Outcomes []Outcome
	DryRun   bool
}

// Succeeded returns the outcomes without an error.
func (r *Result) Succeeded() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Failed returns the outcomes with an error.
func (r *Result) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// AllFailed reports whether there was at least one outcome and none succeeded.
func (r *Result) AllFailed() bool {
	return len(r.Outcomes) > 0 && len(r.Succeeded()) == 0
}

// TotalSize sums the sizes of the placed documents.
func (r *Result) TotalSize() int64 {
	var total int64
	for _, o := range r.Outcomes {
		if o.Artifact != nil {
			total += o.Artifact.Size
		}
	}
	return total
}

// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/texmerge/pkg/batch"
	"github.com/arthur-debert/texmerge/pkg/errors"
)

// Renderer provides JSON output for machine consumption. Records are
// buffered and written as one document with the summary.
type Renderer struct {
	encoder *json.Encoder
}

// Report is the JSON document written for a run.
type Report struct {
	DryRun    bool     `json:"dry_run"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	TotalSize int64    `json:"total_size"`
	Records   []Record `json:"records"`
}

// Record is one outcome in a Report.
type Record struct {
	Index       int    `json:"index"`
	Source      string `json:"source,omitempty"`
	Line        int    `json:"line,omitempty"`
	Destination string `json:"destination,omitempty"`
	Size        int64  `json:"size,omitempty"`
	LogPath     string `json:"log_path,omitempty"`
	Error       string `json:"error,omitempty"`
	Code        string `json:"code,omitempty"`
}

// New creates a new JSON renderer
func New(w io.Writer) *Renderer {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return &Renderer{encoder: encoder}
}

// RecordDone is a no-op; outcomes are written with the summary.
func (r *Renderer) RecordDone(batch.Outcome) {}

// RenderSummary writes the whole run as one JSON document.
func (r *Renderer) RenderSummary(result *batch.Result) error {
	return r.encoder.Encode(NewReport(result))
}

// RenderError renders an error as JSON
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(map[string]string{
		"error": errors.Describe(err),
		"code":  string(errors.GetErrorCode(err)),
	})
}

// NewReport converts a batch result into its JSON form.
func NewReport(result *batch.Result) Report {
	report := Report{
		DryRun:    result.DryRun,
		Succeeded: len(result.Succeeded()),
		Failed:    len(result.Failed()),
		TotalSize: result.TotalSize(),
		Records:   make([]Record, 0, len(result.Outcomes)),
	}
	for _, o := range result.Outcomes {
		rec := Record{
			Index:       o.Index,
			Source:      o.Source,
			Line:        o.Line,
			Destination: o.Destination,
			LogPath:     o.LogPath,
		}
		if o.Artifact != nil {
			rec.Size = o.Artifact.Size
		}
		if o.Err != nil {
			rec.Error = errors.Describe(o.Err)
			rec.Code = string(errors.GetErrorCode(o.Err))
		}
		report.Records = append(report.Records, rec)
	}
	return report
}

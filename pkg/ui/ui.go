// Package ui reports batch progress and results in different formats.
// It supports terminal (rich), text (plain), and JSON output formats.
package ui

import (
	"io"
	"os"

	"github.com/arthur-debert/texmerge/pkg/batch"
	"github.com/arthur-debert/texmerge/pkg/errors"
	"github.com/arthur-debert/texmerge/pkg/ui/json"
	"github.com/arthur-debert/texmerge/pkg/ui/terminal"
	"github.com/arthur-debert/texmerge/pkg/ui/text"
)

// Renderer is the common interface for all output renderers. It receives
// outcomes while the batch runs and the summary once it ends.
type Renderer interface {
	batch.Reporter

	// RenderSummary renders the totals of a finished run
	RenderSummary(result *batch.Result) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return terminal.New(output), nil
	case FormatText:
		return text.New(output), nil
	case FormatJSON:
		return json.New(output), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}

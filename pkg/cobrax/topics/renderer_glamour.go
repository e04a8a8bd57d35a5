package topics

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

// DefaultWidth wraps rendered markdown when no width is configured.
const DefaultWidth = 80

// GlamourRenderer uses the glamour library for rich markdown rendering
type GlamourRenderer struct {
	// Style is "auto", a standard style name such as "dark", "light" or
	// "notty", or the path to a JSON style file.
	Style string
	// Width wraps output; 0 means DefaultWidth.
	Width int
}

// NewGlamourRenderer creates a markdown renderer using glamour with auto-detection
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: "auto"}
}

// NewPlainGlamourRenderer renders markdown without colors, for pipes and
// NO_COLOR.
func NewPlainGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: styles.NoTTYStyle}
}

func (r *GlamourRenderer) options() []glamour.TermRendererOption {
	width := r.Width
	if width <= 0 {
		width = DefaultWidth
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}

	switch _, standard := styles.DefaultStyles[r.Style]; {
	case r.Style == "" || r.Style == styles.AutoStyle:
		opts = append(opts, glamour.WithAutoStyle())
	case standard:
		opts = append(opts, glamour.WithStandardStyle(r.Style))
	default:
		opts = append(opts, glamour.WithStylePath(r.Style))
	}
	return opts
}

// Render converts markdown to terminal output. Other formats, and
// markdown glamour cannot handle, pass through unchanged.
func (r *GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}

	renderer, err := glamour.NewTermRenderer(r.options()...)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

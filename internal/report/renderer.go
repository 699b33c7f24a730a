// Package report renders executor.FileReport results in several output
// formats: one Renderer interface, one implementation per format,
// selected by a factory.
package report

import (
	"io"

	"github.com/temoc-ci/temoc/internal/executor"
)

// Renderer renders file reports and a final run summary.
type Renderer interface {
	RenderFile(report *executor.FileReport, showSnoozed bool)
	RenderSummary(reports []*executor.FileReport)
}

// NewRenderer builds a renderer for the given format, defaulting to the
// Lip Gloss styled TextRenderer for anything unrecognized.
func NewRenderer(format string, w io.Writer) Renderer {
	switch format {
	case "json":
		return &JSONRenderer{w: w}
	case "markdown":
		return &MarkdownRenderer{w: w}
	case "plain":
		return &PlainRenderer{w: w}
	default:
		return &TextRenderer{w: w}
	}
}

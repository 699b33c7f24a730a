package report

import (
	"fmt"
	"io"

	"github.com/temoc-ci/temoc/internal/executor"
)

// MarkdownRenderer produces a Markdown results table suitable for
// pasting into a ticket or CI summary.
type MarkdownRenderer struct {
	w io.Writer
}

func (r *MarkdownRenderer) RenderFile(report *executor.FileReport, showSnoozed bool) {
	fmt.Fprintf(r.w, "## %s\n\n", report.Path)

	if report.Err != nil {
		fmt.Fprintf(r.w, "**Aborted:** %v\n\n", report.Err)
		return
	}

	rows := visibleResults(report, showSnoozed)
	if len(rows) == 0 {
		fmt.Fprintf(r.w, "_(no assertions)_\n\n")
		return
	}

	fmt.Fprintf(r.w, "| Table | Row | Column | Outcome | Expected | Actual | Message |\n")
	fmt.Fprintf(r.w, "|---|---|---|---|---|---|---|\n")
	for _, row := range rows {
		fmt.Fprintf(r.w, "| %d | %d | %s | %s %s | %s | %s | %s |\n",
			row.Table, row.Row, row.Column, iconFor(row.Outcome), row.Outcome.String(), row.Expected, row.Actual, row.Message)
	}
	fmt.Fprintln(r.w)

	for _, w := range report.Warnings {
		fmt.Fprintf(r.w, "- **Warning:** %s\n", w)
	}
	if len(report.Warnings) > 0 {
		fmt.Fprintln(r.w)
	}
}

func (r *MarkdownRenderer) RenderSummary(reports []*executor.FileReport) {
	var passed, failed int
	for _, rep := range reports {
		if rep == nil || !rep.Passed() {
			failed++
		} else {
			passed++
		}
	}
	fmt.Fprintf(r.w, "**Summary:** %d passed, %d failed\n", passed, failed)
}

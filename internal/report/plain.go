package report

import (
	"fmt"
	"io"

	"github.com/temoc-ci/temoc/internal/executor"
)

// PlainRenderer produces unformatted text output safe for piping.
type PlainRenderer struct {
	w io.Writer
}

func (r *PlainRenderer) RenderFile(report *executor.FileReport, showSnoozed bool) {
	fmt.Fprintf(r.w, "=== %s ===\n", report.Path)

	if report.Err != nil {
		fmt.Fprintf(r.w, "ABORTED: %v\n\n", report.Err)
		return
	}

	for _, row := range visibleResults(report, showSnoozed) {
		switch row.Outcome {
		case executor.Pass:
			fmt.Fprintf(r.w, "PASS  [%d:%d] %s\n", row.Table, row.Row, row.Column)
		case executor.Fail:
			fmt.Fprintf(r.w, "FAIL  [%d:%d] %s expected=%q actual=%q\n", row.Table, row.Row, row.Column, row.Expected, row.Actual)
		case executor.Exception:
			fmt.Fprintf(r.w, "ERROR [%d:%d] %s %s\n", row.Table, row.Row, row.Column, row.Message)
		case executor.Snoozed:
			fmt.Fprintf(r.w, "SKIP  [%d:%d] %s snoozed\n", row.Table, row.Row, row.Column)
		case executor.Ignored:
			fmt.Fprintf(r.w, "IGNORE[%d:%d] %s\n", row.Table, row.Row, row.Column)
		}
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(r.w, "WARNING: %s\n", w)
	}
	fmt.Fprintln(r.w)
}

func (r *PlainRenderer) RenderSummary(reports []*executor.FileReport) {
	var passed, failed int
	for _, rep := range reports {
		if rep == nil || !rep.Passed() {
			failed++
		} else {
			passed++
		}
	}
	fmt.Fprintf(r.w, "%d file(s) passed, %d file(s) failed\n", passed, failed)
}

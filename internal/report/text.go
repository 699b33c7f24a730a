package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/temoc-ci/temoc/internal/executor"
)

// TextRenderer produces Lip Gloss styled terminal output.
type TextRenderer struct {
	w io.Writer
}

func (r *TextRenderer) RenderFile(report *executor.FileReport, showSnoozed bool) {
	fmt.Fprintln(r.w)

	if report.Err != nil {
		box := FailBoxStyle.Render(TitleStyle.Render(report.Path) + "\n" + FailText.Render(IconFail+" aborted") + ": " + report.Err.Error())
		fmt.Fprintln(r.w, box)
		return
	}

	rows := visibleResults(report, showSnoozed)
	var lines []string
	for _, row := range rows {
		lines = append(lines, r.renderRow(row))
	}
	if len(lines) == 0 {
		lines = append(lines, MutedText.Render("(no assertions)"))
	}

	style := PassBoxStyle
	if !report.Passed() {
		style = FailBoxStyle
	}
	box := style.Width(70).Render(TitleStyle.Render(report.Path) + "\n" + strings.Join(lines, "\n"))
	fmt.Fprintln(r.w, box)

	for _, w := range report.Warnings {
		fmt.Fprintln(r.w, MutedText.Render("warning: "+w))
	}
}

func (r *TextRenderer) renderRow(row executor.RowResult) string {
	label := r.labelValue(row.Column, row.Table, row.Row)
	switch row.Outcome {
	case executor.Pass:
		return fmt.Sprintf("%s %s", PassText.Render(IconPass), label)
	case executor.Fail:
		return fmt.Sprintf("%s %s — expected %q, got %q", FailText.Render(IconFail), label, row.Expected, row.Actual)
	case executor.Exception:
		return fmt.Sprintf("%s %s — %s", ExceptionText.Render(IconException), label, row.Message)
	case executor.Snoozed:
		return fmt.Sprintf("%s %s — snoozed", SnoozedText.Render(IconSnoozed), label)
	default:
		return fmt.Sprintf("%s %s — ignored", MutedText.Render(IconIgnored), label)
	}
}

func (r *TextRenderer) labelValue(column string, table, row int) string {
	return LabelStyle.Render(fmt.Sprintf("[%d:%d]", table, row)) + " " + column
}

func (r *TextRenderer) RenderSummary(reports []*executor.FileReport) {
	var passed, failed int
	for _, rep := range reports {
		if rep == nil || !rep.Passed() {
			failed++
		} else {
			passed++
		}
	}

	style := PassBoxStyle
	if failed > 0 {
		style = FailBoxStyle
	}
	summary := fmt.Sprintf("%d file(s) passed, %d file(s) failed", passed, failed)
	box := style.Width(40).Render(TitleStyle.Render("Summary") + "\n" + summary)
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, box)
}

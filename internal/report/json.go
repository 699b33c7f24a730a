package report

import (
	"encoding/json"
	"io"

	"github.com/temoc-ci/temoc/internal/executor"
)

// JSONRenderer produces machine-readable JSON output: one indented JSON
// object per RenderFile call (one per file, matching the CLI's streaming
// OrderedCollector flush), then one for the summary.
type JSONRenderer struct {
	w io.Writer
}

type jsonRow struct {
	Table    int    `json:"table"`
	Row      int    `json:"row"`
	Column   string `json:"column"`
	Outcome  string `json:"outcome"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Message  string `json:"message,omitempty"`
}

type jsonFileReport struct {
	Path     string    `json:"path"`
	Passed   bool      `json:"passed"`
	Error    string    `json:"error,omitempty"`
	Results  []jsonRow `json:"results"`
	Warnings []string  `json:"warnings,omitempty"`
}

func (r *JSONRenderer) RenderFile(report *executor.FileReport, showSnoozed bool) {
	out := jsonFileReport{
		Path:     report.Path,
		Passed:   report.Passed(),
		Warnings: report.Warnings,
	}
	if report.Err != nil {
		out.Error = report.Err.Error()
	}
	for _, row := range visibleResults(report, showSnoozed) {
		out.Results = append(out.Results, jsonRow{
			Table: row.Table, Row: row.Row, Column: row.Column,
			Outcome: row.Outcome.String(), Expected: row.Expected, Actual: row.Actual, Message: row.Message,
		})
	}

	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

type jsonSummary struct {
	FilesPassed int `json:"files_passed"`
	FilesFailed int `json:"files_failed"`
}

func (r *JSONRenderer) RenderSummary(reports []*executor.FileReport) {
	var s jsonSummary
	for _, rep := range reports {
		if rep == nil || !rep.Passed() {
			s.FilesFailed++
		} else {
			s.FilesPassed++
		}
	}
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(s)
}

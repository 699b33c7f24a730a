package report

import (
	"sort"

	"github.com/temoc-ci/temoc/internal/executor"
)

// visibleResults returns report's rows sorted into stable (table, row,
// column) order, omitting Snoozed rows unless showSnoozed is set.
func visibleResults(report *executor.FileReport, showSnoozed bool) []executor.RowResult {
	out := make([]executor.RowResult, 0, len(report.Results))
	for _, row := range report.Results {
		if row.Outcome == executor.Snoozed && !showSnoozed {
			continue
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Table != b.Table {
			return a.Table < b.Table
		}
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Column < b.Column
	})
	return out
}

func iconFor(o executor.Outcome) string {
	switch o {
	case executor.Pass:
		return IconPass
	case executor.Fail:
		return IconFail
	case executor.Exception:
		return IconException
	case executor.Snoozed:
		return IconSnoozed
	default:
		return IconIgnored
	}
}

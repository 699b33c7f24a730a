package compile

import (
	"strconv"
	"strings"
	"time"

	"github.com/temoc-ci/temoc/internal/markdown"
	"github.com/temoc-ci/temoc/internal/symbols"
)

// Compile lowers a file's ordered block stream into a Program: import/make
// setup batches and per-row instruction batches, plus the Cells/Expected/
// Info maps the executor needs to turn Slim results back into row
// outcomes. fileBase seeds the instruction ID scheme; now is the wall
// clock used to resolve snooze modifiers (compared in UTC, date-only).
func Compile(fileBase string, blocks []markdown.Block, now time.Time) (*Program, []string, error) {
	prog := &Program{
		Cells:    make(map[string]CellRef),
		Expected: make(map[string]string),
	}
	var warnings []string

	var importArgs []string
	importEmitted := make(map[string]bool)
	tableIdx := 0

	for _, b := range blocks {
		switch b.Kind {
		case markdown.KindDirective:
			if b.Directive != nil && b.Directive.Kind == "import" && len(b.Directive.Args) > 0 {
				importArgs = append(importArgs, b.Directive.Args[0])
			}
		case markdown.KindTable:
			if b.Fixture == nil || b.Fixture.Kind != "decisionTable" || len(b.Fixture.Args) == 0 {
				continue
			}
			idx := tableIdx
			tableIdx++

			if snoozed(b.Fixture.SnoozeUntil, now) {
				compileSnoozedTable(prog, idx, b.Table)
				continue
			}

			spec := ParseFixtureSpec(b.Fixture.Args[0])
			cols := ClassifyColumns(b.Table.Headers)
			inst := "decisionTable_" + strconv.Itoa(idx)

			var setup []Instruction
			col := 0
			for _, ns := range importArgs {
				if importEmitted[ns] {
					continue
				}
				importEmitted[ns] = true
				setup = append(setup, Instruction{
					ID:   instID(fileBase, idx, -1, col),
					Kind: KindImport,
					Path: ns,
				})
				col++
			}
			setup = append(setup, Instruction{
				ID:       instID(fileBase, idx, -1, col),
				Kind:     KindMake,
				Instance: inst,
				Class:    spec.ClassName,
			})
			prog.Batches = append(prog.Batches, Batch{TableIndex: idx, RowIndex: -1, Instructions: setup})

			for rowIdx, row := range b.Table.Rows {
				batch := compileRow(fileBase, idx, rowIdx, inst, spec, cols, row, prog)
				prog.Batches = append(prog.Batches, Batch{TableIndex: idx, RowIndex: rowIdx, Instructions: batch})
			}
		}
	}

	return prog, warnings, nil
}

// snoozed reports whether a table's directive carries a future (UTC,
// date-only) snooze date.
func snoozed(until *time.Time, now time.Time) bool {
	if until == nil {
		return false
	}
	today := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC)
	cutoff := time.Date(until.UTC().Year(), until.UTC().Month(), until.UTC().Day(), 0, 0, 0, 0, time.UTC)
	return today.Before(cutoff)
}

// compileSnoozedTable records every assertion cell of a snoozed table as
// a RowSnoozed outcome without emitting any instructions for it; setter
// and comment cells produce no outcome.
func compileSnoozedTable(prog *Program, tableIdx int, tbl *markdown.Table) {
	if tbl == nil {
		return
	}
	cols := ClassifyColumns(tbl.Headers)
	for rowIdx := range tbl.Rows {
		for _, c := range cols {
			if c.Kind == ColComment || c.Kind == ColSetter {
				continue
			}
			prog.Info = append(prog.Info, RowInfo{
				TableIndex: tableIdx, RowIndex: rowIdx, Column: c.Header, Kind: RowSnoozed,
			})
		}
	}
}

// compileRow emits one row's instructions: setters (per-property or
// aggregated), an execute call, then assertions (plain or symbol-assigning).
// Setter/assertion argument strings are left as raw "$NAME" tokens;
// interpolation happens at send time in the executor, since assignment is
// lazy and a later row may reference a value this same file assigns.
func compileRow(fileBase string, tableIdx, rowIdx int, inst string, spec FixtureSpec, cols []Column, row []string, prog *Program) []Instruction {
	var out []Instruction
	col := 0
	next := func() string {
		id := instID(fileBase, tableIdx, rowIdx, col)
		col++
		return id
	}

	cellAt := func(c Column) string {
		if c.Index < len(row) {
			return row[c.Index]
		}
		return ""
	}

	if spec.Method != "" {
		var args []string
		for _, c := range cols {
			if c.Kind != ColSetter {
				continue
			}
			args = append(args, cellAt(c))
		}
		out = append(out, Instruction{ID: next(), Kind: KindCall, Instance: inst, Method: spec.Method, Args: args})
	} else {
		for _, c := range cols {
			if c.Kind != ColSetter {
				continue
			}
			out = append(out, Instruction{
				ID: next(), Kind: KindCall, Instance: inst,
				Method: "set" + capitalize(c.Property),
				Args:   []string{cellAt(c)},
			})
		}
	}

	out = append(out, Instruction{ID: next(), Kind: KindCall, Instance: inst, Method: "execute"})

	for _, c := range cols {
		switch c.Kind {
		case ColComment:
			prog.Info = append(prog.Info, RowInfo{TableIndex: tableIdx, RowIndex: rowIdx, Column: c.Header, Kind: RowIgnored})
		case ColAssertion:
			cell := strings.TrimSpace(cellAt(c))
			if name, ok := symbols.AssignmentTarget(cell); ok {
				id := next()
				out = append(out, Instruction{ID: id, Kind: KindCallAndAssign, Symbol: name, Instance: inst, Method: c.Property})
				prog.Cells[id] = CellRef{TableIndex: tableIdx, RowIndex: rowIdx, Column: c.Header, Kind: CellAssign, Symbol: name}
			} else {
				id := next()
				out = append(out, Instruction{ID: id, Kind: KindCall, Instance: inst, Method: c.Property})
				prog.Cells[id] = CellRef{TableIndex: tableIdx, RowIndex: rowIdx, Column: c.Header, Kind: CellAssertion}
				prog.Expected[id] = cell
			}
		}
	}

	return out
}

// Package markdown parses a Slim acceptance-test Markdown document into an
// ordered stream of prose, table, and directive blocks, using goldmark with
// the GFM table extension for CommonMark-correct table parsing.
package markdown

import "time"

// Kind tags a Block's variant.
type Kind int

const (
	KindProse Kind = iota
	KindTable
	KindDirective
)

func (k Kind) String() string {
	switch k {
	case KindProse:
		return "prose"
	case KindTable:
		return "table"
	case KindDirective:
		return "directive"
	default:
		return "unknown"
	}
}

// Table holds a decision table's raw header and row cell text, trimmed.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Directive is a recognized `[//]: # (...)` / `[//]: # "..."` comment.
type Directive struct {
	Kind        string // "import" or "decisionTable"; other kinds are dropped at parse time
	Args        []string
	SnoozeUntil *time.Time // non-nil when a "-- snooze until YYYY-MM-DD" modifier parsed
	Raw         string
	Line        int
}

// Block is one element of the ordered stream the parser produces.
type Block struct {
	Kind  Kind
	Line  int
	Prose string

	Table *Table

	// Directive is set for KindDirective blocks.
	Directive *Directive

	// Fixture is set on KindTable blocks once the attachment pass (see
	// Parse) has bound a preceding decisionTable directive to this table.
	// It is nil for a table with no pending directive (an orphan table,
	// which produces a DirectiveWarning and is otherwise ignored).
	Fixture *Directive
}

// Warning is a non-fatal diagnostic (an unknown directive kind, an orphan
// table, a directive superseded before a table consumed it, ...).
type Warning struct {
	Line int
	Msg  string
}

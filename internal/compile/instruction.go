// Package compile translates a markdown.Block stream into an ordered Slim
// instruction program, classifying decision-table columns, generating
// stable instruction IDs, and recording the cell/expected-value
// correlation the executor needs to turn results back into row outcomes.
package compile

import "github.com/temoc-ci/temoc/internal/slimcodec"

// InstrKind tags an Instruction's exact argument shape.
type InstrKind string

const (
	KindImport        InstrKind = "import"
	KindMake          InstrKind = "make"
	KindCall          InstrKind = "call"
	KindCallAndAssign InstrKind = "callAndAssign"
)

// Instruction is one Slim wire instruction. Only the fields relevant to
// Kind are populated; see ToValue for the exact tuple each kind sends.
type Instruction struct {
	ID       string
	Kind     InstrKind
	Path     string   // Import
	Instance string   // Make, Call, CallAndAssign
	Class    string   // Make
	Symbol   string   // CallAndAssign
	Method   string   // Call, CallAndAssign
	Args     []string // Make's constructor args; Call/CallAndAssign's method args
}

// ToValue renders the instruction as its Slim wire list.
func (in Instruction) ToValue() slimcodec.Value {
	switch in.Kind {
	case KindImport:
		return slimcodec.List(slimcodec.Atom(in.ID), slimcodec.Atom(string(in.Kind)), slimcodec.Atom(in.Path))
	case KindMake:
		items := []slimcodec.Value{
			slimcodec.Atom(in.ID), slimcodec.Atom(string(in.Kind)),
			slimcodec.Atom(in.Instance), slimcodec.Atom(in.Class),
		}
		for _, a := range in.Args {
			items = append(items, slimcodec.Atom(a))
		}
		return slimcodec.List(items...)
	case KindCall:
		items := []slimcodec.Value{
			slimcodec.Atom(in.ID), slimcodec.Atom(string(in.Kind)),
			slimcodec.Atom(in.Instance), slimcodec.Atom(in.Method),
		}
		for _, a := range in.Args {
			items = append(items, slimcodec.Atom(a))
		}
		return slimcodec.List(items...)
	case KindCallAndAssign:
		items := []slimcodec.Value{
			slimcodec.Atom(in.ID), slimcodec.Atom(string(in.Kind)),
			slimcodec.Atom(in.Symbol), slimcodec.Atom(in.Instance), slimcodec.Atom(in.Method),
		}
		for _, a := range in.Args {
			items = append(items, slimcodec.Atom(a))
		}
		return slimcodec.List(items...)
	default:
		panic("compile: unknown instruction kind " + string(in.Kind))
	}
}

// CellKind tags what an assertion-producing instruction correlates to.
type CellKind string

const (
	CellAssertion CellKind = "assertion"
	CellAssign    CellKind = "assign"
)

// CellRef correlates an instruction ID back to its originating table cell.
type CellRef struct {
	TableIndex int
	RowIndex   int
	Column     string
	Kind       CellKind
	Symbol     string // set only when Kind == CellAssign
}

// Batch is a group of instructions sent together. RowIndex is -1 for a
// table's setup batch (imports + make).
type Batch struct {
	TableIndex   int
	RowIndex     int
	Instructions []Instruction
}

// RowInfoKind tags a RowInfo's variant.
type RowInfoKind string

const (
	RowIgnored RowInfoKind = "ignored"
	RowSnoozed RowInfoKind = "snoozed"
)

// RowInfo is a non-instruction-producing row outcome known at compile
// time: a comment-column cell (Ignored) or a snoozed assertion cell
// (Snoozed), neither of which round-trips through the Slim client.
type RowInfo struct {
	TableIndex int
	RowIndex   int
	Column     string
	Kind       RowInfoKind
}

// Program is the full compiled output for one file.
type Program struct {
	Batches  []Batch
	Cells    map[string]CellRef // instruction ID -> originating cell
	Expected map[string]string  // instruction ID -> raw expected literal (pre-interpolation)
	Info     []RowInfo
}

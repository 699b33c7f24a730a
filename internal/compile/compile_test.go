package compile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temoc-ci/temoc/internal/markdown"
)

func fixtureBlock(class string, headers []string, rows [][]string, snooze *time.Time) []markdown.Block {
	return []markdown.Block{
		{
			Kind:  markdown.KindTable,
			Table: &markdown.Table{Headers: headers, Rows: rows},
			Fixture: &markdown.Directive{
				Kind:        "decisionTable",
				Args:        []string{class},
				SnoozeUntil: snooze,
			},
		},
	}
}

func instructionsOf(prog *Program, table, row int) []Instruction {
	for _, b := range prog.Batches {
		if b.TableIndex == table && b.RowIndex == row {
			return b.Instructions
		}
	}
	return nil
}

func TestCompile_SumSanity(t *testing.T) {
	blocks := fixtureBlock("CalculatorFixture",
		[]string{"a", "b", "sum?"},
		[][]string{{"1", "2", "3"}},
		nil,
	)
	prog, warnings, err := Compile("calc", blocks, time.Now())
	require.NoError(t, err)
	assert.Empty(t, warnings)

	setup := instructionsOf(prog, 0, -1)
	require.Len(t, setup, 1)
	assert.Equal(t, KindMake, setup[0].Kind)
	assert.Equal(t, "CalculatorFixture", setup[0].Class)
	inst := setup[0].Instance

	row := instructionsOf(prog, 0, 0)
	require.Len(t, row, 4)
	assert.Equal(t, KindCall, row[0].Kind)
	assert.Equal(t, "setA", row[0].Method)
	assert.Equal(t, []string{"1"}, row[0].Args)
	assert.Equal(t, "setB", row[1].Method)
	assert.Equal(t, []string{"2"}, row[1].Args)
	assert.Equal(t, "execute", row[2].Method)
	assert.Equal(t, "sum", row[3].Method)
	assert.Equal(t, inst, row[3].Instance)

	ref, ok := prog.Cells[row[3].ID]
	require.True(t, ok)
	assert.Equal(t, CellAssertion, ref.Kind)
	assert.Equal(t, "3", prog.Expected[row[3].ID])
}

func TestCompile_CommentaryColumnIgnored(t *testing.T) {
	blocks := fixtureBlock("CalculatorFixture",
		[]string{"a", "b", "# comment", "mul?"},
		[][]string{{"2", "3", "note", "6"}},
		nil,
	)
	prog, _, err := Compile("calc", blocks, time.Now())
	require.NoError(t, err)

	row := instructionsOf(prog, 0, 0)
	var methods []string
	for _, in := range row {
		methods = append(methods, in.Method)
	}
	assert.Equal(t, []string{"setA", "setB", "execute", "mul"}, methods)

	var sawComment bool
	for _, ri := range prog.Info {
		if ri.Kind == RowIgnored && ri.Column == "# comment" {
			sawComment = true
		}
	}
	assert.True(t, sawComment)
}

func TestCompile_AggregatedMethod(t *testing.T) {
	blocks := fixtureBlock("CalculatorFixture#log",
		[]string{"a", "b", "a log b?", "b log a?"},
		[][]string{{"1", "2", "x", "y"}},
		nil,
	)
	prog, _, err := Compile("calc", blocks, time.Now())
	require.NoError(t, err)

	row := instructionsOf(prog, 0, 0)
	require.Len(t, row, 4)
	assert.Equal(t, "log", row[0].Method)
	assert.Equal(t, []string{"1", "2"}, row[0].Args)
	assert.Equal(t, "execute", row[1].Method)
	assert.Equal(t, "aLogB", row[2].Method)
	assert.Equal(t, "bLogA", row[3].Method)
}

func TestCompile_SymbolAssignmentCell(t *testing.T) {
	blocks := fixtureBlock("CalculatorFixture",
		[]string{"a", "b", "sum?"},
		[][]string{{"1", "2", "$V="}},
		nil,
	)
	prog, _, err := Compile("calc", blocks, time.Now())
	require.NoError(t, err)

	row := instructionsOf(prog, 0, 0)
	last := row[len(row)-1]
	assert.Equal(t, KindCallAndAssign, last.Kind)
	assert.Equal(t, "V", last.Symbol)

	ref := prog.Cells[last.ID]
	assert.Equal(t, CellAssign, ref.Kind)
	assert.Equal(t, "V", ref.Symbol)
	_, hasExpected := prog.Expected[last.ID]
	assert.False(t, hasExpected)
}

func TestCompile_SymbolReferenceInSetterAndExpected(t *testing.T) {
	blocks := fixtureBlock("CalculatorFixture",
		[]string{"a", "b", "sum?"},
		[][]string{{"$V", "2", "$V"}},
		nil,
	)
	prog, _, err := Compile("calc", blocks, time.Now())
	require.NoError(t, err)

	row := instructionsOf(prog, 0, 0)
	// Raw "$V" tokens survive compilation unresolved; the executor
	// interpolates at send time so lazy same-file assignment is visible.
	assert.Equal(t, []string{"$V"}, row[0].Args)
	last := row[len(row)-1]
	assert.Equal(t, "$V", prog.Expected[last.ID])
}

func TestCompile_SnoozeFutureDateProducesNoInstructions(t *testing.T) {
	future := time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)
	blocks := fixtureBlock("CalculatorFixture",
		[]string{"a", "b", "sum?"},
		[][]string{{"1", "2", "3"}},
		&future,
	)
	prog, _, err := Compile("calc", blocks, time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Empty(t, prog.Batches)
	require.Len(t, prog.Info, 1)
	assert.Equal(t, RowSnoozed, prog.Info[0].Kind)
	assert.Equal(t, "sum?", prog.Info[0].Column)
}

func TestCompile_SnoozePastDateStillCompiles(t *testing.T) {
	past := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	blocks := fixtureBlock("CalculatorFixture",
		[]string{"a", "b", "sum?"},
		[][]string{{"1", "2", "3"}},
		&past,
	)
	prog, _, err := Compile("calc", blocks, time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.NotEmpty(t, prog.Batches)
	assert.Empty(t, prog.Info)
}

func TestCompile_ImportsAccumulateAndEmitOnce(t *testing.T) {
	blocks := []markdown.Block{
		{Kind: markdown.KindDirective, Directive: &markdown.Directive{Kind: "import", Args: []string{"Some.Namespace"}}},
	}
	blocks = append(blocks, fixtureBlock("CalculatorFixture", []string{"a", "b", "sum?"}, [][]string{{"1", "2", "3"}}, nil)...)
	blocks = append(blocks, fixtureBlock("CalculatorFixture", []string{"a", "b", "sum?"}, [][]string{{"4", "5", "9"}}, nil)...)

	prog, _, err := Compile("calc", blocks, time.Now())
	require.NoError(t, err)

	setup0 := instructionsOf(prog, 0, -1)
	require.Len(t, setup0, 2)
	assert.Equal(t, KindImport, setup0[0].Kind)
	assert.Equal(t, "Some.Namespace", setup0[0].Path)
	assert.Equal(t, KindMake, setup0[1].Kind)

	setup1 := instructionsOf(prog, 1, -1)
	require.Len(t, setup1, 1)
	assert.Equal(t, KindMake, setup1[0].Kind)
}

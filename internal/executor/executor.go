// Package executor drives one Markdown file end to end: parse it,
// compile its decision tables, run them against a spawned SUT over Slim,
// and assemble a structured per-row report.
package executor

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/temoc-ci/temoc/internal/compile"
	"github.com/temoc-ci/temoc/internal/markdown"
	"github.com/temoc-ci/temoc/internal/portpool"
	"github.com/temoc-ci/temoc/internal/slimclient"
	"github.com/temoc-ci/temoc/internal/symbols"
)

// RunConfig carries everything RunFile needs that is constant across the
// whole run (as opposed to per-file: path and port lease).
type RunConfig struct {
	ServerCommand  string
	ConnectTimeout time.Duration
	PipeOutput     bool
	Deadline       time.Duration // zero disables the per-file deadline
	Now            func() time.Time
	Log            zerolog.Logger
}

const disconnectedMsg = "SUT disconnected"
const cancelledMsg = "cancelled"

// RunFile drives one file end to end: parse, spawn+handshake on the
// leased port, iterate compiled batches, bye, and produce a FileReport.
// A session-level fault aborts only this file.
func RunFile(ctx context.Context, path string, lease portpool.Lease, cfg RunConfig) *FileReport {
	runID := uuid.New().String()
	log := cfg.Log.With().Str("run_id", runID).Str("file", path).Int("port", lease.Port).Logger()
	report := &FileReport{Path: path}

	if cfg.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Deadline)
		defer cancel()
	}

	source, err := os.ReadFile(path)
	if err != nil {
		report.Err = fmt.Errorf("reading %s: %w", path, err)
		return report
	}

	blocks, warnings, err := markdown.Parse(source)
	if err != nil {
		report.Err = fmt.Errorf("parsing %s: %w", path, err)
		return report
	}
	for _, w := range warnings {
		report.Warnings = append(report.Warnings, fmt.Sprintf("line %d: %s", w.Line, w.Msg))
	}

	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}
	prog, compileWarnings, err := compile.Compile(path, blocks, now())
	if err != nil {
		report.Err = fmt.Errorf("compiling %s: %w", path, err)
		return report
	}
	report.Warnings = append(report.Warnings, compileWarnings...)

	for _, ri := range prog.Info {
		if ri.Kind == compile.RowSnoozed {
			report.Results = append(report.Results, RowResult{Table: ri.TableIndex, Row: ri.RowIndex, Column: ri.Column, Outcome: Snoozed})
		} else {
			report.Results = append(report.Results, RowResult{Table: ri.TableIndex, Row: ri.RowIndex, Column: ri.Column, Outcome: Ignored})
		}
	}

	client, err := slimclient.Spawn(ctx, slimclient.Config{
		Command:        cfg.ServerCommand,
		Port:           lease.Port,
		ConnectTimeout: cfg.ConnectTimeout,
		PipeOutput:     cfg.PipeOutput,
		Log:            log,
	})
	if err != nil {
		report.Err = err
		return report
	}

	symtab := symbols.NewTable()
	resolved := make(map[string]bool, len(prog.Cells))
	var abortMsg string

	for _, batch := range prog.Batches {
		if abortMsg != "" {
			break
		}
		if ctx.Err() != nil {
			report.Err = ctx.Err()
			abortMsg = cancelledMsg
			break
		}

		instructions := interpolateBatch(batch.Instructions, symtab)
		results, err := client.SendBatch(instructions)
		if err != nil {
			log.Warn().Err(err).Msg("instruction batch failed; aborting file")
			report.Err = fmt.Errorf("file %s: %w", path, err)
			abortMsg = disconnectedMsg
			break
		}

		if batch.RowIndex < 0 {
			for _, in := range instructions {
				resolved[in.ID] = true
			}
			continue
		}

		for _, in := range instructions {
			resolved[in.ID] = true
			ref, ok := prog.Cells[in.ID]
			if !ok {
				continue
			}
			res := results[in.ID]
			report.Results = append(report.Results, resolveCell(ref, res, prog.Expected[in.ID], symtab))
		}
	}

	if abortMsg != "" {
		client.Kill()
		for id, ref := range prog.Cells {
			if resolved[id] {
				continue
			}
			report.Results = append(report.Results, RowResult{
				Table: ref.TableIndex, Row: ref.RowIndex, Column: ref.Column,
				Outcome: Exception, Message: abortMsg,
			})
		}
	} else {
		if err := client.Bye(); err != nil {
			log.Warn().Err(err).Msg("bye failed")
		}
	}

	return report
}

// interpolateBatch resolves every "$NAME" argument token against the
// current symbol table before the batch is sent.
func interpolateBatch(instructions []compile.Instruction, symtab *symbols.Table) []compile.Instruction {
	out := make([]compile.Instruction, len(instructions))
	for i, in := range instructions {
		if len(in.Args) == 0 {
			out[i] = in
			continue
		}
		args := make([]string, len(in.Args))
		for j, a := range in.Args {
			args[j] = symtab.Interpolate(a)
		}
		in.Args = args
		out[i] = in
	}
	return out
}

// resolveCell turns one assertion or assignment cell's result into its
// RowResult, applying the comparison rules for each Result kind and the
// lazy, send-time symbol resolution assignment cells feed into later rows.
func resolveCell(ref compile.CellRef, res slimclient.Result, expectedRaw string, symtab *symbols.Table) RowResult {
	row := RowResult{Table: ref.TableIndex, Row: ref.RowIndex, Column: ref.Column}

	if ref.Kind == compile.CellAssign {
		if res.Kind == slimclient.ResultException {
			row.Outcome = Exception
			row.Message = res.Value
			return row
		}
		symtab.Set(ref.Symbol, res.Value)
		row.Outcome = Pass
		row.Actual = res.Value
		return row
	}

	expected := symtab.Interpolate(expectedRaw)
	row.Expected = expected

	switch res.Kind {
	case slimclient.ResultException:
		row.Actual = res.Value
		if strings.HasPrefix(expected, "exception:") {
			want := strings.TrimSpace(strings.TrimPrefix(expected, "exception:"))
			if want == "" || want == strings.TrimSpace(res.Value) {
				row.Outcome = Pass
				return row
			}
		}
		row.Outcome = Exception
		row.Message = res.Value
	case slimclient.ResultNull:
		row.Actual = ""
		if strings.TrimSpace(expected) == "" || strings.TrimSpace(expected) == "null" {
			row.Outcome = Pass
		} else {
			row.Outcome = Fail
		}
	case slimclient.ResultOK:
		row.Actual = ""
		if strings.TrimSpace(expected) == "" {
			row.Outcome = Pass
		} else {
			row.Outcome = Fail
		}
	default: // ResultString
		row.Actual = res.Value
		if strings.TrimSpace(res.Value) == strings.TrimSpace(expected) {
			row.Outcome = Pass
		} else {
			row.Outcome = Fail
		}
	}
	return row
}

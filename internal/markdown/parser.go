package markdown

import (
	"bytes"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/yuin/goldmark/extension"
)

var gm = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Parse reads a Markdown document and produces its ordered block stream:
// prose, decision tables (each bound to its preceding decisionTable
// directive when one precedes it), and directives themselves. Table
// parsing is delegated to goldmark + the GFM table extension; directive
// comments are a FitNesse-specific micro-syntax goldmark has no notion of
// (its own link-reference-definition parsing silently swallows these
// lines, which is exactly the "invisible to a normal renderer" behavior
// directive comments use) so they are recognized with a dedicated line scan
// before the document is handed to goldmark.
func Parse(source []byte) ([]Block, []Warning, error) {
	directiveBlocks, masked := extractDirectives(source)

	doc := gm.Parser().Parse(gmtext.NewReader(masked))

	var proseTableBlocks []Block
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if n.Kind() == extast.KindTable {
			tbl := convertTable(n, masked)
			if tbl == nil || len(tbl.Headers) == 0 {
				continue
			}
			proseTableBlocks = append(proseTableBlocks, Block{
				Kind:  KindTable,
				Line:  lineOf(n, masked),
				Table: tbl,
			})
			continue
		}
		text := strings.TrimSpace(blockText(n, masked))
		if text == "" {
			continue
		}
		proseTableBlocks = append(proseTableBlocks, Block{
			Kind:  KindProse,
			Line:  lineOf(n, masked),
			Prose: text,
		})
	}

	all := append(append([]Block{}, directiveBlocks...), proseTableBlocks...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Line < all[j].Line })

	return attachDirectives(all)
}

// extractDirectives scans source line by line for directive comments,
// returning them as ordered Blocks and a copy of source with each
// directive line blanked out (preserving line numbers) so goldmark's own
// block parser doesn't have to reason about them.
func extractDirectives(source []byte) ([]Block, []byte) {
	lines := bytes.Split(source, []byte("\n"))
	masked := make([][]byte, len(lines))
	var blocks []Block

	for i, raw := range lines {
		lineNo := i + 1
		masked[i] = raw
		text, ok := matchDirectiveLine(string(raw))
		if !ok {
			continue
		}
		masked[i] = nil // blank the line so it renders as nothing to goldmark
		directive, warnings := parseDirectiveText(text, lineNo)
		if directive != nil {
			blocks = append(blocks, Block{Kind: KindDirective, Line: lineNo, Directive: directive})
		}
		for _, w := range warnings {
			// Surface parse-time warnings (unknown kind, bad snooze date)
			// as a directive-less marker block so attachDirectives can
			// forward them without re-deriving anything.
			blocks = append(blocks, Block{Kind: KindDirective, Line: lineNo, Directive: nil, Prose: w.Msg})
		}
	}

	return blocks, bytes.Join(masked, []byte("\n"))
}

// attachDirectives runs a small state machine: a pending
// decisionTable directive survives intervening prose, is consumed by the
// next table, or is discarded (with a warning) at EOF. import directives
// pass through unconsumed; parse-time warning markers are converted to
// Warnings and dropped from the stream.
func attachDirectives(blocks []Block) ([]Block, []Warning, error) {
	var out []Block
	var warnings []Warning
	var pending *Directive

	for _, b := range blocks {
		switch b.Kind {
		case KindDirective:
			if b.Directive == nil {
				warnings = append(warnings, Warning{Line: b.Line, Msg: b.Prose})
				continue
			}
			if b.Directive.Kind == "decisionTable" {
				if pending != nil {
					warnings = append(warnings, Warning{Line: pending.Line, Msg: "decisionTable directive superseded before a table followed it"})
				}
				pending = b.Directive
			}
			out = append(out, b)
		case KindProse:
			out = append(out, b) // prose never resets a pending directive
		case KindTable:
			if pending == nil {
				warnings = append(warnings, Warning{Line: b.Line, Msg: "table has no pending decisionTable directive; ignoring"})
				out = append(out, b)
				continue
			}
			b.Fixture = pending
			pending = nil
			out = append(out, b)
		}
	}

	if pending != nil {
		warnings = append(warnings, Warning{Line: pending.Line, Msg: "decisionTable directive at EOF with no following table"})
	}

	return out, warnings, nil
}

func convertTable(n ast.Node, source []byte) *Table {
	t := &Table{}
	child := n.FirstChild()
	if header, ok := child.(*extast.TableHeader); ok {
		for cell := header.FirstChild(); cell != nil; cell = cell.NextSibling() {
			t.Headers = append(t.Headers, strings.TrimSpace(inlineText(cell, source)))
		}
		child = header.NextSibling()
	}
	for ; child != nil; child = child.NextSibling() {
		row, ok := child.(*extast.TableRow)
		if !ok {
			continue
		}
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(inlineText(cell, source)))
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// inlineText flattens a node's inline descendants (text, emphasis, code
// spans, ...) into plain text.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if txt, ok := c.(*ast.Text); ok {
			b.Write(txt.Segment.Value(source))
			if txt.SoftLineBreak() || txt.HardLineBreak() {
				b.WriteByte(' ')
			}
			continue
		}
		b.WriteString(inlineText(c, source))
	}
	return b.String()
}

// blockText renders a non-table block node's source span as plain text,
// recursing into containers (lists, blockquotes) that hold no lines of
// their own.
func blockText(n ast.Node, source []byte) string {
	if hl, ok := n.(interface{ Lines() *gmtext.Segments }); ok {
		lines := hl.Lines()
		if lines.Len() > 0 {
			start := lines.At(0).Start
			stop := lines.At(lines.Len() - 1).Stop
			return string(source[start:stop])
		}
	}
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(blockText(c, source))
	}
	return b.String()
}

// lineOf resolves a node's 1-based starting line number in source.
func lineOf(n ast.Node, source []byte) int {
	if hl, ok := n.(interface{ Lines() *gmtext.Segments }); ok {
		lines := hl.Lines()
		if lines.Len() > 0 {
			return 1 + bytes.Count(source[:lines.At(0).Start], []byte("\n"))
		}
	}
	if n.FirstChild() != nil {
		return lineOf(n.FirstChild(), source)
	}
	return 0
}

package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/temoc-ci/temoc/internal/executor"
)

// =============================================================
// Test Fixtures
// =============================================================

func passingReport() *executor.FileReport {
	return &executor.FileReport{
		Path: "fixtures/sum.md",
		Results: []executor.RowResult{
			{Table: 0, Row: 1, Column: "sum?", Outcome: executor.Pass, Expected: "3", Actual: "3"},
		},
	}
}

func failingReport() *executor.FileReport {
	return &executor.FileReport{
		Path: "fixtures/sum.md",
		Results: []executor.RowResult{
			{Table: 0, Row: 1, Column: "sum?", Outcome: executor.Fail, Expected: "3", Actual: "4"},
			{Table: 0, Row: 2, Column: "divide?", Outcome: executor.Exception, Message: "divide by zero"},
		},
		Warnings: []string{"table 1 has no rows"},
	}
}

func snoozedReport() *executor.FileReport {
	return &executor.FileReport{
		Path: "fixtures/future.md",
		Results: []executor.RowResult{
			{Table: 0, Row: 1, Column: "a", Outcome: executor.Snoozed},
			{Table: 0, Row: 1, Column: "b?", Outcome: executor.Snoozed},
			{Table: 0, Row: 1, Column: "#note", Outcome: executor.Ignored},
		},
	}
}

func abortedReport() *executor.FileReport {
	return &executor.FileReport{
		Path: "fixtures/crash.md",
		Err:  errors.New("SUT disconnected"),
	}
}

// =============================================================
// NewRenderer Factory Tests
// =============================================================

func TestNewRenderer(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		format   string
		wantType string
	}{
		{"json", "*report.JSONRenderer"},
		{"markdown", "*report.MarkdownRenderer"},
		{"plain", "*report.PlainRenderer"},
		{"text", "*report.TextRenderer"},
		{"", "*report.TextRenderer"},        // default
		{"unknown", "*report.TextRenderer"}, // fallback
	}

	for _, tt := range tests {
		r := NewRenderer(tt.format, &buf)
		got := typeString(r)
		if got != tt.wantType {
			t.Errorf("NewRenderer(%q) type = %s, want %s", tt.format, got, tt.wantType)
		}
	}
}

func typeString(r Renderer) string {
	switch r.(type) {
	case *JSONRenderer:
		return "*report.JSONRenderer"
	case *MarkdownRenderer:
		return "*report.MarkdownRenderer"
	case *PlainRenderer:
		return "*report.PlainRenderer"
	case *TextRenderer:
		return "*report.TextRenderer"
	default:
		return "unknown"
	}
}

// =============================================================
// Plain Renderer Tests
// =============================================================

func TestPlainRenderer_RenderFile_Pass(t *testing.T) {
	var buf bytes.Buffer
	r := &PlainRenderer{w: &buf}
	r.RenderFile(passingReport(), false)
	out := buf.String()

	for _, e := range []string{"=== fixtures/sum.md ===", "PASS", "sum?"} {
		if !strings.Contains(out, e) {
			t.Errorf("plain output missing %q", e)
		}
	}
}

func TestPlainRenderer_RenderFile_FailAndException(t *testing.T) {
	var buf bytes.Buffer
	r := &PlainRenderer{w: &buf}
	r.RenderFile(failingReport(), false)
	out := buf.String()

	expects := []string{
		"FAIL",
		`expected="3"`,
		`actual="4"`,
		"ERROR",
		"divide by zero",
		"WARNING: table 1 has no rows",
	}
	for _, e := range expects {
		if !strings.Contains(out, e) {
			t.Errorf("plain output missing %q", e)
		}
	}
}

func TestPlainRenderer_RenderFile_SnoozedHiddenByDefault(t *testing.T) {
	var buf bytes.Buffer
	r := &PlainRenderer{w: &buf}
	r.RenderFile(snoozedReport(), false)
	out := buf.String()

	if strings.Contains(out, "SKIP") {
		t.Error("plain output should hide snoozed rows when showSnoozed is false")
	}
}

func TestPlainRenderer_RenderFile_SnoozedShownWhenRequested(t *testing.T) {
	var buf bytes.Buffer
	r := &PlainRenderer{w: &buf}
	r.RenderFile(snoozedReport(), true)
	out := buf.String()

	if !strings.Contains(out, "SKIP") {
		t.Error("plain output should show snoozed rows when showSnoozed is true")
	}
}

func TestPlainRenderer_RenderFile_Aborted(t *testing.T) {
	var buf bytes.Buffer
	r := &PlainRenderer{w: &buf}
	r.RenderFile(abortedReport(), false)
	out := buf.String()

	if !strings.Contains(out, "ABORTED: SUT disconnected") {
		t.Error("plain output missing ABORTED line")
	}
}

func TestPlainRenderer_RenderSummary(t *testing.T) {
	var buf bytes.Buffer
	r := &PlainRenderer{w: &buf}
	r.RenderSummary([]*executor.FileReport{passingReport(), failingReport()})
	out := buf.String()

	if !strings.Contains(out, "1 file(s) passed, 1 file(s) failed") {
		t.Errorf("plain summary wrong: %q", out)
	}
}

// =============================================================
// JSON Renderer Tests
// =============================================================

func TestJSONRenderer_RenderFile_Pass(t *testing.T) {
	var buf bytes.Buffer
	r := &JSONRenderer{w: &buf}
	r.RenderFile(passingReport(), false)

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out["path"] != "fixtures/sum.md" {
		t.Errorf("path = %v, want fixtures/sum.md", out["path"])
	}
	if out["passed"] != true {
		t.Errorf("passed = %v, want true", out["passed"])
	}
	results := out["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("results length = %d, want 1", len(results))
	}
}

func TestJSONRenderer_RenderFile_Failing(t *testing.T) {
	var buf bytes.Buffer
	r := &JSONRenderer{w: &buf}
	r.RenderFile(failingReport(), false)

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out["passed"] != false {
		t.Errorf("passed = %v, want false", out["passed"])
	}
	warnings := out["warnings"].([]any)
	if len(warnings) != 1 {
		t.Errorf("warnings length = %d, want 1", len(warnings))
	}
}

func TestJSONRenderer_RenderFile_Aborted(t *testing.T) {
	var buf bytes.Buffer
	r := &JSONRenderer{w: &buf}
	r.RenderFile(abortedReport(), false)

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out["error"] != "SUT disconnected" {
		t.Errorf("error = %v, want SUT disconnected", out["error"])
	}
	if out["passed"] != false {
		t.Errorf("passed = %v, want false for aborted file", out["passed"])
	}
}

func TestJSONRenderer_RenderFile_SnoozedOmittedUnlessRequested(t *testing.T) {
	var buf bytes.Buffer
	r := &JSONRenderer{w: &buf}
	r.RenderFile(snoozedReport(), false)

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	// only the #note (Ignored) row should remain
	results, _ := out["results"].([]any)
	if len(results) != 1 {
		t.Errorf("results length = %d, want 1 (snoozed rows hidden)", len(results))
	}
}

func TestJSONRenderer_RenderSummary(t *testing.T) {
	var buf bytes.Buffer
	r := &JSONRenderer{w: &buf}
	r.RenderSummary([]*executor.FileReport{passingReport(), failingReport()})

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out["files_passed"] != float64(1) {
		t.Errorf("files_passed = %v, want 1", out["files_passed"])
	}
	if out["files_failed"] != float64(1) {
		t.Errorf("files_failed = %v, want 1", out["files_failed"])
	}
}

func TestJSONRenderer_RenderFile_ValidJSON(t *testing.T) {
	reports := []*executor.FileReport{passingReport(), failingReport(), snoozedReport(), abortedReport()}
	for i, rep := range reports {
		var buf bytes.Buffer
		r := &JSONRenderer{w: &buf}
		r.RenderFile(rep, true)
		if !json.Valid(buf.Bytes()) {
			t.Errorf("report[%d] produced invalid JSON", i)
		}
	}
}

// =============================================================
// Markdown Renderer Tests
// =============================================================

func TestMarkdownRenderer_RenderFile_Pass(t *testing.T) {
	var buf bytes.Buffer
	r := &MarkdownRenderer{w: &buf}
	r.RenderFile(passingReport(), false)
	out := buf.String()

	expects := []string{
		"## fixtures/sum.md",
		"| Table | Row | Column | Outcome | Expected | Actual | Message |",
		"sum?",
	}
	for _, e := range expects {
		if !strings.Contains(out, e) {
			t.Errorf("markdown output missing %q", e)
		}
	}
}

func TestMarkdownRenderer_RenderFile_Aborted(t *testing.T) {
	var buf bytes.Buffer
	r := &MarkdownRenderer{w: &buf}
	r.RenderFile(abortedReport(), false)
	out := buf.String()

	if !strings.Contains(out, "**Aborted:** SUT disconnected") {
		t.Error("markdown output missing aborted line")
	}
}

func TestMarkdownRenderer_RenderFile_NoAssertions(t *testing.T) {
	var buf bytes.Buffer
	r := &MarkdownRenderer{w: &buf}
	r.RenderFile(&executor.FileReport{Path: "fixtures/empty.md"}, false)
	out := buf.String()

	if !strings.Contains(out, "_(no assertions)_") {
		t.Error("markdown output missing no-assertions placeholder")
	}
}

func TestMarkdownRenderer_RenderFile_Warnings(t *testing.T) {
	var buf bytes.Buffer
	r := &MarkdownRenderer{w: &buf}
	r.RenderFile(failingReport(), false)
	out := buf.String()

	if !strings.Contains(out, "- **Warning:** table 1 has no rows") {
		t.Error("markdown output missing warning bullet")
	}
}

func TestMarkdownRenderer_RenderSummary(t *testing.T) {
	var buf bytes.Buffer
	r := &MarkdownRenderer{w: &buf}
	r.RenderSummary([]*executor.FileReport{passingReport()})
	out := buf.String()

	if !strings.Contains(out, "**Summary:** 1 passed, 0 failed") {
		t.Errorf("markdown summary wrong: %q", out)
	}
}

// =============================================================
// Text Renderer Tests
// =============================================================

func TestTextRenderer_RenderFile_Pass(t *testing.T) {
	var buf bytes.Buffer
	r := &TextRenderer{w: &buf}
	r.RenderFile(passingReport(), false)
	out := buf.String()

	if !strings.Contains(out, "fixtures/sum.md") {
		t.Error("text output missing file path")
	}
	if !strings.Contains(out, "sum?") {
		t.Error("text output missing column name")
	}
}

func TestTextRenderer_RenderFile_Fail(t *testing.T) {
	var buf bytes.Buffer
	r := &TextRenderer{w: &buf}
	r.RenderFile(failingReport(), false)
	out := buf.String()

	expects := []string{"expected \"3\"", "got \"4\"", "divide by zero"}
	for _, e := range expects {
		if !strings.Contains(out, e) {
			t.Errorf("text output missing %q", e)
		}
	}
}

func TestTextRenderer_RenderFile_Aborted(t *testing.T) {
	var buf bytes.Buffer
	r := &TextRenderer{w: &buf}
	r.RenderFile(abortedReport(), false)
	out := buf.String()

	if !strings.Contains(out, "aborted") {
		t.Error("text output missing aborted marker")
	}
	if !strings.Contains(out, "SUT disconnected") {
		t.Error("text output missing abort error message")
	}
}

func TestTextRenderer_RenderFile_NoAssertions(t *testing.T) {
	var buf bytes.Buffer
	r := &TextRenderer{w: &buf}
	r.RenderFile(&executor.FileReport{Path: "fixtures/empty.md"}, false)
	out := buf.String()

	if !strings.Contains(out, "(no assertions)") {
		t.Error("text output missing no-assertions placeholder")
	}
}

func TestTextRenderer_RenderSummary(t *testing.T) {
	var buf bytes.Buffer
	r := &TextRenderer{w: &buf}
	r.RenderSummary([]*executor.FileReport{passingReport(), failingReport()})
	out := buf.String()

	if !strings.Contains(out, "Summary") {
		t.Error("text summary missing title")
	}
	if !strings.Contains(out, "1 file(s) passed, 1 file(s) failed") {
		t.Error("text summary missing counts")
	}
}

// =============================================================
// Shared helper tests
// =============================================================

func TestVisibleResults_SortsAndFiltersSnoozed(t *testing.T) {
	report := &executor.FileReport{
		Results: []executor.RowResult{
			{Table: 1, Row: 2, Column: "b", Outcome: executor.Pass},
			{Table: 0, Row: 5, Column: "z", Outcome: executor.Snoozed},
			{Table: 0, Row: 1, Column: "a", Outcome: executor.Pass},
		},
	}

	hidden := visibleResults(report, false)
	if len(hidden) != 2 {
		t.Fatalf("len = %d, want 2 with snoozed hidden", len(hidden))
	}
	if hidden[0].Table != 0 || hidden[0].Column != "a" {
		t.Errorf("first row = %+v, want table 0 column a", hidden[0])
	}
	if hidden[1].Table != 1 {
		t.Errorf("second row = %+v, want table 1", hidden[1])
	}

	shown := visibleResults(report, true)
	if len(shown) != 3 {
		t.Fatalf("len = %d, want 3 with snoozed shown", len(shown))
	}
}

func TestIconFor(t *testing.T) {
	tests := []struct {
		outcome executor.Outcome
		want    string
	}{
		{executor.Pass, IconPass},
		{executor.Fail, IconFail},
		{executor.Exception, IconException},
		{executor.Snoozed, IconSnoozed},
		{executor.Ignored, IconIgnored},
	}
	for _, tt := range tests {
		if got := iconFor(tt.outcome); got != tt.want {
			t.Errorf("iconFor(%v) = %q, want %q", tt.outcome, got, tt.want)
		}
	}
}

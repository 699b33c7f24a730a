package compile

import (
	"strconv"
	"strings"
)

// ColKind classifies a decision-table column.
type ColKind int

const (
	ColSetter ColKind = iota
	ColAssertion
	ColComment
)

// Column is a classified decision-table header.
type Column struct {
	Index    int
	Header   string
	Kind     ColKind
	Property string // derived property name; empty for ColComment
}

// ClassifyColumns partitions a table's headers into setter, assertion, and
// comment columns, deriving each non-comment column's property name.
func ClassifyColumns(headers []string) []Column {
	cols := make([]Column, len(headers))
	for i, h := range headers {
		trimmed := strings.TrimSpace(h)
		switch {
		case strings.HasPrefix(trimmed, "#"):
			cols[i] = Column{Index: i, Header: h, Kind: ColComment}
		case strings.HasSuffix(trimmed, "?"):
			prop := camelProperty(strings.TrimSuffix(trimmed, "?"))
			cols[i] = Column{Index: i, Header: h, Kind: ColAssertion, Property: prop}
		default:
			prop := camelProperty(stripSetPrefix(trimmed))
			cols[i] = Column{Index: i, Header: h, Kind: ColSetter, Property: prop}
		}
	}
	return cols
}

// stripSetPrefix removes a leading "set"/"Set" word from a setter header:
// "set foo" and "set Foo" both map to the property "foo".
func stripSetPrefix(s string) string {
	fields := strings.Fields(s)
	if len(fields) > 1 && strings.EqualFold(fields[0], "set") {
		return strings.Join(fields[1:], " ")
	}
	return s
}

// camelProperty joins a whitespace-separated header fragment into a
// camelCase property name: the first word lowercased, subsequent words
// capitalized. "a log b" -> "aLogB"; "foo" -> "foo"; "Foo" -> "foo".
func camelProperty(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		w = strings.ToLower(w)
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}
	return b.String()
}

// capitalize upper-cases a property's first rune, for building setter
// method names ("a" -> "setA").
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// FixtureSpec is a parsed `decisionTable <fixture-spec>` argument: a
// (possibly dotted-namespace-qualified) class name, and an optional
// aggregated method name from the `Name#method` form.
type FixtureSpec struct {
	ClassName string // verbatim, including any dotted namespace prefix
	Method    string // non-empty only in aggregated mode
}

// ParseFixtureSpec parses the single argument of a decisionTable
// directive, e.g. "CalculatorFixture", "CalculatorFixture#log", or
// "Some.Namespace.CalculatorFixture#log".
func ParseFixtureSpec(spec string) FixtureSpec {
	if idx := strings.IndexByte(spec, '#'); idx >= 0 {
		return FixtureSpec{ClassName: spec[:idx], Method: spec[idx+1:]}
	}
	return FixtureSpec{ClassName: spec}
}

// instID builds the stable instruction ID scheme: <file>_<table>_<row>_<col>.
// row is -1 for a table's setup batch (import/make). col is the
// instruction's position within its batch (setters, execute, assertions
// in emission order), not a table column index.
func instID(file string, table, row, col int) string {
	return file + "_" + strconv.Itoa(table) + "_" + strconv.Itoa(row) + "_" + strconv.Itoa(col)
}

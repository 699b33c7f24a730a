// Package symbols implements the per-file $NAME symbol table: lazy
// assignment from assertion results and full-token interpolation into
// outgoing instruction arguments.
package symbols

import (
	"regexp"
	"sync"
)

// referenceRE matches a cell value that is entirely a symbol reference:
// "$NAME" with nothing else around it. Partial-token substitution (a
// "$NAME" embedded inside a longer string) is deliberately not performed.
var referenceRE = regexp.MustCompile(`^\$([A-Za-z_][A-Za-z0-9_]*)$`)

// assignRE matches an assertion cell in assignment form: "$NAME=".
var assignRE = regexp.MustCompile(`^\$([A-Za-z_][A-Za-z0-9_]*)=$`)

// Table is a string-keyed symbol table scoped to one file's execution.
type Table struct {
	mu     sync.Mutex
	values map[string]string
}

// NewTable returns an empty symbol table.
func NewTable() *Table {
	return &Table{values: make(map[string]string)}
}

// Get returns the current value of name and whether it has been assigned.
func (t *Table) Get(name string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.values[name]
	return v, ok
}

// Set assigns a value to name, overwriting any previous value.
func (t *Table) Set(name, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.values[name] = value
}

// Interpolate replaces s with its stored value if s is a complete "$NAME"
// token and NAME has been assigned; an unknown symbol passes through as
// the literal "$NAME". Any other string is returned unchanged.
func (t *Table) Interpolate(s string) string {
	m := referenceRE.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	if v, ok := t.Get(m[1]); ok {
		return v
	}
	return s
}

// AssignmentTarget reports the symbol name to assign if s is of the form
// "$NAME=", and whether s matched that form at all.
func AssignmentTarget(s string) (name string, ok bool) {
	m := assignRE.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

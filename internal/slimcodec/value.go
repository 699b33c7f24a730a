// Package slimcodec implements the Slim wire format: a length-prefixed,
// list-nested frame codec. It performs no I/O; callers own the byte buffers.
package slimcodec

// Value is a Slim wire value: either an atom (a raw byte string) or an
// ordered list of Values. The zero Value is an empty atom.
type Value struct {
	atom   []byte
	list   []Value
	isList bool
}

// Atom wraps a string as a Slim atom.
func Atom(s string) Value {
	return Value{atom: []byte(s)}
}

// AtomBytes wraps raw bytes as a Slim atom, copying the input.
func AtomBytes(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{atom: cp}
}

// List builds a Slim list value from the given items, in order.
func List(items ...Value) Value {
	return Value{list: items, isList: true}
}

// IsList reports whether v is a list rather than an atom.
func (v Value) IsList() bool { return v.isList }

// String returns an atom's content as a string. It returns "" for lists.
func (v Value) String() string {
	if v.isList {
		return ""
	}
	return string(v.atom)
}

// Bytes returns an atom's raw content. It returns nil for lists.
func (v Value) Bytes() []byte { return v.atom }

// Items returns a list's elements in order. It returns nil for atoms.
func (v Value) Items() []Value { return v.list }

// Len returns the number of elements in a list, or 0 for an atom.
func (v Value) Len() int { return len(v.list) }

// At returns the i'th element of a list.
func (v Value) At(i int) Value { return v.list[i] }

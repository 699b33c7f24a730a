package slimclient

import "strings"

// ResultKind classifies a single decoded Slim result literal.
type ResultKind int

const (
	ResultOK ResultKind = iota
	ResultNull
	ResultString
	ResultException
)

const (
	voidLiteral      = "/__VOID__/"
	nullLiteral      = "null"
	exceptionPrefix  = "__EXCEPTION__:"
)

// Result is one instruction's decoded outcome.
type Result struct {
	Kind  ResultKind
	Value string // populated for ResultString and ResultException
}

// ParseResult maps a raw Slim result literal to its Result variant:
// "/__VOID__/" and "null" are their own kinds, strings beginning with
// "__EXCEPTION__:" map to Exception, everything else is a plain string.
func ParseResult(literal string) Result {
	switch {
	case literal == voidLiteral:
		return Result{Kind: ResultOK}
	case literal == nullLiteral:
		return Result{Kind: ResultNull}
	case strings.HasPrefix(literal, exceptionPrefix):
		return Result{Kind: ResultException, Value: strings.TrimPrefix(literal, exceptionPrefix)}
	default:
		return Result{Kind: ResultString, Value: literal}
	}
}

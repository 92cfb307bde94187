// Package parser holds the pieces that turn raw dump text into field
// tokens: the statement scanner that isolates VALUES tuples and the value
// tokenizer that decodes them. This parent package carries the error types
// both layers report.
package parser

import "fmt"

// MalformedTupleError reports a tuple that cannot be decoded: an
// unterminated quoted string, an escape with nothing after it, or stray
// characters where a delimiter was expected. A malformed tuple aborts the
// whole run - dumps are assumed well formed, so this usually means a
// corrupted or truncated download.
type MalformedTupleError struct {
	Offset int    // byte offset inside the tuple span (-1 if unknown)
	Reason string // human-readable explanation
	Span   string // the offending tuple span, possibly truncated
}

func (e *MalformedTupleError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("malformed tuple at offset %d: %s: %s", e.Offset, e.Reason, snippet(e.Span))
	}
	return fmt.Sprintf("malformed tuple: %s: %s", e.Reason, snippet(e.Span))
}

// snippet keeps error messages readable when a tuple holds a whole article title list
func snippet(span string) string {
	const max = 120
	if len(span) <= max {
		return span
	}
	return span[:max] + "..."
}

func NewMalformedTuple(offset int, reason, span string) *MalformedTupleError {
	return &MalformedTupleError{Offset: offset, Reason: reason, Span: span}
}

package data

import "fmt"

// Kind identifies which variant a FieldToken holds
type Kind int

const (
	KindString Kind = iota // quoted value, backslash escapes resolved
	KindNumber             // unquoted literal, preserved verbatim
	KindNull               // unquoted NULL
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// FieldToken is one decoded SQL value from a dump tuple.
// Text holds the decoded characters for KindString and the literal source
// text for KindNumber. Numeric literals are never parsed into int/float
// here: some numeric-looking dump fields are fixed-width hashes or
// bitfields that must round-trip exactly.
type FieldToken struct {
	Kind Kind
	Text string
}

func String(text string) FieldToken {
	return FieldToken{Kind: KindString, Text: text}
}

func Number(literal string) FieldToken {
	return FieldToken{Kind: KindNumber, Text: literal}
}

func Null() FieldToken {
	return FieldToken{Kind: KindNull}
}

// IsNull reports whether the token is the SQL NULL value
func (t FieldToken) IsNull() bool {
	return t.Kind == KindNull
}

// CellValue returns the decoded string form used for row filtering and CSV
// cells. NULL maps to the empty string; whether that empty value was NULL
// or an empty string is preserved separately by the CSV encoder.
func (t FieldToken) CellValue() string {
	if t.Kind == KindNull {
		return ""
	}
	return t.Text
}

func (t FieldToken) GoString() string {
	switch t.Kind {
	case KindNull:
		return "data.Null()"
	case KindNumber:
		return fmt.Sprintf("data.Number(%q)", t.Text)
	default:
		return fmt.Sprintf("data.String(%q)", t.Text)
	}
}

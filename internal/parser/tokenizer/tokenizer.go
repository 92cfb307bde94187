// Package tokenizer decodes the interior of one VALUES tuple into typed
// field tokens, resolving MySQL dump escaping as it goes.
//
// Dump escaping is backslash-only: \' \" \\ \n \r \t \0 \Z are resolved,
// any other backslash pair drops the backslash and keeps the character.
// A doubled single quote is NOT an escape in dump format - '' closes the
// string and whatever follows is a syntax error, never a merged value.
// Getting this wrong silently corrupts every page title containing an
// apostrophe, so the rule is enforced here and covered by tests.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/kwnlp/wpsql2csv/internal/domain/data"
	"github.com/kwnlp/wpsql2csv/internal/parser"
)

// Tokenize splits one tuple span (the text between a matching pair of
// unescaped parentheses, parens excluded) into its ordered field tokens.
// It is a pure function of the span: tuples parse independently, which
// keeps the door open for tuple-level parallelism later.
func Tokenize(span string) ([]data.FieldToken, error) {
	s := newScanner(span)

	s.skipSpaces()
	if s.ch == 0 {
		return nil, parser.NewMalformedTuple(0, "empty tuple", span)
	}

	var tokens []data.FieldToken
	for {
		tok, err := s.readField()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)

		s.skipSpaces()
		switch s.ch {
		case ',':
			s.readChar()
			s.skipSpaces()
		case 0:
			return tokens, nil
		default:
			return nil, parser.NewMalformedTuple(s.position,
				fmt.Sprintf("unexpected character %q after field", s.ch), span)
		}
	}
}

type scanner struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
}

func newScanner(input string) *scanner {
	s := &scanner{input: input}
	s.readChar()
	return s
}

func (s *scanner) readChar() {
	if s.readPosition >= len(s.input) {
		s.ch = 0
	} else {
		s.ch = s.input[s.readPosition]
	}
	s.position = s.readPosition
	s.readPosition += 1
}

func (s *scanner) skipSpaces() {
	for s.ch == ' ' || s.ch == '\t' {
		s.readChar()
	}
}

func (s *scanner) readField() (data.FieldToken, error) {
	if s.ch == '\'' {
		return s.readQuoted()
	}
	return s.readBare()
}

// readQuoted decodes a single-quoted string, resolving backslash escapes.
// The field ends at the first unescaped single quote.
func (s *scanner) readQuoted() (data.FieldToken, error) {
	var b strings.Builder
	s.readChar() // consume opening quote

	for {
		switch s.ch {
		case 0:
			return data.FieldToken{}, parser.NewMalformedTuple(s.position,
				"unterminated quoted string", s.input)
		case '\'':
			s.readChar() // consume closing quote
			return data.String(b.String()), nil
		case '\\':
			s.readChar()
			if s.ch == 0 {
				return data.FieldToken{}, parser.NewMalformedTuple(s.position,
					"escape pending at end of tuple", s.input)
			}
			b.WriteByte(unescape(s.ch))
			s.readChar()
		default:
			b.WriteByte(s.ch)
			s.readChar()
		}
	}
}

// readBare reads an unquoted run up to the next top-level comma. The run
// is kept verbatim (trailing whitespace trimmed) - this layer demarcates
// numeric literals but never parses them.
func (s *scanner) readBare() (data.FieldToken, error) {
	start := s.position
	for s.ch != ',' && s.ch != 0 {
		if s.ch == '\'' {
			return data.FieldToken{}, parser.NewMalformedTuple(s.position,
				"quote inside unquoted value", s.input)
		}
		s.readChar()
	}

	literal := strings.TrimRight(s.input[start:s.position], " \t")
	if literal == "" {
		return data.FieldToken{}, parser.NewMalformedTuple(start, "empty field", s.input)
	}
	if literal == "NULL" {
		return data.Null(), nil
	}
	return data.Number(literal), nil
}

// unescape resolves one character of a backslash escape sequence per the
// MySQL dump escaping table
func unescape(ch byte) byte {
	switch ch {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case '0':
		return 0
	case 'Z':
		return 26 // ASCII SUB
	default:
		// covers \' \" \\ and any other \<c>: drop the backslash
		return ch
	}
}

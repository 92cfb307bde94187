// Package scanner walks a decompressed dump stream and isolates the
// VALUES tuples of INSERT statements for one target table. It runs a
// lightweight version of the tokenizer's quote-tracking state machine
// purely to find tuple boundaries - a ')' inside a quoted page title must
// not terminate a tuple - and defers full decoding to the tokenizer.
//
// The scanner never buffers more than the current tuple, so memory stays
// bounded by the longest single row even when one statement carries
// thousands of tuples across gigabytes of input.
package scanner

import (
	"bufio"
	"fmt"
	"io"

	"github.com/kwnlp/wpsql2csv/internal/parser"
)

const statementPrefix = "INSERT INTO `"

// Scanner produces the ordered sequence of raw tuple spans for one table
type Scanner struct {
	r     *bufio.Reader
	table string

	buf      []byte // current tuple, reused between tuples
	inValues bool   // inside the VALUES list of a target-table statement

	statements   int64 // INSERT statements matched for the target table
	tuples       int64 // tuples handed out so far
	maxTupleSize int   // largest tuple seen, bytes
}

// New creates a Scanner over a decompressed dump stream bound to one
// target table. Statements for other tables are skipped entirely.
func New(r io.Reader, table string) *Scanner {
	return &Scanner{
		r:     bufio.NewReaderSize(r, 64*1024),
		table: table,
	}
}

// Next returns the interior of the next tuple (outer parentheses
// excluded). It returns io.EOF once the stream is exhausted. The returned
// span is only valid until the following Next call feeds the tokenizer,
// matching the one-tuple-in-flight memory model.
func (s *Scanner) Next() (string, error) {
	for {
		if !s.inValues {
			if err := s.findStatement(); err != nil {
				return "", err
			}
		}

		b, err := s.r.ReadByte()
		if err == io.EOF {
			return "", parser.NewMalformedTuple(-1,
				"unexpected end of input inside VALUES list", string(s.buf))
		}
		if err != nil {
			return "", err
		}

		switch b {
		case '(':
			return s.readTuple()
		case ',', ' ', '\t', '\n', '\r':
			// separators between tuples
		case ';':
			s.inValues = false
		default:
			return "", parser.NewMalformedTuple(-1,
				fmt.Sprintf("unexpected character %q in VALUES list", b), "")
		}
	}
}

// Statements returns how many INSERT statements for the target table have
// been entered so far
func (s *Scanner) Statements() int64 {
	return s.statements
}

// Tuples returns how many tuple spans have been produced so far
func (s *Scanner) Tuples() int64 {
	return s.tuples
}

// MaxTupleBytes returns the size of the largest tuple seen, which is also
// the scanner's peak buffer usage
func (s *Scanner) MaxTupleBytes() int {
	return s.maxTupleSize
}

// findStatement advances the stream to the VALUES list of the next INSERT
// statement for the target table. Non-INSERT lines (DDL, comments, blank
// lines) are skipped silently as normal dump structure; INSERTs for other
// tables are consumed with quote tracking so an embedded ';' cannot end
// them early. Returns io.EOF when the stream runs out.
func (s *Scanner) findStatement() error {
	for {
		matched, err := s.matchPrefix()
		if err != nil {
			return err
		}
		if !matched {
			continue
		}

		name, err := s.readTableName()
		if err != nil {
			return err
		}
		if name != s.table {
			if err := s.skipStatement(); err != nil {
				return err
			}
			continue
		}

		if err := s.scanToValues(); err != nil {
			return err
		}
		s.statements++
		s.inValues = true
		return nil
	}
}

// matchPrefix tries to match "INSERT INTO `" at the current line start.
// On mismatch it consumes the remainder of the line and reports false.
func (s *Scanner) matchPrefix() (bool, error) {
	for i := 0; i < len(statementPrefix); i++ {
		b, err := s.r.ReadByte()
		if err != nil {
			return false, err // io.EOF: clean end of stream between lines
		}
		if b != statementPrefix[i] {
			if b == '\n' {
				return false, nil
			}
			if err := s.skipLine(); err != nil {
				return false, err
			}
			return false, nil
		}
	}
	return true, nil
}

// readTableName reads the backquoted table name of an INSERT statement
func (s *Scanner) readTableName() (string, error) {
	var name []byte
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return "", io.ErrUnexpectedEOF
		}
		if b == '`' {
			return string(name), nil
		}
		if b == '\n' {
			return "", parser.NewMalformedTuple(-1, "unterminated table name in INSERT statement", string(name))
		}
		name = append(name, b)
	}
}

// scanToValues consumes up to and including the VALUES keyword, stepping
// over an optional parenthesized column list
func (s *Scanner) scanToValues() error {
	depth := 0
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return io.ErrUnexpectedEOF
		}
		switch b {
		case '(':
			depth++
		case ')':
			depth--
		case ';':
			if depth == 0 {
				return parser.NewMalformedTuple(-1, "INSERT statement without VALUES keyword", "")
			}
		case 'V':
			if depth != 0 {
				continue
			}
			rest, err := s.r.Peek(len("ALUES"))
			if err != nil {
				return io.ErrUnexpectedEOF
			}
			if string(rest) == "ALUES" {
				if _, err := s.r.Discard(len("ALUES")); err != nil {
					return err
				}
				return nil
			}
		}
	}
}

// readTuple collects bytes until the parenthesis that opened the tuple is
// balanced again, honoring quote and escape state throughout
func (s *Scanner) readTuple() (string, error) {
	s.buf = s.buf[:0]
	depth := 1
	inQuote := false
	escaped := false

	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return "", parser.NewMalformedTuple(len(s.buf),
				"unexpected end of input inside tuple", string(s.buf))
		}

		if escaped {
			escaped = false
			s.buf = append(s.buf, b)
			continue
		}

		if inQuote {
			switch b {
			case '\\':
				escaped = true
			case '\'':
				inQuote = false
			}
			s.buf = append(s.buf, b)
			continue
		}

		switch b {
		case '\'':
			inQuote = true
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				s.tuples++
				if len(s.buf) > s.maxTupleSize {
					s.maxTupleSize = len(s.buf)
				}
				return string(s.buf), nil
			}
		}
		s.buf = append(s.buf, b)
	}
}

// skipStatement consumes an INSERT statement for a non-target table up to
// its terminating semicolon, tracking quote state so string contents
// cannot end it early
func (s *Scanner) skipStatement() error {
	inQuote := false
	escaped := false
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return io.ErrUnexpectedEOF
		}
		if escaped {
			escaped = false
			continue
		}
		if inQuote {
			switch b {
			case '\\':
				escaped = true
			case '\'':
				inQuote = false
			}
			continue
		}
		switch b {
		case '\'':
			inQuote = true
		case ';':
			return nil
		}
	}
}

// skipLine consumes the remainder of the current line
func (s *Scanner) skipLine() error {
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return err
		}
		if b == '\n' {
			return nil
		}
	}
}

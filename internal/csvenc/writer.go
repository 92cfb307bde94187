// Package csvenc serializes filtered rows as RFC4180-style CSV.
//
// encoding/csv is deliberately not used here: the output must keep SQL
// NULL (a bare empty cell) distinguishable from an empty string (a quoted
// empty cell, "") and stdlib csv.Writer quotes neither. Everything else
// follows minimal quoting: a cell is wrapped in double quotes only when it
// contains a comma, double quote, CR or LF, with embedded quotes doubled.
// NULL never becomes the literal text "NULL", and strings that merely look
// missing ("NaN", "Null", "Na") are written exactly as-is.
package csvenc

import (
	"bufio"
	"io"
	"strings"

	"github.com/kwnlp/wpsql2csv/internal/domain/data"
)

// Writer writes header and rows incrementally as they are produced
type Writer struct {
	w *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader writes the column-name header line
func (w *Writer) WriteHeader(columns []string) error {
	for i, name := range columns {
		if i > 0 {
			if err := w.w.WriteByte(','); err != nil {
				return err
			}
		}
		if err := w.writeCell(name, false); err != nil {
			return err
		}
	}
	return w.w.WriteByte('\n')
}

// WriteRow writes one output record. Tokens arrive in output column order.
func (w *Writer) WriteRow(fields []data.FieldToken) error {
	for i, tok := range fields {
		if i > 0 {
			if err := w.w.WriteByte(','); err != nil {
				return err
			}
		}
		if tok.IsNull() {
			// NULL is a bare empty cell
			continue
		}
		// an empty string is quoted so it stays distinguishable from NULL
		forceQuote := tok.Kind == data.KindString && tok.Text == ""
		if err := w.writeCell(tok.CellValue(), forceQuote); err != nil {
			return err
		}
	}
	return w.w.WriteByte('\n')
}

// Flush writes any buffered output to the underlying writer
func (w *Writer) Flush() error {
	return w.w.Flush()
}

func (w *Writer) writeCell(cell string, forceQuote bool) error {
	if !forceQuote && !needsQuoting(cell) {
		_, err := w.w.WriteString(cell)
		return err
	}

	if err := w.w.WriteByte('"'); err != nil {
		return err
	}
	for i := 0; i < len(cell); i++ {
		if cell[i] == '"' {
			if err := w.w.WriteByte('"'); err != nil {
				return err
			}
		}
		if err := w.w.WriteByte(cell[i]); err != nil {
			return err
		}
	}
	return w.w.WriteByte('"')
}

func needsQuoting(cell string) bool {
	return strings.ContainsAny(cell, ",\"\n\r")
}

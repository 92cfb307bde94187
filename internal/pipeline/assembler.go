package pipeline

import (
	"fmt"

	"github.com/kwnlp/wpsql2csv/internal/domain/data"
	"github.com/kwnlp/wpsql2csv/internal/domain/schema"
)

// SchemaMismatchError reports a tuple whose field count disagrees with
// the table schema. A silent column shift is worse than stopping, so this
// is fatal for the whole run: it means either a wrong schema or dump
// format drift.
type SchemaMismatchError struct {
	Table    string
	Expected int
	Got      int
	RowIndex int64  // 0-based row position across the run
	Span     string // raw tuple span for diagnosis
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch in table %q at row %d: decoded %d fields, schema has %d columns: %s",
		e.Table, e.RowIndex, e.Got, e.Expected, e.Span)
}

// bindRow binds a field token sequence to the schema positionally
func bindRow(ts *schema.TableSchema, tokens []data.FieldToken, rowIndex int64, span string) (data.Row, error) {
	if len(tokens) != ts.ColumnCount() {
		return data.Row{}, &SchemaMismatchError{
			Table:    ts.Table,
			Expected: ts.ColumnCount(),
			Got:      len(tokens),
			RowIndex: rowIndex,
			Span:     span,
		}
	}

	fields := make(map[string]data.FieldToken, len(tokens))
	for i, col := range ts.Columns {
		fields[col] = tokens[i]
	}
	return data.NewRow(rowIndex, fields), nil
}

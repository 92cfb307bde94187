package filter

import (
	"github.com/kwnlp/wpsql2csv/internal/domain/data"
	"github.com/kwnlp/wpsql2csv/internal/domain/schema"
)

// RowFilter is a validated Spec bound to one table schema
type RowFilter struct {
	schema   *schema.TableSchema
	retained []string // output columns, in schema order
	allow    map[string]map[string]struct{}
	block    map[string]map[string]struct{}
}

// New validates spec against the schema and builds the filter. All
// validation happens here, before any dump text is read.
func New(ts *schema.TableSchema, spec Spec) (*RowFilter, error) {
	if err := validate(ts, spec); err != nil {
		return nil, err
	}

	return &RowFilter{
		schema:   ts,
		retained: retainedColumns(ts, spec),
		allow:    buildSets(spec.Allowlists),
		block:    buildSets(spec.Blocklists),
	}, nil
}

// RetainedColumns returns the output columns in schema order. This is the
// CSV header.
func (f *RowFilter) RetainedColumns() []string {
	out := make([]string, len(f.retained))
	copy(out, f.retained)
	return out
}

// Keep evaluates the row predicates against the FULL row - predicates may
// reference columns that projection later drops. Every active per-column
// list must pass for the row to be kept.
func (f *RowFilter) Keep(row data.Row) bool {
	for column, allowed := range f.allow {
		tok, ok := row.Get(column)
		if !ok {
			return false
		}
		if _, member := allowed[tok.CellValue()]; !member {
			return false
		}
	}
	for column, blocked := range f.block {
		tok, ok := row.Get(column)
		if !ok {
			continue
		}
		if _, member := blocked[tok.CellValue()]; member {
			return false
		}
	}
	return true
}

// Project returns the row's tokens restricted to the retained columns, in
// output order. The result is consumed immediately by the CSV encoder and
// never persisted.
func (f *RowFilter) Project(row data.Row) []data.FieldToken {
	out := make([]data.FieldToken, len(f.retained))
	for i, column := range f.retained {
		out[i] = row.Data[column]
	}
	return out
}

// retainedColumns resolves keep/drop into an ordered output column list.
// A keep list is reordered into schema order; a drop list subtracts.
func retainedColumns(ts *schema.TableSchema, spec Spec) []string {
	if len(spec.KeepColumnNames) > 0 {
		keep := make(map[string]struct{}, len(spec.KeepColumnNames))
		for _, name := range spec.KeepColumnNames {
			keep[name] = struct{}{}
		}
		var out []string
		for _, col := range ts.Columns {
			if _, ok := keep[col]; ok {
				out = append(out, col)
			}
		}
		return out
	}

	if len(spec.DropColumnNames) > 0 {
		drop := make(map[string]struct{}, len(spec.DropColumnNames))
		for _, name := range spec.DropColumnNames {
			drop[name] = struct{}{}
		}
		var out []string
		for _, col := range ts.Columns {
			if _, ok := drop[col]; !ok {
				out = append(out, col)
			}
		}
		return out
	}

	return ts.ColumnNames()
}

func buildSets(lists map[string][]string) map[string]map[string]struct{} {
	sets := make(map[string]map[string]struct{}, len(lists))
	for column, values := range lists {
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		sets[column] = set
	}
	return sets
}

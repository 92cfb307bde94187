package schema

// TableSchema describes the positional layout of one supported dump table.
// It is immutable once built: the converter never mutates schemas, it only
// reads column order and arity from them.
type TableSchema struct {
	Table   string
	Columns []string
}

// ColumnCount returns the expected field arity for each tuple
func (s *TableSchema) ColumnCount() int {
	return len(s.Columns)
}

// HasColumn reports whether name is a column of this table
func (s *TableSchema) HasColumn(name string) bool {
	for _, col := range s.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// ColumnNames returns a copy of the ordered column list
func (s *TableSchema) ColumnNames() []string {
	out := make([]string, len(s.Columns))
	copy(out, s.Columns)
	return out
}

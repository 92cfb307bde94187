package data

// Row represents a single decoded table row
// Key = column name, Value = decoded field token
type Row struct {
	// Index is the 0-based position of the row across the whole run,
	// counted over every tuple matched for the target table. It is kept
	// on the row so parse failures can report exactly which row broke.
	Index int64
	Data  map[string]FieldToken
}

// NewRow creates a new Row with the given data
func NewRow(index int64, fields map[string]FieldToken) Row {
	return Row{
		Index: index,
		Data:  fields,
	}
}

// Get returns the token bound to a column name
func (r Row) Get(column string) (FieldToken, bool) {
	tok, ok := r.Data[column]
	return tok, ok
}

// Copy creates a deep copy of the row to prevent mutation
func (r Row) Copy() Row {
	fields := make(map[string]FieldToken, len(r.Data))
	for k, v := range r.Data {
		fields[k] = v
	}
	return Row{
		Index: r.Index,
		Data:  fields,
	}
}

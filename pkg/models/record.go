package models

// Record is one row of raw tabular input, column name to scalar cell.
type Record map[string]Value

// Get returns the cell for a column, Missing when the column is absent.
func (r Record) Get(column string) Value {
	if v, ok := r[column]; ok {
		return v
	}
	return Missing()
}

// Has reports whether the column exists in the record, Missing cells
// included.
func (r Record) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CloneBatch copies every record in the batch, preserving order.
func CloneBatch(batch []Record) []Record {
	out := make([]Record, len(batch))
	for i, r := range batch {
		out[i] = r.Clone()
	}
	return out
}

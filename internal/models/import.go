package models

// ImportBatch is a set of rows bound for one table. Every row carries a
// value (possibly nil) for each of Columns.
type ImportBatch struct {
	Table   string
	Columns []string
	Rows    []map[string]interface{}
}

// Len returns the number of rows in the batch.
func (b *ImportBatch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Rows)
}

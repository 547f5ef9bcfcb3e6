// pkg/model/table.go
package model

// Row is one input record. Ordinal is its position in the source table,
// assigned once at ingestion and used as the row identity in reports.
type Row struct {
	Ordinal int
	Values  map[string]Value
}

// Get returns the value stored under column, or null when the row has none
func (r Row) Get(column string) Value {
	return r.Values[column]
}

// Table is an ordered set of rows over named columns
type Table struct {
	Columns []string // Column order as supplied by the source
	Rows    []Row
}

// NewTable creates an empty table with the given column order
func NewTable(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// AppendRow adds a row and assigns it the next ordinal.
// Columns not present in values read back as null.
func (t *Table) AppendRow(values map[string]Value) Row {
	row := Row{
		Ordinal: len(t.Rows),
		Values:  make(map[string]Value, len(values)),
	}
	for col, v := range values {
		row.Values[col] = v
	}
	t.Rows = append(t.Rows, row)
	return row
}

// HasColumn reports whether the table declares the column
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// FieldMapping maps a canonical field name to the source header supplying it
type FieldMapping map[string]string

package table

import "fmt"

// Cell is a single value in a table. A cell is either Missing or holds text.
type Cell struct {
	text    string
	present bool
}

// Missing returns the cell used for empty or absent values.
func Missing() Cell {
	return Cell{}
}

// Text returns a cell holding s verbatim.
func Text(s string) Cell {
	return Cell{text: s, present: true}
}

func (c Cell) IsMissing() bool {
	return !c.present
}

// Value returns the text and whether the cell is present.
func (c Cell) Value() (string, bool) {
	return c.text, c.present
}

// String renders the cell for output; missing cells render empty.
func (c Cell) String() string {
	return c.text
}

// Row holds one cell per column, aligned with the table's columns.
type Row []Cell

// With returns a copy of the row with cell i replaced.
func (r Row) With(i int, c Cell) Row {
	out := make(Row, len(r))
	copy(out, r)
	out[i] = c
	return out
}

// Strings renders the row for writing.
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.String()
	}
	return out
}

type Table struct {
	Columns []string
	Rows    []Row
}

// Index returns the position of the named column.
func (t *Table) Index(column string) (int, bool) {
	for i, name := range t.Columns {
		if name == column {
			return i, true
		}
	}
	return -1, false
}

// Require checks that the table is usable for splitting column: the column
// exists and there is at least one data row.
func (t *Table) Require(column string) (int, error) {
	idx, ok := t.Index(column)
	if !ok {
		return -1, fmt.Errorf("column %q not found in header %q", column, t.Columns)
	}
	if len(t.Rows) == 0 {
		return -1, fmt.Errorf("no data rows")
	}
	return idx, nil
}

// Get returns the cell of row i under the named column.
func (t *Table) Get(i int, column string) (Cell, bool) {
	idx, ok := t.Index(column)
	if !ok || i < 0 || i >= len(t.Rows) {
		return Missing(), false
	}
	return t.Rows[i][idx], true
}

package table

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnNotFound is returned when an operation names a column the table lacks.
	ErrColumnNotFound = errors.New("column not found")
	// ErrDuplicateColumn is returned when an operation would produce two columns with one name.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrShape is returned when row widths or column lengths do not line up.
	ErrShape = errors.New("shape mismatch")
)

// Table is an immutable, row-major table with uniquely named columns.
// Every operation returns a new Table; row slices may be shared between
// tables because no operation writes into them.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// New builds a table. Column names must be unique and every row must have
// exactly one value per column. Inputs are copied.
func New(columns []string, rows [][]Value) (*Table, error) {
	cols := make([]string, len(columns))
	copy(cols, columns)
	index, err := buildIndex(cols)
	if err != nil {
		return nil, err
	}

	out := make([][]Value, len(rows))
	for i, row := range rows {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrShape, i, len(row), len(cols))
		}
		r := make([]Value, len(row))
		copy(r, row)
		out[i] = r
	}
	return &Table{columns: cols, index: index, rows: out}, nil
}

// MustNew is like New but panics on error. Intended for fixtures.
func MustNew(columns []string, rows [][]Value) *Table {
	t, err := New(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Empty returns a table with the given columns and no rows.
func Empty(columns ...string) (*Table, error) {
	return New(columns, nil)
}

func buildIndex(cols []string) (map[string]int, error) {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		index[c] = i
	}
	return index, nil
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.rows) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.columns) }

// Has reports whether the table has a column with the given name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []Value {
	out := make([]Value, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// Value returns the cell at row i in the named column.
func (t *Table) Value(i int, name string) (Value, error) {
	j, ok := t.index[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return t.rows[i][j], nil
}

// Column returns a copy of the named column's values.
func (t *Table) Column(name string) ([]Value, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[j]
	}
	return out, nil
}

// Select projects the named columns in the given order. Row count and order are kept.
func (t *Table) Select(names ...string) (*Table, error) {
	idx := make([]int, len(names))
	for k, name := range names {
		j, ok := t.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
		}
		idx[k] = j
	}
	index, err := buildIndex(names)
	if err != nil {
		return nil, err
	}

	rows := make([][]Value, len(t.rows))
	for i, row := range t.rows {
		r := make([]Value, len(idx))
		for k, j := range idx {
			r[k] = row[j]
		}
		rows[i] = r
	}
	cols := make([]string, len(names))
	copy(cols, names)
	return &Table{columns: cols, index: index, rows: rows}, nil
}

// Drop removes the named columns.
func (t *Table) Drop(names ...string) (*Table, error) {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		if !t.Has(name) {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
		}
		drop[name] = true
	}
	keep := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if !drop[c] {
			keep = append(keep, c)
		}
	}
	return t.Select(keep...)
}

// Rename renames columns according to mapping (old -> new). Every key must
// exist and the result must still have unique names.
func (t *Table) Rename(mapping map[string]string) (*Table, error) {
	for old := range mapping {
		if !t.Has(old) {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, old)
		}
	}
	cols := make([]string, len(t.columns))
	for i, c := range t.columns {
		if n, ok := mapping[c]; ok {
			cols[i] = n
		} else {
			cols[i] = c
		}
	}
	index, err := buildIndex(cols)
	if err != nil {
		return nil, err
	}
	return &Table{columns: cols, index: index, rows: t.rows}, nil
}

// WithColumn appends a column. values must have one entry per row.
func (t *Table) WithColumn(name string, values []Value) (*Table, error) {
	if t.Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("%w: column %q has %d values, table has %d rows", ErrShape, name, len(values), len(t.rows))
	}

	cols := append(t.Columns(), name)
	index, err := buildIndex(cols)
	if err != nil {
		return nil, err
	}
	rows := make([][]Value, len(t.rows))
	for i, row := range t.rows {
		r := make([]Value, len(row), len(row)+1)
		copy(r, row)
		rows[i] = append(r, values[i])
	}
	return &Table{columns: cols, index: index, rows: rows}, nil
}

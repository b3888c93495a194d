package table

import (
	"fmt"
	"strings"
)

// Concat stacks tables vertically. All tables must have the same columns in the
// same order. Concat of nothing is an error because there are no columns to use.
func Concat(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: nothing to concatenate", ErrShape)
	}
	cols := tables[0].columns
	total := 0
	for i, t := range tables {
		if !sameColumns(cols, t.columns) {
			return nil, fmt.Errorf("%w: table %d has columns %v, want %v", ErrShape, i, t.columns, cols)
		}
		total += len(t.rows)
	}

	rows := make([][]Value, 0, total)
	for _, t := range tables {
		rows = append(rows, t.rows...)
	}
	return &Table{columns: tables[0].Columns(), index: tables[0].index, rows: rows}, nil
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Distinct drops rows that repeat an earlier row across all columns, keeping
// the first occurrence.
func (t *Table) Distinct() *Table {
	seen := make(map[string]bool, len(t.rows))
	rows := make([][]Value, 0, len(t.rows))
	for _, row := range t.rows {
		k := rowKey(row)
		if seen[k] {
			continue
		}
		seen[k] = true
		rows = append(rows, row)
	}
	return &Table{columns: t.columns, index: t.index, rows: rows}
}

func rowKey(row []Value) string {
	var b strings.Builder
	for _, v := range row {
		k := v.key()
		fmt.Fprintf(&b, "%d:%s|", len(k), k)
	}
	return b.String()
}

// LeftJoin joins right onto t where t[on] equals right[on]. The result holds t's
// columns followed by right's columns other than on, each passed through rename.
//
// Every row of t is kept. A row with no match gets null right-hand values; a row
// matching k right rows is repeated k times, in right-hand order. Left row order
// is preserved.
func (t *Table) LeftJoin(right *Table, on string, rename func(string) string) (*Table, error) {
	lj, ok := t.index[on]
	if !ok {
		return nil, fmt.Errorf("%w: left side has no join column %q", ErrColumnNotFound, on)
	}
	rj, ok := right.index[on]
	if !ok {
		return nil, fmt.Errorf("%w: right side has no join column %q", ErrColumnNotFound, on)
	}
	if rename == nil {
		rename = func(s string) string { return s }
	}

	carry := make([]int, 0, len(right.columns)-1)
	cols := t.Columns()
	for j, c := range right.columns {
		if j == rj {
			continue
		}
		carry = append(carry, j)
		cols = append(cols, rename(c))
	}
	index, err := buildIndex(cols)
	if err != nil {
		return nil, err
	}

	matches := make(map[string][]int, len(right.rows))
	for i, row := range right.rows {
		k := row[rj].key()
		matches[k] = append(matches[k], i)
	}

	rows := make([][]Value, 0, len(t.rows))
	for _, left := range t.rows {
		hits := matches[left[lj].key()]
		if len(hits) == 0 {
			r := make([]Value, len(cols))
			copy(r, left)
			rows = append(rows, r)
			continue
		}
		for _, h := range hits {
			r := make([]Value, len(left), len(cols))
			copy(r, left)
			for _, j := range carry {
				r = append(r, right.rows[h][j])
			}
			rows = append(rows, r)
		}
	}
	return &Table{columns: cols, index: index, rows: rows}, nil
}

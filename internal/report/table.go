// Package report converts EnergyPlus run output, the HTML summary report
// and the per-run CSV time series, into structured in-memory tables.
package report

import (
	"errors"
	"fmt"
)

// Sentinel errors for table lookups.
var (
	ErrColumnNotFound = errors.New("column not found")
	ErrRowNotFound    = errors.New("row not found")
)

// Table is a tabular dataset: a header row plus data rows. Tables coming
// from the HTML report use their first column as a row index (the header
// of that column is frequently empty in EnergyPlus output); CSV time
// series are plain grids.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// Column returns all values of the named column, in row order.
func (t *Table) Column(name string) ([]string, error) {
	col := -1
	for i, c := range t.Columns {
		if c == name {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}

	values := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if col < len(row) {
			values = append(values, row[col])
		} else {
			values = append(values, "")
		}
	}
	return values, nil
}

// Row returns the first data row whose index cell (first column) equals
// index.
func (t *Table) Row(index string) ([]string, error) {
	for _, row := range t.Rows {
		if len(row) > 0 && row[0] == index {
			return row, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrRowNotFound, index)
}

// Value returns the cell at the given row index and column name.
func (t *Table) Value(index, column string) (string, error) {
	row, err := t.Row(index)
	if err != nil {
		return "", err
	}
	for i, c := range t.Columns {
		if c == column {
			if i < len(row) {
				return row[i], nil
			}
			return "", nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrColumnNotFound, column)
}

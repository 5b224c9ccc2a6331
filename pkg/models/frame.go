package models

import (
	"fmt"
	"math"
)

// FeatureFrame is a dense numeric table: ordered named columns over
// row-major float64 cells. Missing cells are NaN, never zero.
type FeatureFrame struct {
	columns []string
	index   map[string]int
	data    [][]float64
}

// NewFeatureFrame builds a rows×len(columns) frame with every cell set to
// the missing marker.
func NewFeatureFrame(columns []string, rows int) *FeatureFrame {
	f := &FeatureFrame{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		data:    make([][]float64, rows),
	}
	for i, c := range f.columns {
		f.index[c] = i
	}
	nan := math.NaN()
	for r := range f.data {
		row := make([]float64, len(f.columns))
		for c := range row {
			row[c] = nan
		}
		f.data[r] = row
	}
	return f
}

func (f *FeatureFrame) NumRows() int { return len(f.data) }
func (f *FeatureFrame) NumCols() int { return len(f.columns) }

// Empty reports whether the frame has no rows or no columns.
func (f *FeatureFrame) Empty() bool {
	return len(f.data) == 0 || len(f.columns) == 0
}

// Columns returns a copy of the ordered column names.
func (f *FeatureFrame) Columns() []string {
	return append([]string(nil), f.columns...)
}

func (f *FeatureFrame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

func (f *FeatureFrame) ColumnIndex(name string) (int, bool) {
	i, ok := f.index[name]
	return i, ok
}

func (f *FeatureFrame) At(row, col int) float64 {
	return f.data[row][col]
}

func (f *FeatureFrame) Set(row, col int, v float64) {
	f.data[row][col] = v
}

// IsMissing reports whether a cell holds the missing marker.
func (f *FeatureFrame) IsMissing(row, col int) bool {
	return math.IsNaN(f.data[row][col])
}

// Row returns a copy of one row's cells in column order.
func (f *FeatureFrame) Row(row int) []float64 {
	return append([]float64(nil), f.data[row]...)
}

// Column returns a copy of a named column's cells.
func (f *FeatureFrame) Column(name string) ([]float64, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(f.data))
	for r := range f.data {
		out[r] = f.data[r][i]
	}
	return out, true
}

// AppendColumn adds a named column at the end of the frame.
func (f *FeatureFrame) AppendColumn(name string, values []float64) error {
	if _, ok := f.index[name]; ok {
		return fmt.Errorf("column %q already exists", name)
	}
	if len(values) != len(f.data) {
		return fmt.Errorf("column %q has %d values, frame has %d rows", name, len(values), len(f.data))
	}
	f.index[name] = len(f.columns)
	f.columns = append(f.columns, name)
	for r := range f.data {
		f.data[r] = append(f.data[r], values[r])
	}
	return nil
}

// Select returns a new frame holding exactly the named columns in the
// given order. Every name must exist.
func (f *FeatureFrame) Select(names []string) (*FeatureFrame, error) {
	idx := make([]int, len(names))
	for i, n := range names {
		j, ok := f.index[n]
		if !ok {
			return nil, fmt.Errorf("column %q not present", n)
		}
		idx[i] = j
	}
	out := NewFeatureFrame(names, len(f.data))
	for r := range f.data {
		for i, j := range idx {
			out.data[r][i] = f.data[r][j]
		}
	}
	return out, nil
}

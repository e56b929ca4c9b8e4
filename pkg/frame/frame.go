// Package frame provides a small labelled matrix used for abundance and trait
// tables: rows are samples, columns are glycans or traits.
package frame

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Frame is a dense numeric matrix with row and column labels.
// Missing values are NaN.
type Frame struct {
	rows []string
	cols []string
	data *mat.Dense
}

// New wraps data with labels. The labels must match the dimensions and be unique.
func New(rows, cols []string, data *mat.Dense) (*Frame, error) {
	if len(rows) == 0 || len(cols) == 0 {
		return nil, fmt.Errorf("frame needs at least one row and one column (got %dx%d)", len(rows), len(cols))
	}
	r, c := data.Dims()
	if r != len(rows) || c != len(cols) {
		return nil, fmt.Errorf("labels %dx%d do not match data %dx%d", len(rows), len(cols), r, c)
	}
	if dup := firstDuplicate(rows); dup != "" {
		return nil, fmt.Errorf("duplicate row label %q", dup)
	}
	if dup := firstDuplicate(cols); dup != "" {
		return nil, fmt.Errorf("duplicate column label %q", dup)
	}
	return &Frame{
		rows: append([]string(nil), rows...),
		cols: append([]string(nil), cols...),
		data: data,
	}, nil
}

// FromRows builds a frame from row-major values
func FromRows(rows, cols []string, values [][]float64) (*Frame, error) {
	if len(values) != len(rows) {
		return nil, fmt.Errorf("got %d rows of values for %d row labels", len(values), len(rows))
	}
	if len(rows) == 0 || len(cols) == 0 {
		return nil, fmt.Errorf("frame needs at least one row and one column (got %dx%d)", len(rows), len(cols))
	}
	flat := make([]float64, 0, len(rows)*len(cols))
	for i, row := range values {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("row %s has %d values, want %d", rows[i], len(row), len(cols))
		}
		flat = append(flat, row...)
	}
	return New(rows, cols, mat.NewDense(len(rows), len(cols), flat))
}

// FromSeries builds a frame with one column per series. All series must share
// the same index, which becomes the row labels.
func FromSeries(series []Series) (*Frame, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no series")
	}
	rows := series[0].Index
	if len(rows) == 0 {
		return nil, fmt.Errorf("series %s is empty", series[0].Name)
	}
	cols := make([]string, len(series))
	data := mat.NewDense(len(rows), len(series), nil)
	for j, s := range series {
		if !equalLabels(s.Index, rows) {
			return nil, fmt.Errorf("series %s is not aligned with %s", s.Name, series[0].Name)
		}
		if len(s.Values) != len(rows) {
			return nil, fmt.Errorf("series %s has %d values, want %d", s.Name, len(s.Values), len(rows))
		}
		cols[j] = s.Name
		data.SetCol(j, s.Values)
	}
	return New(rows, cols, data)
}

func firstDuplicate(labels []string) string {
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if seen[l] {
			return l
		}
		seen[l] = true
	}
	return ""
}

func equalLabels(a, b []string) bool {
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

// Rows returns the row labels
func (f *Frame) Rows() []string { return f.rows }

// Cols returns the column labels
func (f *Frame) Cols() []string { return f.cols }

// Dims returns the number of rows and columns
func (f *Frame) Dims() (int, int) { return f.data.Dims() }

// At returns the value at row i, column j
func (f *Frame) At(i, j int) float64 { return f.data.At(i, j) }

// Matrix returns the underlying matrix. Callers must not modify it.
func (f *Frame) Matrix() *mat.Dense { return f.data }

// Row returns a copy of row i
func (f *Frame) Row(i int) []float64 {
	return mat.Row(nil, i, f.data)
}

// Col returns a copy of column j
func (f *Frame) Col(j int) []float64 {
	return mat.Col(nil, j, f.data)
}

// ColIndex returns the position of a column label
func (f *Frame) ColIndex(label string) (int, bool) {
	for j, c := range f.cols {
		if c == label {
			return j, true
		}
	}
	return 0, false
}

// SameCols reports whether labels equal the column labels, in order
func (f *Frame) SameCols(labels []string) bool {
	return equalLabels(f.cols, labels)
}

// SelectCols returns a new frame holding the named columns in the given order
func (f *Frame) SelectCols(labels []string) (*Frame, error) {
	r, _ := f.Dims()
	if len(labels) == 0 {
		return nil, fmt.Errorf("no columns selected")
	}
	data := mat.NewDense(r, len(labels), nil)
	for k, label := range labels {
		j, ok := f.ColIndex(label)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", label)
		}
		data.SetCol(k, f.Col(j))
	}
	return New(f.rows, labels, data)
}

// Apply returns a new frame with fn applied to every value
func (f *Frame) Apply(fn func(i, j int, v float64) float64) *Frame {
	r, c := f.Dims()
	data := mat.NewDense(r, c, nil)
	data.Apply(fn, f.data)
	return &Frame{rows: f.rows, cols: f.cols, data: data}
}

// HasNaN reports whether any value is missing
func (f *Frame) HasNaN() bool {
	r, c := f.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.IsNaN(f.data.At(i, j)) {
				return true
			}
		}
	}
	return false
}

// Series is one labelled column of values, such as a trait across samples
type Series struct {
	Name   string
	Index  []string
	Values []float64
}

// Series returns column j as a Series
func (f *Frame) Series(j int) Series {
	return Series{Name: f.cols[j], Index: f.rows, Values: f.Col(j)}
}

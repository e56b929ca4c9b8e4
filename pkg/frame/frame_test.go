package frame

import (
	"math"
	"testing"
)

func TestFromRows(t *testing.T) {
	f, err := FromRows([]string{"S1", "S2"}, []string{"G1", "G2", "G3"}, [][]float64{
		{1, 2, 3},
		{4, 5, 6},
	})
	if err != nil {
		t.Fatalf("FromRows() error = %v", err)
	}
	r, c := f.Dims()
	if r != 2 || c != 3 {
		t.Fatalf("Dims() = %d,%d, want 2,3", r, c)
	}
	if f.At(1, 2) != 6 {
		t.Errorf("At(1,2) = %v, want 6", f.At(1, 2))
	}
	if got := f.Col(1); got[0] != 2 || got[1] != 5 {
		t.Errorf("Col(1) = %v", got)
	}
}

func TestFromRows_Errors(t *testing.T) {
	tests := []struct {
		name   string
		rows   []string
		cols   []string
		values [][]float64
	}{
		{"ragged", []string{"S1"}, []string{"G1", "G2"}, [][]float64{{1}}},
		{"duplicate column", []string{"S1"}, []string{"G1", "G1"}, [][]float64{{1, 2}}},
		{"duplicate row", []string{"S1", "S1"}, []string{"G1"}, [][]float64{{1}, {2}}},
		{"empty", []string{}, []string{"G1"}, [][]float64{}},
		{"row count", []string{"S1", "S2"}, []string{"G1"}, [][]float64{{1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromRows(tt.rows, tt.cols, tt.values); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSelectCols(t *testing.T) {
	f, _ := FromRows([]string{"S1"}, []string{"G1", "G2", "G3"}, [][]float64{{1, 2, 3}})
	sub, err := f.SelectCols([]string{"G3", "G1"})
	if err != nil {
		t.Fatalf("SelectCols() error = %v", err)
	}
	if !sub.SameCols([]string{"G3", "G1"}) {
		t.Errorf("Cols() = %v", sub.Cols())
	}
	if sub.At(0, 0) != 3 || sub.At(0, 1) != 1 {
		t.Errorf("unexpected values %v", sub.Row(0))
	}
	if _, err := f.SelectCols([]string{"G9"}); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestFromSeries(t *testing.T) {
	index := []string{"S1", "S2"}
	f, err := FromSeries([]Series{
		{Name: "TC", Index: index, Values: []float64{0.5, 0.25}},
		{Name: "TM", Index: index, Values: []float64{math.NaN(), 1}},
	})
	if err != nil {
		t.Fatalf("FromSeries() error = %v", err)
	}
	if !f.HasNaN() {
		t.Error("HasNaN() = false, want true")
	}
	if s := f.Series(0); s.Name != "TC" || s.Values[1] != 0.25 {
		t.Errorf("Series(0) = %+v", s)
	}

	_, err = FromSeries([]Series{
		{Name: "A", Index: index, Values: []float64{1, 2}},
		{Name: "B", Index: []string{"S2", "S1"}, Values: []float64{1, 2}},
	})
	if err == nil {
		t.Error("expected error for misaligned series")
	}
}

func TestApply(t *testing.T) {
	f, _ := FromRows([]string{"S1"}, []string{"G1", "G2"}, [][]float64{{1, 2}})
	doubled := f.Apply(func(_, _ int, v float64) float64 { return v * 2 })
	if doubled.At(0, 1) != 4 {
		t.Errorf("At(0,1) = %v, want 4", doubled.At(0, 1))
	}
	if f.At(0, 1) != 2 {
		t.Error("Apply() modified the original frame")
	}
}

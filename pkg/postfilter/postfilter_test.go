package postfilter

import (
	"errors"
	"math"
	"testing"

	"github.com/ritzau/glytrait/pkg/formula"
	"github.com/ritzau/glytrait/pkg/frame"
)

func parseFormulas(t *testing.T, exprs ...string) []*formula.Formula {
	t.Helper()
	out := make([]*formula.Formula, len(exprs))
	for i, e := range exprs {
		f, err := formula.Parse(e, "")
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", e, err)
		}
		out[i] = f
	}
	return out
}

func traitFrame(t *testing.T, names []string, cols ...[]float64) *frame.Frame {
	t.Helper()
	rows := make([]string, len(cols[0]))
	values := make([][]float64, len(rows))
	for i := range rows {
		rows[i] = string(rune('a' + i))
		values[i] = make([]float64, len(cols))
		for j := range cols {
			values[i][j] = cols[j][i]
		}
	}
	f, err := frame.FromRows(rows, names, values)
	if err != nil {
		t.Fatalf("FromRows() error = %v", err)
	}
	return f
}

func names(formulas []*formula.Formula) []string {
	out := make([]string, len(formulas))
	for i, f := range formulas {
		out[i] = f.Name
	}
	return out
}

func equalNames(a, b []string) bool {
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

func TestFilterInvalid(t *testing.T) {
	nan := math.NaN()
	formulas := parseFormulas(t,
		"A = (isComplex) / (.)",
		"B = (isHybrid) / (.)",
		"C = (hasFuc) / (.)",
		"D = (hasSia) / (.)",
		"E = (noFuc) / (.)",
		"F = (noSia) / (.)",
	)
	traits := traitFrame(t, names(formulas),
		[]float64{1, 2, 3},
		[]float64{nan, nan, nan},
		[]float64{1, 1, nan},
		[]float64{0, 0, 0},
		[]float64{1, 1, 1},
		[]float64{0.5, 0.5, 0.5},
	)

	kept, f, err := FilterInvalid(formulas, traits)
	if err != nil {
		t.Fatalf("FilterInvalid() error = %v", err)
	}
	if got := names(kept); !equalNames(got, []string{"A"}) {
		t.Errorf("kept %v, want [A]", got)
	}
	if !f.SameCols([]string{"A"}) || f.At(2, 0) != 3 {
		t.Errorf("unexpected frame %v", f.Cols())
	}
}

func TestFilterInvalid_NothingLeft(t *testing.T) {
	formulas := parseFormulas(t, "A = (isComplex) / (.)")
	traits := traitFrame(t, []string{"A"}, []float64{1, 1})
	if _, _, err := FilterInvalid(formulas, traits); !errors.Is(err, ErrNoTraitsLeft) {
		t.Errorf("FilterInvalid() error = %v, want ErrNoTraitsLeft", err)
	}
}

func TestFilterInvalid_Misaligned(t *testing.T) {
	formulas := parseFormulas(t, "A = (isComplex) / (.)")
	traits := traitFrame(t, []string{"B"}, []float64{1, 2})
	if _, _, err := FilterInvalid(formulas, traits); err == nil {
		t.Error("expected error for misaligned traits")
	}
}

func TestIsChildOf(t *testing.T) {
	f := parseFormulas(t,
		"T1 = (isComplex) / (.)",
		"T2 = (isComplex * hasFuc) / (.)",
		"T3 = (hasFuc * isComplex * hasSia) / (.)",
		"T4 = (isComplex * hasFuc) / (isComplex)",
		"T5 = (hasFuc * isComplex) / (.)",
	)
	tests := []struct {
		child, parent int
		want          bool
	}{
		{1, 0, true},
		{2, 0, true},
		{2, 1, true},
		{0, 1, false},
		{3, 0, false}, // different denominators
		{1, 4, false}, // same terms
		{0, 0, false},
	}
	for _, tt := range tests {
		if got := IsChildOf(f[tt.child], f[tt.parent]); got != tt.want {
			t.Errorf("IsChildOf(%s, %s) = %v, want %v", f[tt.child].Name, f[tt.parent].Name, got, tt.want)
		}
	}
}

func TestRelationGraph(t *testing.T) {
	f := parseFormulas(t,
		"trait1 = (isComplex) / (.)",
		"trait2 = (isComplex * hasFuc) / (.)",
		"trait3 = (isComplex * hasFuc * hasSia) / (.)",
	)
	g := NewRelationGraph(f)

	// row i lists whether trait i is a child of trait j
	want := [][]bool{
		{false, false, false},
		{true, false, false},
		{true, true, false},
	}
	for i := range want {
		for j := range want[i] {
			if got := g.HasEdge(i, j); got != want[i][j] {
				t.Errorf("HasEdge(%d, %d) = %v, want %v", i, j, got, want[i][j])
			}
		}
	}
	if parents := g.Parents(2); len(parents) != 2 || parents[0] != 0 || parents[1] != 1 {
		t.Errorf("Parents(2) = %v, want [0 1]", parents)
	}
	if edges := g.Edges(); len(edges) != 3 || edges[0] != [2]string{"trait2", "trait1"} {
		t.Errorf("Edges() = %v", edges)
	}
}

func TestCorrelationMatrix(t *testing.T) {
	traits := traitFrame(t, []string{"t1", "t2", "t3", "t4"},
		[]float64{1, 2, 3, 4, 5},
		[]float64{1, 2, 3, 4, 5},
		[]float64{5, 4, 3, 2, 1},
		[]float64{2, 3, 1, 5, 4}, // r = 0.6 with t1
	)

	tests := []struct {
		threshold float64
		want      [][]int
	}{
		{0.5, [][]int{{1, 1, 0, 1}, {1, 1, 0, 1}, {0, 0, 1, 0}, {1, 1, 0, 1}}},
		{-1, [][]int{{1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}}},
		{0.99, [][]int{{1, 1, 0, 0}, {1, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}},
		{1, [][]int{{1, 1, 0, 0}, {1, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}},
	}

	for _, method := range []Method{Pearson, Spearman} {
		for _, tt := range tests {
			got, err := correlationMatrix(traits, tt.threshold, method)
			if err != nil {
				t.Fatalf("correlationMatrix() error = %v", err)
			}
			for i := range tt.want {
				for j := range tt.want[i] {
					if got[i][j] != (tt.want[i][j] == 1) {
						t.Errorf("%s threshold %v: [%d][%d] = %v, want %d", method, tt.threshold, i, j, got[i][j], tt.want[i][j])
					}
				}
			}
		}
	}
}

func TestRanks(t *testing.T) {
	got := ranks([]float64{10, 30, 20, 20})
	want := []float64{1, 4, 2.5, 2.5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ranks = %v, want %v", got, want)
			break
		}
	}
}

func TestFilterCollinearity(t *testing.T) {
	formulas := parseFormulas(t,
		"T1 = (hasFuc) / (.)",
		"T2 = (hasFuc * isComplex) / (.)",
		"T3 = (hasSia) / (.)",
		"T4 = (hasSia * isComplex) / (.)",
	)
	traits := traitFrame(t, names(formulas),
		[]float64{1, 2, 3, 4, 5},
		[]float64{1, 2, 3, 4, 5},
		[]float64{5, 4, 3, 2, 1},
		[]float64{2, 3, 1, 5, 4},
	)

	kept, f, err := FilterCollinearity(formulas, traits, 0.5, Pearson)
	if err != nil {
		t.Fatalf("FilterCollinearity() error = %v", err)
	}
	// T2 refines T1 and moves with it; T4 refines T3 but is anti-correlated
	want := []string{"T1", "T3", "T4"}
	if got := names(kept); !equalNames(got, want) {
		t.Errorf("kept %v, want %v", got, want)
	}
	if !f.SameCols(want) {
		t.Errorf("frame columns %v, want %v", f.Cols(), want)
	}
}

func TestFilterCollinearity_TooFewSamples(t *testing.T) {
	formulas := parseFormulas(t, "T1 = (hasFuc) / (.)", "T2 = (hasFuc * isComplex) / (.)")
	traits := traitFrame(t, names(formulas), []float64{1, 2}, []float64{1, 2})

	kept, f, err := FilterCollinearity(formulas, traits, 0.5, Pearson)
	if err != nil {
		t.Fatalf("FilterCollinearity() error = %v", err)
	}
	if len(kept) != 2 || f != traits {
		t.Error("traits should be returned unchanged")
	}
}

func TestParseMethod(t *testing.T) {
	if m, err := ParseMethod("spearman"); err != nil || m != Spearman {
		t.Errorf("ParseMethod(spearman) = %v, %v", m, err)
	}
	if _, err := ParseMethod("kendall"); err == nil {
		t.Error("expected error for unknown method")
	}
}

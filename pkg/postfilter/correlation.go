package postfilter

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ritzau/glytrait/pkg/frame"
)

// Method is a correlation method
type Method string

const (
	Pearson  Method = "pearson"
	Spearman Method = "spearman"
)

// ParseMethod validates a correlation method name
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case Pearson, Spearman:
		return Method(s), nil
	default:
		return "", fmt.Errorf("unknown correlation method %q (expected %q or %q)", s, Pearson, Spearman)
	}
}

// tolerance absorbs rounding so identical traits pass a threshold of 1
const tolerance = 1e-9

// correlationMatrix reports, for every pair of traits, whether their signed
// correlation is at least threshold. Undefined correlations (constant traits)
// never pass.
func correlationMatrix(traits *frame.Frame, threshold float64, method Method) ([][]bool, error) {
	_, n := traits.Dims()
	cols := make([][]float64, n)
	for j := range cols {
		switch method {
		case Pearson:
			cols[j] = traits.Col(j)
		case Spearman:
			cols[j] = ranks(traits.Col(j))
		default:
			return nil, fmt.Errorf("unknown correlation method %q", method)
		}
	}

	out := make([][]bool, n)
	for i := range out {
		out[i] = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var r float64
			if i == j {
				r = 1
			} else {
				r = stat.Correlation(cols[i], cols[j], nil)
			}
			pass := r >= threshold-tolerance
			out[i][j], out[j][i] = pass, pass
		}
	}
	return out, nil
}

// ranks returns the 1-based ranks of values, ties getting their average rank
func ranks(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	out := make([]float64, len(values))
	for start := 0; start < len(idx); {
		end := start + 1
		for end < len(idx) && values[idx[end]] == values[idx[start]] {
			end++
		}
		avg := float64(start+end+1) / 2
		for k := start; k < end; k++ {
			out[idx[k]] = avg
		}
		start = end
	}
	return out
}

// Package preprocess cleans an abundance table before traits are computed:
// glycans with too many missing values are dropped, the remaining gaps are
// imputed and samples are normalized to a total abundance of 1.
package preprocess

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ritzau/glytrait/pkg/frame"
	"github.com/ritzau/glytrait/pkg/logging"
)

// ImputeMethod selects how missing abundances are filled in
type ImputeMethod string

const (
	ImputeZero   ImputeMethod = "zero"
	ImputeMin    ImputeMethod = "min"
	ImputeLOD    ImputeMethod = "lod" // a fifth of the minimum
	ImputeMean   ImputeMethod = "mean"
	ImputeMedian ImputeMethod = "median"
)

// ImputeMethods lists the supported methods
var ImputeMethods = []ImputeMethod{ImputeZero, ImputeMin, ImputeLOD, ImputeMean, ImputeMedian}

// ParseImputeMethod validates a method name
func ParseImputeMethod(s string) (ImputeMethod, error) {
	for _, m := range ImputeMethods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown imputation method %q", s)
}

// FilterGlycans keeps the glycans (columns) whose proportion of missing
// values is at most maxNA
func FilterGlycans(f *frame.Frame, maxNA float64) (*frame.Frame, error) {
	samples, glycans := f.Dims()
	var keep []string
	for j := 0; j < glycans; j++ {
		missing := 0
		for _, v := range f.Col(j) {
			if math.IsNaN(v) {
				missing++
			}
		}
		if float64(missing)/float64(samples) <= maxNA {
			keep = append(keep, f.Cols()[j])
		}
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("no glycans left with at most %.0f%% missing values", maxNA*100)
	}
	if dropped := glycans - len(keep); dropped > 0 {
		logging.Info("Filtered glycans with missing values", "dropped", dropped, "kept", len(keep), "maxNA", maxNA)
	}
	return f.SelectCols(keep)
}

// Impute replaces missing values column by column
func Impute(f *frame.Frame, method ImputeMethod) (*frame.Frame, error) {
	_, glycans := f.Dims()
	fill := make([]float64, glycans)
	for j := range fill {
		present := presentValues(f.Col(j))
		switch method {
		case ImputeZero:
			fill[j] = 0
		case ImputeMin:
			fill[j] = minOf(present)
		case ImputeLOD:
			fill[j] = minOf(present) / 5
		case ImputeMean:
			fill[j] = meanOf(present)
		case ImputeMedian:
			fill[j] = medianOf(present)
		default:
			return nil, fmt.Errorf("unknown imputation method %q", method)
		}
	}
	return f.Apply(func(_, j int, v float64) float64 {
		if math.IsNaN(v) {
			return fill[j]
		}
		return v
	}), nil
}

// Normalize divides every sample by its total abundance, rounded to six
// decimals. Missing values are left out of the total and stay missing.
func Normalize(f *frame.Frame) *frame.Frame {
	samples, _ := f.Dims()
	totals := make([]float64, samples)
	for i := range totals {
		totals[i] = floats.Sum(presentValues(f.Row(i)))
	}
	return f.Apply(func(i, _ int, v float64) float64 {
		return math.Round(v/totals[i]*1e6) / 1e6
	})
}

func presentValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return floats.Min(values)
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

func medianOf(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

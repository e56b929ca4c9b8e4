// Package formula implements the trait formula language: parsing expressions
// and formula files, and evaluating formulas against a meta-property table
// and an abundance table.
package formula

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/ritzau/glytrait/pkg/frame"
	"github.com/ritzau/glytrait/pkg/meta"
)

// Formula is a parsed trait formula. It is immutable; Initialize binds it
// to one meta-property table.
type Formula struct {
	Name        string
	Description string
	Expression  string
	Numerator   []Term
	Denominator []Term
	Coefficient float64
	Linkage     bool // references sialic acid linkage properties
}

// NumeratorNames returns the numerator terms as strings
func (f *Formula) NumeratorNames() []string { return termNames(f.Numerator) }

// DenominatorNames returns the denominator terms as strings
func (f *Formula) DenominatorNames() []string { return termNames(f.Denominator) }

func termNames(terms []Term) []string {
	names := make([]string, len(terms))
	for i, t := range terms {
		names[i] = t.String()
	}
	return names
}

func (f *Formula) String() string {
	return fmt.Sprintf("%s = (%s) / (%s)", f.Name,
		strings.Join(f.NumeratorNames(), " * "), strings.Join(f.DenominatorNames(), " * "))
}

// Initialize computes the numerator and denominator weight vectors of the
// formula against table. Each vector is the elementwise product of its terms.
func (f *Formula) Initialize(table *meta.Table) (*Initialized, error) {
	if table.Len() == 0 {
		return nil, &FormulaError{Formula: f.Name, Msg: "meta-property table is empty"}
	}
	num, err := f.weights(table, f.Numerator)
	if err != nil {
		return nil, err
	}
	den, err := f.weights(table, f.Denominator)
	if err != nil {
		return nil, err
	}
	return &Initialized{
		formula: f,
		index:   table.IDs(),
		num:     mat.NewVecDense(len(num), num),
		den:     mat.NewVecDense(len(den), den),
	}, nil
}

func (f *Formula) weights(table *meta.Table, terms []Term) ([]float64, error) {
	w := make([]float64, table.Len())
	for i := range w {
		w[i] = 1
	}
	for _, t := range terms {
		col, err := t.eval(f.Name, table)
		if err != nil {
			return nil, err
		}
		for i := range w {
			w[i] *= col[i]
		}
	}
	return w, nil
}

// Initialized is a formula bound to the glycans of one meta-property table.
// It is safe for concurrent use.
type Initialized struct {
	formula *Formula
	index   []string
	num     *mat.VecDense
	den     *mat.VecDense
}

// Formula returns the parsed formula
func (in *Initialized) Formula() *Formula { return in.formula }

// NumeratorWeights returns a copy of the per-glycan numerator weights
func (in *Initialized) NumeratorWeights() []float64 {
	return mat.Col(nil, 0, in.num)
}

// DenominatorWeights returns a copy of the per-glycan denominator weights
func (in *Initialized) DenominatorWeights() []float64 {
	return mat.Col(nil, 0, in.den)
}

// Evaluate computes the trait value of every sample in abundance, whose
// columns must be exactly the glycans the formula was initialized with.
// Samples whose denominator is zero get NaN.
func (in *Initialized) Evaluate(abundance *frame.Frame) (frame.Series, error) {
	if in == nil || in.formula == nil {
		return frame.Series{}, ErrNotInitialized
	}
	cols := abundance.Cols()
	if len(cols) != len(in.index) {
		return frame.Series{}, &AlignmentError{Formula: in.formula.Name, Expected: len(in.index), Got: len(cols)}
	}
	for i := range cols {
		if cols[i] != in.index[i] {
			return frame.Series{}, &AlignmentError{Formula: in.formula.Name, Expected: len(in.index), Got: len(cols), First: cols[i]}
		}
	}

	samples, _ := abundance.Dims()
	var num, den mat.VecDense
	num.MulVec(abundance.Matrix(), in.num)
	den.MulVec(abundance.Matrix(), in.den)

	values := make([]float64, samples)
	for i := range values {
		d := den.AtVec(i)
		if d == 0 {
			values[i] = math.NaN()
			continue
		}
		values[i] = num.AtVec(i) / d * in.formula.Coefficient
	}
	return frame.Series{Name: in.formula.Name, Index: abundance.Rows(), Values: values}, nil
}

// InitializeAll initializes every formula against table concurrently.
// The result keeps the order of formulas.
func InitializeAll(ctx context.Context, formulas []*Formula, table *meta.Table) ([]*Initialized, error) {
	out := make([]*Initialized, len(formulas))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range formulas {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			in, err := f.Initialize(table)
			if err != nil {
				return err
			}
			out[i] = in
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// EvaluateAll evaluates every formula on abundance concurrently, returning
// one series per formula in order.
func EvaluateAll(ctx context.Context, formulas []*Initialized, abundance *frame.Frame) ([]frame.Series, error) {
	out := make([]frame.Series, len(formulas))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range formulas {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := f.Evaluate(abundance)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

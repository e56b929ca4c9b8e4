// Package report writes the outcome of a trait calculation as an XLSX
// workbook and as a console summary.
package report

import (
	"github.com/ritzau/glytrait/pkg/formula"
	"github.com/ritzau/glytrait/pkg/frame"
	"github.com/ritzau/glytrait/pkg/meta"
)

// Setting is one named option shown in the summary
type Setting struct {
	Name  string
	Value any
}

// Result is everything a run produces
type Result struct {
	Version  string
	Settings []Setting

	// Meta holds the meta-properties of the glycans that survived filtering
	Meta *meta.Table
	// Formulas are the derived traits kept, aligned with Derived's columns
	Formulas []*formula.Formula
	// Direct is the normalized abundance table
	Direct *frame.Frame
	// Derived has one column per formula
	Derived *frame.Frame

	InputGlycans     int
	FilteredGlycans  int
	InvalidTraits    int
	CollinearTraits  int
	CollinearityDone bool
}

// DirectCount is the number of direct traits
func (r *Result) DirectCount() int {
	if r.Direct == nil {
		return 0
	}
	_, n := r.Direct.Dims()
	return n
}

// DerivedCount is the number of derived traits
func (r *Result) DerivedCount() int {
	if r.Derived == nil {
		return 0
	}
	_, n := r.Derived.Dims()
	return n
}

// Samples returns the sample names
func (r *Result) Samples() []string {
	switch {
	case r.Direct != nil:
		return r.Direct.Rows()
	case r.Derived != nil:
		return r.Derived.Rows()
	default:
		return nil
	}
}

// Package postfilter removes derived traits that carry no information:
// traits with invalid values and traits that are collinear with a simpler
// parent trait.
package postfilter

import (
	"errors"
	"fmt"
	"math"

	"github.com/ritzau/glytrait/pkg/formula"
	"github.com/ritzau/glytrait/pkg/frame"
	"github.com/ritzau/glytrait/pkg/logging"
)

// ErrNoTraitsLeft is returned when filtering removes every trait
var ErrNoTraitsLeft = errors.New("no traits left after filtering")

// minSamples is the smallest number of samples a correlation is computed on
const minSamples = 3

// FilterInvalid drops traits that have a missing value in any sample or the
// same value in every sample. traits has one column per formula, in order.
func FilterInvalid(formulas []*formula.Formula, traits *frame.Frame) ([]*formula.Formula, *frame.Frame, error) {
	if err := checkAligned(formulas, traits); err != nil {
		return nil, nil, err
	}

	var keep []int
	for j := range formulas {
		if valid(traits.Col(j)) {
			keep = append(keep, j)
		}
	}
	logging.Debug("Filtered invalid traits", "dropped", len(formulas)-len(keep), "kept", len(keep))
	return subset(formulas, traits, keep)
}

func valid(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return false
		}
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return true
		}
	}
	return false
}

// FilterCollinearity drops every trait that is a child of a trait it is
// correlated with at threshold or above. With fewer than three samples the
// correlations are meaningless and the traits are returned unchanged.
func FilterCollinearity(formulas []*formula.Formula, traits *frame.Frame, threshold float64, method Method) ([]*formula.Formula, *frame.Frame, error) {
	if err := checkAligned(formulas, traits); err != nil {
		return nil, nil, err
	}
	if samples, _ := traits.Dims(); samples < minSamples {
		logging.Warn("Skipping collinearity filter, too few samples", "samples", samples, "minimum", minSamples)
		return formulas, traits, nil
	}

	graph := NewRelationGraph(formulas)
	corr, err := correlationMatrix(traits, threshold, method)
	if err != nil {
		return nil, nil, err
	}

	var keep []int
	for i := range formulas {
		dropped := false
		for _, j := range graph.Parents(i) {
			if corr[i][j] {
				logging.Debug("Dropping collinear trait", "trait", formulas[i].Name, "parent", formulas[j].Name)
				dropped = true
				break
			}
		}
		if !dropped {
			keep = append(keep, i)
		}
	}
	logging.Info("Filtered collinear traits", "dropped", len(formulas)-len(keep), "kept", len(keep))
	return subset(formulas, traits, keep)
}

func checkAligned(formulas []*formula.Formula, traits *frame.Frame) error {
	cols := traits.Cols()
	if len(cols) != len(formulas) {
		return fmt.Errorf("got %d trait columns for %d formulas", len(cols), len(formulas))
	}
	for i, f := range formulas {
		if cols[i] != f.Name {
			return fmt.Errorf("trait column %s does not match formula %s", cols[i], f.Name)
		}
	}
	return nil
}

func subset(formulas []*formula.Formula, traits *frame.Frame, keep []int) ([]*formula.Formula, *frame.Frame, error) {
	if len(keep) == 0 {
		return nil, nil, ErrNoTraitsLeft
	}
	kept := make([]*formula.Formula, len(keep))
	names := make([]string, len(keep))
	for k, i := range keep {
		kept[k] = formulas[i]
		names[k] = formulas[i].Name
	}
	f, err := traits.SelectCols(names)
	if err != nil {
		return nil, nil, err
	}
	return kept, f, nil
}

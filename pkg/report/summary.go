package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// PrintSummary prints a colored overview of a run
func PrintSummary(w io.Writer, r *Result, output string) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	bold.Fprintln(w, "GlyTrait - Trait Summary")
	bold.Fprintln(w, "========================")
	for _, s := range r.Settings {
		fmt.Fprintf(w, "%-24s %v\n", s.Name+":", s.Value)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Samples: %d\n", len(r.Samples()))
	if dropped := r.InputGlycans - r.FilteredGlycans; dropped > 0 {
		yellow.Fprintf(w, "Glycans: %d (%d filtered out for missing values)\n", r.FilteredGlycans, dropped)
	} else {
		green.Fprintf(w, "Glycans: %d\n", r.FilteredGlycans)
	}

	cyan.Fprintf(w, "Direct traits:  %d\n", r.DirectCount())
	cyan.Fprintf(w, "Derived traits: %d\n", r.DerivedCount())
	if r.InvalidTraits > 0 {
		yellow.Fprintf(w, "  %d invalid trait(s) removed\n", r.InvalidTraits)
	}
	if r.CollinearityDone && r.CollinearTraits > 0 {
		yellow.Fprintf(w, "  %d collinear trait(s) removed\n", r.CollinearTraits)
	}
	fmt.Fprintln(w)

	bold.Fprintf(w, "Total: %d traits\n", r.DirectCount()+r.DerivedCount())
	if output != "" {
		green.Fprintf(w, "✓ Output written to %s\n", output)
	}
}

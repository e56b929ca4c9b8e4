package glycan

import (
	"fmt"
	"strings"
)

// StructureParseError is returned when GlycoCT text is malformed
type StructureParseError struct {
	Token string // offending token, if any
	Msg   string
}

func (e *StructureParseError) Error() string {
	if e.Token == "" {
		return "could not parse structure: " + e.Msg
	}
	return fmt.Sprintf("could not parse structure: %s: %q", e.Msg, e.Token)
}

// CoreValidationError is returned when a structure parses but has no N-glycan core
type CoreValidationError struct {
	Found []Residue
}

func (e *CoreValidationError) Error() string {
	names := make([]string, len(e.Found))
	for i, r := range e.Found {
		names[i] = r.String()
	}
	return fmt.Sprintf("invalid N-glycan core: [%s]", strings.Join(names, ", "))
}

// CompositionParseError is returned for malformed composition shorthand
type CompositionParseError struct {
	Input string
	Part  string // offending symbol or symbol+count pair
	Msg   string
}

func (e *CompositionParseError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("invalid composition %q: %s", e.Input, e.Msg)
	}
	return fmt.Sprintf("invalid composition %q: %s: %q", e.Input, e.Msg, e.Part)
}

// BranchError is returned when antennae are counted on a non-complex glycan
type BranchError struct {
	Type Type
}

func (e *BranchError) Error() string {
	return fmt.Sprintf("cannot count antennae on %s glycans", e.Type)
}

// SiaLinkageError is returned when linkage-specific sialic acid counts are
// requested but the glycan carries no linkage information
type SiaLinkageError struct {
	Glycan string
}

func (e *SiaLinkageError) Error() string {
	return fmt.Sprintf("no sialic acid linkage information in %s", e.Glycan)
}

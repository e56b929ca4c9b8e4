package formula

import (
	"errors"
	"fmt"
)

// Expression parse failures. A FormulaParseError wraps exactly one of these.
var (
	ErrNoSeparator        = errors.New("missing ' = ' between name and body")
	ErrAmbiguousSeparator = errors.New("more than one ' = ' (use '==' for comparisons)")
	ErrInvalidName        = errors.New("invalid formula name")
	ErrNoSlash            = errors.New("missing '/' or '//'")
	ErrTooManySlashes     = errors.New("too many '/' or '//'")
	ErrInvalidTermList    = errors.New("term list must be enclosed in parentheses")
	ErrInvalidTerm        = errors.New("invalid term")
	ErrInvalidComparison  = errors.New("invalid comparison term")
	ErrMisplacedDot       = errors.New("'.' must be the only term of its list")
	ErrInvalidCoefficient = errors.New("invalid coefficient")
)

// ErrNotInitialized is returned when an Initialized was not obtained from
// Formula.Initialize
var ErrNotInitialized = errors.New("formula is not initialized")

// FormulaParseError reports a malformed expression
type FormulaParseError struct {
	Expression string
	Detail     string // offending fragment, if any
	Err        error
}

func (e *FormulaParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("could not parse formula %q: %v", e.Expression, e.Err)
	}
	return fmt.Sprintf("could not parse formula %q: %v: %q", e.Expression, e.Err, e.Detail)
}

func (e *FormulaParseError) Unwrap() error { return e.Err }

// FormulaError reports a formula that is well formed but cannot be used:
// file pairing problems, duplicate names, or terms incompatible with the
// meta-property table.
type FormulaError struct {
	Formula string // formula name, if known
	Line    int    // line in the formula file, if known
	Msg     string
}

func (e *FormulaError) Error() string {
	switch {
	case e.Formula != "" && e.Line > 0:
		return fmt.Sprintf("formula %s (line %d): %s", e.Formula, e.Line, e.Msg)
	case e.Formula != "":
		return fmt.Sprintf("formula %s: %s", e.Formula, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("formula file line %d: %s", e.Line, e.Msg)
	default:
		return "formula: " + e.Msg
	}
}

// AlignmentError is returned when an abundance table does not have the
// glycans a formula was initialized with
type AlignmentError struct {
	Formula  string
	Expected int
	Got      int
	First    string // first mismatching glycan, if the lengths agree
}

func (e *AlignmentError) Error() string {
	if e.First != "" {
		return fmt.Sprintf("formula %s: abundance columns do not match the meta-property table at glycan %s", e.Formula, e.First)
	}
	return fmt.Sprintf("formula %s: abundance table has %d glycans, meta-property table has %d", e.Formula, e.Got, e.Expected)
}

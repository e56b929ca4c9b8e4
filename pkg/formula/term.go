package formula

import (
	"fmt"
	"strconv"

	"github.com/ritzau/glytrait/pkg/meta"
)

// TermKind tags the variant held by a Term
type TermKind int

const (
	ConstantTerm TermKind = iota
	PropertyTerm
	DotTerm
	ComparisonTerm
)

// Operator is a comparison operator
type Operator string

const (
	Eq Operator = "=="
	Ne Operator = "!="
	Gt Operator = ">"
	Ge Operator = ">="
	Lt Operator = "<"
	Le Operator = "<="
)

func (op Operator) ordering() bool {
	return op == Gt || op == Ge || op == Lt || op == Le
}

// Term is one factor of a numerator or denominator.
//
//	ConstantTerm:   Value
//	PropertyTerm:   Property
//	DotTerm:        no fields, every glycan weighs 1
//	ComparisonTerm: Property Op Literal, Literal is an int, bool or string
type Term struct {
	Kind     TermKind
	Value    int
	Property string
	Op       Operator
	Literal  any
}

func (t Term) String() string {
	switch t.Kind {
	case ConstantTerm:
		return strconv.Itoa(t.Value)
	case PropertyTerm:
		return t.Property
	case DotTerm:
		return "."
	case ComparisonTerm:
		switch lit := t.Literal.(type) {
		case string:
			return fmt.Sprintf("(%s %s '%s')", t.Property, t.Op, lit)
		case bool:
			if lit {
				return fmt.Sprintf("(%s %s True)", t.Property, t.Op)
			}
			return fmt.Sprintf("(%s %s False)", t.Property, t.Op)
		default:
			return fmt.Sprintf("(%s %s %v)", t.Property, t.Op, lit)
		}
	}
	return "?"
}

// references returns the property the term reads, if any
func (t Term) references() string {
	if t.Kind == PropertyTerm || t.Kind == ComparisonTerm {
		return t.Property
	}
	return ""
}

// eval computes the per-glycan weight of the term, in table row order
func (t Term) eval(formula string, table *meta.Table) ([]float64, error) {
	n := table.Len()
	out := make([]float64, n)

	switch t.Kind {
	case ConstantTerm:
		for i := range out {
			out[i] = float64(t.Value)
		}
		return out, nil

	case DotTerm:
		for i := range out {
			out[i] = 1
		}
		return out, nil

	case PropertyTerm:
		col, err := column(formula, table, t.Property)
		if err != nil {
			return nil, err
		}
		switch col.Kind {
		case meta.Int:
			for i := range out {
				out[i] = float64(col.Int(i))
			}
		case meta.Bool:
			for i := range out {
				out[i] = boolWeight(col.Bool(i))
			}
		case meta.Category:
			return nil, &FormulaError{Formula: formula, Msg: fmt.Sprintf("category property %s must be compared with a value", t.Property)}
		}
		return out, nil

	case ComparisonTerm:
		col, err := column(formula, table, t.Property)
		if err != nil {
			return nil, err
		}
		if col.Kind != meta.Int && t.Op.ordering() {
			return nil, &FormulaError{Formula: formula, Msg: fmt.Sprintf("cannot use %s with %s property %s", t.Op, col.Kind, t.Property)}
		}
		switch col.Kind {
		case meta.Int:
			lit, ok := t.Literal.(int)
			if !ok {
				return nil, mismatch(formula, t, col.Kind)
			}
			for i := range out {
				out[i] = boolWeight(compareInt(col.Int(i), t.Op, lit))
			}
		case meta.Bool:
			lit, ok := t.Literal.(bool)
			if !ok {
				return nil, mismatch(formula, t, col.Kind)
			}
			for i := range out {
				out[i] = boolWeight((col.Bool(i) == lit) == (t.Op == Eq))
			}
		case meta.Category:
			lit, ok := t.Literal.(string)
			if !ok {
				return nil, mismatch(formula, t, col.Kind)
			}
			for i := range out {
				out[i] = boolWeight((col.Category(i) == lit) == (t.Op == Eq))
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("unhandled term kind %d", t.Kind)
}

func column(formula string, table *meta.Table, name string) (*meta.Column, error) {
	col, ok := table.Column(name)
	if !ok {
		return nil, &FormulaError{Formula: formula, Msg: fmt.Sprintf("unknown meta-property %s", name)}
	}
	return col, nil
}

func mismatch(formula string, t Term, kind meta.Kind) error {
	return &FormulaError{Formula: formula, Msg: fmt.Sprintf("%s compares %s property %s with %T", t, kind, t.Property, t.Literal)}
}

func compareInt(v int, op Operator, lit int) bool {
	switch op {
	case Eq:
		return v == lit
	case Ne:
		return v != lit
	case Gt:
		return v > lit
	case Ge:
		return v >= lit
	case Lt:
		return v < lit
	case Le:
		return v <= lit
	}
	return false
}

func boolWeight(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

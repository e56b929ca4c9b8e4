package formula

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ritzau/glytrait/pkg/meta"
)

var (
	namePattern       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	wordPattern       = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	comparisonPattern = regexp.MustCompile(`^\(\s*([A-Za-z0-9_]+)\s*(==|!=|>=|<=|>|<)\s*(\d+|True|False|'[A-Za-z0-9_-]*'|"[A-Za-z0-9_-]*")\s*\)$`)
	// a trailing coefficient after the denominator list
	coefficientPattern = regexp.MustCompile(`\)\s*\*\s*([^()]*)$`)
	numberPattern      = regexp.MustCompile(`^(\d+)/(\d+)$|^\d+(\.\d+)?$`)
)

// Parse parses one expression such as
//
//	CS = (hasSia) // (isComplex)
//	A2S = (totalSia) // (is2Antennary) * 1/2
//
// into a Formula carrying the given description.
func Parse(expression, description string) (*Formula, error) {
	expr := strings.TrimSpace(expression)
	fail := func(err error, detail string) (*Formula, error) {
		return nil, &FormulaParseError{Expression: expr, Detail: detail, Err: err}
	}

	body := expr
	coefficient := 1.0
	if m := coefficientPattern.FindStringSubmatchIndex(body); m != nil {
		raw := strings.TrimSpace(body[m[2]:m[3]])
		c, ok := parseCoefficient(raw)
		if !ok {
			return fail(ErrInvalidCoefficient, raw)
		}
		coefficient = c
		body = body[:m[0]+1]
	}

	switch strings.Count(body, " = ") {
	case 0:
		return fail(ErrNoSeparator, "")
	case 1:
	default:
		return fail(ErrAmbiguousSeparator, "")
	}
	name, rest, _ := strings.Cut(body, " = ")
	name = strings.TrimSpace(name)
	if !namePattern.MatchString(name) {
		return fail(ErrInvalidName, name)
	}

	var splitter string
	switch double := strings.Count(rest, "//"); {
	case double == 1 && strings.Count(rest, "/") == 2:
		splitter = "//"
	case double > 0:
		return fail(ErrTooManySlashes, "")
	case strings.Count(rest, "/") == 1:
		splitter = "/"
	case strings.Count(rest, "/") == 0:
		return fail(ErrNoSlash, "")
	default:
		return fail(ErrTooManySlashes, "")
	}
	numExpr, denExpr, _ := strings.Cut(rest, splitter)

	numerator, err := parseTermList(numExpr)
	if err != nil {
		return fail(err.err, err.detail)
	}
	denominator, err := parseTermList(denExpr)
	if err != nil {
		return fail(err.err, err.detail)
	}
	if splitter == "//" {
		numerator = union(numerator, denominator)
	}

	f := &Formula{
		Name:        name,
		Description: strings.TrimSpace(description),
		Expression:  expr,
		Numerator:   numerator,
		Denominator: denominator,
		Coefficient: coefficient,
	}
	for _, t := range append(append([]Term(nil), numerator...), denominator...) {
		if meta.IsLinkageProperty(t.references()) {
			f.Linkage = true
		}
	}
	return f, nil
}

func parseCoefficient(raw string) (float64, bool) {
	m := numberPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	if m[1] != "" {
		num, _ := strconv.Atoi(m[1])
		den, _ := strconv.Atoi(m[2])
		if num == 0 || den == 0 {
			return 0, false
		}
		return float64(num) / float64(den), true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

type termError struct {
	err    error
	detail string
}

// parseTermList parses "(t1 * t2 * ...)"
func parseTermList(s string) ([]Term, *termError) {
	s = strings.TrimSpace(s)
	if !enclosed(s) {
		return nil, &termError{ErrInvalidTermList, s}
	}
	inner := s[1 : len(s)-1]

	var parts []string
	depth, start := 0, 0
	for i, r := range inner {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case '*':
			if depth == 0 {
				parts = append(parts, inner[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, inner[start:])

	// a lone comparison may use the list's own parentheses: "(totalFuc > 0)"
	if len(parts) == 1 {
		if p := strings.TrimSpace(parts[0]); !strings.HasPrefix(p, "(") && strings.ContainsAny(p, "=<>!") {
			parts[0] = "(" + p + ")"
		}
	}

	terms := make([]Term, 0, len(parts))
	for _, p := range parts {
		t, err := parseTerm(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	if len(terms) > 1 {
		for _, t := range terms {
			if t.Kind == DotTerm {
				return nil, &termError{ErrMisplacedDot, s}
			}
		}
	}
	return terms, nil
}

// enclosed reports whether s is wrapped in one pair of matching parentheses
func enclosed(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
		if depth < 0 {
			return false
		}
	}
	return depth == 0
}

func parseTerm(s string) (Term, *termError) {
	switch {
	case s == ".":
		return Term{Kind: DotTerm}, nil

	case strings.HasPrefix(s, "("):
		m := comparisonPattern.FindStringSubmatch(s)
		if m == nil {
			return Term{}, &termError{ErrInvalidComparison, s}
		}
		return Term{Kind: ComparisonTerm, Property: m[1], Op: Operator(m[2]), Literal: parseLiteral(m[3])}, nil

	case strings.ContainsAny(s, "=<>!"):
		return Term{}, &termError{ErrInvalidComparison, s}

	case !wordPattern.MatchString(s):
		return Term{}, &termError{ErrInvalidTerm, s}
	}

	if v, err := strconv.Atoi(s); err == nil {
		return Term{Kind: ConstantTerm, Value: v}, nil
	}
	return Term{Kind: PropertyTerm, Property: s}, nil
}

func parseLiteral(s string) any {
	switch s {
	case "True":
		return true
	case "False":
		return false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return s[1 : len(s)-1]
}

// union appends the denominator terms to the numerator terms. Dot terms
// carry no weight and are dropped unless nothing else remains.
func union(numerator, denominator []Term) []Term {
	var out []Term
	for _, t := range append(append([]Term(nil), numerator...), denominator...) {
		if t.Kind != DotTerm {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return []Term{{Kind: DotTerm}}
	}
	return out
}

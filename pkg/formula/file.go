package formula

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// record is one description/expression pair of a formula file
type record struct {
	description string
	expression  string
	line        int // line of the expression
}

// ReadFile reads a formula file: a line starting with "@" holds a
// description and the next "$" line its expression. Other lines are ignored.
// The whole file is validated before any formula is returned.
func ReadFile(r io.Reader) ([]*Formula, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}

	formulas := make([]*Formula, 0, len(records))
	seen := make(map[string]int, len(records))
	for _, rec := range records {
		f, err := Parse(rec.expression, rec.description)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", rec.line, err)
		}
		if first, dup := seen[f.Name]; dup {
			return nil, &FormulaError{
				Formula: f.Name,
				Line:    rec.line,
				Msg:     fmt.Sprintf("duplicate formula name (first defined on line %d)", first),
			}
		}
		seen[f.Name] = rec.line
		formulas = append(formulas, f)
	}
	return formulas, nil
}

func readRecords(r io.Reader) ([]record, error) {
	var records []record
	var description string
	descLine := 0

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, "@"):
			if descLine > 0 {
				return nil, &FormulaError{Line: descLine, Msg: fmt.Sprintf("no expression follows description %q", description)}
			}
			description = strings.TrimSpace(line[1:])
			descLine = lineNum
		case strings.HasPrefix(line, "$"):
			expression := strings.TrimSpace(line[1:])
			if descLine == 0 {
				return nil, &FormulaError{Line: lineNum, Msg: fmt.Sprintf("no description before expression %q", expression)}
			}
			records = append(records, record{description: description, expression: expression, line: lineNum})
			description, descLine = "", 0
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading formula file: %w", err)
	}
	if descLine > 0 {
		return nil, &FormulaError{Line: descLine, Msg: fmt.Sprintf("no expression follows description %q", description)}
	}
	return records, nil
}

package meta

import (
	"fmt"
	"slices"
)

// Column holds the values of one meta-property for every glycan of a table.
// Exactly one of the value slices is populated, matching Kind.
type Column struct {
	Property
	bools []bool
	ints  []int
	cats  []string
}

func newColumn(p Property, n int) *Column {
	c := &Column{Property: p}
	switch p.Kind {
	case Bool:
		c.bools = make([]bool, n)
	case Int:
		c.ints = make([]int, n)
	case Category:
		c.cats = make([]string, n)
	}
	return c
}

func (c *Column) set(i int, v any) error {
	switch c.Kind {
	case Bool:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("property %s: expected bool, got %T", c.Name, v)
		}
		c.bools[i] = b
	case Int:
		n, ok := v.(int)
		if !ok {
			return fmt.Errorf("property %s: expected int, got %T", c.Name, v)
		}
		c.ints[i] = n
	case Category:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("property %s: expected string, got %T", c.Name, v)
		}
		c.cats[i] = s
	}
	return nil
}

// Len returns the number of values in the column
func (c *Column) Len() int {
	switch c.Kind {
	case Bool:
		return len(c.bools)
	case Int:
		return len(c.ints)
	default:
		return len(c.cats)
	}
}

// Bool returns the i-th value of a bool column
func (c *Column) Bool(i int) bool { return c.bools[i] }

// Int returns the i-th value of an int column
func (c *Column) Int(i int) int { return c.ints[i] }

// Category returns the i-th value of a category column
func (c *Column) Category(i int) string { return c.cats[i] }

// Value returns the i-th value as bool, int or string
func (c *Column) Value(i int) any {
	switch c.Kind {
	case Bool:
		return c.bools[i]
	case Int:
		return c.ints[i]
	default:
		return c.cats[i]
	}
}

// Table is the meta-property table: one row per glycan, one typed column per
// property. It is read-only once built.
type Table struct {
	mode    Mode
	ids     []string
	rows    map[string]int
	columns []*Column
	byName  map[string]*Column
}

func newTable(mode Mode, ids []string, props []Property) (*Table, error) {
	t := &Table{
		mode:   mode,
		ids:    append([]string(nil), ids...),
		rows:   make(map[string]int, len(ids)),
		byName: make(map[string]*Column, len(props)),
	}
	for i, id := range ids {
		if _, dup := t.rows[id]; dup {
			return nil, fmt.Errorf("duplicate glycan id %q", id)
		}
		t.rows[id] = i
	}
	for _, p := range props {
		c := newColumn(p, len(ids))
		t.columns = append(t.columns, c)
		t.byName[p.Name] = c
	}
	return t, nil
}

// Mode returns the mode the table was built in
func (t *Table) Mode() Mode { return t.mode }

// IDs returns a copy of the glycan ids in row order
func (t *Table) IDs() []string { return slices.Clone(t.ids) }

// Len returns the number of glycans
func (t *Table) Len() int { return len(t.ids) }

// Columns returns the columns in catalogue order
func (t *Table) Columns() []*Column { return t.columns }

// Column looks up a column by property name
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// Row returns the property values of one glycan keyed by property name
func (t *Table) Row(id string) (map[string]any, bool) {
	i, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	row := make(map[string]any, len(t.columns))
	for _, c := range t.columns {
		row[c.Name] = c.Value(i)
	}
	return row, true
}

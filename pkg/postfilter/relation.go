package postfilter

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/ritzau/glytrait/pkg/formula"
)

// RelationGraph holds the child-of relationship between trait formulas.
// An edge runs from a child formula to its parent. Node ids are the formula
// positions.
type RelationGraph struct {
	graph    *simple.DirectedGraph
	formulas []*formula.Formula
}

// NewRelationGraph builds the relationship graph of formulas
func NewRelationGraph(formulas []*formula.Formula) *RelationGraph {
	rg := &RelationGraph{
		graph:    simple.NewDirectedGraph(),
		formulas: formulas,
	}
	for i := range formulas {
		rg.graph.AddNode(simple.Node(int64(i)))
	}
	for i, child := range formulas {
		for j, parent := range formulas {
			if i != j && IsChildOf(child, parent) {
				rg.graph.SetEdge(rg.graph.NewEdge(simple.Node(int64(i)), simple.Node(int64(j))))
			}
		}
	}
	return rg
}

// Parents returns the positions of the formulas that formula i is a child of
func (rg *RelationGraph) Parents(i int) []int {
	var parents []int
	nodes := rg.graph.From(int64(i))
	for nodes.Next() {
		parents = append(parents, int(nodes.Node().ID()))
	}
	sort.Ints(parents)
	return parents
}

// HasEdge reports whether formula i is a child of formula j
func (rg *RelationGraph) HasEdge(i, j int) bool {
	return rg.graph.HasEdgeFromTo(int64(i), int64(j))
}

// Edges returns all child/parent pairs as formula names
func (rg *RelationGraph) Edges() [][2]string {
	var edges [][2]string
	iter := rg.graph.Edges()
	for iter.Next() {
		e := iter.Edge()
		edges = append(edges, [2]string{
			rg.formulas[e.From().ID()].Name,
			rg.formulas[e.To().ID()].Name,
		})
	}
	sort.Slice(edges, func(a, b int) bool {
		if edges[a][0] != edges[b][0] {
			return edges[a][0] < edges[b][0]
		}
		return edges[a][1] < edges[b][1]
	})
	return edges
}

// IsChildOf reports whether child refines parent: both have the same
// denominator terms and the numerator terms of child strictly contain those
// of parent.
func IsChildOf(child, parent *formula.Formula) bool {
	if !sameSet(termSet(child.Denominator), termSet(parent.Denominator)) {
		return false
	}
	cn, pn := termSet(child.Numerator), termSet(parent.Numerator)
	if len(cn) <= len(pn) {
		return false
	}
	for t := range pn {
		if !cn[t] {
			return false
		}
	}
	return true
}

func termSet(terms []formula.Term) map[string]bool {
	set := make(map[string]bool, len(terms))
	for _, t := range terms {
		set[t.String()] = true
	}
	return set
}

func sameSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

package glycan

import (
	"fmt"
	"sort"
)

// coreSize is the number of residues in the N-glycan core
const coreSize = 5

// corePattern is the order in which core residues are met in a
// fucose-skipping breadth-first traversal
var corePattern = [coreSize]Residue{GlcNAc, GlcNAc, Man, Man, Man}

// Structure is a parsed N-glycan tree.
//
// Residues are stored in an arena; parent and child edges are arena indexes.
// A Structure is immutable once ParseGlycoCT returns it.
type Structure struct {
	nodes       []node
	root        int
	composition Composition
	core        [coreSize]int
	glycanType  Type
}

// init derives the cached composition, the core and the type
func (s *Structure) init() error {
	s.composition = s.deriveComposition()
	if err := s.findCore(); err != nil {
		return err
	}
	s.glycanType = s.classify()
	return nil
}

func (s *Structure) deriveComposition() Composition {
	counts := make(map[rune]int)
	for i := range s.nodes {
		n := &s.nodes[i]
		switch n.residue {
		case Man, Gal, Glc:
			counts[Hex]++
		case GlcNAc, GalNAc:
			counts[HexNAc]++
		case Fuc:
			counts[DHex]++
		case Neu5Gc:
			counts[NeuGc]++
		case Neu5Ac:
			switch n.linkage {
			case LinkageA23:
				counts[NeuA23]++
			case LinkageA26:
				counts[NeuA26]++
			default:
				counts[NeuAc]++
			}
		}
	}
	c, _ := NewComposition(counts)
	return c
}

// findCore locates the five core residues.
//
// The first two residues of the traversal are the GlcNAc stem. The three
// mannoses may be interleaved with a bisecting GlcNAc, so residues not
// matching the next expected type are skipped.
func (s *Structure) findCore() error {
	var found []int
	for _, i := range s.breadthFirst(Fuc) {
		if len(found) == coreSize {
			break
		}
		if s.nodes[i].residue == corePattern[len(found)] {
			found = append(found, i)
		}
	}

	residues := make([]Residue, len(found))
	for k, i := range found {
		residues[k] = s.nodes[i].residue
	}
	sorted := append([]Residue(nil), residues...)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a] < sorted[b] })
	expected := corePattern[:]
	if len(sorted) != coreSize {
		return &CoreValidationError{Found: residues}
	}
	for k := range sorted {
		if sorted[k] != expected[k] {
			return &CoreValidationError{Found: residues}
		}
	}
	// The stem must open the traversal
	order := s.breadthFirst(Fuc)
	if order[0] != found[0] || order[1] != found[1] {
		return &CoreValidationError{Found: residues}
	}

	copy(s.core[:], found)
	return nil
}

// breadthFirst returns arena indexes in breadth-first order from the root,
// children in link order, leaving out residues of the skipped types. Skipped
// residues are still traversed.
func (s *Structure) breadthFirst(skip ...Residue) []int {
	skipped := func(r Residue) bool {
		for _, k := range skip {
			if k == r {
				return true
			}
		}
		return false
	}

	order := make([]int, 0, len(s.nodes))
	seen := make([]bool, len(s.nodes))
	queue := []int{s.root}
	seen[s.root] = true
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		if !skipped(s.nodes[i].residue) {
			order = append(order, i)
		}
		for _, c := range s.nodes[i].children {
			if !seen[c] {
				seen[c] = true
				queue = append(queue, c)
			}
		}
	}
	return order
}

func (s *Structure) isCore(i int) bool {
	for _, c := range s.core {
		if c == i {
			return true
		}
	}
	return false
}

// Composition returns the cached composition of the structure
func (s *Structure) Composition() Composition {
	return s.composition
}

// Len returns the number of residues
func (s *Structure) Len() int {
	return len(s.nodes)
}

// Count returns the number of residues of the given type
func (s *Structure) Count(r Residue) int {
	n := 0
	for i := range s.nodes {
		if s.nodes[i].residue == r {
			n++
		}
	}
	return n
}

// Core returns the ids of the five core residues in traversal order
func (s *Structure) Core() []string {
	ids := make([]string, coreSize)
	for k, i := range s.core {
		ids[k] = s.nodes[i].id
	}
	return ids
}

// Traverse returns residue ids in fucose-skipping breadth-first order
func (s *Structure) Traverse() []string {
	order := s.breadthFirst(Fuc)
	ids := make([]string, len(order))
	for k, i := range order {
		ids[k] = s.nodes[i].id
	}
	return ids
}

func (s *Structure) String() string {
	return fmt.Sprintf("Structure(%s)", s.composition)
}

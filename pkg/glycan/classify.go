package glycan

// Type is the N-glycan type
type Type int

const (
	Complex Type = iota
	HighMannose
	Hybrid
)

func (t Type) String() string {
	switch t {
	case Complex:
		return "complex"
	case HighMannose:
		return "highMannose"
	case Hybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// classify runs the type rules in priority order. The order matters for
// ambiguous inputs and must not change.
func (s *Structure) classify() Type {
	if s.composition.Equal(coreComposition) {
		return Complex
	}

	// Bisection is only found in complex glycans
	if s.IsBisecting() {
		return Complex
	}

	if s.Count(GlcNAc) == 2 {
		return HighMannose
	}

	// A terminal residue right after the core stem means a single antenna
	order := s.breadthFirst(Fuc)
	for _, i := range order[3:5] {
		if s.nodes[i].links() == 1 {
			return Complex
		}
	}

	if s.Count(GlcNAc) == 3 {
		return Hybrid
	}
	return Complex
}

// Type returns the glycan type
func (s *Structure) Type() Type {
	return s.glycanType
}

// IsBisecting reports whether the central core mannose carries a bisecting
// GlcNAc, seen as four glycosidic links on the third traversed residue.
func (s *Structure) IsBisecting() bool {
	order := s.breadthFirst(Fuc)
	if len(order) < 3 {
		return false
	}
	return s.nodes[order[2]].links() == 4
}

// CountAntennae returns the number of antennae of a complex glycan
func (s *Structure) CountAntennae() (int, error) {
	if s.glycanType != Complex {
		return 0, &BranchError{Type: s.glycanType}
	}
	n := 0
	for _, m := range s.core[3:] {
		for _, c := range s.nodes[m].children {
			if s.nodes[c].residue == GlcNAc {
				n++
			}
		}
	}
	return n, nil
}

// CountCoreFuc returns the number of fucoses attached to core residues
func (s *Structure) CountCoreFuc() int {
	n := 0
	for i := range s.nodes {
		if s.nodes[i].residue == Fuc && s.isCore(s.nodes[i].parent) {
			n++
		}
	}
	return n
}

// CountAntennaryFuc returns the number of fucoses not attached to the core
func (s *Structure) CountAntennaryFuc() int {
	n := 0
	for i := range s.nodes {
		if s.nodes[i].residue == Fuc && !s.isCore(s.nodes[i].parent) {
			n++
		}
	}
	return n
}

func (s *Structure) CountFuc() int { return s.Count(Fuc) }
func (s *Structure) CountMan() int { return s.Count(Man) }
func (s *Structure) CountGal() int { return s.Count(Gal) }

// CountSia returns the number of sialic acids (Neu5Ac and Neu5Gc)
func (s *Structure) CountSia() int {
	return s.Count(Neu5Ac) + s.Count(Neu5Gc)
}

// CountA23Sia returns the number of α2,3-linked sialic acids
func (s *Structure) CountA23Sia() (int, error) {
	return s.countLinkage(LinkageA23)
}

// CountA26Sia returns the number of α2,6-linked sialic acids
func (s *Structure) CountA26Sia() (int, error) {
	return s.countLinkage(LinkageA26)
}

func (s *Structure) countLinkage(l Linkage) (int, error) {
	sia, annotated, n := 0, 0, 0
	for i := range s.nodes {
		if !s.nodes[i].residue.IsSialic() {
			continue
		}
		sia++
		if s.nodes[i].linkage != LinkageUnknown {
			annotated++
		}
		if s.nodes[i].linkage == l {
			n++
		}
	}
	if sia > 0 && annotated == 0 {
		return 0, &SiaLinkageError{Glycan: s.composition.String()}
	}
	return n, nil
}

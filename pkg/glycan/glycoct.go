package glycan

import (
	"regexp"
	"strings"
)

var (
	resPattern = regexp.MustCompile(`^(\d+)([bs]):(.+)$`)
	linPattern = regexp.MustCompile(`^\d+:(\d+)[a-z]\(([-\d|]+)\+([-\d|]+)\)(\d+)([a-z])$`)
)

// rawResidue holds a RES entry before its type is resolved
type rawResidue struct {
	id          string
	token       string
	stems       []string
	superclass  string
	mods        []string
	substituent string // only for substituent entries
	isSub       bool
	parentPos   string
	subs        []string // substituents attached to this residue
}

// ParseGlycoCT parses a GlycoCT condensed string into a validated Structure.
//
// Lines (or whitespace separated tokens) are expected in a RES section
// optionally followed by a LIN section. Other sections are not supported.
func ParseGlycoCT(text string) (*Structure, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, &StructureParseError{Msg: "empty input"}
	}
	if tokens[0] != "RES" {
		return nil, &StructureParseError{Token: tokens[0], Msg: "expected RES section"}
	}

	var raws []*rawResidue
	byID := make(map[string]*rawResidue)
	section := "RES"
	var links []string

	for _, tok := range tokens[1:] {
		if !strings.Contains(tok, ":") {
			if tok == "LIN" && section == "RES" {
				section = "LIN"
				continue
			}
			return nil, &StructureParseError{Token: tok, Msg: "unsupported section"}
		}

		switch section {
		case "RES":
			raw, err := parseResidueToken(tok)
			if err != nil {
				return nil, err
			}
			if _, dup := byID[raw.id]; dup {
				return nil, &StructureParseError{Token: tok, Msg: "duplicate residue id"}
			}
			byID[raw.id] = raw
			raws = append(raws, raw)
		case "LIN":
			links = append(links, tok)
		}
	}

	// Basetype residues go into the arena in RES order
	index := make(map[string]int)
	var nodes []node
	for _, raw := range raws {
		if raw.isSub {
			continue
		}
		index[raw.id] = len(nodes)
		nodes = append(nodes, node{id: raw.id, parent: -1})
	}
	if len(nodes) == 0 {
		return nil, &StructureParseError{Msg: "no residues"}
	}

	for _, tok := range links {
		m := linPattern.FindStringSubmatch(tok)
		if m == nil {
			return nil, &StructureParseError{Token: tok, Msg: "malformed link"}
		}
		parentID, parentPos, childID, childType := m[1], m[2], m[4], m[5]

		parent, ok := byID[parentID]
		if !ok {
			return nil, &StructureParseError{Token: tok, Msg: "link references undeclared residue " + parentID}
		}
		child, ok := byID[childID]
		if !ok {
			return nil, &StructureParseError{Token: tok, Msg: "link references undeclared residue " + childID}
		}
		if parent.isSub {
			return nil, &StructureParseError{Token: tok, Msg: "substituent cannot carry children"}
		}

		if child.isSub || childType == "n" {
			if !child.isSub {
				return nil, &StructureParseError{Token: tok, Msg: "residue linked as substituent"}
			}
			parent.subs = append(parent.subs, child.substituent)
			continue
		}

		pi, ci := index[parentID], index[childID]
		if nodes[ci].parent >= 0 {
			return nil, &StructureParseError{Token: tok, Msg: "residue has more than one parent"}
		}
		if pi == ci {
			return nil, &StructureParseError{Token: tok, Msg: "residue linked to itself"}
		}
		nodes[ci].parent = pi
		nodes[pi].children = append(nodes[pi].children, ci)
		child.parentPos = parentPos
	}

	for _, raw := range raws {
		if raw.isSub {
			continue
		}
		i := index[raw.id]
		residue, err := resolveResidue(raw)
		if err != nil {
			return nil, err
		}
		nodes[i].residue = residue
		if residue.IsSialic() {
			nodes[i].linkage = linkageFromPosition(raw.parentPos)
		}
	}

	root := -1
	for i := range nodes {
		if nodes[i].parent < 0 {
			if root >= 0 {
				return nil, &StructureParseError{Token: nodes[i].id, Msg: "more than one root residue"}
			}
			root = i
		}
	}
	if root < 0 {
		return nil, &StructureParseError{Msg: "no root residue"}
	}

	s := &Structure{nodes: nodes, root: root}
	if len(s.breadthFirst()) != len(nodes) {
		return nil, &StructureParseError{Msg: "residues are not connected to the root"}
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func parseResidueToken(tok string) (*rawResidue, error) {
	m := resPattern.FindStringSubmatch(tok)
	if m == nil {
		return nil, &StructureParseError{Token: tok, Msg: "malformed residue"}
	}
	raw := &rawResidue{id: m[1], token: tok}

	if m[2] == "s" {
		raw.isSub = true
		raw.substituent = m[3]
		return raw, nil
	}

	parts := strings.Split(m[3], "|")
	raw.mods = parts[1:]

	fields := strings.Split(parts[0], "-")
	// anomer, one or more stems, superclass, ring
	if len(fields) < 4 {
		return nil, &StructureParseError{Token: tok, Msg: "malformed residue"}
	}
	raw.stems = fields[1 : len(fields)-2]
	raw.superclass = fields[len(fields)-2]
	return raw, nil
}

func resolveResidue(raw *rawResidue) (Residue, error) {
	hasSub := func(name string) bool {
		for _, s := range raw.subs {
			if s == name {
				return true
			}
		}
		return false
	}
	hasMod := func(mod string) bool {
		for _, m := range raw.mods {
			if m == mod {
				return true
			}
		}
		return false
	}
	stems := strings.Join(raw.stems, "-")

	switch raw.superclass {
	case "HEX":
		switch stems {
		case "dglc":
			if hasSub("n-acetyl") {
				return GlcNAc, nil
			}
			return Glc, nil
		case "dgal":
			if hasSub("n-acetyl") {
				return GalNAc, nil
			}
			return Gal, nil
		case "dman":
			return Man, nil
		case "lgal":
			if hasMod("6:d") {
				return Fuc, nil
			}
		}
	case "NON":
		if stems == "dgro-dgal" {
			switch {
			case hasSub("n-acetyl"):
				return Neu5Ac, nil
			case hasSub("n-glycolyl"):
				return Neu5Gc, nil
			}
		}
	}
	return 0, &StructureParseError{Token: raw.token, Msg: "unsupported residue"}
}

func linkageFromPosition(pos string) Linkage {
	switch pos {
	case "3":
		return LinkageA23
	case "6":
		return LinkageA26
	default:
		return LinkageUnknown
	}
}

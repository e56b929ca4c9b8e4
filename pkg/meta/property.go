package meta

import (
	"fmt"

	"github.com/ritzau/glytrait/pkg/glycan"
)

// Mode selects how glycans are described: full structures or compositions only
type Mode string

const (
	StructureMode   Mode = "structure"
	CompositionMode Mode = "composition"
)

// ParseMode converts a mode name into a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case StructureMode, CompositionMode:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected %q or %q)", s, StructureMode, CompositionMode)
	}
}

// Kind is the value type of a meta-property column
type Kind int

const (
	Bool Kind = iota
	Int
	Category
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Category:
		return "category"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name written by MarshalText
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "bool":
		*k = Bool
	case "int":
		*k = Int
	case "category":
		*k = Category
	default:
		return fmt.Errorf("unknown property kind %q", b)
	}
	return nil
}

// Property describes one meta-property
type Property struct {
	Name        string `json:"name"`
	Kind        Kind   `json:"kind"`
	Linkage     bool   `json:"linkage"`
	Description string `json:"description"`
}

// structureProperty computes one value (bool, int or string) from a structure
type structureProperty struct {
	Property
	calc func(*glycan.Structure) (any, error)
}

type compositionProperty struct {
	Property
	calc func(glycan.Composition) (any, error)
}

func prop(name string, kind Kind, desc string) Property {
	return Property{Name: name, Kind: kind, Description: desc}
}

func linkageProp(name string, kind Kind, desc string) Property {
	return Property{Name: name, Kind: kind, Linkage: true, Description: desc}
}

// antennae counts antennae, reporting zero for non-complex glycans
func antennae(s *glycan.Structure) (int, error) {
	if s.Type() != glycan.Complex {
		return 0, nil
	}
	return s.CountAntennae()
}

func isNAntennary(n int) func(*glycan.Structure) (any, error) {
	return func(s *glycan.Structure) (any, error) {
		count, err := antennae(s)
		return count == n, err
	}
}

var structureProperties = []structureProperty{
	{prop("glycanType", Category, "glycan type (complex, highMannose or hybrid)"),
		func(s *glycan.Structure) (any, error) { return s.Type().String(), nil }},
	{prop("isComplex", Bool, "complex type"),
		func(s *glycan.Structure) (any, error) { return s.Type() == glycan.Complex, nil }},
	{prop("isHighMannose", Bool, "high-mannose type"),
		func(s *glycan.Structure) (any, error) { return s.Type() == glycan.HighMannose, nil }},
	{prop("isHybrid", Bool, "hybrid type"),
		func(s *glycan.Structure) (any, error) { return s.Type() == glycan.Hybrid, nil }},
	{prop("isBisecting", Bool, "carries a bisecting GlcNAc"),
		func(s *glycan.Structure) (any, error) { return s.IsBisecting(), nil }},
	{prop("is1Antennary", Bool, "mono-antennary complex glycan"), isNAntennary(1)},
	{prop("is2Antennary", Bool, "bi-antennary complex glycan"), isNAntennary(2)},
	{prop("is3Antennary", Bool, "tri-antennary complex glycan"), isNAntennary(3)},
	{prop("is4Antennary", Bool, "tetra-antennary complex glycan"), isNAntennary(4)},
	{prop("totalAntenna", Int, "number of antennae (0 for non-complex glycans)"),
		func(s *glycan.Structure) (any, error) { return antennae(s) }},
	{prop("coreFuc", Int, "number of core fucoses"),
		func(s *glycan.Structure) (any, error) { return s.CountCoreFuc(), nil }},
	{prop("antennaryFuc", Int, "number of antennary fucoses"),
		func(s *glycan.Structure) (any, error) { return s.CountAntennaryFuc(), nil }},
	{prop("hasAntennaryFuc", Bool, "has at least one antennary fucose"),
		func(s *glycan.Structure) (any, error) { return s.CountAntennaryFuc() > 0, nil }},
	{prop("totalFuc", Int, "number of fucoses"),
		func(s *glycan.Structure) (any, error) { return s.CountFuc(), nil }},
	{prop("hasFuc", Bool, "has at least one fucose"),
		func(s *glycan.Structure) (any, error) { return s.CountFuc() > 0, nil }},
	{prop("noFuc", Bool, "has no fucose"),
		func(s *glycan.Structure) (any, error) { return s.CountFuc() == 0, nil }},
	{prop("totalSia", Int, "number of sialic acids"),
		func(s *glycan.Structure) (any, error) { return s.CountSia(), nil }},
	{prop("hasSia", Bool, "has at least one sialic acid"),
		func(s *glycan.Structure) (any, error) { return s.CountSia() > 0, nil }},
	{prop("noSia", Bool, "has no sialic acid"),
		func(s *glycan.Structure) (any, error) { return s.CountSia() == 0, nil }},
	{prop("totalMan", Int, "number of mannoses"),
		func(s *glycan.Structure) (any, error) { return s.CountMan(), nil }},
	{prop("totalGal", Int, "number of galactoses"),
		func(s *glycan.Structure) (any, error) { return s.CountGal(), nil }},
}

var structureLinkageProperties = []structureProperty{
	{linkageProp("a23Sia", Int, "number of α2,3-linked sialic acids"),
		func(s *glycan.Structure) (any, error) { return s.CountA23Sia() }},
	{linkageProp("a26Sia", Int, "number of α2,6-linked sialic acids"),
		func(s *glycan.Structure) (any, error) { return s.CountA26Sia() }},
	{linkageProp("hasa23Sia", Bool, "has an α2,3-linked sialic acid"),
		func(s *glycan.Structure) (any, error) { n, err := s.CountA23Sia(); return n > 0, err }},
	{linkageProp("hasa26Sia", Bool, "has an α2,6-linked sialic acid"),
		func(s *glycan.Structure) (any, error) { n, err := s.CountA26Sia(); return n > 0, err }},
	{linkageProp("noa23Sia", Bool, "has no α2,3-linked sialic acid"),
		func(s *glycan.Structure) (any, error) { n, err := s.CountA23Sia(); return n == 0, err }},
	{linkageProp("noa26Sia", Bool, "has no α2,6-linked sialic acid"),
		func(s *glycan.Structure) (any, error) { n, err := s.CountA26Sia(); return n == 0, err }},
}

func compositionComplex(c glycan.Composition) bool {
	return glycan.CompositionType(c) == glycan.Complex
}

var compositionProperties = []compositionProperty{
	{prop("glycanType", Category, "glycan type (complex, highMannose or hybrid)"),
		func(c glycan.Composition) (any, error) { return glycan.CompositionType(c).String(), nil }},
	{prop("isComplex", Bool, "complex type"),
		func(c glycan.Composition) (any, error) { return compositionComplex(c), nil }},
	{prop("isHighMannose", Bool, "high-mannose type"),
		func(c glycan.Composition) (any, error) { return glycan.CompositionType(c) == glycan.HighMannose, nil }},
	{prop("isHybrid", Bool, "hybrid type"),
		func(c glycan.Composition) (any, error) { return glycan.CompositionType(c) == glycan.Hybrid, nil }},
	{prop("isHighBranching", Bool, "complex glycan with more than 4 HexNAc"),
		func(c glycan.Composition) (any, error) {
			return compositionComplex(c) && c.Count(glycan.HexNAc) > 4, nil
		}},
	{prop("isLowBranching", Bool, "complex glycan with at most 4 HexNAc"),
		func(c glycan.Composition) (any, error) {
			return compositionComplex(c) && c.Count(glycan.HexNAc) <= 4, nil
		}},
	{prop("totalHex", Int, "number of hexoses"),
		func(c glycan.Composition) (any, error) { return c.Count(glycan.Hex), nil }},
	{prop("totalHexNAc", Int, "number of HexNAcs"),
		func(c glycan.Composition) (any, error) { return c.Count(glycan.HexNAc), nil }},
	{prop("totalFuc", Int, "number of fucoses"),
		func(c glycan.Composition) (any, error) { return c.Count(glycan.DHex), nil }},
	{prop("hasFuc", Bool, "has at least one fucose"),
		func(c glycan.Composition) (any, error) { return c.Count(glycan.DHex) > 0, nil }},
	{prop("noFuc", Bool, "has no fucose"),
		func(c glycan.Composition) (any, error) { return c.Count(glycan.DHex) == 0, nil }},
	{prop("totalSia", Int, "number of sialic acids"),
		func(c glycan.Composition) (any, error) { return c.Sia(), nil }},
	{prop("hasSia", Bool, "has at least one sialic acid"),
		func(c glycan.Composition) (any, error) { return c.Sia() > 0, nil }},
	{prop("noSia", Bool, "has no sialic acid"),
		func(c glycan.Composition) (any, error) { return c.Sia() == 0, nil }},
}

var compositionLinkageProperties = []compositionProperty{
	{linkageProp("a23Sia", Int, "number of α2,3-linked sialic acids"),
		func(c glycan.Composition) (any, error) { return glycan.CompositionA23Sia(c) }},
	{linkageProp("a26Sia", Int, "number of α2,6-linked sialic acids"),
		func(c glycan.Composition) (any, error) { return glycan.CompositionA26Sia(c) }},
	{linkageProp("hasa23Sia", Bool, "has an α2,3-linked sialic acid"),
		func(c glycan.Composition) (any, error) { n, err := glycan.CompositionA23Sia(c); return n > 0, err }},
	{linkageProp("hasa26Sia", Bool, "has an α2,6-linked sialic acid"),
		func(c glycan.Composition) (any, error) { n, err := glycan.CompositionA26Sia(c); return n > 0, err }},
	{linkageProp("noa23Sia", Bool, "has no α2,3-linked sialic acid"),
		func(c glycan.Composition) (any, error) { n, err := glycan.CompositionA23Sia(c); return n == 0, err }},
	{linkageProp("noa26Sia", Bool, "has no α2,6-linked sialic acid"),
		func(c glycan.Composition) (any, error) { n, err := glycan.CompositionA26Sia(c); return n == 0, err }},
}

// Properties returns the property catalogue of a mode. Linkage properties are
// only included when siaLinkage is set.
func Properties(mode Mode, siaLinkage bool) []Property {
	var props []Property
	switch mode {
	case CompositionMode:
		props = make([]Property, 0, len(compositionProperties)+len(compositionLinkageProperties))
		for _, p := range compositionProperties {
			props = append(props, p.Property)
		}
		if siaLinkage {
			for _, p := range compositionLinkageProperties {
				props = append(props, p.Property)
			}
		}
	default:
		props = make([]Property, 0, len(structureProperties)+len(structureLinkageProperties))
		for _, p := range structureProperties {
			props = append(props, p.Property)
		}
		if siaLinkage {
			for _, p := range structureLinkageProperties {
				props = append(props, p.Property)
			}
		}
	}
	return props
}

// IsLinkageProperty reports whether name is one of the linkage-dependent properties
func IsLinkageProperty(name string) bool {
	for _, p := range structureLinkageProperties {
		if p.Name == name {
			return true
		}
	}
	return false
}

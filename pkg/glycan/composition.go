package glycan

import (
	"strconv"
	"strings"
	"unicode"
)

// Composition symbols in canonical order
const (
	Hex    = 'H' // hexose
	HexNAc = 'N' // N-acetylhexosamine
	DHex   = 'F' // deoxyhexose (fucose)
	NeuAc  = 'S' // Neu5Ac, linkage unspecified
	NeuGc  = 'G' // Neu5Gc
	NeuA23 = 'L' // α2,3-linked Neu5Ac
	NeuA26 = 'E' // α2,6-linked Neu5Ac
)

var symbolOrder = []rune{Hex, HexNAc, DHex, NeuAc, NeuGc, NeuA23, NeuA26}

func isSymbol(r rune) bool {
	for _, s := range symbolOrder {
		if s == r {
			return true
		}
	}
	return false
}

// Composition is an immutable multiset of monosaccharide counts
type Composition struct {
	counts map[rune]int
}

// NewComposition builds a composition from symbol counts.
// Unknown symbols and negative counts are rejected.
func NewComposition(counts map[rune]int) (Composition, error) {
	c := Composition{counts: make(map[rune]int, len(counts))}
	for sym, n := range counts {
		if !isSymbol(sym) {
			return Composition{}, &CompositionParseError{Part: string(sym), Msg: "unknown monosaccharide"}
		}
		if n < 0 {
			return Composition{}, &CompositionParseError{
				Part: string(sym) + strconv.Itoa(n),
				Msg:  "negative count",
			}
		}
		if n > 0 {
			c.counts[sym] = n
		}
	}
	return c, nil
}

// MustComposition is like ParseComposition but panics on error
func MustComposition(s string) Composition {
	c, err := ParseComposition(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseComposition parses shorthand such as "H5N4F1S2".
// Symbol order in the input does not matter.
func ParseComposition(s string) (Composition, error) {
	input := s
	s = strings.TrimSpace(s)
	if s == "" {
		return Composition{}, &CompositionParseError{Input: input, Msg: "empty composition"}
	}

	counts := make(map[rune]int)
	runes := []rune(s)
	for i := 0; i < len(runes); {
		sym := runes[i]
		if !unicode.IsLetter(sym) {
			return Composition{}, &CompositionParseError{Input: input, Part: string(sym), Msg: "expected a monosaccharide symbol"}
		}
		if !isSymbol(sym) {
			return Composition{}, &CompositionParseError{Input: input, Part: string(sym), Msg: "unknown monosaccharide"}
		}

		j := i + 1
		if j < len(runes) && runes[j] == '-' {
			j++
		}
		for j < len(runes) && unicode.IsDigit(runes[j]) {
			j++
		}
		pair := string(runes[i:j])
		digits := string(runes[i+1 : j])
		if digits == "" || digits == "-" {
			return Composition{}, &CompositionParseError{Input: input, Part: pair, Msg: "missing count"}
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return Composition{}, &CompositionParseError{Input: input, Part: pair, Msg: "invalid count"}
		}
		if n < 0 {
			return Composition{}, &CompositionParseError{Input: input, Part: pair, Msg: "negative count"}
		}
		if _, dup := counts[sym]; dup {
			return Composition{}, &CompositionParseError{Input: input, Part: string(sym), Msg: "duplicate monosaccharide"}
		}
		counts[sym] = n
		i = j
	}

	c, err := NewComposition(counts)
	if err != nil {
		err.(*CompositionParseError).Input = input
		return Composition{}, err
	}
	return c, nil
}

// Count returns the count of a symbol (0 if absent)
func (c Composition) Count(sym rune) int {
	return c.counts[sym]
}

// Sia returns the total number of sialic acids regardless of linkage
func (c Composition) Sia() int {
	return c.counts[NeuAc] + c.counts[NeuGc] + c.counts[NeuA23] + c.counts[NeuA26]
}

// Equal reports whether two compositions hold the same counts
func (c Composition) Equal(other Composition) bool {
	if len(c.counts) != len(other.counts) {
		return false
	}
	for sym, n := range c.counts {
		if other.counts[sym] != n {
			return false
		}
	}
	return true
}

// String returns the canonical shorthand, zero counts omitted
func (c Composition) String() string {
	var b strings.Builder
	for _, sym := range symbolOrder {
		if n := c.counts[sym]; n > 0 {
			b.WriteRune(sym)
			b.WriteString(strconv.Itoa(n))
		}
	}
	return b.String()
}

// coreComposition is the bare N-glycan core (3 Man + 2 GlcNAc)
var coreComposition = MustComposition("H3N2")

// CompositionType classifies a glycan known only by its composition
func CompositionType(c Composition) Type {
	switch {
	case c.Equal(coreComposition):
		return Complex
	case c.Count(HexNAc) == 2:
		return HighMannose
	case c.Count(HexNAc) == 3 && c.Count(Hex) >= 5:
		return Hybrid
	default:
		return Complex
	}
}

// CompositionA23Sia returns the number of α2,3-linked sialic acids encoded
// in the composition.
func CompositionA23Sia(c Composition) (int, error) {
	if err := checkCompositionLinkage(c); err != nil {
		return 0, err
	}
	return c.Count(NeuA23), nil
}

// CompositionA26Sia returns the number of α2,6-linked sialic acids encoded
// in the composition.
func CompositionA26Sia(c Composition) (int, error) {
	if err := checkCompositionLinkage(c); err != nil {
		return 0, err
	}
	return c.Count(NeuA26), nil
}

func checkCompositionLinkage(c Composition) error {
	if c.Sia() > 0 && c.Count(NeuA23)+c.Count(NeuA26) == 0 {
		return &SiaLinkageError{Glycan: c.String()}
	}
	return nil
}

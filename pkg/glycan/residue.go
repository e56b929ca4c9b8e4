package glycan

// Residue is the monosaccharide type of a node in a glycan tree
type Residue int

const (
	GlcNAc Residue = iota
	GalNAc
	Man
	Gal
	Glc
	Fuc
	Neu5Ac
	Neu5Gc
)

var residueNames = map[Residue]string{
	GlcNAc: "GlcNAc",
	GalNAc: "GalNAc",
	Man:    "Man",
	Gal:    "Gal",
	Glc:    "Glc",
	Fuc:    "Fuc",
	Neu5Ac: "Neu5Ac",
	Neu5Gc: "Neu5Gc",
}

func (r Residue) String() string {
	if name, ok := residueNames[r]; ok {
		return name
	}
	return "Unknown"
}

// IsSialic reports whether the residue is a sialic acid
func (r Residue) IsSialic() bool {
	return r == Neu5Ac || r == Neu5Gc
}

// Linkage describes how a sialic acid attaches to its parent
type Linkage int

const (
	LinkageUnknown Linkage = iota
	LinkageA23             // α2,3
	LinkageA26             // α2,6
)

func (l Linkage) String() string {
	switch l {
	case LinkageA23:
		return "a2,3"
	case LinkageA26:
		return "a2,6"
	default:
		return "unknown"
	}
}

// node is one residue in the structure arena. Edges are indexes into the arena.
type node struct {
	id       string
	residue  Residue
	parent   int // -1 for the root
	children []int
	linkage  Linkage
}

// links is the number of glycosidic links (parent and children) of the node
func (n *node) links() int {
	count := len(n.children)
	if n.parent >= 0 {
		count++
	}
	return count
}

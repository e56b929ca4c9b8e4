package meta

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ritzau/glytrait/pkg/glycan"
)

const coreH3N2 = `RES 1b:x-dglc-HEX-1:5 2b:x-dglc-HEX-1:5 3b:x-dman-HEX-1:5 4b:x-dman-HEX-1:5 5b:x-dman-HEX-1:5
6s:n-acetyl 7s:n-acetyl
LIN 1:1o(-1+1)2d 2:2o(-1+1)3d 3:3o(-1+1)4d 4:3o(-1+1)5d 5:2d(2+1)6n 6:1d(2+1)7n`

const highManH5N2 = `RES 1b:x-dglc-HEX-1:5 2b:x-dglc-HEX-1:5 3b:x-dman-HEX-1:5 4b:x-dman-HEX-1:5 5b:x-dman-HEX-1:5
6b:x-dman-HEX-1:5 7b:x-dman-HEX-1:5 8s:n-acetyl 9s:n-acetyl
LIN 1:1o(-1+1)2d 2:2o(-1+1)3d 3:3o(-1+1)4d 4:3o(-1+1)5d 5:5o(-1+1)6d 6:5o(-1+1)7d 7:2d(2+1)8n 8:1d(2+1)9n`

// biantennary with a core fucose and one α2,6 sialic acid
const complexH5N4F1E1 = `RES 1b:x-dglc-HEX-1:5 2s:n-acetyl 3b:x-lgal-HEX-1:5|6:d 4b:x-dglc-HEX-1:5 5s:n-acetyl
6b:x-dman-HEX-1:5 7b:x-dman-HEX-1:5 8b:x-dglc-HEX-1:5 9s:n-acetyl 10b:x-dgal-HEX-1:5
11b:x-dman-HEX-1:5 12b:x-dglc-HEX-1:5 13s:n-acetyl 14b:x-dgal-HEX-1:5
15b:a-dgro-dgal-NON-2:6|1:a|2:keto|3:d 16s:n-acetyl
LIN 1:1d(2+1)2n 2:1o(6+1)3d 3:1o(4+1)4d 4:4d(2+1)5n 5:4o(4+1)6d 6:6o(3+1)7d 7:7o(2+1)8d
8:8d(2+1)9n 9:8o(4+1)10d 10:6o(6+1)11d 11:11o(2+1)12d 12:12d(2+1)13n 13:12o(4+1)14d
14:14o(6+2)15d 15:15d(5+1)16n`

func parseAll(t *testing.T, texts ...string) []*glycan.Structure {
	t.Helper()
	out := make([]*glycan.Structure, len(texts))
	for i, text := range texts {
		s, err := glycan.ParseGlycoCT(text)
		if err != nil {
			t.Fatalf("ParseGlycoCT(%d) error = %v", i, err)
		}
		out[i] = s
	}
	return out
}

func TestBuildStructureTable(t *testing.T) {
	structures := parseAll(t, coreH3N2, highManH5N2, complexH5N4F1E1)
	ids := []string{"H3N2", "H5N2", "H5N4F1E1"}

	table, err := BuildStructureTable(context.Background(), ids, structures, false)
	if err != nil {
		t.Fatalf("BuildStructureTable() error = %v", err)
	}
	if table.Len() != 3 || table.Mode() != StructureMode {
		t.Fatalf("unexpected table: len=%d mode=%s", table.Len(), table.Mode())
	}
	if _, ok := table.Column("a23Sia"); ok {
		t.Error("linkage properties should be absent without siaLinkage")
	}

	tests := []struct {
		id    string
		prop  string
		value any
	}{
		{"H3N2", "glycanType", "complex"},
		{"H3N2", "totalAntenna", 0},
		{"H3N2", "is2Antennary", false},
		{"H5N2", "glycanType", "highMannose"},
		{"H5N2", "isHighMannose", true},
		{"H5N2", "totalAntenna", 0},
		{"H5N2", "totalMan", 5},
		{"H5N2", "noFuc", true},
		{"H5N4F1E1", "isComplex", true},
		{"H5N4F1E1", "is2Antennary", true},
		{"H5N4F1E1", "totalAntenna", 2},
		{"H5N4F1E1", "coreFuc", 1},
		{"H5N4F1E1", "antennaryFuc", 0},
		{"H5N4F1E1", "hasAntennaryFuc", false},
		{"H5N4F1E1", "hasFuc", true},
		{"H5N4F1E1", "totalSia", 1},
		{"H5N4F1E1", "totalGal", 2},
		{"H5N4F1E1", "isBisecting", false},
	}
	for _, tt := range tests {
		t.Run(tt.id+"/"+tt.prop, func(t *testing.T) {
			row, ok := table.Row(tt.id)
			if !ok {
				t.Fatalf("Row(%s) not found", tt.id)
			}
			if row[tt.prop] != tt.value {
				t.Errorf("%s = %v, want %v", tt.prop, row[tt.prop], tt.value)
			}
		})
	}
}

func TestBuildStructureTable_Linkage(t *testing.T) {
	structures := parseAll(t, highManH5N2, complexH5N4F1E1)
	table, err := BuildStructureTable(context.Background(), []string{"a", "b"}, structures, true)
	if err != nil {
		t.Fatalf("BuildStructureTable() error = %v", err)
	}
	a26, ok := table.Column("a26Sia")
	if !ok {
		t.Fatal("a26Sia column missing")
	}
	if a26.Int(0) != 0 || a26.Int(1) != 1 {
		t.Errorf("a26Sia = [%d %d], want [0 1]", a26.Int(0), a26.Int(1))
	}
	no23, _ := table.Column("noa23Sia")
	if !no23.Bool(1) {
		t.Error("noa23Sia should be true")
	}
}

func TestBuildStructureTable_LinkageErrorCarriesID(t *testing.T) {
	unannotated := strings.Replace(complexH5N4F1E1, "14:14o(6+2)15d", "14:14o(-1+2)15d", 1)
	structures := parseAll(t, highManH5N2, unannotated)

	_, err := BuildStructureTable(context.Background(), []string{"ok", "bad"}, structures, true)
	var linkErr *glycan.SiaLinkageError
	if !errors.As(err, &linkErr) {
		t.Fatalf("expected SiaLinkageError, got %v", err)
	}
	if !strings.Contains(err.Error(), "glycan bad") {
		t.Errorf("error should name the glycan: %v", err)
	}
}

func TestBuildTable_InvalidIDs(t *testing.T) {
	structures := parseAll(t, coreH3N2, coreH3N2)
	if _, err := BuildStructureTable(context.Background(), []string{"x", "x"}, structures, false); err == nil {
		t.Error("expected error for duplicate ids")
	}
	if _, err := BuildStructureTable(context.Background(), []string{"x"}, structures, false); err == nil {
		t.Error("expected error for length mismatch")
	}
}

func TestBuildCompositionTable(t *testing.T) {
	ids := []string{"H3N2", "H5N2", "H6N3", "H5N4F1L1E1", "H7N6S3"}
	comps := make([]glycan.Composition, len(ids))
	for i, id := range ids {
		comps[i] = glycan.MustComposition(id)
	}

	table, err := BuildCompositionTable(context.Background(), ids, comps, false)
	if err != nil {
		t.Fatalf("BuildCompositionTable() error = %v", err)
	}

	tests := []struct {
		id    string
		prop  string
		value any
	}{
		{"H3N2", "glycanType", "complex"},
		{"H5N2", "isHighMannose", true},
		{"H6N3", "isHybrid", true},
		{"H5N4F1L1E1", "isLowBranching", true},
		{"H5N4F1L1E1", "totalSia", 2},
		{"H5N4F1L1E1", "hasFuc", true},
		{"H7N6S3", "isHighBranching", true},
		{"H7N6S3", "isLowBranching", false},
		{"H7N6S3", "totalHexNAc", 6},
		{"H5N2", "isLowBranching", false},
	}
	for _, tt := range tests {
		row, _ := table.Row(tt.id)
		if row[tt.prop] != tt.value {
			t.Errorf("%s %s = %v, want %v", tt.id, tt.prop, row[tt.prop], tt.value)
		}
	}
}

func TestBuildCompositionTable_LinkageRequiresAnnotation(t *testing.T) {
	comps := []glycan.Composition{glycan.MustComposition("H5N4S2")}
	_, err := BuildCompositionTable(context.Background(), []string{"H5N4S2"}, comps, true)
	var linkErr *glycan.SiaLinkageError
	if !errors.As(err, &linkErr) {
		t.Errorf("expected SiaLinkageError, got %v", err)
	}
}

func TestProperties(t *testing.T) {
	structure := Properties(StructureMode, false)
	withLinkage := Properties(StructureMode, true)
	if len(withLinkage) != len(structure)+6 {
		t.Errorf("linkage adds %d properties, want 6", len(withLinkage)-len(structure))
	}
	for _, p := range Properties(CompositionMode, false) {
		if p.Name == "isBisecting" || p.Name == "coreFuc" {
			t.Errorf("composition mode should not expose %s", p.Name)
		}
	}
	if !IsLinkageProperty("hasa26Sia") || IsLinkageProperty("hasSia") {
		t.Error("IsLinkageProperty() misclassifies properties")
	}
}

func TestPropertyJSON(t *testing.T) {
	props := Properties(StructureMode, true)
	data, err := json.Marshal(props)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded []Property
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(decoded) != len(props) {
		t.Fatalf("decoded %d properties, want %d", len(decoded), len(props))
	}
	for i := range props {
		if decoded[i] != props[i] {
			t.Errorf("property %d = %+v, want %+v", i, decoded[i], props[i])
		}
	}

	var k Kind
	if err := json.Unmarshal([]byte(`"float"`), &k); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestTableIDsCopy(t *testing.T) {
	ids := []string{"H5N2", "H5N4"}
	comps := []glycan.Composition{glycan.MustComposition("H5N2"), glycan.MustComposition("H5N4")}
	table, err := BuildCompositionTable(context.Background(), ids, comps, false)
	if err != nil {
		t.Fatalf("BuildCompositionTable() error = %v", err)
	}
	got := table.IDs()
	got[0] = "changed"
	if table.IDs()[0] != "H5N2" {
		t.Errorf("IDs()[0] = %s after mutating the returned slice", table.IDs()[0])
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("composition"); err != nil || m != CompositionMode {
		t.Errorf("ParseMode(composition) = %v, %v", m, err)
	}
	if _, err := ParseMode("glycan"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

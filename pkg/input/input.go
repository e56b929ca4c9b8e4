// Package input reads glycan abundance tables and structure files.
package input

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ritzau/glytrait/pkg/frame"
	"github.com/ritzau/glytrait/pkg/glycan"
	"github.com/ritzau/glytrait/pkg/logging"
)

const (
	compositionColumn = "Composition"
	structureColumn   = "Structure"
)

// InputError is returned when an input file is malformed
type InputError struct {
	Path string
	Msg  string
}

func (e *InputError) Error() string {
	if e.Path == "" {
		return "invalid input: " + e.Msg
	}
	return fmt.Sprintf("invalid input %s: %s", e.Path, e.Msg)
}

// Input is the content of an abundance file
type Input struct {
	// IDs are the glycan ids from the Composition column, in file order
	IDs []string
	// Structures holds the GlycoCT text of each glycan, nil without a Structure column
	Structures []string
	// Abundance has one row per sample and one column per glycan
	Abundance *frame.Frame
}

// HasStructures reports whether the file carried a Structure column
func (in *Input) HasStructures() bool { return in.Structures != nil }

// ReadInput reads an abundance CSV file
func ReadInput(path string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	in, err := ParseInput(f)
	if err != nil {
		var ie *InputError
		if errors.As(err, &ie) {
			ie.Path = path
		}
		return nil, err
	}
	logging.Debug("Read input", "path", path, "glycans", len(in.IDs), "structures", in.HasStructures())
	return in, nil
}

// ParseInput parses abundance CSV data. The first column must be
// Composition, the optional second column Structure, and every other column
// holds the abundance of one sample. Empty cells are missing values.
func ParseInput(r io.Reader) (*Input, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, &InputError{Msg: "no glycans"}
	}

	header := records[0]
	if strings.TrimSpace(header[0]) != compositionColumn {
		return nil, &InputError{Msg: "the first column should be " + compositionColumn}
	}
	hasStructure := false
	for k, name := range header {
		if strings.TrimSpace(name) == structureColumn {
			if k != 1 {
				return nil, &InputError{Msg: "the second column should be " + structureColumn}
			}
			hasStructure = true
		}
	}
	first := 1
	if hasStructure {
		first = 2
	}
	samples := trimAll(header[first:])
	if len(samples) == 0 {
		return nil, &InputError{Msg: "no sample columns"}
	}

	in := &Input{}
	seenID := make(map[string]bool)
	seenStruct := make(map[string]bool)
	// values[j][i] is glycan i in sample j
	values := make([][]float64, len(samples))
	for _, rec := range records[1:] {
		id := strings.TrimSpace(rec[0])
		if id == "" {
			return nil, &InputError{Msg: "empty " + compositionColumn + " value"}
		}
		if seenID[id] {
			return nil, &InputError{Msg: "duplicated " + compositionColumn + " " + id}
		}
		seenID[id] = true
		in.IDs = append(in.IDs, id)

		if hasStructure {
			s := strings.TrimSpace(rec[1])
			if s == "" {
				return nil, &InputError{Msg: "missing " + structureColumn + " for " + id}
			}
			if seenStruct[s] {
				return nil, &InputError{Msg: "duplicated " + structureColumn + " for " + id}
			}
			seenStruct[s] = true
			in.Structures = append(in.Structures, s)
		}

		for j, cell := range rec[first:] {
			v, err := parseAbundance(cell)
			if err != nil {
				return nil, &InputError{Msg: fmt.Sprintf("%s in sample %s: %v", id, samples[j], err)}
			}
			values[j] = append(values[j], v)
		}
	}

	in.Abundance, err = frame.FromRows(samples, in.IDs, values)
	if err != nil {
		return nil, &InputError{Msg: err.Error()}
	}
	return in, nil
}

// ReadStructures reads a two-column structure CSV keyed by glycan id and
// returns the GlycoCT text of every id, in the order of ids.
func ReadStructures(path string, ids []string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	structures, err := ParseStructureFile(f, ids)
	if err != nil {
		var ie *InputError
		if errors.As(err, &ie) {
			ie.Path = path
		}
		return nil, err
	}
	return structures, nil
}

// ParseStructureFile parses structure CSV data, see ReadStructures
func ParseStructureFile(r io.Reader, ids []string) ([]string, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || len(records[0]) != 2 {
		return nil, &InputError{Msg: "the structure file should have exactly two columns"}
	}

	byID := make(map[string]string, len(records)-1)
	for _, rec := range records[1:] {
		byID[strings.TrimSpace(rec[0])] = strings.TrimSpace(rec[1])
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		s, ok := byID[id]
		if !ok || s == "" {
			return nil, &InputError{Msg: id + " is not found in the structure file"}
		}
		out[i] = s
	}
	return out, nil
}

// ParseStructures parses GlycoCT texts concurrently. Errors carry the glycan id.
func ParseStructures(ctx context.Context, ids, texts []string) ([]*glycan.Structure, error) {
	if len(ids) != len(texts) {
		return nil, fmt.Errorf("got %d glycan ids but %d structures", len(ids), len(texts))
	}
	out := make([]*glycan.Structure, len(texts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range texts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := glycan.ParseGlycoCT(texts[i])
			if err != nil {
				return fmt.Errorf("%s: %w", ids[i], err)
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseCompositions parses glycan ids as composition shorthand
func ParseCompositions(ids []string) ([]glycan.Composition, error) {
	out := make([]glycan.Composition, len(ids))
	for i, id := range ids {
		c, err := glycan.ParseComposition(id)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func readRecords(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, &InputError{Msg: err.Error()}
	}
	return records, nil
}

func parseAbundance(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "nan") || strings.EqualFold(cell, "na") {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", cell)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative abundance %v", v)
	}
	return v, nil
}

func trimAll(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

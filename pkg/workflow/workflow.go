// Package workflow runs a complete trait calculation: read input, load
// glycans and formulas, preprocess, compute, post-filter and report.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ritzau/glytrait/pkg/config"
	"github.com/ritzau/glytrait/pkg/formula"
	"github.com/ritzau/glytrait/pkg/frame"
	"github.com/ritzau/glytrait/pkg/glycan"
	"github.com/ritzau/glytrait/pkg/input"
	"github.com/ritzau/glytrait/pkg/logging"
	"github.com/ritzau/glytrait/pkg/meta"
	"github.com/ritzau/glytrait/pkg/postfilter"
	"github.com/ritzau/glytrait/pkg/preprocess"
	"github.com/ritzau/glytrait/pkg/report"
)

// Version is reported in the workbook summary
var Version = "dev"

// Options controls a computation
type Options struct {
	Mode          meta.Mode
	FilterRatio   float64
	Impute        preprocess.ImputeMethod
	SiaLinkage    bool
	PostFilter    bool
	CorrThreshold float64
	CorrMethod    postfilter.Method
}

// OptionsFromConfig converts a validated configuration
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	mode, err := meta.ParseMode(cfg.Mode)
	if err != nil {
		return Options{}, err
	}
	impute, err := preprocess.ParseImputeMethod(cfg.ImputeMethod)
	if err != nil {
		return Options{}, err
	}
	method, err := postfilter.ParseMethod(cfg.CorrMethod)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Mode:          mode,
		FilterRatio:   cfg.FilterRatio,
		Impute:        impute,
		SiaLinkage:    cfg.SiaLinkage,
		PostFilter:    cfg.PostFilter,
		CorrThreshold: cfg.CorrThreshold,
		CorrMethod:    method,
	}, nil
}

// Data holds the glycans and abundances of one run
type Data struct {
	IDs []string
	// Structures holds GlycoCT text aligned with IDs; unused in composition mode
	Structures []string
	// StructureColumn is set when the structures came from the input file
	StructureColumn bool
	// Abundance has one row per sample and one column per glycan
	Abundance *frame.Frame
}

// Compute turns abundances into direct and derived traits. Any glycan or
// formula error aborts the computation.
func Compute(ctx context.Context, data Data, formulas []*formula.Formula, opts Options) (*report.Result, error) {
	if len(formulas) == 0 {
		return nil, errors.New("no formulas to compute")
	}
	if !data.Abundance.SameCols(data.IDs) {
		return nil, errors.New("abundance columns do not match glycan ids")
	}

	// 1. Glycans. All are parsed up front so a bad one fails the run even
	// when filtering would drop it.
	load, err := loadGlycans(ctx, data, opts)
	if err != nil {
		return nil, err
	}

	// 2. Preprocessing
	filtered, err := preprocess.FilterGlycans(data.Abundance, opts.FilterRatio)
	if err != nil {
		return nil, err
	}
	imputed, err := preprocess.Impute(filtered, opts.Impute)
	if err != nil {
		return nil, err
	}
	normalized := preprocess.Normalize(imputed)
	kept := normalized.Cols()
	logging.Info("[1/3] Preprocessed abundance", "glycans", len(kept), "dropped", len(data.IDs)-len(kept), "impute", opts.Impute)

	// 3. Meta-properties of the remaining glycans
	table, err := load(kept)
	if err != nil {
		return nil, err
	}

	// 4. Derived traits
	inits, err := formula.InitializeAll(ctx, formulas, table)
	if err != nil {
		return nil, err
	}
	series, err := formula.EvaluateAll(ctx, inits, normalized)
	if err != nil {
		return nil, err
	}
	derived, err := frame.FromSeries(series)
	if err != nil {
		return nil, err
	}
	logging.Info("[2/3] Calculated derived traits", "traits", len(formulas), "samples", len(normalized.Rows()))

	result := &report.Result{
		Version:         Version,
		Meta:            table,
		Formulas:        formulas,
		Direct:          normalized,
		Derived:         derived,
		InputGlycans:    len(data.IDs),
		FilteredGlycans: len(kept),
	}

	// 5. Post-filtering
	if opts.PostFilter {
		if err := postFilter(result, opts); err != nil {
			return nil, err
		}
	}
	logging.Info("[3/3] Done", "direct", result.DirectCount(), "derived", result.DerivedCount())
	return result, nil
}

// loadGlycans parses the glycans and returns a builder for the meta-property
// table of any subset of them
func loadGlycans(ctx context.Context, data Data, opts Options) (func(ids []string) (*meta.Table, error), error) {
	index := make(map[string]int, len(data.IDs))
	for i, id := range data.IDs {
		index[id] = i
	}

	switch opts.Mode {
	case meta.StructureMode:
		if len(data.Structures) != len(data.IDs) {
			return nil, &config.ConfigError{Key: "structure-file", Msg: "structure mode needs a Structure column or a structure file"}
		}
		structures, err := input.ParseStructures(ctx, data.IDs, data.Structures)
		if err != nil {
			return nil, err
		}
		return func(ids []string) (*meta.Table, error) {
			subset := make([]*glycan.Structure, len(ids))
			for k, id := range ids {
				subset[k] = structures[index[id]]
			}
			return meta.BuildStructureTable(ctx, ids, subset, opts.SiaLinkage)
		}, nil

	case meta.CompositionMode:
		compositions, err := input.ParseCompositions(data.IDs)
		if err != nil {
			return nil, err
		}
		return func(ids []string) (*meta.Table, error) {
			subset := make([]glycan.Composition, len(ids))
			for k, id := range ids {
				subset[k] = compositions[index[id]]
			}
			return meta.BuildCompositionTable(ctx, ids, subset, opts.SiaLinkage)
		}, nil

	default:
		return nil, fmt.Errorf("unknown mode %q", opts.Mode)
	}
}

func postFilter(result *report.Result, opts Options) error {
	before := len(result.Formulas)
	formulas, derived, err := postfilter.FilterInvalid(result.Formulas, result.Derived)
	if errors.Is(err, postfilter.ErrNoTraitsLeft) {
		logging.Warn("Every derived trait is invalid", "traits", before)
		result.Formulas, result.Derived, result.InvalidTraits = nil, nil, before
		return nil
	}
	if err != nil {
		return err
	}
	result.InvalidTraits = before - len(formulas)

	before = len(formulas)
	formulas, derived, err = postfilter.FilterCollinearity(formulas, derived, opts.CorrThreshold, opts.CorrMethod)
	if err != nil {
		return err
	}
	if samples, _ := derived.Dims(); samples >= 3 {
		result.CollinearityDone = true
		result.CollinearTraits = before - len(formulas)
	}
	result.Formulas, result.Derived = formulas, derived
	return nil
}

// Runner runs the workflow from configuration and keeps runs from
// overlapping
type Runner struct {
	mu sync.Mutex
}

// NewRunner creates a new runner
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes a full run for cfg. reason is logged, e.g. "input changed".
func (r *Runner) Run(ctx context.Context, cfg *config.Config, reason string) (*report.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	logging.Info("Starting run", "reason", reason, "input", cfg.Input)
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	data, err := ReadData(cfg, opts.Mode)
	if err != nil {
		return nil, err
	}
	formulas, err := formula.LoadFile(opts.Mode, cfg.FormulaFile, opts.SiaLinkage)
	if err != nil {
		return nil, err
	}

	result, err := Compute(ctx, data, formulas, opts)
	if err != nil {
		return nil, err
	}
	result.Settings = Settings(cfg, data)

	if err := cfg.OutputDir(); err != nil {
		return nil, err
	}
	if err := report.WriteWorkbook(cfg.Output, result); err != nil {
		return nil, err
	}
	logging.Info("Run complete", "reason", reason, "output", cfg.Output)
	return result, nil
}

// Run executes a single workflow run
func Run(ctx context.Context, cfg *config.Config) (*report.Result, error) {
	return NewRunner().Run(ctx, cfg, "run")
}

// ReadData reads the input file and, in structure mode without a Structure
// column, the structure file
func ReadData(cfg *config.Config, mode meta.Mode) (Data, error) {
	in, err := input.ReadInput(cfg.Input)
	if err != nil {
		return Data{}, err
	}
	data := Data{
		IDs:             in.IDs,
		Structures:      in.Structures,
		StructureColumn: in.HasStructures(),
		Abundance:       in.Abundance,
	}

	if mode == meta.StructureMode && !in.HasStructures() {
		if cfg.StructureFile == "" {
			return Data{}, &config.ConfigError{Key: "structure-file", Msg: "structure mode needs a Structure column or a structure file"}
		}
		data.Structures, err = input.ReadStructures(cfg.StructureFile, in.IDs)
		if err != nil {
			return Data{}, err
		}
	}
	return data, nil
}

// Settings lists the options of a run for the report
func Settings(cfg *config.Config, data Data) []report.Setting {
	optional := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}
	return []report.Setting{
		{Name: "Input file", Value: cfg.Input},
		{Name: "Output file", Value: cfg.Output},
		{Name: "Mode", Value: cfg.Mode},
		{Name: "Sialic acid linkage", Value: cfg.SiaLinkage},
		{Name: "Imputation method", Value: cfg.ImputeMethod},
		{Name: "Glycan filter ratio", Value: cfg.FilterRatio},
		{Name: "Post filtering", Value: cfg.PostFilter},
		{Name: "Correlation threshold", Value: cfg.CorrThreshold},
		{Name: "Correlation method", Value: cfg.CorrMethod},
		{Name: "Formula file", Value: optional(cfg.FormulaFile)},
		{Name: "Structure file", Value: optional(cfg.StructureFile)},
		{Name: "Input file has structure", Value: data.StructureColumn},
	}
}

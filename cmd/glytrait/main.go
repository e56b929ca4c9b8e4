package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ritzau/glytrait/pkg/config"
	"github.com/ritzau/glytrait/pkg/formula"
	"github.com/ritzau/glytrait/pkg/logging"
	"github.com/ritzau/glytrait/pkg/report"
	"github.com/ritzau/glytrait/pkg/workflow"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "glytrait [input.csv]",
		Short: "Calculate derived glycan traits from glycan abundances",
		Long: `glytrait reads a CSV of glycan abundances, preprocesses it and calculates
the direct and derived traits of every sample into an XLSX workbook.

Settings are read from flags, GLYTRAIT_* environment variables and
glytrait.toml, in that order of precedence.`,
		Version:       workflow.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCmd,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default ./"+config.DefaultFile+" when present)")
	pf.CountP("verbose", "v", "more logging (-v debug, -vv trace)")
	pf.String("verbosity", "", "log level: trace, debug, info, warn or error")
	pf.Bool("log-json", false, "log as JSON")

	pf.String("input", "", "input CSV file (or the first argument)")
	pf.StringP("output", "o", "", "output XLSX file (default <input>_glytrait.xlsx)")
	pf.StringP("mode", "m", "structure", "glycan description: structure (s) or composition (c)")
	pf.Float64P("filter-ratio", "r", 0.5, "drop glycans missing in more than this ratio of samples")
	pf.StringP("impute-method", "i", "min", "missing value imputation: zero, min, lod, mean or median")
	pf.BoolP("sia-linkage", "l", false, "include sialic acid linkage traits")
	pf.StringP("formula-file", "f", "", "file with custom trait formulas")
	pf.StringP("structure-file", "s", "", "CSV mapping glycan ids to GlycoCT structures")
	pf.Bool("filter", true, "remove invalid and collinear derived traits")
	pf.Float64("corr-threshold", 1.0, "correlation at which a child trait counts as collinear")
	pf.String("corr-method", "pearson", "correlation method: pearson or spearman")
	pf.Int("port", 8080, "HTTP port for serve and watch --serve")

	root.AddCommand(&cobra.Command{
		Use:   "run <input.csv>",
		Short: "Calculate traits once (same as giving the input to glytrait directly)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCmd,
	}, newTemplateCmd(), newServeCmd(), newWatchCmd())
	return root
}

// loadConfig loads and validates the configuration of cmd. A positional
// argument is taken as the input file.
func loadConfig(cmd *cobra.Command, args []string, validators []config.Validator) (*config.Config, error) {
	flags := cmd.Flags()
	if len(args) > 0 {
		if err := flags.Set("input", args[0]); err != nil {
			return nil, err
		}
	}
	path, _ := flags.GetString("config")

	cfg, err := config.Load(flags, path)
	if err != nil {
		return nil, err
	}
	if err := setupLogging(cmd, cfg); err != nil {
		return nil, err
	}
	if err := config.Validate(cfg, validators); err != nil {
		return nil, err
	}
	logging.Debug("Loaded configuration", "config", path, "mode", cfg.Mode, "input", cfg.Input)
	return cfg, nil
}

func setupLogging(cmd *cobra.Command, cfg *config.Config) error {
	level, err := logging.ParseLevel(cfg.Verbosity, cfg.VerboseCnt)
	if err != nil {
		return &config.ConfigError{Key: "verbosity", Msg: err.Error()}
	}
	if asJSON, _ := cmd.Flags().GetBool("log-json"); asJSON {
		logging.SetJSONOutput(level)
	} else {
		logging.SetLevel(level)
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args, config.RunValidators)
	if err != nil {
		return err
	}
	result, err := workflow.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	report.PrintSummary(cmd.OutOrStdout(), result, cfg.Output)
	return nil
}

func newTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template <dir>",
		Short: "Write the built-in formula files into dir as a starting point for custom formulas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if info, err := os.Stat(dir); err == nil && !info.IsDir() {
				return &config.ConfigError{Key: "template", Msg: dir + " is not a directory"}
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := formula.SaveBuiltin(dir); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Built-in formulas written to %s\n", dir)
			return nil
		},
	}
}

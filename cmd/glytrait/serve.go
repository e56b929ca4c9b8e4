package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ritzau/glytrait/pkg/config"
	"github.com/ritzau/glytrait/pkg/logging"
	"github.com/ritzau/glytrait/pkg/pubsub"
	"github.com/ritzau/glytrait/pkg/report"
	"github.com/ritzau/glytrait/pkg/watcher"
	"github.com/ritzau/glytrait/pkg/web"
	"github.com/ritzau/glytrait/pkg/workflow"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the trait calculation as a JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args, config.ServeValidators)
			if err != nil {
				return err
			}
			opts, err := workflow.OptionsFromConfig(cfg)
			if err != nil {
				return err
			}
			return web.NewServer(opts).Start(cmd.Context(), cfg.Port)
		},
	}
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [input.csv]",
		Short: "Recalculate traits whenever the input, formula or structure file changes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  watchCmd,
	}
	cmd.Flags().Bool("serve", false, "also serve the API and stream run status at /api/subscribe/runs")
	cmd.Flags().Duration("quiet", watcher.DefaultTiming.QuietPeriod, "wait this long after the last change before re-running")
	return cmd
}

// watchSession re-runs the workflow for every batch of changes and reports
// each run to the console and, when serving, to run subscribers
type watchSession struct {
	cmd    *cobra.Command
	args   []string
	cfg    *config.Config
	runner *workflow.Runner
	server *web.Server
}

func watchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args, config.RunValidators)
	if err != nil {
		return err
	}
	s := &watchSession{cmd: cmd, args: args, cfg: cfg, runner: workflow.NewRunner()}

	serve, _ := cmd.Flags().GetBool("serve")
	quiet, _ := cmd.Flags().GetDuration("quiet")
	timing := watcher.DefaultTiming
	timing.QuietPeriod = quiet
	if timing.MaxWait < quiet {
		timing.MaxWait = 4 * quiet
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	if serve {
		if err := config.Validate(cfg, config.ServeValidators); err != nil {
			return err
		}
		opts, err := workflow.OptionsFromConfig(cfg)
		if err != nil {
			return err
		}
		s.server = web.NewServer(opts)
		g.Go(func() error { return s.server.Start(ctx, cfg.Port) })
	}

	s.run(ctx, "initial run")
	g.Go(func() error {
		err := watcher.Watch(ctx, s.files(), timing, func(ctx context.Context, b watcher.Batch) {
			if b.NeedsReload() {
				s.reload()
			}
			s.run(ctx, b.Reason())
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	return g.Wait()
}

// files maps the watched paths to their roles
func (s *watchSession) files() map[string]watcher.Kind {
	files := map[string]watcher.Kind{
		s.cfg.Input:         watcher.KindInput,
		s.cfg.FormulaFile:   watcher.KindFormula,
		s.cfg.StructureFile: watcher.KindStructure,
	}
	path, _ := s.cmd.Flags().GetString("config")
	if path == "" {
		if _, err := os.Stat(config.DefaultFile); errors.Is(err, fs.ErrNotExist) {
			return files
		}
		path = config.DefaultFile
	}
	files[path] = watcher.KindConfig
	return files
}

// reload picks up a changed config file; a broken one keeps the previous
// configuration. Watched paths stay fixed until restart.
func (s *watchSession) reload() {
	cfg, err := loadConfig(s.cmd, s.args, config.RunValidators)
	if err != nil {
		logging.Error("Keeping previous configuration", "error", err)
		return
	}
	s.cfg = cfg
	logging.Info("Configuration reloaded")
}

func (s *watchSession) run(ctx context.Context, reason string) {
	s.publish("started", pubsub.RunStatus{Reason: reason})
	start := time.Now()

	result, err := s.runner.Run(ctx, s.cfg, reason)
	status := pubsub.RunStatus{Reason: reason, Duration: time.Since(start).Milliseconds()}
	if err != nil {
		logging.Error("Run failed", "reason", reason, "error", err)
		status.Error = err.Error()
		s.publish("failed", status)
		return
	}

	report.PrintSummary(s.cmd.OutOrStdout(), result, s.cfg.Output)
	status.Output = s.cfg.Output
	status.Samples = len(result.Samples())
	status.Direct = result.DirectCount()
	status.Derived = result.DerivedCount()
	s.publish("completed", status)
}

func (s *watchSession) publish(eventType string, status pubsub.RunStatus) {
	if s.server == nil {
		return
	}
	if err := s.server.PublishRun(eventType, status); err != nil {
		logging.Warn("Failed to publish run status", "error", err)
	}
}

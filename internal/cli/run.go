package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/loadpatch/internal/audit"
	"github.com/mesh-intelligence/loadpatch/internal/job"
	"github.com/mesh-intelligence/loadpatch/internal/metrics"
	"github.com/mesh-intelligence/loadpatch/internal/paths"
	"github.com/mesh-intelligence/loadpatch/internal/pipeline"
	"github.com/mesh-intelligence/loadpatch/internal/plugins"
	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

type runFlags struct {
	outputDir   string
	metricsFile string
	diff        bool
	dryRun      bool
}

func newRunCmd(a *app) *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the patch mod for the current load order",
		Long: "Index the load order, check that a source mod is present, forward\n" +
			"missing alias conditions and write the patch mod. Nothing is written\n" +
			"unless the whole run succeeds.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "", "directory for the patch mod (default: data directory)")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")
	cmd.Flags().BoolVar(&f.diff, "diff", false, "print a diff of every override against its winning record")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "patch in memory only; write nothing")
	return cmd
}

func (a *app) run(cmd *cobra.Command, f runFlags) error {
	started := time.Now()

	cfg, err := decodeRunConfig(a.v)
	if err != nil {
		return err
	}
	dataDir, err := a.dataDir()
	if err != nil {
		return err
	}
	outputDir, err := paths.ResolveOutputDir(f.outputDir, cfg.OutputDir, dataDir)
	if err != nil {
		return err
	}

	backend, err := a.attach(cfg, dataDir)
	if err != nil {
		return err
	}
	defer backend.Detach()

	lo, err := backend.LoadOrder()
	if err != nil {
		return err
	}
	cache, err := backend.LinkCache()
	if err != nil {
		return err
	}

	primary, err := job.New(cfg.jobSettings())
	if err != nil {
		return err
	}
	if err := primary.Check(lo); err != nil {
		return err
	}

	loader := plugins.NewLoader(a.logger)
	if err := cfg.registerPlugins(loader); err != nil {
		return err
	}
	active, err := loader.Scan(lo)
	if err != nil {
		return err
	}

	patch := types.NewMod(types.ModKey(cfg.PatchName))
	base := pipeline.NewBase(patch, pipeline.WithLogger(a.logger))
	state := plugins.State{LoadOrder: lo, LinkCache: cache, Pipeline: base}

	if err := primary.Run(state); err != nil {
		return err
	}
	for _, p := range active {
		if err := p.Run(state); err != nil {
			return fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
	}
	base.LogSummary()

	out := cmd.OutOrStdout()
	if f.diff {
		diffs, err := audit.ModDiff(cache, patch)
		if err != nil {
			return err
		}
		printDiffs(out, diffs)
	}

	if !f.dryRun {
		if err := backend.WriteMod(outputDir, patch); err != nil {
			return fmt.Errorf("write patch mod: %w", err)
		}
		if err := backend.SaveReport(base.Report()); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		a.logger.Info("wrote patch mod",
			zap.String("dir", outputDir),
			zap.Stringer("mod", patch.ModKey),
			zap.String("report_id", base.Report().ID()),
		)
	}

	if f.metricsFile != "" {
		rec := metrics.NewRecorder()
		rec.Observe(base.Report())
		rec.SetPlugins(len(active))
		rec.SetDuration(time.Since(started))
		if err := rec.WriteTextfile(f.metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	printSummary(out, patch.ModKey, base.Report(), f.dryRun)
	return nil
}

package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/ufcpredictor/datasource"
	"github.com/YuminosukeSato/ufcpredictor/frame"
	"github.com/YuminosukeSato/ufcpredictor/pipeline"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
	"github.com/YuminosukeSato/ufcpredictor/pkg/log"
	"github.com/YuminosukeSato/ufcpredictor/pkg/metrics"
	"github.com/YuminosukeSato/ufcpredictor/report"
)

func newTrainCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Assemble the training table, fit the model and report test results",
		Long: `Train seeds the table from the configured fights CSV, joins every data
source in order, applies the feature builders, splits, fits and predicts.

The test summary is printed as YAML. Summary, plot and Prometheus textfile
outputs are written when their paths are configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrain(cmd, root)
		},
	}
}

func runTrain(cmd *cobra.Command, root *rootOptions) (err error) {
	defer errors.Recover(&err, "train")

	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	how, err := frame.ParseJoinHow(cfg.Join)
	if err != nil {
		return err
	}

	fights, err := datasource.NewFights(cfg.FightsPath)
	if err != nil {
		return err
	}
	table, err := fights.Load(cmd.Context())
	if err != nil {
		return err
	}
	inputs, err := pipeline.InputsFromFights(table, datasource.DefaultOutcomeName)
	if err != nil {
		return err
	}
	sources, err := buildSources(cfg)
	if err != nil {
		return err
	}
	builders, err := buildBuilders(cfg)
	if err != nil {
		return err
	}
	strategy, err := buildStrategy(cfg.Split)
	if err != nil {
		return err
	}
	model, err := buildModel(cfg.Model, logger)
	if err != nil {
		return err
	}

	m := metrics.NewManager()
	runner := pipeline.NewRunner(
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(m),
		pipeline.WithParallelLoads(cfg.ParallelLoads),
		pipeline.WithJoinHow(how),
	)
	res, runErr := runner.Run(cmd.Context(), inputs, sources, builders, strategy, model)
	if path := cfg.Output.MetricsPath; path != "" {
		if err := ensureDir(path); err != nil {
			return err
		}
		if err := m.WriteToTextfile(path); err != nil {
			logger.Error("metrics textfile not written", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	summary, err := report.Summarize(res)
	if err != nil {
		return err
	}
	if err := report.WriteYAML(cmd.OutOrStdout(), summary); err != nil {
		return err
	}
	if path := cfg.Output.SummaryPath; path != "" {
		if err := writeSummary(path, summary); err != nil {
			return err
		}
	}
	if path := cfg.Output.PlotPath; path != "" {
		if err := ensureDir(path); err != nil {
			return err
		}
		if err := report.PlotOutcomes(summary, path); err != nil {
			return err
		}
	}
	logger.Info("training run complete", log.RunIDKey, res.RunID(), log.AccuracyKey, summary.Accuracy)
	return nil
}

func writeSummary(path string, s *report.Summary) (err error) {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	return report.WriteYAML(f, s)
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	return nil
}

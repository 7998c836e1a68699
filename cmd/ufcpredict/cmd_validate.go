package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/ufcpredictor/frame"
	"github.com/YuminosukeSato/ufcpredictor/pipeline"
	"github.com/YuminosukeSato/ufcpredictor/pkg/log"
)

func newValidateCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration without loading any data",
		Long: `Validate loads the configuration, constructs every source, builder, split
strategy and model, and checks that each builder's required sources and
features are available in the configured order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, root)
		},
	}
}

func runValidate(cmd *cobra.Command, root *rootOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if _, err := frame.ParseJoinHow(cfg.Join); err != nil {
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
	ids := make([]string, len(sources))
	for i, s := range sources {
		ids[i] = s.ID()
	}
	if err := pipeline.ValidateDependencies(ids, builders); err != nil {
		return err
	}
	if _, err := buildStrategy(cfg.Split); err != nil {
		return err
	}
	if _, err := buildModel(cfg.Model, log.NewNopLogger()); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "configuration OK: %d sources, %d builders, %s split, %s model\n",
		len(sources), len(builders), cfg.Split.Kind, cfg.Model.Kind)
	return err
}

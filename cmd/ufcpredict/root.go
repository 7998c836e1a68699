package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/ufcpredictor/pkg/config"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
	"github.com/YuminosukeSato/ufcpredictor/pkg/log"
)

var version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "ufcpredict",
		Short: "Build a fight-outcome training set and evaluate a model on it",
		Long: `ufcpredict seeds a table from base fight records, joins the configured
data sources one-to-one, applies feature builders, splits the table and fits
a classifier.

Configuration comes from a YAML file (--config or UFCPREDICT_CONFIG) with
UFCPREDICT_* environment overrides.`,
		Version:      version,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to the run configuration YAML")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level")

	cmd.AddCommand(newTrainCommand(opts))
	cmd.AddCommand(newValidateCommand(opts))
	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}

// loadConfig reads the configuration and applies flag overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newLogger builds the logger for cfg and installs it process-wide. The
// zerolog formats also route library warnings through it.
func newLogger(cfg *config.Config, w io.Writer) (log.Logger, error) {
	level, err := log.ToLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.NewConfigurationError("config", err.Error())
	}
	if w == nil {
		w = os.Stderr
	}
	if cfg.LogFormat == "cloud" {
		return log.SetupLogger(w, cfg.LogLevel)
	}
	if cfg.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}
	logger := log.NewZerologLogger(w, log.Level(level))
	logger.InstallWarningHook()
	log.SetLogger(logger)
	return logger, nil
}

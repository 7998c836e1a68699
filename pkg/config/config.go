// Package config defines the run configuration and how it is loaded.
//
// Values are layered, lowest precedence first: defaults from New, an optional
// YAML file, then UFCPREDICT_* environment variables. Nested keys use a double
// underscore in the environment, e.g. UFCPREDICT_SPLIT__TEST_FRACTION.
package config

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// Source kinds.
const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Builder kinds.
const (
	BuilderDifference = "difference"
	BuilderSign       = "sign"
	BuilderZScore     = "zscore"
)

// Split kinds.
const (
	SplitHoldout    = "holdout"
	SplitOrdered    = "ordered"
	SplitStratified = "stratified"
)

// Model kinds.
const (
	ModelLogistic = "logistic"
	ModelDummy    = "dummy"
)

// Config is the configuration of one training run.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is json, console or cloud (slog with Cloud Logging keys).
	LogFormat string `koanf:"log_format"`

	// FightsPath is the CSV of base fight records that seeds the table.
	FightsPath string `koanf:"fights_path"`

	// Join is left, inner or strict.
	Join string `koanf:"join"`

	// ParallelLoads bounds concurrent source loads; 1 loads sequentially.
	ParallelLoads int `koanf:"parallel_loads"`

	Sources  []SourceConfig  `koanf:"sources"`
	Builders []BuilderConfig `koanf:"builders"`
	Split    SplitConfig     `koanf:"split"`
	Model    ModelConfig     `koanf:"model"`
	Output   OutputConfig    `koanf:"output"`
}

// SourceConfig describes one feature data source.
type SourceConfig struct {
	ID       string   `koanf:"id"`
	Kind     string   `koanf:"kind"`
	Path     string   `koanf:"path"`
	Query    string   `koanf:"query"`
	JoinKeys []string `koanf:"join_keys"`
	Prefix   string   `koanf:"prefix"`
}

// BuilderConfig describes one feature builder.
type BuilderConfig struct {
	ID               string   `koanf:"id"`
	Kind             string   `koanf:"kind"`
	Inputs           []string `koanf:"inputs"`
	Output           string   `koanf:"output"`
	RequiresSources  []string `koanf:"requires_sources"`
	RequiresFeatures []string `koanf:"requires_features"`
}

// SplitConfig selects the split strategy.
type SplitConfig struct {
	Kind         string  `koanf:"kind"`
	TestFraction float64 `koanf:"test_fraction"`
	Seed         uint64  `koanf:"seed"`
	Shuffle      bool    `koanf:"shuffle"`
}

// ModelConfig selects and tunes the estimator.
type ModelConfig struct {
	Kind        string   `koanf:"kind"`
	C           float64  `koanf:"c"`
	MaxIter     int      `koanf:"max_iter"`
	Tol         float64  `koanf:"tol"`
	Seed        uint64   `koanf:"seed"`
	MultiClass  string   `koanf:"multi_class"`
	ClassWeight string   `koanf:"class_weight"`
	Strategy    string   `koanf:"strategy"`
	Scale       bool     `koanf:"scale"`
	Impute      bool     `koanf:"impute"`
	Columns     []string `koanf:"columns"`
}

// OutputConfig names the files a run writes. Empty paths are skipped.
type OutputConfig struct {
	SummaryPath string `koanf:"summary_path"`
	PlotPath    string `koanf:"plot_path"`
	MetricsPath string `koanf:"metrics_path"`
}

// New returns the defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "json",
		Join:          "left",
		ParallelLoads: 1,
		Split: SplitConfig{
			Kind:         SplitHoldout,
			TestFraction: 0.2,
			Seed:         42,
			Shuffle:      true,
		},
		Model: ModelConfig{
			Kind:        ModelLogistic,
			C:           1.0,
			MaxIter:     200,
			Tol:         1e-4,
			MultiClass:  "auto",
			ClassWeight: "none",
			Strategy:    "most_frequent",
			Scale:       true,
			Impute:      true,
		},
	}
}

// Validate reports the first invalid setting as a ConfigurationError.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log_level", fmt.Sprintf("unknown level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "json", "console", "cloud":
	default:
		return invalid("log_format", fmt.Sprintf("unknown format %q", c.LogFormat))
	}
	if c.FightsPath == "" {
		return invalid("fights_path", "must not be empty")
	}
	switch strings.ToLower(c.Join) {
	case "", "left", "inner", "strict":
	default:
		return invalid("join", fmt.Sprintf("unknown join %q", c.Join))
	}
	if c.ParallelLoads < 1 {
		return invalid("parallel_loads", "must be at least 1")
	}

	ids := make(map[string]bool, len(c.Sources))
	for i, s := range c.Sources {
		key := fmt.Sprintf("sources[%d]", i)
		if s.ID == "" {
			return invalid(key, "id must not be empty")
		}
		if ids[s.ID] {
			return invalid(key, fmt.Sprintf("duplicate source id %q", s.ID))
		}
		ids[s.ID] = true
		if len(s.JoinKeys) == 0 {
			return invalid(key, "join_keys must not be empty")
		}
		if s.Path == "" {
			return invalid(key, "path must not be empty")
		}
		switch s.Kind {
		case SourceCSV:
		case SourceSQLite:
			if s.Query == "" {
				return invalid(key, "sqlite sources need a query")
			}
		default:
			return invalid(key, fmt.Sprintf("unknown kind %q", s.Kind))
		}
	}

	for i, b := range c.Builders {
		key := fmt.Sprintf("builders[%d]", i)
		if b.ID == "" {
			return invalid(key, "id must not be empty")
		}
		want := map[string]int{BuilderDifference: 2, BuilderSign: 1}
		switch b.Kind {
		case BuilderDifference, BuilderSign:
			if len(b.Inputs) != want[b.Kind] {
				return invalid(key, fmt.Sprintf("%s takes %d inputs", b.Kind, want[b.Kind]))
			}
			if b.Output == "" {
				return invalid(key, "output must not be empty")
			}
		case BuilderZScore:
			if len(b.Inputs) == 0 {
				return invalid(key, "zscore needs at least one input")
			}
		default:
			return invalid(key, fmt.Sprintf("unknown kind %q", b.Kind))
		}
	}

	switch c.Split.Kind {
	case SplitHoldout, SplitOrdered, SplitStratified:
	default:
		return invalid("split.kind", fmt.Sprintf("unknown kind %q", c.Split.Kind))
	}
	if c.Split.TestFraction < 0 || c.Split.TestFraction >= 1 {
		return invalid("split.test_fraction", "must be in [0, 1)")
	}

	switch c.Model.Kind {
	case ModelLogistic:
		if c.Model.C <= 0 {
			return invalid("model.c", "must be positive")
		}
		if c.Model.MaxIter <= 0 {
			return invalid("model.max_iter", "must be positive")
		}
	case ModelDummy:
	default:
		return invalid("model.kind", fmt.Sprintf("unknown kind %q", c.Model.Kind))
	}
	return nil
}

func invalid(key, reason string) error {
	return errors.NewConfigurationError("config", key+": "+reason)
}

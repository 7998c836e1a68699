package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "UFCPREDICT_"

// EnvConfigPath names the variable holding the YAML path when Load gets none.
const EnvConfigPath = EnvPrefix + "CONFIG"

// Load builds a validated Config from defaults, the YAML file at path (or
// $UFCPREDICT_CONFIG when path is empty) and UFCPREDICT_* variables.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(path string) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "load config file %s", path)
		}
	}

	// UFCPREDICT_SPLIT__TEST_FRACTION -> split.test_fraction
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		if s == "CONFIG" {
			return ""
		}
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Wrap(err, "load config env")
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	return &cfg, nil
}

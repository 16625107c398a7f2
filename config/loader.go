package config

import (
	_ "embed"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/brickbreaker.yaml
var defaultYAML []byte

const (
	EnvPrefix = "BRICKBREAKER"
	LocalFile = "brickbreaker.yaml"
)

// Load builds the config.
// Search order: customPath -> ./brickbreaker.yaml -> embedded default.
// Environment overrides apply last.
func Load(customPath string) (*Config, error) {
	cfg := Default()

	switch {
	case customPath != "":
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", customPath)
		}
		if err := decode(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", customPath)
		}
	case fileExists(LocalFile):
		data, err := os.ReadFile(LocalFile)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", LocalFile)
		}
		if err := decode(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", LocalFile)
		}
	default:
		if err := decode(defaultYAML, cfg); err != nil {
			return nil, errors.Wrap(err, "parse embedded default config")
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.Wrap(err, "read environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode overlays data onto cfg; absent keys keep their current values.
func decode(data []byte, cfg *Config) error {
	if len(data) == 0 {
		return nil
	}
	return yaml.Unmarshal(data, cfg)
}

func fileExists(name string) bool {
	info, err := os.Stat(name)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Marshal renders cfg as YAML, as written by the config command.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

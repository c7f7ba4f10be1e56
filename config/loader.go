package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/riverrun-transit/gtfs-tripify/ops"
)

// Config is the global application configuration.
var Config AppConfig

// LoadAppConfig loads and validates the application configuration from
// config.yml, falling through to defaults if no file is present.
func LoadAppConfig() error {
	paths := []string{"config.yml", "./gtfs-tripify.yml"}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		Config = defaultConfig()
		return nil
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	v := validator.New()
	if err := v.Struct(cfg.Clean); err != nil {
		return err
	}
	if err := v.Struct(cfg.Output); err != nil {
		return err
	}
	if err := v.Struct(cfg.Fetch); err != nil {
		return err
	}

	Config = cfg
	return nil
}

func defaultConfig() AppConfig {
	return AppConfig{
		Clean: CleanConfig{
			CutCancellationsThreshold: ops.DefaultCutCancellationsThreshold,
		},
		Output: OutputConfig{Format: "csv"},
	}
}

// RouteCutExceptionSet converts the configured allowlist into the type
// ops.CutCancellations expects.
func (c AppConfig) RouteCutExceptionSet() ops.RouteCutExceptions {
	return ops.NewRouteCutExceptions(c.Clean.RouteCutExceptions...)
}

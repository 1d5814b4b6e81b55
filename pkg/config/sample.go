package config

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/repochunk/repochunk/pkg/priority"
)

// SampleConfig returns a starter configuration with a few priority rules.
func SampleConfig() *Config {
	cfg := DefaultConfig()
	cfg.IgnorePatterns = []string{"^dist/", "\\.min\\.js$"}
	cfg.PriorityRules = []priority.Rule{
		{Pattern: "^src/", Score: 100},
		{Pattern: "^docs/", Score: 20},
		{Pattern: "test", Score: 10},
	}
	cfg.BinaryExtensions = []string{".blend", ".psd"}
	return cfg
}

// WriteSample encodes cfg to w as "yaml" or "toml".
func WriteSample(w io.Writer, cfg *Config, format string) error {
	switch format {
	case "toml":
		return toml.NewEncoder(w).Encode(cfg)
	case "yaml", "yml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported config format %q (must be yaml or toml)", format)
	}
}

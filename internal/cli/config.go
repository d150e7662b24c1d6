package cli

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/kbforge/klegen/pkg/errors"
	"github.com/kbforge/klegen/pkg/pipeline"
)

// configFileName is the default project config looked up in the working
// directory when --config is not given.
const configFileName = "klegen.toml"

// Config holds generation settings loadable from a TOML file. Flag values
// take precedence over file values, which take precedence over defaults.
type Config struct {
	OutDir    string `toml:"out_dir"`
	Columns   string `toml:"columns"`
	NoRouting bool   `toml:"no_routing"`
	Diagram   bool   `toml:"diagram"`
}

// loadConfig reads a config file. An explicitly requested file must exist;
// the default klegen.toml is optional and its absence yields an empty config.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = configFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config file %s", path)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config file %s", path)
	}
	return &cfg, nil
}

// applyConfig fills pipeline options from a config file for every setting
// whose flag was not set on the command line.
func applyConfig(cmd *cobra.Command, cfg *Config, opts *pipeline.Options) {
	flags := cmd.Flags()
	if cfg.OutDir != "" && !flags.Changed("out") {
		opts.OutDir = cfg.OutDir
	}
	if cfg.Columns != "" && !flags.Changed("columns") {
		opts.Policy = cfg.Columns
	}
	if cfg.NoRouting && !flags.Changed("no-routing") {
		opts.NoRouting = true
	}
	if cfg.Diagram && !flags.Changed("diagram") {
		opts.Diagram = true
	}
}

package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	sourceDir string
}

// NewLoader creates a new configuration loader for the given source
// directory.
func NewLoader(sourceDir string) Loader {
	return &loader{
		sourceDir: sourceDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (DOKUFEED_*)
// 2. Config file (.dokufeed/config.yml or .dokufeed/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	configDir := filepath.Join(l.sourceDir, ".dokufeed")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	// Enable environment variable overrides, e.g. DOKUFEED_OUTPUT_DIR.
	v.SetEnvPrefix("DOKUFEED")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("output.dir")
	v.BindEnv("output.pages_per_file")
	v.BindEnv("export.url_prefix")
	v.BindEnv("export.usergroup_salt")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("output.dir", defaults.Output.Dir)
	v.SetDefault("output.pages_per_file", defaults.Output.PagesPerFile)

	v.SetDefault("paths.pages", defaults.Paths.Pages)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("export.url_prefix", defaults.Export.URLPrefix)
	v.SetDefault("export.exclude", defaults.Export.Exclude)
	v.SetDefault("export.usergroup_salt", defaults.Export.UsergroupSalt)
}

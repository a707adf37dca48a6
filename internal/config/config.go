// Package config defines the dokufeed configuration and its loading rules.
package config

// Config represents the complete dokufeed configuration.
// It can be loaded from <source>/.dokufeed/config.yml with environment
// variable overrides, and individual values can be overridden by CLI flags.
type Config struct {
	Output Output `yaml:"output" mapstructure:"output"`
	Paths  Paths  `yaml:"paths" mapstructure:"paths"`
	Export Export `yaml:"export" mapstructure:"export"`
}

// Output configures where and how the feed files are written.
type Output struct {
	Dir          string `yaml:"dir" mapstructure:"dir"`                       // feed output directory
	PagesPerFile int    `yaml:"pages_per_file" mapstructure:"pages_per_file"` // items per feed file
}

// Paths defines which files count as wiki pages and which to ignore.
type Paths struct {
	Pages  []string `yaml:"pages" mapstructure:"pages"`   // glob patterns for page files
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to skip
}

// Export configures the content of the exported items.
type Export struct {
	URLPrefix     string   `yaml:"url_prefix" mapstructure:"url_prefix"`         // prepended to page paths to form item URLs
	Exclude       []string `yaml:"exclude" mapstructure:"exclude"`               // page path prefixes excluded from the feed
	UsergroupSalt string   `yaml:"usergroup_salt" mapstructure:"usergroup_salt"` // salt for usergroup hashes
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Output: Output{
			Dir:          "./out",
			PagesPerFile: 20,
		},
		Paths: Paths{
			Pages: []string{
				"**/*.txt",
			},
			Ignore: []string{
				".git/**",
				".dokufeed/**",
			},
		},
		Export: Export{
			URLPrefix:     "",
			Exclude:       []string{},
			UsergroupSalt: "",
		},
	}
}

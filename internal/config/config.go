package config

import "time"

// Config is the complete snipdex configuration. It is loaded from
// .snipdex/config.yml with SNIPDEX_* environment variable overrides.
type Config struct {
	Repo    RepoConfig    `yaml:"repo" mapstructure:"repo"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Filters FiltersConfig `yaml:"filters" mapstructure:"filters"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
}

// RepoConfig selects what to index.
type RepoConfig struct {
	Root     string   `yaml:"root" mapstructure:"root"`         // repository root path (required)
	Language string   `yaml:"language" mapstructure:"language"` // backend key, e.g. "python"
	Ignore   []string `yaml:"ignore" mapstructure:"ignore"`     // glob patterns excluded from the tree
}

// OutputConfig controls where snippet records land.
type OutputConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // JSONL output file
}

// FiltersConfig threads the import filter lists into the extractor. The
// defaults are documented in the pyparse package; entries here extend or
// replace them.
type FiltersConfig struct {
	// ExtraStdlib adds module names to the standard-library set.
	ExtraStdlib []string `yaml:"extra_stdlib" mapstructure:"extra_stdlib"`
	// CommonPackages replaces the default third-party allow-list when set.
	CommonPackages []string `yaml:"common_packages" mapstructure:"common_packages"`
}

// LoggingConfig configures logging output.
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug | info | warn | error
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
}

// Default returns a configuration with sensible defaults. The repository
// root has no default: it must come from a flag, the config file, or the
// environment.
func Default() *Config {
	return &Config{
		Repo: RepoConfig{
			Language: "python",
			Ignore: []string{
				".git/**",
				".venv/**",
				"venv/**",
				"node_modules/**",
				"build/**",
				"dist/**",
			},
		},
		Output: OutputConfig{
			Path: "snippets.jsonl",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

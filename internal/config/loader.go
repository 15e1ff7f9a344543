package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration with the following priority (highest to lowest):
//  1. Environment variables (SNIPDEX_*)
//  2. Config file (.snipdex/config.yml under the working directory)
//  3. Default values
//
// An explicit cfgFile path, when non-empty, replaces the search.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(wd, ".snipdex"))
	}

	v.SetEnvPrefix("SNIPDEX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("repo.root")
	v.BindEnv("repo.language")
	v.BindEnv("output.path")
	v.BindEnv("logging.level")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine: defaults plus env vars apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// setDefaults seeds viper with the Default() values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("repo.language", defaults.Repo.Language)
	v.SetDefault("repo.ignore", defaults.Repo.Ignore)
	v.SetDefault("output.path", defaults.Output.Path)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)
}

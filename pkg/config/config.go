// Package config loads settings for the command-line tools.
//
// Values come from, in increasing precedence: built-in defaults, a YAML file
// (./config/finmod.yaml, ~/.finmod/finmod.yaml or an explicit path), a .env
// file and FINMOD_* environment variables, e.g. FINMOD_OUTPUT_FORMAT=json.
// Valuation rates are never configured here; they come from scenario files
// or flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the complete tool configuration.
type Config struct {
	Logging     LoggingConfig     `mapstructure:"logging"`
	Output      OutputConfig      `mapstructure:"output"`
	Ingest      IngestConfig      `mapstructure:"ingest"`
	Sensitivity SensitivityConfig `mapstructure:"sensitivity"`
	Audit       AuditConfig       `mapstructure:"audit"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

// OutputConfig holds report rendering settings.
type OutputConfig struct {
	Format   string `mapstructure:"format"` // markdown, html, terminal, json
	WordWrap int    `mapstructure:"word_wrap"`
}

// IngestConfig holds statement loading settings.
type IngestConfig struct {
	Scale float64 `mapstructure:"scale"` // e.g. 1000 for statements in thousands
}

// SensitivityConfig shapes the WACC × growth grid.
type SensitivityConfig struct {
	WACCStep    float64 `mapstructure:"wacc_step"`
	GrowthStep  float64 `mapstructure:"growth_step"`
	Steps       int     `mapstructure:"steps"` // values either side of the scenario rate
	Concurrency int     `mapstructure:"concurrency"`
}

// AuditConfig holds statement check settings.
type AuditConfig struct {
	Tolerance        float64 `mapstructure:"tolerance"`         // relative, 0.001 = 0.1%
	OutlierThreshold float64 `mapstructure:"outlier_threshold"` // period-over-period change, 1.0 = 100%
}

const envPrefix = "FINMOD"

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("output.format", "terminal")
	v.SetDefault("output.word_wrap", 100)

	v.SetDefault("ingest.scale", 1)

	v.SetDefault("sensitivity.wacc_step", 0.01)
	v.SetDefault("sensitivity.growth_step", 0.005)
	v.SetDefault("sensitivity.steps", 2)
	v.SetDefault("sensitivity.concurrency", 4)

	v.SetDefault("audit.tolerance", 0.001)
	v.SetDefault("audit.outlier_threshold", 1.0)
}

// Load reads configuration. An empty path searches the default locations and
// tolerates a missing file; an explicit path must exist.
func Load(path string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	} else {
		v.SetConfigName("finmod")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".finmod"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, cfg.Validate()
}

// Validate rejects settings no command could use.
func (c *Config) Validate() error {
	switch {
	case c.Ingest.Scale <= 0:
		return fmt.Errorf("config: ingest.scale must be positive, got %v", c.Ingest.Scale)
	case c.Sensitivity.Steps < 0:
		return fmt.Errorf("config: sensitivity.steps must not be negative, got %d", c.Sensitivity.Steps)
	case c.Audit.Tolerance < 0:
		return fmt.Errorf("config: audit.tolerance must not be negative, got %v", c.Audit.Tolerance)
	case c.Audit.OutlierThreshold < 0:
		return fmt.Errorf("config: audit.outlier_threshold must not be negative, got %v", c.Audit.OutlierThreshold)
	}
	return nil
}

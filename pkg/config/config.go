// Package config loads toolkit settings from a YAML file, a .env file and the
// process environment, in that order of precedence (environment wins).
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"fcf_analysis/pkg/core/excel"
	"fcf_analysis/pkg/core/fcf"
	"fcf_analysis/pkg/core/market"
	"fcf_analysis/pkg/core/retry"
	"fcf_analysis/pkg/core/validate"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

// Environment overrides.
const (
	EnvDatabaseURL   = "DATABASE_URL"
	EnvDataRoot      = "FCF_DATA_ROOT"
	EnvMarketBaseURL = "FCF_MARKET_BASE_URL"
	EnvLogLevel      = "FCF_LOG_LEVEL"
	EnvAddr          = "FCF_ADDR"
)

// DefaultPath is read when no config file is named.
const DefaultPath = "config/fcf.yaml"

// Config is the full set of toolkit settings.
type Config struct {
	Layout     excel.Layout        `yaml:"layout"`
	FCF        fcf.Settings        `yaml:"fcf"`
	Metrics    []fcf.MetricSpec    `yaml:"metrics"` // overrides merged onto the default aliases
	Thresholds validate.Thresholds `yaml:"thresholds"`
	Market     market.Options      `yaml:"market"`
	Server     ServerConfig        `yaml:"server"`
	Database   DatabaseConfig      `yaml:"database"`
	Storage    StorageConfig       `yaml:"storage"`

	// DataRoot is the folder holding one sub-folder per company.
	DataRoot string `yaml:"data_root"`
	LogLevel string `yaml:"log_level"`

	// StrictValidation fails a run when the quality report has errors.
	StrictValidation bool `yaml:"strict_validation"`
	WriteSidecar     bool `yaml:"write_sidecar"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type StorageConfig struct {
	ResultsDir string `yaml:"results_dir"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Layout:     excel.DefaultLayout(),
		FCF:        fcf.DefaultSettings(),
		Thresholds: validate.DefaultThresholds(),
		Market: market.Options{
			BaseURL: market.DefaultBaseURL,
			Timeout: market.DefaultTimeout,
			Retry:   retry.DefaultPolicy(),
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Storage:      StorageConfig{ResultsDir: ".cache/fcf_results"},
		DataRoot:     "data",
		LogLevel:     "info",
		WriteSidecar: true,
	}
}

// Load reads the YAML file at path over the defaults and applies environment
// overrides. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv(EnvDataRoot); v != "" {
		c.DataRoot = v
	}
	if v := os.Getenv(EnvMarketBaseURL); v != "" {
		c.Market.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// MetricSpecs returns the default aliases with the configured overrides applied.
func (c Config) MetricSpecs() []fcf.MetricSpec {
	return fcf.MergeSpecs(fcf.DefaultMetricSpecs(), c.Metrics)
}

// Level parses LogLevel, falling back to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.LogLevel)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// NewLogger builds the process logger. Console output is human readable;
// otherwise records are JSON lines.
func NewLogger(w io.Writer, cfg Config, console bool) zerolog.Logger {
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(cfg.Level()).With().Timestamp().Logger()
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix for all environment variable overrides.
const EnvPrefix = "NIATREND"

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// AnalysisConfig controls the analysis window and the input schema
// conventions of the wide crime-rate table.
type AnalysisConfig struct {
	StartYear           int    `yaml:"start_year" envconfig:"START_YEAR" validate:"gte=1990,lte=2100"`
	EndYear             int    `yaml:"end_year" envconfig:"END_YEAR" validate:"gte=1990,lte=2100,gtefield=StartYear"`
	NeighbourhoodColumn string `yaml:"neighbourhood_column" envconfig:"NEIGHBOURHOOD_COLUMN" validate:"required"`
	YearColumn          string `yaml:"year_column" envconfig:"YEAR_COLUMN" validate:"required"`
	RateSuffix          string `yaml:"rate_suffix" envconfig:"RATE_SUFFIX" validate:"required"`
}

// Load loads configuration from environment variables and an optional
// YAML config file. Environment variables take precedence.
func Load(configFile string) (*Config, error) {
	var cfg Config

	// File first so env overrides can be applied on top
	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileCfg, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = *fileCfg
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration used when no file or
// environment overrides are present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills zero-valued fields after the file and env layers
// have been merged, so neither layer can be clobbered by defaults.
func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/trendreport.log"
	}
	if c.Paths.DataDir == "" {
		c.Paths.DataDir = "data"
	}
	if c.Paths.ReportsDir == "" {
		c.Paths.ReportsDir = filepath.Join("data", "reports")
	}
	if c.Paths.LogsDir == "" {
		c.Paths.LogsDir = "logs"
	}
	if c.Analysis.StartYear == 0 {
		c.Analysis.StartYear = 2014
	}
	if c.Analysis.EndYear == 0 {
		c.Analysis.EndYear = 2023
	}
	if c.Analysis.NeighbourhoodColumn == "" {
		c.Analysis.NeighbourhoodColumn = "NEIGHBOURHOOD"
	}
	if c.Analysis.YearColumn == "" {
		c.Analysis.YearColumn = "YEAR"
	}
	if c.Analysis.RateSuffix == "" {
		c.Analysis.RateSuffix = "_RATE"
	}
}

// Validate checks the merged configuration using struct tags.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}

// EnsureDirectories creates all configured directories if missing.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.DataDir, c.Paths.ReportsDir, c.Paths.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetLogPath returns the path for a log file within the logs directory.
func (c *Config) GetLogPath(filename string) string {
	return filepath.Join(c.Paths.LogsDir, filename)
}

// GetReportPath returns the path for a report file within the reports
// directory.
func (c *Config) GetReportPath(filename string) string {
	return filepath.Join(c.Paths.ReportsDir, filename)
}

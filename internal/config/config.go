// Package config loads pipeline configuration from environment variables
// (DATALENS_* prefix) merged with an optional YAML file. Defaults come from
// struct tags, and the merged result is validated before use.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "datalens/internal/errors"
)

// EnvPrefix is the prefix for all environment variable overrides.
const EnvPrefix = "DATALENS"

// configFileEnv names the env var pointing at an optional YAML config file.
const configFileEnv = "DATALENS_CONFIG"

// Config represents the complete application configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Insights InsightConfig  `yaml:"insights" envconfig:"INSIGHTS"`
}

// LoggingConfig contains logging configuration. Output never includes
// stdout: stdout carries exactly one JSON envelope per run.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stderr" validate:"oneof=stderr file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/datalens.log"`
}

// AnalysisConfig bounds how much of the dataset the delegate chart and
// report calls analyze.
type AnalysisConfig struct {
	MaxRowsAnalyzed int    `yaml:"max_rows_analyzed" envconfig:"MAX_ROWS_ANALYZED" default:"5000" validate:"gt=0"`
	MaxColsAnalyzed int    `yaml:"max_cols_analyzed" envconfig:"MAX_COLS_ANALYZED" default:"30" validate:"gt=0"`
	ChartFormat     string `yaml:"chart_format" envconfig:"CHART_FORMAT" default:"html" validate:"oneof=html"`
	ExcelExport     bool   `yaml:"excel_export" envconfig:"EXCEL_EXPORT" default:"true"`
}

// InsightConfig holds the thresholds for heuristic data-quality insights.
type InsightConfig struct {
	MissingWarnPercent float64 `yaml:"missing_warn_percent" envconfig:"MISSING_WARN_PERCENT" default:"10" validate:"gte=0,lte=100"`
	MissingInfoPercent float64 `yaml:"missing_info_percent" envconfig:"MISSING_INFO_PERCENT" default:"1" validate:"gte=0,lte=100"`
	SmallRowCount      int     `yaml:"small_row_count" envconfig:"SMALL_ROW_COUNT" default:"100" validate:"gt=0"`
	LargeRowCount      int     `yaml:"large_row_count" envconfig:"LARGE_ROW_COUNT" default:"10000" validate:"gt=0"`
}

// Load loads configuration from the optional YAML file and environment
// variables. Environment variables win over the file, the file wins over
// the built-in defaults.
func Load() (*Config, error) {
	cfg := *Default()

	if path := configFilePath(); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Parse the environment into a separate struct and merge only the
	// variables that are actually set. Processing directly into cfg would
	// re-apply the struct-tag defaults for every unset variable and
	// silently revert the file's values.
	var envCfg Config
	if err := envconfig.Process(EnvPrefix, &envCfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}
	mergeEnv(&cfg, &envCfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeEnv copies into cfg the fields whose environment variable is set.
func mergeEnv(cfg, envCfg *Config) {
	if envSet("LOGGING_LEVEL") {
		cfg.Logging.Level = envCfg.Logging.Level
	}
	if envSet("LOGGING_OUTPUT") {
		cfg.Logging.Output = envCfg.Logging.Output
	}
	if envSet("LOGGING_FILE_PATH") {
		cfg.Logging.FilePath = envCfg.Logging.FilePath
	}
	if envSet("ANALYSIS_MAX_ROWS_ANALYZED") {
		cfg.Analysis.MaxRowsAnalyzed = envCfg.Analysis.MaxRowsAnalyzed
	}
	if envSet("ANALYSIS_MAX_COLS_ANALYZED") {
		cfg.Analysis.MaxColsAnalyzed = envCfg.Analysis.MaxColsAnalyzed
	}
	if envSet("ANALYSIS_CHART_FORMAT") {
		cfg.Analysis.ChartFormat = envCfg.Analysis.ChartFormat
	}
	if envSet("ANALYSIS_EXCEL_EXPORT") {
		cfg.Analysis.ExcelExport = envCfg.Analysis.ExcelExport
	}
	if envSet("INSIGHTS_MISSING_WARN_PERCENT") {
		cfg.Insights.MissingWarnPercent = envCfg.Insights.MissingWarnPercent
	}
	if envSet("INSIGHTS_MISSING_INFO_PERCENT") {
		cfg.Insights.MissingInfoPercent = envCfg.Insights.MissingInfoPercent
	}
	if envSet("INSIGHTS_SMALL_ROW_COUNT") {
		cfg.Insights.SmallRowCount = envCfg.Insights.SmallRowCount
	}
	if envSet("INSIGHTS_LARGE_ROW_COUNT") {
		cfg.Insights.LargeRowCount = envCfg.Insights.LargeRowCount
	}
}

func envSet(name string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + name)
	return ok
}

// Default returns the built-in configuration without consulting the
// environment or any file. Used as the fallback when Load fails.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stderr",
			FilePath: "logs/datalens.log",
		},
		Analysis: AnalysisConfig{
			MaxRowsAnalyzed: 5000,
			MaxColsAnalyzed: 30,
			ChartFormat:     "html",
			ExcelExport:     true,
		},
		Insights: InsightConfig{
			MissingWarnPercent: 10,
			MissingInfoPercent: 1,
			SmallRowCount:      100,
			LargeRowCount:      10000,
		},
	}
}

// Validate checks the configuration against the struct-tag constraints,
// plus the cross-field rules the tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	if c.Insights.MissingInfoPercent > c.Insights.MissingWarnPercent {
		return apperrors.NewConfigError(
			fmt.Sprintf("missing_info_percent (%.1f) must not exceed missing_warn_percent (%.1f)",
				c.Insights.MissingInfoPercent, c.Insights.MissingWarnPercent), nil)
	}
	if c.Insights.SmallRowCount > c.Insights.LargeRowCount {
		return apperrors.NewConfigError(
			fmt.Sprintf("small_row_count (%d) must not exceed large_row_count (%d)",
				c.Insights.SmallRowCount, c.Insights.LargeRowCount), nil)
	}
	return nil
}

func configFilePath() string {
	if path := os.Getenv(configFileEnv); path != "" {
		return path
	}
	// Conventional location next to the binary's working directory.
	if _, err := os.Stat("datalens.yml"); err == nil {
		return "datalens.yml"
	}
	return ""
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewConfigError(fmt.Sprintf("failed to read config file %s", path), err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return apperrors.NewConfigError(fmt.Sprintf("failed to parse config file %s", path), err)
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "datalens/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, 5000, cfg.Analysis.MaxRowsAnalyzed)
	assert.Equal(t, 30, cfg.Analysis.MaxColsAnalyzed)
	assert.Equal(t, "html", cfg.Analysis.ChartFormat)
	assert.Equal(t, 10.0, cfg.Insights.MissingWarnPercent)
	assert.Equal(t, 1.0, cfg.Insights.MissingInfoPercent)
	assert.Equal(t, 100, cfg.Insights.SmallRowCount)
	assert.Equal(t, 10000, cfg.Insights.LargeRowCount)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DATALENS_ANALYSIS_MAX_ROWS_ANALYZED", "250")
	t.Setenv("DATALENS_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Analysis.MaxRowsAnalyzed)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched values keep their defaults.
	assert.Equal(t, 30, cfg.Analysis.MaxColsAnalyzed)
}

func TestLoad_FileOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "datalens.yml")
	content := []byte("insights:\n  small_row_count: 50\n  large_row_count: 5000\n")
	require.NoError(t, os.WriteFile(path, content, 0644))
	t.Setenv("DATALENS_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Insights.SmallRowCount)
	assert.Equal(t, 5000, cfg.Insights.LargeRowCount)
	assert.Equal(t, 10.0, cfg.Insights.MissingWarnPercent)
}

func TestLoad_FileOverrideSurvivesEnvLayer(t *testing.T) {
	// A file value for a defaulted field must not be reverted to the
	// default by the env layer when the variable is unset. excel_export
	// is the hardest case: false is the zero value of bool.
	dir := t.TempDir()
	path := filepath.Join(dir, "datalens.yml")
	content := []byte("analysis:\n  excel_export: false\n  max_rows_analyzed: 42\n")
	require.NoError(t, os.WriteFile(path, content, 0644))
	t.Setenv("DATALENS_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Analysis.ExcelExport)
	assert.Equal(t, 42, cfg.Analysis.MaxRowsAnalyzed)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "datalens.yml")
	require.NoError(t, os.WriteFile(path, []byte("analysis:\n  max_cols_analyzed: 5\n"), 0644))
	t.Setenv("DATALENS_CONFIG", path)
	t.Setenv("DATALENS_ANALYSIS_MAX_COLS_ANALYZED", "12")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Analysis.MaxColsAnalyzed)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "datalens.yml")
	require.NoError(t, os.WriteFile(path, []byte(":\tnot yaml"), 0644))
	t.Setenv("DATALENS_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeConfig, apperrors.TypeOf(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"zero max rows", func(c *Config) { c.Analysis.MaxRowsAnalyzed = 0 }, true},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"stdout output rejected", func(c *Config) { c.Logging.Output = "stdout" }, true},
		{"chart format must be html", func(c *Config) { c.Analysis.ChartFormat = "png" }, true},
		{"info threshold above warn", func(c *Config) { c.Insights.MissingInfoPercent = 20 }, true},
		{"small above large", func(c *Config) { c.Insights.SmallRowCount = 20000 }, true},
		{"negative warn percent", func(c *Config) { c.Insights.MissingWarnPercent = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.ErrTypeConfig, apperrors.TypeOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

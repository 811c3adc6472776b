package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ayaanvashistha17/automated-analytics-tool/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "sales", cfg.Data.TargetColumn)
	assert.Equal(t, []string{"date", "timestamp", "created_at"}, cfg.Data.DateColumns)
	assert.Equal(t, 0.2, cfg.Model.TestFraction)
	assert.Equal(t, 7, cfg.Model.Horizon)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
model:
  test_fraction: 0.3
  horizon: 14
data:
  raw_file: metrics.csv
  date_columns: [date]
  numeric_columns: [revenue]
  target_column: revenue
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.3, cfg.Model.TestFraction)
	assert.Equal(t, 14, cfg.Model.Horizon)
	assert.Equal(t, "revenue", cfg.Data.TargetColumn)
	// Sections absent from the file keep their defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("ANALYTICS_MODEL_HORIZON", "30")
	t.Setenv("ANALYTICS_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Model.Horizon)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
	}{
		{"test fraction above 1", func(cfg *Config) { cfg.Model.TestFraction = 1.5 }},
		{"zero horizon", func(cfg *Config) { cfg.Model.Horizon = 0 }},
		{"empty target column", func(cfg *Config) { cfg.Data.TargetColumn = "" }},
		{"unknown log level", func(cfg *Config) { cfg.Logging.Level = "loud" }},
		{"no numeric columns", func(cfg *Config) { cfg.Data.NumericColumns = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
		})
	}
}

func TestPaths_EnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths := NewPaths(base)

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{
		paths.RawDir,
		paths.ProcessedDir,
		paths.ForecastsDir,
		paths.DailyReportsDir,
		paths.ForecastReportsDir,
		paths.LogsDir,
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}

	// Idempotent on an existing layout.
	require.NoError(t, paths.EnsureDirectories())
}

func TestPaths_FileHelpers(t *testing.T) {
	paths := NewPaths("base")

	assert.Equal(t, filepath.Join("base", "data", "raw", "daily_metrics.csv"), paths.RawFile("daily_metrics.csv"))
	assert.Equal(t, filepath.Join("base", "data", "processed", "processed_data.csv"), paths.ProcessedFile("processed_data.csv"))
	assert.Equal(t, filepath.Join("base", "data", "forecasts", "forecast_results.csv"), paths.ForecastFile("forecast_results.csv"))
}

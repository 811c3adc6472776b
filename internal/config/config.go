package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "github.com/ayaanvashistha17/automated-analytics-tool/internal/errors"
)

// envPrefix namespaces all environment overrides, e.g.
// ANALYTICS_MODEL_HORIZON=14.
const envPrefix = "ANALYTICS"

// Config is the complete application configuration. Values come from
// built-in defaults, overlaid by an optional YAML file, overlaid by
// environment variables.
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Data    DataConfig    `yaml:"data" envconfig:"DATA"`
	Model   ModelConfig   `yaml:"model" envconfig:"MODEL"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains the base directory all data and report paths hang
// off.
type PathsConfig struct {
	BaseDir string `yaml:"base_dir" envconfig:"BASE_DIR" validate:"required"`
}

// DataConfig names the columns the ingest pipeline recognizes in the raw
// metrics CSV.
type DataConfig struct {
	RawFile        string   `yaml:"raw_file" envconfig:"RAW_FILE" validate:"required"`
	DateColumns    []string `yaml:"date_columns" envconfig:"DATE_COLUMNS" validate:"min=1"`
	NumericColumns []string `yaml:"numeric_columns" envconfig:"NUMERIC_COLUMNS" validate:"min=1"`
	TargetColumn   string   `yaml:"target_column" envconfig:"TARGET_COLUMN" validate:"required"`
}

// ModelConfig controls the train/forecast run.
type ModelConfig struct {
	TestFraction float64 `yaml:"test_fraction" envconfig:"TEST_FRACTION" validate:"gt=0,lt=1"`
	Horizon      int     `yaml:"horizon" envconfig:"HORIZON" validate:"gt=0"`
}

// Default returns the built-in configuration, mirroring the recognized
// column set of the original daily metrics feed.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "text",
			Output:   "console",
			FilePath: "logs/analytics_tool.log",
		},
		Paths: PathsConfig{
			BaseDir: ".",
		},
		Data: DataConfig{
			RawFile:        "daily_metrics.csv",
			DateColumns:    []string{"date", "timestamp", "created_at"},
			NumericColumns: []string{"sales", "revenue", "users", "conversion_rate"},
			TargetColumn:   "sales",
		},
		Model: ModelConfig{
			TestFraction: 0.2,
			Horizon:      7,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at configPath
// (skipped when empty or absent), and ANALYTICS_* environment variables,
// then validates the result.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, apperrors.NewConfigError("parse config file "+configPath, err)
			}
		case os.IsNotExist(err):
			// Missing file falls back to defaults.
		default:
			return nil, apperrors.NewConfigError("read config file "+configPath, err)
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, apperrors.NewConfigError("load config from environment", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

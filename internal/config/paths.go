package config

import (
	"os"
	"path/filepath"

	apperrors "github.com/ayaanvashistha17/automated-analytics-tool/internal/errors"
)

// Paths is the single source of truth for the directory layout under the
// configured base directory.
type Paths struct {
	BaseDir string

	RawDir       string // incoming daily metrics CSVs
	ProcessedDir string // cleaned tables with derived metrics
	ForecastsDir string // forecast result CSVs

	DailyReportsDir    string // multi-sheet Excel daily reports
	ForecastReportsDir string // forecast-only Excel reports
	LogsDir            string
}

// NewPaths lays out the directory structure under base.
func NewPaths(base string) *Paths {
	return &Paths{
		BaseDir:            base,
		RawDir:             filepath.Join(base, "data", "raw"),
		ProcessedDir:       filepath.Join(base, "data", "processed"),
		ForecastsDir:       filepath.Join(base, "data", "forecasts"),
		DailyReportsDir:    filepath.Join(base, "reports", "daily_reports"),
		ForecastReportsDir: filepath.Join(base, "reports", "forecast_reports"),
		LogsDir:            filepath.Join(base, "logs"),
	}
}

// EnsureDirectories creates every directory in the layout.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.RawDir,
		p.ProcessedDir,
		p.ForecastsDir,
		p.DailyReportsDir,
		p.ForecastReportsDir,
		p.LogsDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.NewStorageError("create directory "+dir, err)
		}
	}
	return nil
}

// RawFile returns the path to a file in the raw data directory.
func (p *Paths) RawFile(name string) string {
	return filepath.Join(p.RawDir, name)
}

// ProcessedFile returns the path to a file in the processed data directory.
func (p *Paths) ProcessedFile(name string) string {
	return filepath.Join(p.ProcessedDir, name)
}

// ForecastFile returns the path to a file in the forecasts directory.
func (p *Paths) ForecastFile(name string) string {
	return filepath.Join(p.ForecastsDir, name)
}

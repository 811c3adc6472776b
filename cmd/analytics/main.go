// Command analytics runs the daily metrics pipeline: ingest the raw CSV,
// clean it, derive growth metrics, train the forecasting model, and write
// the forecast CSV plus the multi-sheet Excel report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayaanvashistha17/automated-analytics-tool/internal/config"
	"github.com/ayaanvashistha17/automated-analytics-tool/internal/dataset"
	"github.com/ayaanvashistha17/automated-analytics-tool/internal/exporter"
	"github.com/ayaanvashistha17/automated-analytics-tool/internal/forecast"
	"github.com/ayaanvashistha17/automated-analytics-tool/internal/infrastructure"
)

// Report modes selectable with -report.
const (
	modeDaily    = "daily"
	modeForecast = "forecast"
	modeData     = "data"
	modeAll      = "all"
)

type options struct {
	configPath string
	mode       string
	horizon    int
	targets    string
	verbose    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "config.yaml", "path to the YAML configuration file")
	flag.StringVar(&opts.mode, "report", modeAll, "report to generate: daily, forecast, data, or all")
	flag.IntVar(&opts.horizon, "horizon", 0, "forecast horizon in days (0 uses the configured value; forecast mode defaults to 14)")
	flag.StringVar(&opts.targets, "target", "", "comma-separated target columns to forecast (defaults to the configured target)")
	flag.BoolVar(&opts.verbose, "verbose", false, "enable debug logging")
	flag.Parse()

	if err := run(opts); err != nil {
		slog.Error("run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(opts options) error {
	start := time.Now()
	runID := uuid.New().String()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}

	paths := config.NewPaths(cfg.Paths.BaseDir)
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return err
	}
	logger = logger.With(slog.String("run_id", runID))

	mode, err := parseMode(opts.mode)
	if err != nil {
		return err
	}
	horizon := resolveHorizon(opts.horizon, mode, cfg.Model.Horizon)
	targets := resolveTargets(opts.targets, cfg.Data.TargetColumn)

	logger.Info("starting analytics run",
		slog.String("mode", mode),
		slog.Int("horizon", horizon),
		slog.String("targets", strings.Join(targets, ",")))

	loader := dataset.NewLoader(cfg.Data, paths, infrastructure.WithComponent(logger, "dataset"))
	table, err := loader.Process()
	if err != nil {
		return err
	}

	csvWriter := exporter.NewCSVWriter(infrastructure.WithComponent(logger, "exporter"))
	if mode == modeData || mode == modeDaily || mode == modeAll {
		if err := csvWriter.WriteProcessed(paths.ProcessedFile("processed_data.csv"), table); err != nil {
			return err
		}
	}

	reportWriter := exporter.NewReportWriter(runID, infrastructure.WithComponent(logger, "exporter"))
	if mode == modeData {
		// Data-only run skips the model entirely.
		path := reportPath(paths.DailyReportsDir, "daily_report")
		if err := reportWriter.WriteDailyReport(path, table, nil, nil); err != nil {
			return err
		}
		logger.Info("run complete", slog.Duration("elapsed", time.Since(start)))
		return nil
	}

	observations, err := table.Observations(cfg.Data.TargetColumn)
	if err != nil {
		return err
	}

	results, err := forecast.RunSeries(context.Background(), observations, targets, horizon,
		cfg.Model.TestFraction, infrastructure.WithComponent(logger, "forecast"))
	if err != nil {
		return err
	}

	for _, target := range targets {
		result := results[target]
		logger.Info("series forecast complete",
			slog.String("target", target),
			slog.Float64("r2_train", result.Metrics.R2Train),
			slog.Float64("r2_test", result.Metrics.R2Test),
			slog.Int("points", len(result.Points)))

		name := "forecast_results.csv"
		if len(targets) > 1 {
			name = fmt.Sprintf("forecast_results_%s.csv", target)
		}
		if err := csvWriter.WriteForecast(paths.ForecastFile(name), result.Points); err != nil {
			return err
		}
	}

	primary := results[targets[0]]
	switch mode {
	case modeForecast:
		path := reportPath(paths.ForecastReportsDir, "forecast_report")
		if err := reportWriter.WriteDailyReport(path, table, primary.Points, primary.Metrics); err != nil {
			return err
		}
	case modeDaily, modeAll:
		path := reportPath(paths.DailyReportsDir, "daily_report")
		if err := reportWriter.WriteDailyReport(path, table, primary.Points, primary.Metrics); err != nil {
			return err
		}
	}

	logger.Info("run complete", slog.Duration("elapsed", time.Since(start)))
	return nil
}

// reportPath builds a date-stamped workbook path in dir.
func reportPath(dir, prefix string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("20060102")))
}

func parseMode(mode string) (string, error) {
	switch strings.ToLower(mode) {
	case modeDaily, modeForecast, modeData, modeAll:
		return strings.ToLower(mode), nil
	default:
		return "", fmt.Errorf("unknown report mode %q (expected daily, forecast, data, or all)", mode)
	}
}

// resolveHorizon picks the forecast horizon: an explicit flag wins, the
// standalone forecast report looks further out, everything else uses the
// configured value.
func resolveHorizon(flagValue int, mode string, configured int) int {
	if flagValue > 0 {
		return flagValue
	}
	if mode == modeForecast {
		return 2 * configured
	}
	return configured
}

func resolveTargets(flagValue, configured string) []string {
	if flagValue == "" {
		return []string{configured}
	}
	var targets []string
	for _, t := range strings.Split(flagValue, ",") {
		if t = strings.TrimSpace(t); t != "" {
			targets = append(targets, t)
		}
	}
	if len(targets) == 0 {
		return []string{configured}
	}
	return targets
}

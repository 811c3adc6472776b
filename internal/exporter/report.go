package exporter

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ayaanvashistha17/automated-analytics-tool/internal/dataset"
	"github.com/ayaanvashistha17/automated-analytics-tool/internal/errors"
	"github.com/ayaanvashistha17/automated-analytics-tool/internal/forecast"
)

// Sheet names of the daily report, in workbook order.
const (
	sheetSummary         = "Executive Summary"
	sheetMetrics         = "Detailed Metrics"
	sheetForecast        = "Forecast"
	sheetTrends          = "Trends Analysis"
	sheetRecommendations = "Recommendations"
)

// Recommendation is one actionable row on the recommendations sheet.
type Recommendation struct {
	Title       string
	Description string
	Priority    string
}

// ReportWriter renders the multi-sheet Excel daily report.
type ReportWriter struct {
	runID  string
	logger *slog.Logger
}

// NewReportWriter creates a report writer. The run ID is stamped into the
// summary sheet so a report can be traced back to its log records.
func NewReportWriter(runID string, logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{runID: runID, logger: logger}
}

// WriteDailyReport writes the full daily report workbook. The forecast
// and metrics arguments may be nil for a data-only report; the forecast
// sheet is omitted in that case.
func (w *ReportWriter) WriteDailyReport(path string, table *dataset.Table, points []forecast.ForecastPoint, metrics *forecast.Metrics) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return errors.NewStorageError("rename summary sheet", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16, Color: "1F497D"},
	})
	if err != nil {
		return errors.NewStorageError("create title style", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F497D"}},
	})
	if err != nil {
		return errors.NewStorageError("create header style", err)
	}

	if err := w.writeSummarySheet(f, titleStyle, table); err != nil {
		return err
	}
	if err := w.writeMetricsSheet(f, titleStyle, headerStyle, table); err != nil {
		return err
	}
	if points != nil {
		if err := w.writeForecastSheet(f, titleStyle, headerStyle, points, metrics); err != nil {
			return err
		}
	}
	if err := w.writeTrendsSheet(f, titleStyle, headerStyle, table); err != nil {
		return err
	}
	if err := w.writeRecommendationsSheet(f, titleStyle, table, points); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewStorageError("create report directory", err)
	}
	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError("save report "+path, err)
	}

	w.logger.Info("daily report written",
		slog.String("path", path),
		slog.Int("rows", table.NumRows()),
		slog.Int("forecast_points", len(points)))
	return nil
}

func (w *ReportWriter) writeSummarySheet(f *excelize.File, titleStyle int, table *dataset.Table) error {
	sheet := sheetSummary

	f.SetCellValue(sheet, "A1", "DAILY PERFORMANCE REPORT")
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	f.MergeCell(sheet, "A1", "F1")
	f.SetCellValue(sheet, "A2", "Date: "+time.Now().Format("2006-01-02"))
	f.SetCellValue(sheet, "A3", "Run: "+w.runID)

	f.SetCellValue(sheet, "A5", "KEY PERFORMANCE INDICATORS")
	row := 6
	if table.NumRows() > 0 {
		last := table.NumRows() - 1
		for _, name := range table.Columns {
			v := table.Values[name][last]
			if math.IsNaN(v) {
				continue
			}
			f.SetCellValue(sheet, cell(1, row), name)
			f.SetCellValue(sheet, cell(2, row), v)
			row++
		}
	}

	return f.SetColWidth(sheet, "A", "F", 20)
}

func (w *ReportWriter) writeMetricsSheet(f *excelize.File, titleStyle, headerStyle int, table *dataset.Table) error {
	sheet := sheetMetrics
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("create metrics sheet", err)
	}

	f.SetCellValue(sheet, "A1", "DETAILED DAILY METRICS")
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	f.SetCellValue(sheet, cell(1, 3), "date")
	for c, name := range table.Columns {
		f.SetCellValue(sheet, cell(c+2, 3), name)
	}
	f.SetCellStyle(sheet, cell(1, 3), cell(len(table.Columns)+1, 3), headerStyle)

	for i, date := range table.Dates {
		f.SetCellValue(sheet, cell(1, i+4), date.Format("2006-01-02"))
		for c, name := range table.Columns {
			if v := table.Values[name][i]; !math.IsNaN(v) {
				f.SetCellValue(sheet, cell(c+2, i+4), v)
			}
		}
	}

	return f.SetColWidth(sheet, "A", "Z", 20)
}

func (w *ReportWriter) writeForecastSheet(f *excelize.File, titleStyle, headerStyle int, points []forecast.ForecastPoint, metrics *forecast.Metrics) error {
	sheet := sheetForecast
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("create forecast sheet", err)
	}

	f.SetCellValue(sheet, "A1", "PREDICTIVE FORECAST")
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	// The band is a fixed +-10% around the prediction, not a statistical
	// confidence interval.
	f.SetCellValue(sheet, "A2", "Bounds are a heuristic +-10% band around the prediction")

	if metrics != nil {
		f.SetCellValue(sheet, "A3", fmt.Sprintf("Model fit: R^2 train %.3f / test %.3f, RMSE train %.2f / test %.2f",
			metrics.R2Train, metrics.R2Test, metrics.RMSETrain, metrics.RMSETest))
	}

	headers := []string{"Date", "Predicted Value", "Lower Bound", "Upper Bound", "Period"}
	for c, h := range headers {
		f.SetCellValue(sheet, cell(c+1, 5), h)
	}
	f.SetCellStyle(sheet, cell(1, 5), cell(len(headers), 5), headerStyle)

	for i, p := range points {
		f.SetCellValue(sheet, cell(1, i+6), p.Date.Format("2006-01-02"))
		f.SetCellValue(sheet, cell(2, i+6), p.Predicted)
		f.SetCellValue(sheet, cell(3, i+6), p.Lower)
		f.SetCellValue(sheet, cell(4, i+6), p.Upper)
		f.SetCellValue(sheet, cell(5, i+6), p.Period)
	}

	return f.SetColWidth(sheet, "A", "F", 20)
}

func (w *ReportWriter) writeTrendsSheet(f *excelize.File, titleStyle, headerStyle int, table *dataset.Table) error {
	sheet := sheetTrends
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("create trends sheet", err)
	}

	f.SetCellValue(sheet, "A1", "TRENDS ANALYSIS")
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	trendCols := []string{
		dataset.ColSalesGrowth,
		dataset.ColRevenueGrowth,
		dataset.ColSales7dMA,
		dataset.ColCumulativeRevenue,
	}
	present := make([]string, 0, len(trendCols))
	for _, name := range trendCols {
		if table.HasColumn(name) {
			present = append(present, name)
		}
	}

	f.SetCellValue(sheet, cell(1, 3), "date")
	for c, name := range present {
		f.SetCellValue(sheet, cell(c+2, 3), name)
	}
	if len(present) > 0 {
		f.SetCellStyle(sheet, cell(1, 3), cell(len(present)+1, 3), headerStyle)
	}

	for i, date := range table.Dates {
		f.SetCellValue(sheet, cell(1, i+4), date.Format("2006-01-02"))
		for c, name := range present {
			if v := table.Values[name][i]; !math.IsNaN(v) {
				f.SetCellValue(sheet, cell(c+2, i+4), v)
			}
		}
	}

	return f.SetColWidth(sheet, "A", "F", 22)
}

func (w *ReportWriter) writeRecommendationsSheet(f *excelize.File, titleStyle int, table *dataset.Table, points []forecast.ForecastPoint) error {
	sheet := sheetRecommendations
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("create recommendations sheet", err)
	}

	f.SetCellValue(sheet, "A1", "ACTIONABLE RECOMMENDATIONS")
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	row := 4
	for _, rec := range buildRecommendations(table, points) {
		f.SetCellValue(sheet, cell(1, row), rec.Title)
		f.SetCellValue(sheet, cell(2, row), rec.Priority)
		f.SetCellValue(sheet, cell(1, row+1), rec.Description)
		row += 3
	}

	return f.SetColWidth(sheet, "A", "D", 30)
}

// buildRecommendations derives simple rule-based recommendations from the
// latest growth figures and the forecast direction.
func buildRecommendations(table *dataset.Table, points []forecast.ForecastPoint) []Recommendation {
	var recs []Recommendation

	if growth, ok := table.Column(dataset.ColSalesGrowth); ok && len(growth) > 0 {
		if last := growth[len(growth)-1]; !math.IsNaN(last) && last < 0 {
			recs = append(recs, Recommendation{
				Title:       "Investigate sales decline",
				Description: fmt.Sprintf("Latest day-over-day sales growth is %.1f%%. Review recent channel performance.", last),
				Priority:    "High",
			})
		}
	}

	if len(points) > 1 {
		first, last := points[0].Predicted, points[len(points)-1].Predicted
		if last > first {
			recs = append(recs, Recommendation{
				Title:       "Plan inventory for forecast growth",
				Description: fmt.Sprintf("Forecast rises from %.0f to %.0f over %d periods.", first, last, len(points)),
				Priority:    "Medium",
			})
		} else if last < first {
			recs = append(recs, Recommendation{
				Title:       "Prepare demand-stimulation actions",
				Description: fmt.Sprintf("Forecast declines from %.0f to %.0f over %d periods.", first, last, len(points)),
				Priority:    "Medium",
			})
		}
	}

	if len(recs) == 0 {
		recs = append(recs, Recommendation{
			Title:       "Maintain current strategy",
			Description: "No negative signals in recent metrics or the forecast.",
			Priority:    "Low",
		})
	}
	return recs
}

// cell converts 1-based column/row coordinates to an A1-style reference.
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

package exporter

import (
	"encoding/csv"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ayaanvashistha17/automated-analytics-tool/internal/dataset"
	"github.com/ayaanvashistha17/automated-analytics-tool/internal/errors"
	"github.com/ayaanvashistha17/automated-analytics-tool/internal/forecast"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return errors.NewStorageError("create output directory", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return errors.NewStorageError("create file "+filePath, err)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8.
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return errors.NewStorageError("write BOM", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return errors.NewStorageError("write headers", err)
		}
	}
	for _, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return errors.NewStorageError("write record", err)
		}
	}

	w.logger.Info("wrote CSV file",
		slog.String("path", filePath),
		slog.Int("records", len(options.Records)))
	return writer.Error()
}

// WriteForecast writes the forecast points as a CSV table with the column
// contract the reporting layer consumes.
func (w *CSVWriter) WriteForecast(filePath string, points []forecast.ForecastPoint) error {
	records := make([][]string, 0, len(points))
	for _, p := range points {
		records = append(records, []string{
			p.Date.Format("2006-01-02"),
			formatFloat(p.Predicted),
			formatFloat(p.Lower),
			formatFloat(p.Upper),
			strconv.Itoa(p.Period),
		})
	}
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   []string{"date", "predicted_value", "lower_bound", "upper_bound", "period_index"},
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteProcessed writes the processed metrics table, dates first, columns
// in table order. NaN cells are written empty.
func (w *CSVWriter) WriteProcessed(filePath string, table *dataset.Table) error {
	headers := append([]string{"date"}, table.Columns...)
	records := make([][]string, 0, table.NumRows())
	for i, date := range table.Dates {
		row := make([]string, 0, len(headers))
		row = append(row, date.Format("2006-01-02"))
		for _, name := range table.Columns {
			row = append(row, formatFloat(table.Values[name][i]))
		}
		records = append(records, row)
	}
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// formatFloat renders a value for CSV output, mapping NaN to an empty
// cell.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

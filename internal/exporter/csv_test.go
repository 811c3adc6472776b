package exporter

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayaanvashistha17/automated-analytics-tool/internal/dataset"
	"github.com/ayaanvashistha17/automated-analytics-tool/internal/forecast"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := strings.TrimPrefix(string(data), "\xef\xbb\xbf")
	records, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_WriteForecast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecasts", "forecast_results.csv")
	points := []forecast.ForecastPoint{
		{
			Date:      time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC),
			Predicted: 250,
			Lower:     225,
			Upper:     275,
			Period:    1,
		},
		{
			Date:      time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC),
			Predicted: 260.5,
			Lower:     234.45,
			Upper:     286.55,
			Period:    2,
		},
	}

	require.NoError(t, NewCSVWriter(nil).WriteForecast(path, points))

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"date", "predicted_value", "lower_bound", "upper_bound", "period_index"}, records[0])
	assert.Equal(t, []string{"2024-01-21", "250", "225", "275", "1"}, records[1])
	assert.Equal(t, "2024-01-22", records[2][0])
	assert.Equal(t, "2", records[2][4])
}

func TestCSVWriter_WriteForecast_BOMPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecast.csv")
	require.NoError(t, NewCSVWriter(nil).WriteForecast(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\xef\xbb\xbf"))
}

func TestCSVWriter_WriteProcessed(t *testing.T) {
	table := dataset.NewTable([]time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, table.AddColumn("sales", []float64{100, 110}))
	require.NoError(t, table.AddColumn("sales_growth", []float64{math.NaN(), 10}))

	path := filepath.Join(t.TempDir(), "processed_data.csv")
	require.NoError(t, NewCSVWriter(nil).WriteProcessed(path, table))

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"date", "sales", "sales_growth"}, records[0])
	// NaN renders as an empty cell.
	assert.Equal(t, []string{"2024-01-01", "100", ""}, records[1])
	assert.Equal(t, []string{"2024-01-02", "110", "10"}, records[2])
}

func TestCSVWriter_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c", "out.csv")
	err := NewCSVWriter(nil).WriteCSV(path, WriteOptions{
		Headers: []string{"x"},
		Records: [][]string{{"1"}},
	})
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

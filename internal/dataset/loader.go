package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ayaanvashistha17/automated-analytics-tool/internal/config"
	"github.com/ayaanvashistha17/automated-analytics-tool/internal/errors"
)

// dateLayouts are tried in order when parsing the date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
}

// Loader reads and prepares the raw daily metrics table. Column
// recognition (date column candidates, numeric columns) comes from
// configuration rather than process-wide state.
type Loader struct {
	cfg    config.DataConfig
	paths  *config.Paths
	logger *slog.Logger
}

// NewLoader creates a loader for the configured data layout.
func NewLoader(cfg config.DataConfig, paths *config.Paths, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{cfg: cfg, paths: paths, logger: logger}
}

// Process runs the full ingest pipeline: load (or generate) the raw CSV,
// clean it, and derive report metrics.
func (l *Loader) Process() (*Table, error) {
	raw, err := l.LoadRaw()
	if err != nil {
		return nil, err
	}
	cleaned := Clean(raw)
	Derive(cleaned)
	return cleaned, nil
}

// LoadRaw reads the configured raw metrics CSV. When the file does not
// exist a sample dataset is generated and written in its place so the tool
// always has data to demonstrate on.
func (l *Loader) LoadRaw() (*Table, error) {
	path := l.paths.RawFile(l.cfg.RawFile)

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		l.logger.Warn("raw data file not found, generating sample data",
			slog.String("path", path))
		return l.generateSample(path)
	}
	if err != nil {
		return nil, errors.NewStorageError("open raw data file "+path, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("read raw data file "+path, err)
	}

	table, err := l.parseRecords(records)
	if err != nil {
		return nil, err
	}

	l.logger.Info("loaded raw data",
		slog.String("path", path),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", len(table.Columns)))
	return table, nil
}

// parseRecords builds a Table from CSV records. The first configured date
// column present in the header becomes the date index; configured numeric
// columns present in the header become value columns, with unparseable
// cells recorded as NaN for the cleaning pass.
func (l *Loader) parseRecords(records [][]string) (*Table, error) {
	if len(records) < 2 {
		return nil, errors.NewParsingError("raw data file has no data rows", nil)
	}

	header := records[0]
	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(strings.ToLower(name))] = i
	}

	dateIdx := -1
	for _, candidate := range l.cfg.DateColumns {
		if i, ok := colIndex[candidate]; ok {
			dateIdx = i
			break
		}
	}
	if dateIdx == -1 {
		return nil, errors.NewParsingError(
			fmt.Sprintf("no recognized date column among %v", l.cfg.DateColumns), nil)
	}

	dates := make([]time.Time, 0, len(records)-1)
	for rowNum, row := range records[1:] {
		date, err := parseDate(row[dateIdx])
		if err != nil {
			return nil, errors.NewParsingError(
				fmt.Sprintf("row %d: bad date %q", rowNum+2, row[dateIdx]), err)
		}
		dates = append(dates, date)
	}

	table := NewTable(dates)
	for _, name := range l.cfg.NumericColumns {
		idx, ok := colIndex[name]
		if !ok {
			continue
		}
		series := make([]float64, 0, len(records)-1)
		for _, row := range records[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
			if err != nil {
				v = math.NaN()
			}
			series = append(series, v)
		}
		if err := table.AddColumn(name, series); err != nil {
			return nil, err
		}
	}

	if len(table.Columns) == 0 {
		return nil, errors.NewParsingError(
			fmt.Sprintf("no recognized numeric columns among %v", l.cfg.NumericColumns), nil)
	}
	return table, nil
}

// generateSample creates a 30-day demonstration dataset and writes it to
// path so subsequent runs load the same data.
func (l *Loader) generateSample(path string) (*Table, error) {
	const sampleDays = 30
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, sampleDays)
	sales := make([]float64, sampleDays)
	revenue := make([]float64, sampleDays)
	users := make([]float64, sampleDays)
	conversion := make([]float64, sampleDays)
	for i := 0; i < sampleDays; i++ {
		dates[i] = start.AddDate(0, 0, i)
		sales[i] = float64(100 + rng.Intn(400))
		revenue[i] = 1000 + rng.Float64()*4000
		users[i] = float64(50 + rng.Intn(150))
		conversion[i] = 0.01 + rng.Float64()*0.04
	}

	table := NewTable(dates)
	for _, col := range []struct {
		name   string
		series []float64
	}{
		{"sales", sales},
		{"revenue", revenue},
		{"users", users},
		{"conversion_rate", conversion},
	} {
		if err := table.AddColumn(col.name, col.series); err != nil {
			return nil, err
		}
	}

	if err := l.writeSample(path, table); err != nil {
		return nil, err
	}
	l.logger.Info("generated sample data", slog.String("path", path), slog.Int("rows", sampleDays))
	return table, nil
}

// writeSample persists the generated sample as a raw metrics CSV.
func (l *Loader) writeSample(path string, table *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewStorageError("create raw data directory", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("create sample data file "+path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := append([]string{"date"}, table.Columns...)
	if err := w.Write(header); err != nil {
		return errors.NewStorageError("write sample header", err)
	}
	for i, date := range table.Dates {
		row := make([]string, 0, len(header))
		row = append(row, date.Format("2006-01-02"))
		for _, name := range table.Columns {
			row = append(row, strconv.FormatFloat(table.Values[name][i], 'f', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return errors.NewStorageError("write sample row", err)
		}
	}
	return w.Error()
}

// Clean returns a cleaned copy of the table: rows sorted by date,
// duplicate dates dropped (first kept), and missing numeric values filled
// forward then backward per column.
func Clean(t *Table) *Table {
	order := make([]int, t.NumRows())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return t.Dates[order[a]].Before(t.Dates[order[b]])
	})

	seen := make(map[time.Time]bool, len(order))
	kept := make([]int, 0, len(order))
	for _, idx := range order {
		if seen[t.Dates[idx]] {
			continue
		}
		seen[t.Dates[idx]] = true
		kept = append(kept, idx)
	}

	clean := NewTable(make([]time.Time, len(kept)))
	for i, idx := range kept {
		clean.Dates[i] = t.Dates[idx]
	}
	for _, name := range t.Columns {
		src := t.Values[name]
		series := make([]float64, len(kept))
		for i, idx := range kept {
			series[i] = src[idx]
		}
		fillForwardBackward(series)
		// AddColumn cannot fail here: the series length matches by construction.
		_ = clean.AddColumn(name, series)
	}
	return clean
}

// fillForwardBackward replaces NaN runs with the previous value, then
// fills any leading NaNs from the first defined value.
func fillForwardBackward(series []float64) {
	last := math.NaN()
	for i, v := range series {
		if math.IsNaN(v) {
			series[i] = last
		} else {
			last = v
		}
	}
	next := math.NaN()
	for i := len(series) - 1; i >= 0; i-- {
		if math.IsNaN(series[i]) {
			series[i] = next
		} else {
			next = series[i]
		}
	}
}

// parseDate tries the known date layouts in order.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
}

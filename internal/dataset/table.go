package dataset

import (
	"fmt"
	"math"
	"time"

	"github.com/ayaanvashistha17/automated-analytics-tool/internal/errors"
	"github.com/ayaanvashistha17/automated-analytics-tool/internal/forecast"
)

// Table is a date-indexed table of numeric columns: the in-memory form of
// the daily metrics CSV. Columns preserves insertion order for stable
// output.
type Table struct {
	Dates   []time.Time
	Columns []string
	Values  map[string][]float64
}

// NewTable creates an empty table over the given dates.
func NewTable(dates []time.Time) *Table {
	return &Table{
		Dates:  dates,
		Values: make(map[string][]float64),
	}
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int {
	return len(t.Dates)
}

// Column returns the named column's series.
func (t *Table) Column(name string) ([]float64, bool) {
	series, ok := t.Values[name]
	return series, ok
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Values[name]
	return ok
}

// AddColumn appends a column. The series length must match the row count.
func (t *Table) AddColumn(name string, series []float64) error {
	if len(series) != len(t.Dates) {
		return errors.NewValidationError(
			fmt.Sprintf("column %s has %d values for %d rows", name, len(series), len(t.Dates)))
	}
	if _, exists := t.Values[name]; !exists {
		t.Columns = append(t.Columns, name)
	}
	t.Values[name] = series
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	clone := &Table{
		Dates:   append([]time.Time{}, t.Dates...),
		Columns: append([]string{}, t.Columns...),
		Values:  make(map[string][]float64, len(t.Values)),
	}
	for name, series := range t.Values {
		clone.Values[name] = append([]float64{}, series...)
	}
	return clone
}

// Observations converts the table into the observation sequence consumed
// by the forecasting engine. The target column becomes the primary value;
// every other column rides along as a covariate.
func (t *Table) Observations(target string) ([]forecast.Observation, error) {
	targetSeries, ok := t.Values[target]
	if !ok {
		return nil, errors.NewValidationError("target column " + target + " not present in table")
	}

	obs := make([]forecast.Observation, len(t.Dates))
	for i, date := range t.Dates {
		covariates := make(map[string]float64)
		for _, name := range t.Columns {
			if name == target {
				continue
			}
			if v := t.Values[name][i]; !math.IsNaN(v) {
				covariates[name] = v
			}
		}
		obs[i] = forecast.Observation{
			Date:       date,
			Value:      targetSeries[i],
			Covariates: covariates,
		}
	}
	return obs, nil
}

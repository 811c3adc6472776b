package forecast

import (
	"fmt"
	"log/slog"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/ayaanvashistha17/automated-analytics-tool/internal/errors"
)

// Builder derives feature rows from raw observations. It is stateless and
// side-effect free: the same input always produces the same output.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a feature builder.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger}
}

// Build converts an ordered series of observations into feature rows and
// the feature-name contract used by Trainer and Forecaster.
//
// Each row carries four calendar features for its date, lag features of the
// target at offsets 1, 7, and 14 rows, and rolling mean and sample standard
// deviation (ddof=1) over the trailing 7 rows inclusive of the current one.
// Lags are positional, not calendar-aware: a gap in the date sequence does
// not shift them. Rows whose longest lag reaches before the start of the
// series are dropped.
func (b *Builder) Build(observations []Observation, targetName string) ([]FeatureRow, *FeatureSet, error) {
	if err := validateOrdering(observations); err != nil {
		return nil, nil, err
	}

	set := newFeatureSet(FeatureNames())

	if len(observations) < minObservations {
		return nil, nil, errors.NewInsufficientHistoryError(
			fmt.Sprintf("need at least %d observations to build features, got %d", minObservations, len(observations)),
		).WithContext("observations", len(observations))
	}

	target := make([]float64, len(observations))
	for i, obs := range observations {
		target[i] = obs.Target(targetName)
	}

	rows := make([]FeatureRow, 0, len(observations)-maxLag)
	for i := maxLag; i < len(observations); i++ {
		mean, std := stat.MeanStdDev(target[i-rollingWindow+1:i+1], nil)

		values := make([]float64, set.Len())
		values[0] = float64(dayOfWeek(observations[i].Date))
		values[1] = float64(observations[i].Date.Day())
		values[2] = float64(observations[i].Date.Month())
		values[3] = float64(quarter(observations[i].Date))
		values[4] = target[i-1]
		values[5] = target[i-7]
		values[6] = target[i-14]
		values[7] = mean
		values[8] = std

		rows = append(rows, FeatureRow{
			Date:   observations[i].Date,
			Values: values,
			Target: target[i],
		})
	}

	if len(rows) == 0 {
		return nil, nil, errors.NewInsufficientHistoryError("no valid feature rows after dropping incomplete history")
	}

	b.logger.Debug("built feature rows",
		slog.Int("observations", len(observations)),
		slog.Int("rows", len(rows)),
		slog.Int("features", set.Len()),
		slog.String("target", targetName))

	return rows, set, nil
}

// validateOrdering enforces the input contract: strictly ascending dates,
// one observation per date.
func validateOrdering(observations []Observation) error {
	for i := 1; i < len(observations); i++ {
		if !observations[i].Date.After(observations[i-1].Date) {
			return errors.NewValidationError(
				fmt.Sprintf("observations must be strictly ascending by date: %s followed by %s",
					observations[i-1].Date.Format("2006-01-02"),
					observations[i].Date.Format("2006-01-02")),
			)
		}
	}
	return nil
}

// dayOfWeek maps a date to 0-6 with Monday as 0.
func dayOfWeek(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// quarter maps a date to 1-4.
func quarter(d time.Time) int {
	return (int(d.Month())-1)/3 + 1
}

package forecast

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/floats"

	"github.com/ayaanvashistha17/automated-analytics-tool/internal/errors"
)

// Forecaster produces H-step-ahead predictions by iterating a fitted model
// over future dates, re-deriving calendar features per step and feeding
// each prediction back into the next step's short-lag input.
type Forecaster struct {
	builder *Builder
	logger  *slog.Logger
}

// NewForecaster creates a forecaster that reconstructs seed features with
// the given builder.
func NewForecaster(builder *Builder, logger *slog.Logger) *Forecaster {
	if builder == nil {
		builder = NewBuilder(logger)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Forecaster{builder: builder, logger: logger}
}

// Forecast predicts horizon daily steps beyond the latest observation,
// returning exactly horizon points ordered by increasing date starting the
// day after the last observed date.
//
// The working feature vector is seeded from the most recent valid feature
// row. At each step the calendar features are refreshed for the step's
// date, and after the prediction is emitted lag_1 is replaced: with the
// true last observed value after step one, and with the previous step's
// prediction thereafter, so forecast error compounds across the horizon.
// lag_7, lag_14 and the rolling statistics stay frozen at their seed
// values; they do not track the recursive forecast.
func (f *Forecaster) Forecast(observations []Observation, model *FittedModel, horizon int, targetName string) ([]ForecastPoint, error) {
	if model == nil || !model.Trained {
		return nil, errors.NewNotTrainedError("model must be trained before forecasting")
	}
	if horizon <= 0 {
		return nil, errors.NewValidationError(fmt.Sprintf("horizon must be positive, got %d", horizon))
	}

	rows, set, err := f.builder.Build(observations, targetName)
	if err != nil {
		return nil, err
	}

	// The feature contract must match the one the model was trained on, by
	// name and position. A mismatch is a programming error upstream.
	if !set.matches(model.FeatureOrder) {
		return nil, errors.NewValidationError(
			fmt.Sprintf("model feature order %v does not match builder features %v", model.FeatureOrder, set.Names()))
	}
	coefs, err := model.coefVector(set.Names())
	if err != nil {
		return nil, err
	}

	dowIdx, _ := set.Index(FeatureDayOfWeek)
	domIdx, _ := set.Index(FeatureDayOfMonth)
	monthIdx, _ := set.Index(FeatureMonth)
	quarterIdx, _ := set.Index(FeatureQuarter)
	lag1Idx, _ := set.Index(FeatureLag1)

	seed := rows[len(rows)-1]
	working := make([]float64, len(seed.Values))
	copy(working, seed.Values)

	lastObs := observations[len(observations)-1]
	points := make([]ForecastPoint, 0, horizon)

	for i := 0; i < horizon; i++ {
		date := lastObs.Date.AddDate(0, 0, i+1)

		working[dowIdx] = float64(dayOfWeek(date))
		working[domIdx] = float64(date.Day())
		working[monthIdx] = float64(date.Month())
		working[quarterIdx] = float64(quarter(date))

		predicted := model.Intercept + floats.Dot(coefs, working)

		points = append(points, ForecastPoint{
			Date:      date,
			Predicted: predicted,
			Lower:     predicted * (1 - boundFraction),
			Upper:     predicted * (1 + boundFraction),
			Period:    i + 1,
		})

		// Recursive lag feedback for the next step.
		if i == 0 {
			working[lag1Idx] = lastObs.Target(targetName)
		} else {
			working[lag1Idx] = points[i-1].Predicted
		}
	}

	f.logger.Info("forecast generated",
		slog.Int("horizon", horizon),
		slog.String("target", targetName),
		slog.Time("first_date", points[0].Date),
		slog.Time("last_date", points[len(points)-1].Date))

	return points, nil
}

// Package forecast implements the feature-engineering and iterative
// forecasting engine for daily business metrics.
//
// The engine turns an ordered series of daily observations into a feature
// matrix (calendar, lag, and rolling-window features), fits an ordinary
// least squares model on a chronological train/test split, and produces an
// H-step-ahead forecast by recursively feeding each prediction back into
// the short-lag input of the next step.
//
// # Architecture
//
// The package is organized around three components that run strictly in
// sequence:
//
//  1. Builder: derives FeatureRows and the FeatureSet contract from raw
//     Observations (features.go)
//  2. Trainer: fits a FittedModel and computes train/test Metrics
//     (trainer.go)
//  3. Forecaster: iterates the fitted model over future dates and emits
//     ForecastPoints with heuristic bounds (forecaster.go)
//
// A FittedModel is immutable after Train returns; retraining produces a new
// model. The confidence band on each ForecastPoint is a fixed +-10% offset
// around the point prediction, not a statistical interval.
//
// # Usage
//
//	builder := forecast.NewBuilder(logger)
//	rows, set, err := builder.Build(observations, "sales")
//	if err != nil {
//	    return err
//	}
//
//	trainer := forecast.NewTrainer(0.2, logger)
//	model, metrics, err := trainer.Train(rows, set)
//	if err != nil {
//	    return err
//	}
//
//	forecaster := forecast.NewForecaster(builder, logger)
//	points, err := forecaster.Forecast(observations, model, 7, "sales")
package forecast

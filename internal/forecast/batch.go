package forecast

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// SeriesResult bundles the outputs of one independent pipeline run for a
// single target series.
type SeriesResult struct {
	Target  string
	Model   *FittedModel
	Metrics *Metrics
	Points  []ForecastPoint
}

// RunSeries trains and forecasts several target columns of the same
// observation table concurrently. Each series runs a fully independent
// pipeline with its own builder, trainer, forecaster, and FittedModel; no
// state is shared between them. The first failing series cancels the rest.
func RunSeries(ctx context.Context, observations []Observation, targets []string, horizon int, testFraction float64, logger *slog.Logger) (map[string]*SeriesResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	results := make(map[string]*SeriesResult, len(targets))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			builder := NewBuilder(logger)
			rows, set, err := builder.Build(observations, target)
			if err != nil {
				return err
			}

			model, metrics, err := NewTrainer(testFraction, logger).Train(rows, set)
			if err != nil {
				return err
			}

			points, err := NewForecaster(builder, logger).Forecast(observations, model, horizon, target)
			if err != nil {
				return err
			}

			mu.Lock()
			results[target] = &SeriesResult{Target: target, Model: model, Metrics: metrics, Points: points}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

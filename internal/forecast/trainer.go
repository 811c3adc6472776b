package forecast

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ayaanvashistha17/automated-analytics-tool/internal/errors"
)

// epsilon for the singular-value cutoff in the pseudo-inverse fit.
const machEps = 2.220446049250313e-16

// Trainer fits an ordinary least squares model on a chronological
// train/test split. Splitting by date order is load-bearing for time
// series: shuffling would leak future values into the training segment.
type Trainer struct {
	testFraction float64
	logger       *slog.Logger
}

// NewTrainer creates a trainer with the given test fraction. A zero or
// negative fraction falls back to DefaultTestFraction.
func NewTrainer(testFraction float64, logger *slog.Logger) *Trainer {
	if testFraction <= 0 {
		testFraction = DefaultTestFraction
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Trainer{testFraction: testFraction, logger: logger}
}

// Train fits the model on the leading segment of rows and evaluates it on
// the trailing segment. The returned FittedModel is a fresh immutable
// snapshot; callers must not mutate it.
//
// The fit minimizes the sum of squared residuals with an explicit intercept
// term, solved through an SVD pseudo-inverse. A rank-deficient design
// matrix (duplicate or constant columns) therefore yields a deterministic
// minimum-norm solution instead of an error.
func (t *Trainer) Train(rows []FeatureRow, set *FeatureSet) (*FittedModel, *Metrics, error) {
	if t.testFraction >= 1 {
		return nil, nil, errors.NewValidationError(
			fmt.Sprintf("test fraction must be below 1, got %g", t.testFraction))
	}

	n := len(rows)
	testN := int(math.Ceil(float64(n) * t.testFraction))
	trainN := n - testN
	if trainN <= 0 || testN <= 0 {
		return nil, nil, errors.NewInsufficientDataError(
			fmt.Sprintf("chronological split needs non-empty segments: %d rows at test fraction %g gives train=%d test=%d",
				n, t.testFraction, trainN, testN),
		).WithContext("rows", n).WithContext("test_fraction", t.testFraction)
	}

	trainRows, testRows := rows[:trainN], rows[trainN:]

	beta, err := fitOLS(trainRows, set.Len())
	if err != nil {
		return nil, nil, err
	}
	intercept, coefs := beta[0], beta[1:]

	coefMap := make(map[string]float64, set.Len())
	for i, name := range set.Names() {
		coefMap[name] = coefs[i]
	}

	model := &FittedModel{
		Coefficients: coefMap,
		Intercept:    intercept,
		FeatureOrder: set.Names(),
		Trained:      true,
	}

	metrics := &Metrics{
		FeatureImportance: coefMap,
		Intercept:         intercept,
		NumFeatures:       set.Len(),
		TrainSamples:      trainN,
		TestSamples:       testN,
	}
	metrics.R2Train, metrics.MSETrain = evaluate(trainRows, intercept, coefs)
	metrics.R2Test, metrics.MSETest = evaluate(testRows, intercept, coefs)
	metrics.RMSETrain = math.Sqrt(metrics.MSETrain)
	metrics.RMSETest = math.Sqrt(metrics.MSETest)

	t.logger.Info("model trained",
		slog.Int("train_samples", trainN),
		slog.Int("test_samples", testN),
		slog.Float64("r2_train", metrics.R2Train),
		slog.Float64("r2_test", metrics.R2Test))

	return model, metrics, nil
}

// fitOLS solves the least squares problem for the rows, returning the
// intercept followed by one coefficient per feature.
func fitOLS(rows []FeatureRow, numFeatures int) ([]float64, error) {
	n := len(rows)
	cols := numFeatures + 1

	x := mat.NewDense(n, cols, nil)
	y := make([]float64, n)
	for i, row := range rows {
		x.Set(i, 0, 1)
		for j, v := range row.Values {
			x.Set(i, j+1, v)
		}
		y[i] = row.Target
	}

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, errors.NewInsufficientDataError("SVD factorization of the design matrix failed")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	// Singular values below tol are treated as zero, which turns the solve
	// into a minimum-norm pseudo-inverse fit for rank-deficient inputs.
	tol := float64(max(n, cols)) * machEps * s[0]

	scaled := make([]float64, len(s))
	for j := range s {
		uCol := mat.Col(nil, j, &u)
		if s[j] > tol {
			scaled[j] = floats.Dot(uCol, y) / s[j]
		}
	}

	beta := make([]float64, cols)
	for i := 0; i < cols; i++ {
		beta[i] = floats.Dot(mat.Row(nil, i, &v), scaled)
	}
	return beta, nil
}

// evaluate computes R-squared and mean squared error of the linear model
// over the rows. R-squared is unbounded below and deliberately not clamped:
// a poor fit on trending data legitimately yields large negative values.
func evaluate(rows []FeatureRow, intercept float64, coefs []float64) (r2, mse float64) {
	actual := make([]float64, len(rows))
	var ssRes float64
	for i, row := range rows {
		actual[i] = row.Target
		resid := row.Target - (intercept + floats.Dot(coefs, row.Values))
		ssRes += resid * resid
	}
	mse = ssRes / float64(len(rows))

	mean := stat.Mean(actual, nil)
	var ssTot float64
	for _, a := range actual {
		ssTot += (a - mean) * (a - mean)
	}
	if ssTot == 0 {
		// Constant target segment: perfect fit scores 1, anything else 0.
		if ssRes == 0 {
			return 1, mse
		}
		return 0, mse
	}
	return 1 - ssRes/ssTot, mse
}

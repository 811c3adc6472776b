package forecast

import (
	"time"

	"github.com/ayaanvashistha17/automated-analytics-tool/internal/errors"
)

// Canonical feature names, in the fixed order used for both training and
// forecasting. The order is part of the model contract: FittedModel
// coefficients are resolved by these names at forecast time.
const (
	FeatureDayOfWeek    = "day_of_week"
	FeatureDayOfMonth   = "day_of_month"
	FeatureMonth        = "month"
	FeatureQuarter      = "quarter"
	FeatureLag1         = "lag_1"
	FeatureLag7         = "lag_7"
	FeatureLag14        = "lag_14"
	FeatureRollingMean7 = "rolling_mean_7"
	FeatureRollingStd7  = "rolling_std_7"
)

// canonicalFeatureNames is the full ordered feature set emitted by Builder.
var canonicalFeatureNames = []string{
	FeatureDayOfWeek,
	FeatureDayOfMonth,
	FeatureMonth,
	FeatureQuarter,
	FeatureLag1,
	FeatureLag7,
	FeatureLag14,
	FeatureRollingMean7,
	FeatureRollingStd7,
}

// FeatureNames returns a copy of the canonical ordered feature names.
func FeatureNames() []string {
	names := make([]string, len(canonicalFeatureNames))
	copy(names, canonicalFeatureNames)
	return names
}

const (
	// maxLag is the longest lag offset; rows without that much history are
	// dropped.
	maxLag = 14
	// rollingWindow is the trailing window size for rolling statistics,
	// inclusive of the current row.
	rollingWindow = 7
	// minObservations is the smallest input series that yields at least one
	// valid feature row (maxLag prior rows plus the row itself).
	minObservations = maxLag + 1

	// DefaultTestFraction is the share of rows held out as the trailing
	// test segment when none is configured.
	DefaultTestFraction = 0.2
	// DefaultHorizon is the number of daily steps forecast when none is
	// configured.
	DefaultHorizon = 7

	// boundFraction is the heuristic confidence band half-width as a share
	// of the point prediction.
	boundFraction = 0.1
)

// Observation is a single day of input metrics: the primary metric value
// plus any additional numeric covariate columns from the source table.
type Observation struct {
	Date       time.Time          `json:"date"`
	Value      float64            `json:"value"`
	Covariates map[string]float64 `json:"covariates,omitempty"`
}

// Target resolves the target metric for this observation: a covariate when
// one exists under name, otherwise the primary value field.
func (o Observation) Target(name string) float64 {
	if v, ok := o.Covariates[name]; ok {
		return v
	}
	return o.Value
}

// FeatureSet is the fixed, validated feature-name contract produced once by
// Builder and threaded through Trainer and Forecaster. It replaces ad-hoc
// string lookups with positional access into FeatureRow values.
type FeatureSet struct {
	names []string
	index map[string]int
}

// newFeatureSet builds a FeatureSet for the given ordered names.
func newFeatureSet(names []string) *FeatureSet {
	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}
	return &FeatureSet{names: names, index: index}
}

// Names returns a copy of the ordered feature names.
func (s *FeatureSet) Names() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Len returns the number of features in the set.
func (s *FeatureSet) Len() int {
	return len(s.names)
}

// Index returns the positional index of the named feature.
func (s *FeatureSet) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// matches reports whether the given order is identical to this set, by name
// and position.
func (s *FeatureSet) matches(order []string) bool {
	if len(order) != len(s.names) {
		return false
	}
	for i, name := range order {
		if s.names[i] != name {
			return false
		}
	}
	return true
}

// FeatureRow is one derived training example: feature values aligned with
// the FeatureSet order, plus the target value for the row's date.
type FeatureRow struct {
	Date   time.Time
	Values []float64
	Target float64
}

// FittedModel is an immutable snapshot of a completed linear fit. It is
// never mutated after Train returns; retraining produces a new FittedModel.
type FittedModel struct {
	Coefficients map[string]float64 `json:"coefficients"`
	Intercept    float64            `json:"intercept"`
	FeatureOrder []string           `json:"feature_order"`
	Trained      bool               `json:"trained"`
}

// coefVector resolves the coefficient for each name, in order. Every name
// must have a coefficient: a gap means the model and feature contract have
// diverged.
func (m *FittedModel) coefVector(names []string) ([]float64, error) {
	coefs := make([]float64, len(names))
	for i, name := range names {
		c, ok := m.Coefficients[name]
		if !ok {
			return nil, errors.NewValidationError("model has no coefficient for feature " + name)
		}
		coefs[i] = c
	}
	return coefs, nil
}

// Metrics packages goodness-of-fit and error statistics for both split
// segments, alongside the per-feature coefficients used for
// interpretability reporting. These fields are the complete contract
// surface consumed by the reporting layer.
type Metrics struct {
	R2Train           float64            `json:"r2_train"`
	R2Test            float64            `json:"r2_test"`
	MSETrain          float64            `json:"mse_train"`
	MSETest           float64            `json:"mse_test"`
	RMSETrain         float64            `json:"rmse_train"`
	RMSETest          float64            `json:"rmse_test"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
	Intercept         float64            `json:"intercept"`
	NumFeatures       int                `json:"num_features"`
	TrainSamples      int                `json:"train_samples"`
	TestSamples       int                `json:"test_samples"`
}

// ForecastPoint is one step of the forecast horizon. Lower and Upper form a
// heuristic +-10% band around the prediction, not a statistical confidence
// interval.
type ForecastPoint struct {
	Date      time.Time `json:"date"`
	Predicted float64   `json:"predicted_value"`
	Lower     float64   `json:"lower_bound"`
	Upper     float64   `json:"upper_bound"`
	Period    int       `json:"period_index"`
}

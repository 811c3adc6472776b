package dataset

import "math"

// Derived column names consumed by the report layer.
const (
	ColSalesGrowth       = "sales_growth"
	ColRevenueGrowth     = "revenue_growth"
	ColSales7dMA         = "sales_7d_ma"
	ColCumulativeRevenue = "cumulative_revenue"
)

// maWindow is the moving-average window for the sales trend column.
const maWindow = 7

// Derive adds the report metrics to the table in place: day-over-day
// growth percentages for sales and revenue, a 7-day moving average of
// sales, and cumulative revenue. Columns are only added when their source
// column is present.
func Derive(t *Table) {
	if sales, ok := t.Column("sales"); ok {
		_ = t.AddColumn(ColSalesGrowth, growthPercent(sales))
		_ = t.AddColumn(ColSales7dMA, movingAverage(sales, maWindow))
	}
	if revenue, ok := t.Column("revenue"); ok {
		_ = t.AddColumn(ColRevenueGrowth, growthPercent(revenue))
		_ = t.AddColumn(ColCumulativeRevenue, cumulativeSum(revenue))
	}
}

// growthPercent computes day-over-day percent change. The first row has no
// predecessor and is NaN, matching the usual percent-change convention.
func growthPercent(series []float64) []float64 {
	out := make([]float64, len(series))
	if len(out) > 0 {
		out[0] = math.NaN()
	}
	for i := 1; i < len(series); i++ {
		if series[i-1] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (series[i] - series[i-1]) / series[i-1] * 100
	}
	return out
}

// movingAverage computes the trailing window mean, NaN until a full window
// is available.
func movingAverage(series []float64, window int) []float64 {
	out := make([]float64, len(series))
	var sum float64
	for i, v := range series {
		sum += v
		if i >= window {
			sum -= series[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// cumulativeSum computes the running total of the series.
func cumulativeSum(series []float64) []float64 {
	out := make([]float64, len(series))
	var sum float64
	for i, v := range series {
		sum += v
		out[i] = sum
	}
	return out
}

package dataset

import (
	"math"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayaanvashistha17/automated-analytics-tool/internal/config"
	apperrors "github.com/ayaanvashistha17/automated-analytics-tool/internal/errors"
)

func testLoader(t *testing.T) (*Loader, *config.Paths) {
	t.Helper()
	paths := config.NewPaths(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())
	return NewLoader(config.Default().Data, paths, nil), paths
}

func writeRawCSV(t *testing.T, paths *config.Paths, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(paths.RawFile("daily_metrics.csv"), []byte(content), 0o644))
}

func TestLoader_LoadRaw(t *testing.T) {
	loader, paths := testLoader(t)
	writeRawCSV(t, paths, `date,sales,revenue,users,conversion_rate
2024-01-01,120,1500.5,80,0.02
2024-01-02,135,1620.0,85,0.025
2024-01-03,110,1400.25,75,0.018
`)

	table, err := loader.LoadRaw()
	require.NoError(t, err)

	assert.Equal(t, 3, table.NumRows())
	assert.Equal(t, []string{"sales", "revenue", "users", "conversion_rate"}, table.Columns)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), table.Dates[0])

	sales, ok := table.Column("sales")
	require.True(t, ok)
	assert.Equal(t, []float64{120, 135, 110}, sales)

	revenue, ok := table.Column("revenue")
	require.True(t, ok)
	assert.Equal(t, 1500.5, revenue[0])
}

func TestLoader_LoadRaw_GeneratesSampleWhenMissing(t *testing.T) {
	loader, paths := testLoader(t)

	table, err := loader.LoadRaw()
	require.NoError(t, err)

	assert.Equal(t, 30, table.NumRows())
	for _, col := range []string{"sales", "revenue", "users", "conversion_rate"} {
		assert.True(t, table.HasColumn(col), col)
	}

	sales, _ := table.Column("sales")
	for _, v := range sales {
		assert.GreaterOrEqual(t, v, 100.0)
		assert.Less(t, v, 500.0)
	}

	// The sample is persisted so the next load reads the same data.
	_, err = os.Stat(paths.RawFile("daily_metrics.csv"))
	require.NoError(t, err)

	again, err := loader.LoadRaw()
	require.NoError(t, err)
	assert.Equal(t, table.Dates, again.Dates)
	reloaded, _ := again.Column("sales")
	assert.Equal(t, sales, reloaded)
}

func TestLoader_LoadRaw_AlternateDateColumnAndLayout(t *testing.T) {
	loader, paths := testLoader(t)
	writeRawCSV(t, paths, `timestamp,sales
2024/01/01,100
2024/01/02,110
`)

	table, err := loader.LoadRaw()
	require.NoError(t, err)
	assert.Equal(t, 2, table.NumRows())
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), table.Dates[1])
}

func TestLoader_LoadRaw_UnparseableCellsBecomeNaN(t *testing.T) {
	loader, paths := testLoader(t)
	writeRawCSV(t, paths, `date,sales
2024-01-01,100
2024-01-02,n/a
2024-01-03,120
`)

	table, err := loader.LoadRaw()
	require.NoError(t, err)

	sales, _ := table.Column("sales")
	assert.Equal(t, 100.0, sales[0])
	assert.True(t, math.IsNaN(sales[1]))
	assert.Equal(t, 120.0, sales[2])
}

func TestLoader_LoadRaw_ParseFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "no data rows",
			content: "date,sales\n",
		},
		{
			name:    "no recognized date column",
			content: "when,sales\n2024-01-01,100\n",
		},
		{
			name:    "no recognized numeric columns",
			content: "date,widgets\n2024-01-01,100\n",
		},
		{
			name:    "unparseable date",
			content: "date,sales\nnot-a-date,100\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, paths := testLoader(t)
			writeRawCSV(t, paths, tt.content)
			_, err := loader.LoadRaw()
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
		})
	}
}

func TestClean(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }

	t.Run("sorts and dedupes by date", func(t *testing.T) {
		table := NewTable([]time.Time{d(3), d(1), d(2), d(1)})
		require.NoError(t, table.AddColumn("sales", []float64{300, 100, 200, 999}))

		clean := Clean(table)

		assert.Equal(t, []time.Time{d(1), d(2), d(3)}, clean.Dates)
		sales, _ := clean.Column("sales")
		// The first occurrence of a duplicated date wins.
		assert.Equal(t, []float64{100, 200, 300}, sales)
	})

	t.Run("fills missing values forward then backward", func(t *testing.T) {
		table := NewTable([]time.Time{d(1), d(2), d(3), d(4), d(5)})
		require.NoError(t, table.AddColumn("sales", []float64{math.NaN(), 100, math.NaN(), math.NaN(), 200}))

		clean := Clean(table)

		sales, _ := clean.Column("sales")
		assert.Equal(t, []float64{100, 100, 100, 100, 200}, sales)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		table := NewTable([]time.Time{d(2), d(1)})
		require.NoError(t, table.AddColumn("sales", []float64{2, 1}))

		_ = Clean(table)

		assert.Equal(t, []time.Time{d(2), d(1)}, table.Dates)
		sales, _ := table.Column("sales")
		assert.Equal(t, []float64{2, 1}, sales)
	})
}

func TestLoader_Process(t *testing.T) {
	loader, paths := testLoader(t)
	writeRawCSV(t, paths, `date,sales,revenue
2024-01-02,110,1100
2024-01-01,100,1000
2024-01-03,,1210
`)

	table, err := loader.Process()
	require.NoError(t, err)

	assert.Equal(t, 3, table.NumRows())
	// Rows sorted, gap filled from the previous day.
	sales, _ := table.Column("sales")
	assert.Equal(t, []float64{100, 110, 110}, sales)
	// Derived columns present after processing.
	assert.True(t, table.HasColumn(ColSalesGrowth))
	assert.True(t, table.HasColumn(ColCumulativeRevenue))
}

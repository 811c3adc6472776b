package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "daily", want: "daily"},
		{input: "FORECAST", want: "forecast"},
		{input: "data", want: "data"},
		{input: "all", want: "all"},
		{input: "weekly", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveHorizon(t *testing.T) {
	// Explicit flag wins over everything.
	assert.Equal(t, 30, resolveHorizon(30, modeForecast, 7))
	// Standalone forecast report doubles the configured horizon.
	assert.Equal(t, 14, resolveHorizon(0, modeForecast, 7))
	// Other modes use the configured value.
	assert.Equal(t, 7, resolveHorizon(0, modeDaily, 7))
	assert.Equal(t, 7, resolveHorizon(0, modeAll, 7))
}

func TestResolveTargets(t *testing.T) {
	assert.Equal(t, []string{"sales"}, resolveTargets("", "sales"))
	assert.Equal(t, []string{"revenue"}, resolveTargets("revenue", "sales"))
	assert.Equal(t, []string{"sales", "revenue"}, resolveTargets("sales, revenue", "sales"))
	// Blank entries collapse back to the configured target.
	assert.Equal(t, []string{"sales"}, resolveTargets(" , ", "sales"))
}

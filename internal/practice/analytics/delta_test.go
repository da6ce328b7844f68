package analytics_test

import (
	"testing"

	"github.com/2beens/practicetrack/internal/practice/analytics"

	"github.com/stretchr/testify/assert"
)

func TestComputeDelta_ShortInput(t *testing.T) {
	assert.Equal(t, analytics.Delta{}, analytics.ComputeDelta(nil))
	assert.Equal(t, analytics.Delta{}, analytics.ComputeDelta([]analytics.DailyDataPoint{}))
	assert.Equal(t, analytics.Delta{}, analytics.ComputeDelta([]analytics.DailyDataPoint{
		{CumulativeAverage: 2.5},
	}))
}

func TestComputeDelta_ZeroFirstValue(t *testing.T) {
	got := analytics.ComputeDelta([]analytics.DailyDataPoint{
		{CumulativeAverage: 0},
		{CumulativeAverage: 1.5},
	})
	assert.Equal(t, 1.5, got.Value)
	assert.Zero(t, got.Percentage, "no division by a zero first value")
}

func TestComputeDelta(t *testing.T) {
	got := analytics.ComputeDelta([]analytics.DailyDataPoint{
		{CumulativeAverage: 2.0},
		{CumulativeAverage: 1.2},
		{CumulativeAverage: 2.5},
	})
	assert.InDelta(t, 0.5, got.Value, 1e-9)
	assert.InDelta(t, 25.0, got.Percentage, 1e-9)

	down := analytics.ComputeDelta([]analytics.DailyDataPoint{
		{CumulativeAverage: 2.0},
		{CumulativeAverage: 1.5},
	})
	assert.InDelta(t, -0.5, down.Value, 1e-9)
	assert.InDelta(t, -25.0, down.Percentage, 1e-9)
}

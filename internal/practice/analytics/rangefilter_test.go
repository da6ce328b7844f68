package analytics_test

import (
	"testing"
	"time"

	"github.com/2beens/practicetrack/internal/practice/analytics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailySeries(t *testing.T, startDate string, days int) []analytics.DailyDataPoint {
	t.Helper()
	start, err := time.Parse("2006-01-02", startDate)
	require.NoError(t, err)

	startDay := analytics.DayOf(start, time.UTC)
	series := make([]analytics.DailyDataPoint, 0, days)
	var cum float64
	for i := 0; i < days; i++ {
		cum += 1.5
		series = append(series, analytics.DailyDataPoint{
			Day:               startDay.AddDays(i),
			DayNumber:         i + 1,
			HoursPlayed:       1.5,
			CumulativeHours:   cum,
			CumulativeAverage: cum / float64(i+1),
		})
	}
	return series
}

func TestParseRangeToken(t *testing.T) {
	for _, valid := range []string{"1W", "1M", "6M", "1Y", "ALL"} {
		token, err := analytics.ParseRangeToken(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, string(token))
	}

	_, err := analytics.ParseRangeToken("2W")
	assert.Error(t, err)
	_, err = analytics.ParseRangeToken("")
	assert.Error(t, err)
}

func TestFilterByRange_Week(t *testing.T) {
	series := dailySeries(t, "2025-01-01", 60)
	end := series[len(series)-1].Day

	got := analytics.FilterByRange(series, analytics.RangeWeek, end, analytics.FilterConfig{})
	// anchor minus 7 days, both ends inclusive
	require.Len(t, got, 8)
	assert.Equal(t, end.AddDays(-7), got[0].Day)
	assert.Equal(t, end, got[len(got)-1].Day)
}

func TestFilterByRange_CalendarMonth(t *testing.T) {
	series := dailySeries(t, "2025-01-01", 120)
	end := analytics.DayOf(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), time.UTC)

	got := analytics.FilterByRange(series, analytics.RangeMonth, end, analytics.FilterConfig{})
	require.NotEmpty(t, got)
	assert.Equal(t, "2025-02-28", got[0].Day.String())
	assert.Equal(t, "2025-03-31", got[len(got)-1].Day.String())
}

func TestFilterByRange_VisualStartClampsLongRangesOnly(t *testing.T) {
	series := dailySeries(t, "2025-01-01", 90)
	end := series[len(series)-1].Day
	cfg := analytics.FilterConfig{
		VisualStart: series[30].Day,
	}

	all := analytics.FilterByRange(series, analytics.RangeAll, end, cfg)
	require.NotEmpty(t, all)
	assert.Equal(t, cfg.VisualStart, all[0].Day, "ALL window starts at the visual cutoff")

	// a short window anchored inside the clipped region is untouched
	weekEnd := series[10].Day
	week := analytics.FilterByRange(series, analytics.RangeWeek, weekEnd, cfg)
	require.NotEmpty(t, week)
	assert.Equal(t, weekEnd.AddDays(-7), week[0].Day)
}

func TestFilterByRange_NoVisualStartKeepsFullHistory(t *testing.T) {
	series := dailySeries(t, "2025-01-01", 30)
	end := series[len(series)-1].Day

	got := analytics.FilterByRange(series, analytics.RangeAll, end, analytics.FilterConfig{})
	assert.Len(t, got, 30)
}

func TestDownsample_ShortInputUnchanged(t *testing.T) {
	series := dailySeries(t, "2025-01-01", 50)
	got := analytics.Downsample(series, 100)
	assert.Equal(t, series, got)
}

func TestDownsample_KeepsLastOfEachChunkAndEndpoint(t *testing.T) {
	series := dailySeries(t, "2024-01-01", 400)

	got := analytics.Downsample(series, 100)
	require.LessOrEqual(t, len(got), 101)

	// chunk size ceil(400/100) = 4; the last point of each chunk survives
	assert.Equal(t, series[3], got[0])
	assert.Equal(t, series[7], got[1])

	// the true final point is present with its exact values
	assert.Equal(t, series[len(series)-1], got[len(got)-1])

	// sampled points are real days, untouched
	for _, p := range got {
		assert.InDelta(t, p.CumulativeHours/float64(p.DayNumber), p.CumulativeAverage, 1e-9)
	}
}

func TestDownsample_MisalignedFinalPointForced(t *testing.T) {
	series := dailySeries(t, "2024-01-01", 401) // 401 points, chunk size 5

	got := analytics.Downsample(series, 100)
	assert.Equal(t, series[len(series)-1], got[len(got)-1])
}

func TestWindowPoints_LongRangeIsDownsampled(t *testing.T) {
	series := dailySeries(t, "2023-01-01", 400)
	end := series[len(series)-1].Day

	got := analytics.WindowPoints(series, analytics.RangeAll, end, analytics.FilterConfig{})
	require.LessOrEqual(t, len(got), 101)
	assert.Equal(t, series[len(series)-1], got[len(got)-1])

	week := analytics.WindowPoints(series, analytics.RangeWeek, end, analytics.FilterConfig{})
	assert.Len(t, week, 8, "short ranges are never downsampled")
}

package analytics

import "fmt"

// RangeToken names a chart window.
type RangeToken string

const (
	RangeWeek      RangeToken = "1W"
	RangeMonth     RangeToken = "1M"
	RangeSixMonths RangeToken = "6M"
	RangeYear      RangeToken = "1Y"
	RangeAll       RangeToken = "ALL"
)

func ParseRangeToken(s string) (RangeToken, error) {
	switch RangeToken(s) {
	case RangeWeek, RangeMonth, RangeSixMonths, RangeYear, RangeAll:
		return RangeToken(s), nil
	default:
		return "", fmt.Errorf("unknown range token: %q", s)
	}
}

// IsLongRange reports whether the window gets the visual-start clamp and
// downsampling treatment.
func (r RangeToken) IsLongRange() bool {
	return r == RangeSixMonths || r == RangeYear || r == RangeAll
}

// DefaultTargetPoints is the visual budget for downsampled long-range charts.
const DefaultTargetPoints = 100

// FilterConfig holds the display policy knobs for long-range windows.
type FilterConfig struct {
	// VisualStart clips the earliest, most volatile history out of long-range
	// chart windows. Zero means no clipping. Display-only: the full history
	// still feeds Aggregate, only the chart window is truncated.
	VisualStart Day
	// TargetPoints is the downsampling budget; zero falls back to
	// DefaultTargetPoints.
	TargetPoints int
}

func (cfg FilterConfig) targetPoints() int {
	if cfg.TargetPoints < 1 {
		return DefaultTargetPoints
	}
	return cfg.TargetPoints
}

// FilterByRange slices the daily series down to the requested window,
// anchored at end (both window ends inclusive).
func FilterByRange(daily []DailyDataPoint, token RangeToken, end Day, cfg FilterConfig) []DailyDataPoint {
	var windowStart Day
	switch token {
	case RangeWeek:
		windowStart = end.AddDays(-7)
	case RangeMonth:
		windowStart = end.AddMonths(-1)
	case RangeSixMonths:
		windowStart = end.AddMonths(-6)
	case RangeYear:
		windowStart = end.AddMonths(-12)
	case RangeAll:
		if len(daily) > 0 {
			windowStart = daily[0].Day
		}
	}

	if token.IsLongRange() && cfg.VisualStart > windowStart {
		windowStart = cfg.VisualStart
	}

	filtered := make([]DailyDataPoint, 0, len(daily))
	for _, p := range daily {
		if p.Day >= windowStart && p.Day <= end {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Downsample reduces the series to roughly target points by splitting it into
// contiguous chunks of ceil(n/target) and keeping the last point of each
// chunk. Sampled points are always real days with their exact cumulative
// values - never averages or interpolations - so tooltips stay truthful.
// The true final point is always included.
func Downsample(points []DailyDataPoint, target int) []DailyDataPoint {
	if target < 1 || len(points) <= target {
		return points
	}

	chunkSize := (len(points) + target - 1) / target
	out := make([]DailyDataPoint, 0, target+1)
	for i := chunkSize - 1; i < len(points); i += chunkSize {
		out = append(out, points[i])
	}

	if last := points[len(points)-1]; out[len(out)-1].Day != last.Day {
		out = append(out, last)
	}
	return out
}

// WindowPoints applies the full display pipeline for a range token: filter,
// then downsample when the window is a long one.
func WindowPoints(daily []DailyDataPoint, token RangeToken, end Day, cfg FilterConfig) []DailyDataPoint {
	points := FilterByRange(daily, token, end, cfg)
	if token.IsLongRange() {
		points = Downsample(points, cfg.targetPoints())
	}
	return points
}

package analytics

// Delta is the change of the cumulative average across a chart window,
// used for the "up/down since window start" indicator.
type Delta struct {
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// ComputeDelta compares the last and first points of a filtered window.
// Fewer than two points, or a zero first value, yields a zero delta.
func ComputeDelta(points []DailyDataPoint) Delta {
	if len(points) < 2 {
		return Delta{}
	}

	first := points[0].CumulativeAverage
	last := points[len(points)-1].CumulativeAverage
	value := last - first
	if first == 0 {
		return Delta{Value: value}
	}

	return Delta{
		Value:      value,
		Percentage: value / first * 100,
	}
}

package analytics

import (
	"sort"
	"time"
)

// IntradayPoint is one sample of the reconstructed average-in-progress within
// a single day.
type IntradayPoint struct {
	Time              time.Time `json:"time"`
	CumulativeAverage float64   `json:"cumulativeAverage"`
	HoursThisInterval float64   `json:"hoursPlayedThisInterval"`
}

// IntradayResult carries the plateau-slope curve for one day plus the
// baseline average it grows from. Empty Points means there was no previous
// day to extrapolate from - a legitimate first-day state, not an error.
type IntradayResult struct {
	Points          []IntradayPoint `json:"points"`
	BaselineAverage float64         `json:"baselineAverage"`
}

// AverageWithHours is the projection formula behind the intraday curve:
// what the lifetime average reads once hoursSoFar have been played on day
// number todayDayNumber. It is exposed separately so the live-timer caller
// can append a synthetic "right now" point with the exact same math.
func AverageWithHours(baselineCumulativeHours float64, todayDayNumber int, hoursSoFar float64) float64 {
	return (baselineCumulativeHours + hoursSoFar) / float64(todayDayNumber)
}

// ReconstructIntraday synthesizes the evolving average for the given day out
// of that day's raw sessions and the daily series, using the plateau-slope
// model: the curve rises linearly while a session is actively accruing time
// and stays flat in the idle gaps between sessions.
//
// The baseline is the previous day's data point, falling back to the most
// recent point strictly before the day. Sample points are every hour boundary
// from midnight up to the current hour (hour 23 when reconstructing a day
// other than the day of now), plus the start and end instant of every session
// in range, so the curve has exact kinks at session boundaries.
//
// Overlapping sessions are summed independently; elapsed hours can be
// double-counted during the overlap. Kept as-is, callers own their data.
func ReconstructIntraday(daily []DailyDataPoint, sessions []Session, day Day, now time.Time, loc *time.Location) IntradayResult {
	baseline, ok := baselineFor(daily, day)
	if !ok {
		return IntradayResult{Points: []IntradayPoint{}}
	}

	todayDayNumber := baseline.DayNumber + 1

	lastHour := 23
	if day == DayOf(now, loc) {
		lastHour = now.In(loc).Hour()
	}

	midnight := day.Midnight(loc)
	rangeEnd := midnight.Add(time.Duration(lastHour) * time.Hour)
	timePoints := collectTimePoints(sessions, midnight, rangeEnd)

	points := make([]IntradayPoint, 0, len(timePoints))
	for _, t := range timePoints {
		hoursSoFar, hoursActive := hoursPlayedAt(sessions, t)
		points = append(points, IntradayPoint{
			Time:              t,
			CumulativeAverage: AverageWithHours(baseline.CumulativeHours, todayDayNumber, hoursSoFar),
			HoursThisInterval: hoursActive,
		})
	}

	return IntradayResult{
		Points:          points,
		BaselineAverage: baseline.CumulativeAverage,
	}
}

// baselineFor finds the data point of the day before the given one, falling
// back to the most recent point strictly before it.
func baselineFor(daily []DailyDataPoint, day Day) (DailyDataPoint, bool) {
	yesterday := day.AddDays(-1)
	for i := len(daily) - 1; i >= 0; i-- {
		if daily[i].Day == yesterday {
			return daily[i], true
		}
		if daily[i].Day < yesterday {
			break
		}
	}
	for i := len(daily) - 1; i >= 0; i-- {
		if daily[i].Day < day {
			return daily[i], true
		}
	}
	return DailyDataPoint{}, false
}

// collectTimePoints merges hourly boundaries with session start/end instants
// inside [midnight, rangeEnd], deduplicated and sorted. Hour boundaries give
// the curve its smooth sampling, session boundaries its exact kinks.
func collectTimePoints(sessions []Session, midnight, rangeEnd time.Time) []time.Time {
	seen := make(map[int64]struct{})
	points := make([]time.Time, 0, 32)
	add := func(t time.Time) {
		if t.Before(midnight) || t.After(rangeEnd) {
			return
		}
		key := t.UnixNano()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		points = append(points, t)
	}

	for t := midnight; !t.After(rangeEnd); t = t.Add(time.Hour) {
		add(t)
	}
	for _, s := range sessions {
		add(s.StartedAt)
		add(s.EndedAt())
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Before(points[j]) })
	return points
}

// hoursPlayedAt sums the hours accrued by the sessions as of instant t: full
// durations of sessions already ended, plus the elapsed fraction of a session
// still in progress. The second return value is the in-progress contribution
// (the full duration when t is exactly a session end), for display next to
// the point.
func hoursPlayedAt(sessions []Session, t time.Time) (total, active float64) {
	for _, s := range sessions {
		if !t.After(s.StartedAt) {
			continue // not started yet as of t
		}
		end := s.EndedAt()
		if t.Before(end) {
			elapsedFraction := t.Sub(s.StartedAt).Seconds() / s.Duration.Seconds()
			partial := elapsedFraction * s.Hours()
			total += partial
			active += partial
			continue
		}
		total += s.Hours()
		if t.Equal(end) {
			active += s.Hours()
		}
	}
	return total, active
}

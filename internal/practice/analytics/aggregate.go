package analytics

import (
	"errors"
	"time"
)

// ErrNoData is returned when aggregation is attempted over an empty session
// list. Callers show an onboarding/empty state instead of a zero-value chart.
var ErrNoData = errors.New("no practice sessions")

// Session is the analytics view of a practice session: a start instant and a
// non-negative duration. Zero-duration sessions are valid and contribute
// nothing.
type Session struct {
	StartedAt time.Time
	Duration  time.Duration
}

func (s Session) EndedAt() time.Time {
	return s.StartedAt.Add(s.Duration)
}

func (s Session) Hours() float64 {
	return s.Duration.Hours()
}

// DailyDataPoint is one calendar day of the cumulative average series.
type DailyDataPoint struct {
	Day               Day     `json:"date"`
	DayNumber         int     `json:"dayNumber"`
	HoursPlayed       float64 `json:"hoursPlayed"`
	CumulativeHours   float64 `json:"cumulativeHours"`
	CumulativeAverage float64 `json:"cumulativeAverage"`
}

// Result is the full analytics output: a continuous, zero-filled daily series
// from the first practice day through today (or the last session day, if that
// is later), plus the lifetime totals.
type Result struct {
	Daily          []DailyDataPoint `json:"dailyData"`
	TotalHours     float64          `json:"totalHours"`
	TotalDays      int              `json:"totalDays"`
	CurrentAverage float64          `json:"currentAverage"`
	StartDay       Day              `json:"startDate"`
	EndDay         Day              `json:"endDate"`
}

// Aggregate buckets sessions into local calendar days and walks the resulting
// series once, producing per-day cumulative hours and cumulative average.
// Days with no sessions appear with zero hours played, so day numbers run
// 1..TotalDays without gaps. The series always reaches the day of "now" even
// when nothing was logged today - the intraday reconstruction and the charts
// depend on that.
//
// Aggregate never mutates its input and never reads the wall clock; rerunning
// it with the same arguments yields the same result.
func Aggregate(sessions []Session, now time.Time, loc *time.Location) (*Result, error) {
	if len(sessions) == 0 {
		return nil, ErrNoData
	}

	hoursPerDay := make(map[Day]float64)
	for _, s := range sessions {
		hoursPerDay[DayOf(s.StartedAt, loc)] += s.Hours()
	}

	first := true
	var startDay, lastDay Day
	for day := range hoursPerDay {
		if first {
			startDay, lastDay = day, day
			first = false
			continue
		}
		if day < startDay {
			startDay = day
		}
		if day > lastDay {
			lastDay = day
		}
	}

	// a session bucketed in the future (clock skew) still extends the range
	endDay := DayOf(now, loc)
	if lastDay > endDay {
		endDay = lastDay
	}

	daily := make([]DailyDataPoint, 0, int(endDay-startDay)+1)
	var cumulativeHours float64
	for day, n := startDay, 1; day <= endDay; day, n = day+1, n+1 {
		cumulativeHours += hoursPerDay[day]
		daily = append(daily, DailyDataPoint{
			Day:               day,
			DayNumber:         n,
			HoursPlayed:       hoursPerDay[day],
			CumulativeHours:   cumulativeHours,
			CumulativeAverage: cumulativeHours / float64(n),
		})
	}

	last := daily[len(daily)-1]
	return &Result{
		Daily:          daily,
		TotalHours:     last.CumulativeHours,
		TotalDays:      last.DayNumber,
		CurrentAverage: last.CumulativeAverage,
		StartDay:       startDay,
		EndDay:         endDay,
	}, nil
}

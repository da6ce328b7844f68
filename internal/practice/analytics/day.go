package analytics

import (
	"fmt"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// Day is a calendar day, stored as the number of days since the Unix epoch
// derived from the local wall-clock date. Two sessions fall on the same day
// iff their Day values are equal, so day comparisons are plain integer
// comparisons and cannot drift with timezones or string formats.
type Day int

// DayOf returns the calendar day of the given instant in the given location.
// A session starting exactly at local midnight belongs to that day.
func DayOf(t time.Time, loc *time.Location) Day {
	year, month, day := t.In(loc).Date()
	return Day(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

// Midnight returns the local midnight instant of this day.
func (d Day) Midnight(loc *time.Location) time.Time {
	utc := time.Unix(int64(d)*secondsPerDay, 0).UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, loc)
}

func (d Day) AddDays(n int) Day {
	return d + Day(n)
}

// AddMonths shifts the day by whole calendar months, with the same
// normalization rules as time.Time.AddDate.
func (d Day) AddMonths(n int) Day {
	return DayOf(d.Midnight(time.UTC).AddDate(0, n, 0), time.UTC)
}

func (d Day) String() string {
	return d.Midnight(time.UTC).Format("2006-01-02")
}

func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Day) UnmarshalJSON(data []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(data))
	if err != nil {
		return fmt.Errorf("parse day %s: %w", data, err)
	}
	*d = DayOf(t, time.UTC)
	return nil
}

package practice

import (
	"fmt"
	"time"

	"github.com/2beens/practicetrack/internal/practice/analytics"
)

// Source tells how a session entered the system.
type Source string

const (
	SourceManual   Source = "manual"
	SourceCalendar Source = "calendar"
	SourceCSV      Source = "csv"
)

func (s Source) IsValid() bool {
	switch s {
	case SourceManual, SourceCalendar, SourceCSV:
		return true
	default:
		return false
	}
}

// Session is a single logged practice session.
type Session struct {
	ID              int       `json:"id"`
	StartedAt       time.Time `json:"startedAt"`
	DurationSeconds int       `json:"durationSeconds"`
	Source          Source    `json:"source"`
	// SourceID ties calendar-synced sessions back to their event,
	// so re-syncing the same calendar window stays idempotent.
	SourceID  string    `json:"sourceId,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s Session) Duration() time.Duration {
	return time.Duration(s.DurationSeconds) * time.Second
}

func (s Session) EndedAt() time.Time {
	return s.StartedAt.Add(s.Duration())
}

func (s Session) Hours() float64 {
	return s.Duration().Hours()
}

// RawSession is the wire shape produced by the calendar sync and CSV import
// edges. Validation happens there - the analytics core trusts its input.
type RawSession struct {
	StartedAt       string `json:"started_at"`
	DurationSeconds int    `json:"duration_seconds"`
}

// Session parses and validates the raw record.
func (rs RawSession) Session(source Source, sourceID string) (Session, error) {
	startedAt, err := time.Parse(time.RFC3339, rs.StartedAt)
	if err != nil {
		return Session{}, fmt.Errorf("parse started_at %q: %w", rs.StartedAt, err)
	}
	if rs.DurationSeconds < 0 {
		return Session{}, fmt.Errorf("negative duration: %d", rs.DurationSeconds)
	}
	return Session{
		StartedAt:       startedAt,
		DurationSeconds: rs.DurationSeconds,
		Source:          source,
		SourceID:        sourceID,
	}, nil
}

// AnalyticsSessions converts stored sessions to the analytics input shape.
func AnalyticsSessions(sessions []Session) []analytics.Session {
	out := make([]analytics.Session, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, analytics.Session{
			StartedAt: s.StartedAt,
			Duration:  s.Duration(),
		})
	}
	return out
}

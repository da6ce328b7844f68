package repertoire

import "time"

// Status tracks how far along a piece is.
type Status string

const (
	StatusLearning         Status = "learning"
	StatusPolishing        Status = "polishing"
	StatusPerformanceReady Status = "performance_ready"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusLearning, StatusPolishing, StatusPerformanceReady:
		return true
	default:
		return false
	}
}

// Piece is one repertoire entry.
type Piece struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Composer  string    `json:"composer"`
	Status    Status    `json:"status"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

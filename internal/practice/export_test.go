package practice

import "time"

// SetNow pins the handler clock in tests.
func (handler *StatsHandler) SetNow(now func() time.Time) {
	handler.now = now
}

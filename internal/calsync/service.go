package calsync

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/practicetrack/internal/practice"
	"github.com/2beens/practicetrack/internal/telemetry/metrics"
	"github.com/2beens/practicetrack/internal/telemetry/tracing"
	"github.com/2beens/practicetrack/pkg"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=calsync_test

// Event is one timed calendar entry. All-day events never make it here,
// the source filters them out.
type Event struct {
	ID    string
	Start time.Time
	End   time.Time
}

type eventsSource interface {
	Events(ctx context.Context, from, to time.Time) ([]Event, error)
}

type sessionsRepo interface {
	Add(ctx context.Context, session practice.Session) (*practice.Session, error)
	ExistsWithSourceID(ctx context.Context, sourceID string) (bool, error)
}

// Service periodically pulls practice events from a calendar and stores the
// new ones as sessions. Sync is idempotent on three levels: an in-memory
// cache of recently seen event IDs, an existence check against the store,
// and the unique index on source_id as the last line of defense.
type Service struct {
	source         eventsSource
	repo           sessionsRepo
	metricsManager *metrics.Manager
	seenEvents     *gocache.Cache
	interval       time.Duration
	lookback       time.Duration
}

func NewService(
	source eventsSource,
	repo sessionsRepo,
	metricsManager *metrics.Manager,
	interval time.Duration,
	lookback time.Duration,
) *Service {
	return &Service{
		source:         source,
		repo:           repo,
		metricsManager: metricsManager,
		seenEvents:     gocache.New(24*time.Hour, time.Hour),
		interval:       interval,
		lookback:       lookback,
	}
}

// Run blocks, syncing once immediately and then on every interval tick,
// until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	log.Debugf("calendar sync starting, interval %s, lookback %s", s.interval, s.lookback)

	if err := s.SyncOnce(ctx); err != nil {
		log.Errorf("calendar sync: %s", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debugln("calendar sync stopping ...")
			return
		case <-ticker.C:
			if err := s.SyncOnce(ctx); err != nil {
				log.Errorf("calendar sync: %s", err)
			}
		}
	}
}

// SyncOnce pulls the lookback window from the calendar and stores every
// event not seen before.
func (s *Service) SyncOnce(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalCalSyncTracer.Start(ctx, "calsync.sync")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	runID := uuid.NewString()
	span.SetAttributes(attribute.String("run.id", runID))

	startedAt := time.Now()
	defer func() {
		if s.metricsManager != nil {
			s.metricsManager.CounterCalendarSyncRuns.Inc()
			s.metricsManager.HistCalendarSyncDuration.Observe(time.Since(startedAt).Seconds())
		}
	}()

	now := time.Now()
	events, err := s.source.Events(ctx, now.Add(-s.lookback), now)
	if err != nil {
		return fmt.Errorf("get events: %w", err)
	}

	var imported, skipped int
	for _, event := range events {
		ok, err := s.syncEvent(ctx, event)
		if err != nil {
			return fmt.Errorf("sync event %s: %w", event.ID, err)
		}
		if ok {
			imported++
		} else {
			skipped++
		}
	}

	span.SetAttributes(attribute.Int("events.imported", imported))
	log.Debugf("calendar sync run %s done: %d imported, %d already known", runID, imported, skipped)
	return nil
}

func (s *Service) syncEvent(ctx context.Context, event Event) (imported bool, err error) {
	duration := event.End.Sub(event.Start)
	if duration <= 0 {
		log.Warnf("calendar sync, event %s has non-positive duration, skipping", event.ID)
		return false, nil
	}

	sourceID := "gcal:" + event.ID
	if _, found := s.seenEvents.Get(sourceID); found {
		return false, nil
	}

	exists, err := s.repo.ExistsWithSourceID(ctx, sourceID)
	if err != nil {
		return false, err
	}
	if exists {
		s.seenEvents.SetDefault(sourceID, struct{}{})
		return false, nil
	}

	_, err = s.repo.Add(ctx, practice.Session{
		StartedAt:       event.Start,
		DurationSeconds: int(duration.Seconds()),
		Source:          practice.SourceCalendar,
		SourceID:        sourceID,
	})
	if pkg.IsUniqueViolationError(err) {
		// lost the race against a concurrent sync, the event is stored
		s.seenEvents.SetDefault(sourceID, struct{}{})
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.seenEvents.SetDefault(sourceID, struct{}{})
	if s.metricsManager != nil {
		s.metricsManager.CounterSessionsImported.Inc()
	}
	return true, nil
}

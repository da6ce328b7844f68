package calsync

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"
)

// GoogleCalendarSource reads events from one Google calendar through a
// service account credentials file.
type GoogleCalendarSource struct {
	service    *calendar.Service
	calendarID string
}

func NewGoogleCalendarSource(
	ctx context.Context,
	credentialsFilePath string,
	calendarID string,
) (*GoogleCalendarSource, error) {
	baseTransport, err := htransport.NewTransport(
		ctx,
		http.DefaultTransport,
		option.WithCredentialsFile(credentialsFilePath),
		option.WithScopes(calendar.CalendarReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("new calendar transport: %w", err)
	}

	service, err := calendar.NewService(ctx, option.WithHTTPClient(&http.Client{
		Transport: otelhttp.NewTransport(baseTransport),
	}))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve calendar client: %w", err)
	}
	return &GoogleCalendarSource{
		service:    service,
		calendarID: calendarID,
	}, nil
}

func (s *GoogleCalendarSource) Events(ctx context.Context, from, to time.Time) ([]Event, error) {
	listRes, err := s.service.Events.
		List(s.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		ShowDeleted(false).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}

	events := make([]Event, 0, len(listRes.Items))
	for _, item := range listRes.Items {
		// all-day events carry a date only, they make no practice sessions
		if item.Start == nil || item.End == nil ||
			item.Start.DateTime == "" || item.End.DateTime == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return nil, fmt.Errorf("parse event %s start: %w", item.Id, err)
		}
		end, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			return nil, fmt.Errorf("parse event %s end: %w", item.Id, err)
		}
		events = append(events, Event{
			ID:    item.Id,
			Start: start,
			End:   end,
		})
	}
	return events, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ekazakov/pulsecal/internal/clients/caldav"
	"github.com/ekazakov/pulsecal/internal/domain"
	"github.com/ekazakov/pulsecal/internal/ics"
)

// CalendarSource supplies normalized events for an analysis window. Each
// configured calendar account or feed is one source.
type CalendarSource interface {
	Name() string
	Tag() domain.Source
	Fetch(ctx context.Context, from, to time.Time) ([]domain.Event, error)
}

// CalDAVSource adapts the read-only CalDAV client to a CalendarSource.
type CalDAVSource struct {
	name         string
	tag          domain.Source
	client       *caldav.Client
	calendarPath string
}

// NewCalDAVSource creates a source backed by a CalDAV calendar.
func NewCalDAVSource(name string, tag domain.Source, client *caldav.Client, calendarPath string) *CalDAVSource {
	return &CalDAVSource{
		name:         name,
		tag:          tag,
		client:       client,
		calendarPath: calendarPath,
	}
}

func (s *CalDAVSource) Name() string       { return s.name }
func (s *CalDAVSource) Tag() domain.Source { return s.tag }

// Fetch queries the CalDAV calendar and normalizes the results.
func (s *CalDAVSource) Fetch(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	if !s.client.IsConfigured() {
		return nil, fmt.Errorf("caldav source %q not configured", s.name)
	}

	raw, err := s.client.GetEvents(ctx, s.calendarPath, from, to)
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", s.name, err)
	}

	events := make([]domain.Event, 0, len(raw))
	for _, e := range raw {
		if e.Status == "CANCELLED" {
			continue
		}
		events = append(events, domain.Event{
			ID:        fmt.Sprintf("%s:%s", s.tag, e.UID),
			Title:     e.Summary,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
			AllDay:    e.AllDay,
			Location:  e.Location,
			Source:    s.tag,
			Tentative: e.Status == "TENTATIVE",
		})
	}
	return events, nil
}

// ICSSource adapts an ICS subscription feed to a CalendarSource.
// Recurring events are expanded into concrete occurrences.
type ICSSource struct {
	tag     domain.Source
	fetcher *ics.Fetcher
	src     ics.Source
}

// NewICSSource creates a source backed by an ICS feed.
func NewICSSource(tag domain.Source, fetcher *ics.Fetcher, src ics.Source) *ICSSource {
	return &ICSSource{
		tag:     tag,
		fetcher: fetcher,
		src:     src,
	}
}

func (s *ICSSource) Name() string       { return s.src.Name }
func (s *ICSSource) Tag() domain.Source { return s.tag }

// Fetch downloads the feed, expands recurrences and normalizes the
// occurrences. Per-event expansion errors are dropped; only a failed
// download or undecodable feed fails the source.
func (s *ICSSource) Fetch(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	body, err := s.fetcher.Fetch(ctx, s.src)
	if err != nil {
		return nil, err
	}

	parsed, err := ics.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", s.src.ID, err)
	}

	occurrences, _ := ics.Expand(parsed, from, to)

	events := make([]domain.Event, 0, len(occurrences))
	for _, occ := range occurrences {
		events = append(events, domain.Event{
			ID:        fmt.Sprintf("%s:%s@%d", s.tag, occ.UID, occ.Start.Unix()),
			Title:     occ.Summary,
			StartTime: occ.Start,
			EndTime:   occ.End,
			AllDay:    occ.AllDay,
			Location:  occ.Location,
			Source:    s.tag,
			Tentative: occ.Tentative,
		})
	}
	return events, nil
}

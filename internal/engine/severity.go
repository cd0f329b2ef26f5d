package engine

import (
	"time"

	"github.com/ekazakov/pulsecal/internal/domain"
)

// Severity scoring table. The point values and thresholds are the
// behavioral contract; changing them changes every classification.
const (
	pointsThreeOrMoreEvents = 2
	pointsTwoEvents         = 1
	pointsOverlapHour       = 3
	pointsOverlapHalfHour   = 2
	pointsOverlapQuarter    = 1
	pointsAllDayDiscount    = -1
	pointsMultiSource       = 1

	thresholdCritical = 5
	thresholdHigh     = 3
	thresholdMedium   = 1
)

// Classify scores a conflict cluster. Pure and deterministic: the same
// events and overlap always produce the same severity.
func Classify(events []domain.Event, overlap time.Duration) domain.Severity {
	score := 0

	switch {
	case len(events) >= 3:
		score += pointsThreeOrMoreEvents
	case len(events) == 2:
		score += pointsTwoEvents
	}

	minutes := int(overlap / time.Minute)
	switch {
	case minutes >= 60:
		score += pointsOverlapHour
	case minutes >= 30:
		score += pointsOverlapHalfHour
	case minutes >= 15:
		score += pointsOverlapQuarter
	}

	// The discount applies once per cluster, however many all-day events.
	for _, e := range events {
		if e.AllDay {
			score += pointsAllDayDiscount
			break
		}
	}

	sources := make(map[domain.Source]struct{}, len(events))
	for _, e := range events {
		sources[e.Source] = struct{}{}
	}
	if len(sources) >= 2 {
		score += pointsMultiSource
	}

	switch {
	case score >= thresholdCritical:
		return domain.SeverityCritical
	case score >= thresholdHigh:
		return domain.SeverityHigh
	case score >= thresholdMedium:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

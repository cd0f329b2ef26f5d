package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ekazakov/pulsecal/internal/domain"
)

const (
	confidenceBase      = 0.8
	confidenceStep      = 0.1
	confidenceFloor     = 0.3
	confidenceLogistics = 0.7
)

// GenerateRecommendations turns conflicts and logistics issues into
// actionable suggestions. Entries are not deduplicated across sources: a
// conflict and an issue touching the same event may both contribute.
func GenerateRecommendations(conflicts []domain.Conflict, issues []domain.LogisticsIssue, health domain.HealthScore, prefs domain.Preferences) []domain.Recommendation {
	var recs []domain.Recommendation
	for _, c := range conflicts {
		recs = append(recs, conflictRecommendations(c, prefs)...)
	}
	for _, issue := range issues {
		if issue.Severity != domain.IssueHigh {
			continue
		}
		recs = append(recs, domain.Recommendation{
			ID:          uuid.NewString(),
			Action:      domain.ActionReschedule,
			TargetEvent: issue.To.ID,
			Description: fmt.Sprintf("Move %q %d minutes later to allow travel from %q",
				issue.To.Title, issue.ShortfallMinutes, issue.From.Title),
			Confidence: confidenceLogistics,
		})
	}
	return recs
}

// conflictRecommendations emits one entry per eligible resolution type.
func conflictRecommendations(c domain.Conflict, prefs domain.Preferences) []domain.Recommendation {
	confidence := confidenceBase - confidenceStep*float64(len(c.Events)-2)
	if confidence < confidenceFloor {
		confidence = confidenceFloor
	}

	var recs []domain.Recommendation

	// Reschedule is always on the table.
	recs = append(recs, domain.Recommendation{
		ID:         uuid.NewString(),
		Action:     domain.ActionReschedule,
		ConflictID: c.ID,
		Description: fmt.Sprintf("Reschedule one of %d overlapping events around %s",
			len(c.Events), c.OverlapStart.Format("15:04")),
		Confidence: confidence,
	})

	// Decline only when exactly one event is tentative, so the choice of
	// what to drop is unambiguous.
	if tentative := singleTentative(c.Events); tentative != nil {
		recs = append(recs, domain.Recommendation{
			ID:          uuid.NewString(),
			Action:      domain.ActionDecline,
			ConflictID:  c.ID,
			TargetEvent: tentative.ID,
			Description: fmt.Sprintf("Decline tentative event %q", tentative.Title),
			Confidence:  confidence,
		})
	}

	if longest := longestShortenable(c.Events, prefs.MinShortenMinutes); longest != nil {
		recs = append(recs, domain.Recommendation{
			ID:          uuid.NewString(),
			Action:      domain.ActionShorten,
			ConflictID:  c.ID,
			TargetEvent: longest.ID,
			Description: fmt.Sprintf("Shorten %q to clear the overlap", longest.Title),
			Confidence:  confidence,
		})
	}

	return recs
}

func singleTentative(events []domain.Event) *domain.Event {
	var found *domain.Event
	for i := range events {
		if !events[i].Tentative {
			continue
		}
		if found != nil {
			return nil
		}
		found = &events[i]
	}
	return found
}

func longestShortenable(events []domain.Event, minMinutes int) *domain.Event {
	threshold := time.Duration(minMinutes) * time.Minute
	var longest *domain.Event
	for i := range events {
		if events[i].Duration() <= threshold {
			continue
		}
		if longest == nil || events[i].Duration() > longest.Duration() {
			longest = &events[i]
		}
	}
	return longest
}

package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/ekazakov/pulsecal/internal/domain"
)

// TravelEstimator supplies travel-time estimates between two free-text
// locations. ok=false means the route could not be resolved, which is a
// normal outcome, not an error; retries and timeouts are the
// implementation's concern, never the engine's.
type TravelEstimator interface {
	EstimateMinutes(ctx context.Context, from, to string) (minutes int, ok bool)
}

// AnalyzeLogistics checks every consecutive pair of physical events for
// travel feasibility. All-day and virtual events are removed first; a pair
// produces an issue when required travel plus the preferred buffer exceeds
// the available gap. Returns an empty slice when travel checking is off.
func AnalyzeLogistics(ctx context.Context, events []domain.Event, prefs domain.Preferences, estimator TravelEstimator) []domain.LogisticsIssue {
	if !prefs.TravelEnabled || estimator == nil {
		return nil
	}

	physical := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if e.IsMalformed() || !e.IsPhysical() {
			continue
		}
		physical = append(physical, e)
	}

	sort.Slice(physical, func(i, j int) bool {
		if physical[i].StartTime.Equal(physical[j].StartTime) {
			return physical[i].ID < physical[j].ID
		}
		return physical[i].StartTime.Before(physical[j].StartTime)
	})

	var issues []domain.LogisticsIssue
	for i := 0; i+1 < len(physical); i++ {
		from := physical[i]
		to := physical[i+1]

		required, ok := estimator.EstimateMinutes(ctx, from.Location, to.Location)
		if !ok {
			continue
		}
		if required < prefs.MinTravelMinutes {
			// Close enough to count as the same place.
			continue
		}

		available := int(to.StartTime.Sub(from.EndTime).Minutes())
		if required+prefs.BufferMinutes <= available {
			continue
		}

		shortfall := required + prefs.BufferMinutes - available
		severity := domain.IssueMedium
		if shortfall > prefs.BufferMinutes {
			severity = domain.IssueHigh
		}

		issues = append(issues, domain.LogisticsIssue{
			From:             from,
			To:               to,
			RequiredMinutes:  required,
			AvailableMinutes: available,
			ShortfallMinutes: shortfall,
			Severity:         severity,
			Description: fmt.Sprintf("Not enough time to get from %q to %q: %d min short",
				from.Title, to.Title, shortfall),
			Suggestion: fmt.Sprintf("Shift %q %d minutes later", to.Title, shortfall),
		})
	}

	return issues
}

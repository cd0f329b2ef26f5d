// Package engine implements the schedule analysis pipeline: conflict
// detection, logistics feasibility, pattern detection, health scoring and
// recommendations. Every stage is a pure function over immutable inputs;
// the engine performs no I/O of its own.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/ekazakov/pulsecal/internal/domain"
)

// Engine runs full analysis passes. The only collaborator it holds is the
// travel-time estimator; everything else arrives as arguments.
type Engine struct {
	travel TravelEstimator
}

// New creates an engine. estimator may be nil, which disables logistics
// analysis the same way the travel preference toggle does.
func New(estimator TravelEstimator) *Engine {
	return &Engine{travel: estimator}
}

// Analyze recomputes the whole analysis from scratch for the given window.
// events is the analysis window's event list; history is the wider window
// used for pattern detection (events is used when history is empty).
// Malformed events are excluded and reported in the result's Skipped list,
// never as an error. The three detectors run concurrently; each stage owns
// its output, so no coordination beyond the join is needed.
func (e *Engine) Analyze(ctx context.Context, events, history []domain.Event, prefs domain.Preferences, windowStart, windowEnd time.Time) domain.AnalysisResult {
	valid, skipped := partitionValid(events)
	if len(history) == 0 {
		history = events
	}
	validHistory, _ := partitionValid(history)

	var (
		wg        sync.WaitGroup
		conflicts []domain.Conflict
		issues    []domain.LogisticsIssue
		patterns  []domain.Pattern
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		conflicts = DetectConflicts(valid)
	}()
	go func() {
		defer wg.Done()
		issues = AnalyzeLogistics(ctx, valid, prefs, e.travel)
	}()
	go func() {
		defer wg.Done()
		patterns = DetectPatterns(validHistory)
	}()
	wg.Wait()

	health := ScoreHealth(conflicts, issues, valid, prefs, windowStart, windowEnd)
	recs := GenerateRecommendations(conflicts, issues, health, prefs)

	return domain.AnalysisResult{
		GeneratedAt:     time.Now(),
		WindowStart:     windowStart,
		WindowEnd:       windowEnd,
		Conflicts:       conflicts,
		Issues:          issues,
		Patterns:        patterns,
		Health:          health,
		Recommendations: recs,
		Skipped:         skipped,
	}
}

// partitionValid splits out malformed events into skip diagnostics.
func partitionValid(events []domain.Event) ([]domain.Event, []domain.SkippedEvent) {
	valid := make([]domain.Event, 0, len(events))
	var skipped []domain.SkippedEvent
	for _, e := range events {
		if e.IsMalformed() {
			skipped = append(skipped, domain.SkippedEvent{
				EventID: e.ID,
				Title:   e.Title,
				Reason:  "end time precedes start time",
			})
			continue
		}
		valid = append(valid, e)
	}
	return valid, skipped
}

package engine

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ekazakov/pulsecal/internal/domain"
)

// DetectConflicts finds all transitive overlap clusters among the given
// events and returns one Conflict per cluster of two or more. Events are
// swept in start order; a cluster stays open while the next event starts
// before the running maximum end time. Zero-duration events never conflict.
func DetectConflicts(events []domain.Event) []domain.Conflict {
	eligible := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if e.IsMalformed() || e.IsZeroDuration() {
			continue
		}
		eligible = append(eligible, e)
	}

	// Identical starts are ordered by id for determinism.
	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].StartTime.Equal(eligible[j].StartTime) {
			return eligible[i].ID < eligible[j].ID
		}
		return eligible[i].StartTime.Before(eligible[j].StartTime)
	})

	var conflicts []domain.Conflict
	var cluster []domain.Event
	var maxEnd time.Time

	flush := func() {
		if len(cluster) >= 2 {
			conflicts = append(conflicts, buildConflict(cluster))
		}
		cluster = nil
	}

	for _, e := range eligible {
		if len(cluster) > 0 && e.StartTime.Before(maxEnd) {
			cluster = append(cluster, e)
			if e.EndTime.After(maxEnd) {
				maxEnd = e.EndTime
			}
			continue
		}
		flush()
		cluster = []domain.Event{e}
		maxEnd = e.EndTime
	}
	flush()

	return conflicts
}

// buildConflict assembles a Conflict from a closed cluster: the overlap
// window is the tightest common intersection of the events active at the
// cluster's peak-concurrency instant, and severity follows from it.
func buildConflict(cluster []domain.Event) domain.Conflict {
	start, end := peakWindow(cluster)
	c := domain.Conflict{
		ID:           uuid.NewString(),
		Events:       append([]domain.Event(nil), cluster...),
		OverlapStart: start,
		OverlapEnd:   end,
	}
	c.Severity = Classify(c.Events, c.OverlapDuration())
	return c
}

// peakWindow finds the instant of maximum concurrency within the cluster
// and returns the intersection of the events active then. Concurrency can
// only increase at an event start, so starts are the only candidates; ties
// resolve to the earliest instant.
func peakWindow(cluster []domain.Event) (time.Time, time.Time) {
	bestCount := 0
	var bestStart, bestEnd time.Time

	for _, candidate := range cluster {
		t := candidate.StartTime
		count := 0
		var winStart, winEnd time.Time
		for _, e := range cluster {
			if e.StartTime.After(t) || !e.EndTime.After(t) {
				continue
			}
			count++
			if winStart.IsZero() || e.StartTime.After(winStart) {
				winStart = e.StartTime
			}
			if winEnd.IsZero() || e.EndTime.Before(winEnd) {
				winEnd = e.EndTime
			}
		}
		if count > bestCount || (count == bestCount && !winStart.IsZero() && winStart.Before(bestStart)) {
			bestCount = count
			bestStart = winStart
			bestEnd = winEnd
		}
	}

	return bestStart, bestEnd
}

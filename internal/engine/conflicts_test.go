package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekazakov/pulsecal/internal/domain"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // a Monday

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func makeEvent(id string, start, end time.Time) domain.Event {
	return domain.Event{
		ID:        id,
		Title:     "Event " + id,
		StartTime: start,
		EndTime:   end,
		Source:    domain.SourceDevice,
	}
}

func TestDetectConflicts_SimplePair(t *testing.T) {
	events := []domain.Event{
		makeEvent("a", at(9, 0), at(10, 0)),
		makeEvent("b", at(9, 30), at(10, 30)),
	}

	conflicts := DetectConflicts(events)
	require.Len(t, conflicts, 1)

	c := conflicts[0]
	assert.Len(t, c.Events, 2)
	assert.True(t, c.OverlapStart.Equal(at(9, 30)))
	assert.True(t, c.OverlapEnd.Equal(at(10, 0)))
	assert.Equal(t, 30*time.Minute, c.OverlapDuration())
}

func TestDetectConflicts_NoOverlap(t *testing.T) {
	events := []domain.Event{
		makeEvent("a", at(9, 0), at(10, 0)),
		makeEvent("b", at(10, 0), at(11, 0)), // touching ends do not overlap
		makeEvent("c", at(12, 0), at(13, 0)),
	}

	assert.Empty(t, DetectConflicts(events))
}

func TestDetectConflicts_TransitiveCluster(t *testing.T) {
	// a overlaps b, b overlaps c, but a and c are disjoint: still one cluster.
	events := []domain.Event{
		makeEvent("a", at(9, 0), at(10, 0)),
		makeEvent("b", at(9, 45), at(11, 0)),
		makeEvent("c", at(10, 30), at(11, 30)),
	}

	conflicts := DetectConflicts(events)
	require.Len(t, conflicts, 1)
	assert.Len(t, conflicts[0].Events, 3)
}

func TestDetectConflicts_PeakInstantIntersection(t *testing.T) {
	// Peak concurrency is 3 at 9:45; the window is the intersection of the
	// three events active there, not the union span of the cluster.
	events := []domain.Event{
		makeEvent("a", at(9, 0), at(11, 0)),
		makeEvent("b", at(9, 30), at(10, 30)),
		makeEvent("c", at(9, 45), at(10, 0)),
	}

	conflicts := DetectConflicts(events)
	require.Len(t, conflicts, 1)

	c := conflicts[0]
	assert.True(t, c.OverlapStart.Equal(at(9, 45)))
	assert.True(t, c.OverlapEnd.Equal(at(10, 0)))
}

func TestDetectConflicts_SeparateClusters(t *testing.T) {
	events := []domain.Event{
		makeEvent("a", at(9, 0), at(10, 0)),
		makeEvent("b", at(9, 30), at(10, 0)),
		makeEvent("c", at(14, 0), at(15, 0)),
		makeEvent("d", at(14, 30), at(15, 30)),
	}

	conflicts := DetectConflicts(events)
	require.Len(t, conflicts, 2)
	assert.Len(t, conflicts[0].Events, 2)
	assert.Len(t, conflicts[1].Events, 2)
}

func TestDetectConflicts_ZeroDurationNeverConflicts(t *testing.T) {
	events := []domain.Event{
		makeEvent("a", at(9, 0), at(10, 0)),
		makeEvent("marker", at(9, 30), at(9, 30)),
	}

	assert.Empty(t, DetectConflicts(events))
}

func TestDetectConflicts_MalformedExcluded(t *testing.T) {
	events := []domain.Event{
		makeEvent("a", at(9, 0), at(10, 0)),
		makeEvent("bad", at(10, 0), at(9, 0)),
	}

	assert.Empty(t, DetectConflicts(events))
}

func TestDetectConflicts_Deterministic(t *testing.T) {
	// Identical start times are ordered by id, so cluster membership and
	// windows come out the same on every run.
	events := []domain.Event{
		makeEvent("b", at(9, 0), at(9, 40)),
		makeEvent("a", at(9, 0), at(10, 0)),
		makeEvent("c", at(9, 50), at(10, 30)),
	}

	first := DetectConflicts(events)
	second := DetectConflicts(events)
	require.Equal(t, len(first), len(second))

	for i := range first {
		require.Equal(t, len(first[i].Events), len(second[i].Events))
		for j := range first[i].Events {
			assert.Equal(t, first[i].Events[j].ID, second[i].Events[j].ID)
		}
		assert.True(t, first[i].OverlapStart.Equal(second[i].OverlapStart))
		assert.True(t, first[i].OverlapEnd.Equal(second[i].OverlapEnd))
	}
}

func TestDetectConflicts_PositiveOverlapInvariant(t *testing.T) {
	events := []domain.Event{
		makeEvent("a", at(9, 0), at(10, 0)),
		makeEvent("b", at(9, 59), at(11, 0)),
		makeEvent("c", at(10, 30), at(12, 0)),
		makeEvent("d", at(11, 45), at(12, 15)),
	}

	for _, c := range DetectConflicts(events) {
		assert.True(t, c.OverlapEnd.After(c.OverlapStart),
			"overlap window must have positive length")
		assert.GreaterOrEqual(t, len(c.Events), 2)
	}
}

package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekazakov/pulsecal/internal/domain"
)

func TestAnalyze_EmptyEventList(t *testing.T) {
	eng := New(stubEstimator{minutes: 30, ok: true})
	start, end := windowDay()

	result := eng.Analyze(context.Background(), nil, nil, testPrefs(), start, end)

	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.Issues)
	assert.Empty(t, result.Patterns)
	assert.Empty(t, result.Skipped)
	assertScoreRanges(t, result.Health)
	assert.Equal(t, 100, result.Health.ConflictManagement)
	assert.Equal(t, 100, result.Health.Buffer)
}

func TestAnalyze_FullPipeline(t *testing.T) {
	eng := New(stubEstimator{minutes: 30, ok: true})
	start, end := windowDay()

	events := []domain.Event{
		physicalEvent("a", at(9, 0), at(10, 0), "Office"),
		makeEvent("b", at(9, 30), at(10, 30)), // no location, skipped by logistics
		physicalEvent("c", at(10, 40), at(11, 30), "Clinic"),
	}

	result := eng.Analyze(context.Background(), events, nil, testPrefs(), start, end)

	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, domain.SeverityHigh, result.Conflicts[0].Severity)

	// a -> c: gap 40 min, travel 30 + buffer 15 = 45, shortfall 5 <= buffer.
	require.Len(t, result.Issues, 1)
	assert.Equal(t, domain.IssueMedium, result.Issues[0].Severity)

	assert.NotEmpty(t, result.Recommendations)
	for _, r := range result.Recommendations {
		assert.GreaterOrEqual(t, r.Confidence, 0.3)
		assert.LessOrEqual(t, r.Confidence, 0.8)
	}

	assertScoreRanges(t, result.Health)
	assertOverallIsRoundedMean(t, result.Health)
}

func TestAnalyze_MalformedEventSkippedNotFatal(t *testing.T) {
	eng := New(nil)
	start, end := windowDay()

	events := []domain.Event{
		makeEvent("ok", at(9, 0), at(10, 0)),
		makeEvent("bad", at(12, 0), at(11, 0)),
	}

	result := eng.Analyze(context.Background(), events, nil, testPrefs(), start, end)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "bad", result.Skipped[0].EventID)
	assert.Empty(t, result.Conflicts)
}

func TestAnalyze_HistoryWindowFeedsPatterns(t *testing.T) {
	eng := New(nil)
	start, end := windowDay()

	var history []domain.Event
	for d := 0; d < 5; d++ {
		history = append(history,
			dayEvent("m1", -d, 9, 30, 60),
			dayEvent("m2", -d, 10, 45, 60),
		)
	}

	result := eng.Analyze(context.Background(), nil, history, testPrefs(), start, end)
	require.Len(t, result.Patterns, 1)
	assert.Equal(t, domain.PatternBackToBack, result.Patterns[0].Category)
}

func TestAnalyze_WindowEventsUsedWhenHistoryEmpty(t *testing.T) {
	eng := New(nil)
	start, end := windowDay()

	events := []domain.Event{
		makeEvent("a", at(9, 0), at(10, 0)),
		makeEvent("b", at(9, 30), at(10, 30)),
	}

	result := eng.Analyze(context.Background(), events, nil, testPrefs(), start, end)
	require.Len(t, result.Conflicts, 1)
	// Patterns ran over the same single day; none of the multi-day rules fire.
	assert.Empty(t, result.Patterns)
}

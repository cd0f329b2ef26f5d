package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekazakov/pulsecal/internal/domain"
)

func windowDay() (time.Time, time.Time) {
	return day, day.AddDate(0, 0, 1)
}

func assertScoreRanges(t *testing.T, h domain.HealthScore) {
	t.Helper()
	for name, v := range map[string]int{
		"overall":             h.Overall,
		"time_utilization":    h.TimeUtilization,
		"conflict_management": h.ConflictManagement,
		"balance":             h.Balance,
		"buffer":              h.Buffer,
	} {
		assert.GreaterOrEqual(t, v, 0, name)
		assert.LessOrEqual(t, v, 100, name)
	}
}

func assertOverallIsRoundedMean(t *testing.T, h domain.HealthScore) {
	t.Helper()
	mean := float64(h.TimeUtilization+h.ConflictManagement+h.Balance+h.Buffer) / 4
	assert.Equal(t, int(math.Round(mean)), h.Overall)
}

func TestScoreHealth_EmptySchedule(t *testing.T) {
	start, end := windowDay()
	h := ScoreHealth(nil, nil, nil, testPrefs(), start, end)

	assertScoreRanges(t, h)
	assertOverallIsRoundedMean(t, h)

	// No conflicts and no tight gaps: those axes read maximally healthy.
	assert.Equal(t, 100, h.ConflictManagement)
	assert.Equal(t, 100, h.Buffer)
	assert.Equal(t, 100, h.Balance)
	// Nothing scheduled against a two-hour daily minimum: fully penalized.
	assert.Equal(t, 0, h.TimeUtilization)
}

func TestScoreHealth_IdealDay(t *testing.T) {
	start, end := windowDay()
	// Four hours inside work hours with a comfortable gap.
	events := []domain.Event{
		makeEvent("a", at(9, 0), at(11, 0)),
		makeEvent("b", at(12, 0), at(14, 0)),
	}

	h := ScoreHealth(nil, nil, events, testPrefs(), start, end)
	assertScoreRanges(t, h)
	assertOverallIsRoundedMean(t, h)
	assert.Equal(t, 100, h.TimeUtilization)
	assert.Equal(t, 100, h.Balance)
	assert.Equal(t, 100, h.Buffer)
	assert.Equal(t, 100, h.Overall)
}

func TestScoreHealth_ConflictPenalties(t *testing.T) {
	start, end := windowDay()
	conflicts := []domain.Conflict{
		{Severity: domain.SeverityLow},      // -5
		{Severity: domain.SeverityMedium},   // -10
		{Severity: domain.SeverityHigh},     // -20
		{Severity: domain.SeverityCritical}, // -35
	}

	h := ScoreHealth(conflicts, nil, nil, testPrefs(), start, end)
	assert.Equal(t, 30, h.ConflictManagement)
	assertOverallIsRoundedMean(t, h)
}

func TestScoreHealth_ConflictScoreFlooredAtZero(t *testing.T) {
	start, end := windowDay()
	conflicts := make([]domain.Conflict, 4)
	for i := range conflicts {
		conflicts[i] = domain.Conflict{Severity: domain.SeverityCritical}
	}

	h := ScoreHealth(conflicts, nil, nil, testPrefs(), start, end)
	assert.Equal(t, 0, h.ConflictManagement)
	assertScoreRanges(t, h)
}

func TestScoreHealth_UnderScheduling(t *testing.T) {
	start, end := windowDay()
	// One hour against a two-hour ideal minimum: half credit.
	events := []domain.Event{makeEvent("a", at(10, 0), at(11, 0))}

	h := ScoreHealth(nil, nil, events, testPrefs(), start, end)
	assert.Equal(t, 50, h.TimeUtilization)
}

func TestScoreHealth_OverScheduling(t *testing.T) {
	start, end := windowDay()
	// Ten hours against a seven-hour ideal maximum.
	events := []domain.Event{makeEvent("a", at(8, 0), at(18, 0))}

	h := ScoreHealth(nil, nil, events, testPrefs(), start, end)
	// 100 * (1 - (600-420)/420) = 57.14 -> 57
	assert.Equal(t, 57, h.TimeUtilization)
}

func TestScoreHealth_BalancePenalizesAfterHours(t *testing.T) {
	start, end := windowDay()
	events := []domain.Event{
		makeEvent("work", at(10, 0), at(12, 0)), // inside 9-17
		makeEvent("late", at(18, 0), at(20, 0)), // fully outside
	}

	h := ScoreHealth(nil, nil, events, testPrefs(), start, end)
	// 120 of 240 minutes outside -> 50.
	assert.Equal(t, 50, h.Balance)
}

func TestScoreHealth_BalancePenalizesWeekends(t *testing.T) {
	saturday := day.AddDate(0, 0, 5)
	events := []domain.Event{
		makeEvent("sat", saturday.Add(10*time.Hour), saturday.Add(12*time.Hour)),
	}

	h := ScoreHealth(nil, nil, events, testPrefs(), saturday, saturday.AddDate(0, 0, 1))
	assert.Equal(t, 0, h.Balance)
}

func TestScoreHealth_BufferRewardsWideGaps(t *testing.T) {
	start, end := windowDay()
	events := []domain.Event{
		makeEvent("a", at(9, 0), at(10, 0)),
		makeEvent("b", at(10, 30), at(11, 30)),
	}

	h := ScoreHealth(nil, nil, events, testPrefs(), start, end)
	assert.Equal(t, 100, h.Buffer)
}

func TestScoreHealth_BufferPenalizesTightGaps(t *testing.T) {
	start, end := windowDay()
	// Single five-minute gap against a 15-minute minimum: median 5 gives
	// base 33, shortfall 10/15 adds a 7-point penalty.
	events := []domain.Event{
		makeEvent("a", at(9, 0), at(10, 0)),
		makeEvent("b", at(10, 5), at(11, 0)),
	}

	h := ScoreHealth(nil, nil, events, testPrefs(), start, end)
	assert.Equal(t, 27, h.Buffer)
	assertScoreRanges(t, h)
}

func TestScoreHealth_AllDayEventsExcluded(t *testing.T) {
	start, end := windowDay()
	allDay := makeEvent("offsite", start, end)
	allDay.AllDay = true

	h := ScoreHealth(nil, nil, []domain.Event{allDay}, testPrefs(), start, end)
	assert.Equal(t, 0, h.TimeUtilization) // all-day does not count as scheduled time
	assert.Equal(t, 100, h.Balance)
}

func TestScoreHealth_WeekWindowScalesIdealRange(t *testing.T) {
	start := day
	end := day.AddDate(0, 0, 7)
	// 21 hours over a week against a 14-hour weekly minimum: within range.
	var events []domain.Event
	for d := 0; d < 7; d++ {
		s := day.AddDate(0, 0, d).Add(10 * time.Hour)
		events = append(events, makeEvent("e", s, s.Add(3*time.Hour)))
	}

	h := ScoreHealth(nil, nil, events, testPrefs(), start, end)
	require.Equal(t, 100, h.TimeUtilization)
}

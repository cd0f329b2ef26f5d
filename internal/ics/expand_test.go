package ics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_NonRecurringPassthrough(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	events := []ParsedEvent{
		{UID: "one", Summary: "Standup", Start: start, End: start.Add(30 * time.Minute)},
		{UID: "outside", Summary: "Old", Start: start.AddDate(0, -1, 0), End: start.AddDate(0, -1, 0).Add(time.Hour)},
	}

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	occurrences, errs := Expand(events, from, to)
	assert.Empty(t, errs)
	require.Len(t, occurrences, 1)
	assert.Equal(t, "one", occurrences[0].UID)
	assert.True(t, occurrences[0].Start.Equal(start))
}

func TestExpand_WeeklyRule(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) // Monday
	events := []ParsedEvent{
		{UID: "weekly", Summary: "1:1", Start: start, End: start.Add(time.Hour), RRule: "FREQ=WEEKLY"},
	}

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC)

	occurrences, errs := Expand(events, from, to)
	assert.Empty(t, errs)
	require.Len(t, occurrences, 3) // Mar 2, 9, 16

	for i, occ := range occurrences {
		expected := start.AddDate(0, 0, 7*i)
		assert.True(t, occ.Start.Equal(expected), "occurrence %d", i)
		assert.Equal(t, time.Hour, occ.End.Sub(occ.Start))
	}
}

func TestExpand_BadRuleFailsOnlyThatEvent(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	events := []ParsedEvent{
		{UID: "bad", Start: start, End: start.Add(time.Hour), RRule: "FREQ=NONSENSE"},
		{UID: "good", Start: start, End: start.Add(time.Hour)},
	}

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	occurrences, errs := Expand(events, from, to)
	assert.Len(t, errs, 1)
	require.Len(t, occurrences, 1)
	assert.Equal(t, "good", occurrences[0].UID)
}

func TestParse_MinimalFeed(t *testing.T) {
	body := []byte("BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"PRODID:-//test//EN\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:abc-123\r\n" +
		"SUMMARY:Dentist\r\n" +
		"LOCATION:12 Main St\r\n" +
		"STATUS:TENTATIVE\r\n" +
		"DTSTART:20260302T090000Z\r\n" +
		"DTEND:20260302T100000Z\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n")

	events, err := Parse(body)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "abc-123", ev.UID)
	assert.Equal(t, "Dentist", ev.Summary)
	assert.Equal(t, "12 Main St", ev.Location)
	assert.True(t, ev.Tentative)
	assert.False(t, ev.AllDay)
	assert.Equal(t, time.Hour, ev.End.Sub(ev.Start))
}

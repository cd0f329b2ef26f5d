package engine

import (
	"math"
	"sort"
	"time"

	"github.com/ekazakov/pulsecal/internal/domain"
)

// Conflict penalties per severity for the conflict-management sub-score.
var conflictPenalty = map[domain.Severity]int{
	domain.SeverityLow:      5,
	domain.SeverityMedium:   10,
	domain.SeverityHigh:     20,
	domain.SeverityCritical: 35,
}

// ScoreHealth computes the composite schedule health score for the
// analysis window. Each sub-score is clamped to [0,100]; the overall score
// is the rounded unweighted mean of the four. Logistics issues feed the
// buffer axis indirectly, through the tight gaps they were derived from.
func ScoreHealth(conflicts []domain.Conflict, issues []domain.LogisticsIssue, events []domain.Event, prefs domain.Preferences, windowStart, windowEnd time.Time) domain.HealthScore {
	timed := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if e.IsMalformed() || e.AllDay {
			continue
		}
		timed = append(timed, e)
	}
	sort.Slice(timed, func(i, j int) bool {
		return timed[i].StartTime.Before(timed[j].StartTime)
	})

	h := domain.HealthScore{
		TimeUtilization:    utilizationScore(timed, prefs, windowStart, windowEnd),
		ConflictManagement: conflictScore(conflicts),
		Balance:            balanceScore(timed, prefs),
		Buffer:             bufferScore(timed, prefs),
	}
	mean := float64(h.TimeUtilization+h.ConflictManagement+h.Balance+h.Buffer) / 4
	h.Overall = clampScore(int(math.Round(mean)))
	return h
}

// utilizationScore rates scheduled time against the ideal daily range:
// 100 inside the range, linear falloff to 0 at zero scheduling below it
// and at twice the ideal maximum above it.
func utilizationScore(timed []domain.Event, prefs domain.Preferences, windowStart, windowEnd time.Time) int {
	days := int(math.Ceil(windowEnd.Sub(windowStart).Hours() / 24))
	if days < 1 {
		days = 1
	}
	idealMin := float64(prefs.IdealDailyHoursMin * 60 * days)
	idealMax := float64(prefs.IdealDailyHoursMax * 60 * days)

	scheduled := 0.0
	for _, e := range timed {
		scheduled += e.Duration().Minutes()
	}

	switch {
	case idealMin <= 0 && scheduled <= idealMax:
		return 100
	case scheduled < idealMin:
		return clampScore(int(math.Round(100 * scheduled / idealMin)))
	case scheduled <= idealMax:
		return 100
	case idealMax <= 0:
		return 0
	default:
		return clampScore(int(math.Round(100 * (1 - (scheduled-idealMax)/idealMax))))
	}
}

// conflictScore is 100 minus a per-conflict penalty weighted by severity,
// floored at 0.
func conflictScore(conflicts []domain.Conflict) int {
	score := 100
	for _, c := range conflicts {
		score -= conflictPenalty[c.Severity]
	}
	return clampScore(score)
}

// balanceScore penalizes scheduled time outside work hours and on
// weekends, relative to total scheduled time.
func balanceScore(timed []domain.Event, prefs domain.Preferences) int {
	total := 0.0
	outside := 0.0
	for _, e := range timed {
		dur := e.Duration().Minutes()
		total += dur
		outside += outsideMinutes(e, prefs)
	}
	if total == 0 {
		return 100
	}
	return clampScore(int(math.Round(100 - 100*outside/total)))
}

// outsideMinutes returns how much of the event falls outside the
// configured work hours, counting weekend time in full.
func outsideMinutes(e domain.Event, prefs domain.Preferences) float64 {
	dur := e.Duration().Minutes()
	wd := e.StartTime.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return dur
	}

	day := time.Date(e.StartTime.Year(), e.StartTime.Month(), e.StartTime.Day(), 0, 0, 0, 0, e.StartTime.Location())
	workStart := day.Add(time.Duration(prefs.WorkdayStartHour) * time.Hour)
	workEnd := day.Add(time.Duration(prefs.WorkdayEndHour) * time.Hour)

	inStart := e.StartTime
	if inStart.Before(workStart) {
		inStart = workStart
	}
	inEnd := e.EndTime
	if inEnd.After(workEnd) {
		inEnd = workEnd
	}
	within := inEnd.Sub(inStart).Minutes()
	if within < 0 {
		within = 0
	}
	return dur - within
}

// bufferScore rewards the median gap between consecutive events relative
// to the preferred minimum buffer; each gap below the minimum also incurs
// a penalty proportional to its shortfall.
func bufferScore(timed []domain.Event, prefs domain.Preferences) int {
	if prefs.BufferMinutes <= 0 || len(timed) < 2 {
		return 100
	}

	minBuffer := float64(prefs.BufferMinutes)
	gaps := make([]float64, 0, len(timed)-1)
	for i := 0; i+1 < len(timed); i++ {
		gap := timed[i+1].StartTime.Sub(timed[i].EndTime).Minutes()
		if gap < 0 {
			gap = 0
		}
		gaps = append(gaps, gap)
	}

	median := medianOf(gaps)
	score := 100.0
	if median < minBuffer {
		score = 100 * median / minBuffer
	}
	for _, gap := range gaps {
		if gap < minBuffer {
			score -= 10 * (minBuffer - gap) / minBuffer
		}
	}
	return clampScore(int(math.Round(score)))
}

func medianOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

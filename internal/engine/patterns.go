package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/ekazakov/pulsecal/internal/domain"
)

// Pattern rule thresholds. Hours are local to each event's own timezone.
const (
	workStartHour     = 9
	workEndHour       = 17
	backToBackMaxGap  = 30 * time.Minute
	backToBackMinDays = 4
	lunchWindowStart  = 11*time.Hour + 30*time.Minute // offset from midnight
	lunchWindowEnd    = 13*time.Hour + 30*time.Minute
	lunchMinFree      = 30 * time.Minute
	noLunchMinDays    = 3
	overloadedMinutes = 480
	overloadedWorst   = 600.0
	overloadedMinDays = 3
	earlyStartHour    = 8
	lateEndHour       = 19
	afterHoursMinDays = 3
)

// patternRule inspects the per-day history and may emit one Pattern.
// Rules run independently; emission follows declaration order.
type patternRule func(days []daySchedule) *domain.Pattern

var patternRules = []patternRule{
	detectBackToBack,
	detectNoLunch,
	detectOverloaded,
	detectAfterHours,
}

// DetectPatterns scans a history window (typically the trailing couple of
// weeks, wider than a single-day analysis) for recurring scheduling shapes.
func DetectPatterns(history []domain.Event) []domain.Pattern {
	days := groupByDay(history)
	if len(days) == 0 {
		return nil
	}

	var patterns []domain.Pattern
	for _, rule := range patternRules {
		if p := rule(days); p != nil {
			patterns = append(patterns, *p)
		}
	}
	return patterns
}

// daySchedule holds one calendar day's timed events, sorted by start.
type daySchedule struct {
	date   time.Time
	events []domain.Event
}

// groupByDay buckets timed events per calendar day and returns a
// contiguous day sequence from the first to the last occupied day, so that
// empty days still appear (they break streaks).
func groupByDay(history []domain.Event) []daySchedule {
	byDay := make(map[string][]domain.Event)
	var first, last time.Time
	for _, e := range history {
		if e.IsMalformed() || e.AllDay || e.IsZeroDuration() {
			continue
		}
		day := time.Date(e.StartTime.Year(), e.StartTime.Month(), e.StartTime.Day(), 0, 0, 0, 0, e.StartTime.Location())
		key := day.Format("2006-01-02")
		byDay[key] = append(byDay[key], e)
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}
	}
	if len(byDay) == 0 {
		return nil
	}

	var days []daySchedule
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		events := byDay[d.Format("2006-01-02")]
		sort.Slice(events, func(i, j int) bool {
			return events[i].StartTime.Before(events[j].StartTime)
		})
		days = append(days, daySchedule{date: d, events: events})
	}
	return days
}

// detectBackToBack fires when enough consecutive days have work-hour
// schedules with no breathing room between meetings.
func detectBackToBack(days []daySchedule) *domain.Pattern {
	series := make([]float64, len(days))
	streak, bestStreak := 0, 0
	for i, d := range days {
		if isBackToBackDay(d) {
			series[i] = 1
			streak++
			if streak > bestStreak {
				bestStreak = streak
			}
		} else {
			streak = 0
		}
	}
	if bestStreak < backToBackMinDays {
		return nil
	}
	return &domain.Pattern{
		Category: domain.PatternBackToBack,
		Title:    "Back-to-back days",
		Description: fmt.Sprintf("%d consecutive days with no gap over %d minutes between meetings",
			bestStreak, int(backToBackMaxGap.Minutes())),
		Series: clampSeries(series),
	}
}

func isBackToBackDay(d daySchedule) bool {
	var workEvents []domain.Event
	for _, e := range d.events {
		if e.StartTime.Hour() >= workStartHour && e.StartTime.Hour() < workEndHour {
			workEvents = append(workEvents, e)
		}
	}
	if len(workEvents) < 2 {
		return false
	}
	for i := 0; i+1 < len(workEvents); i++ {
		gap := workEvents[i+1].StartTime.Sub(workEvents[i].EndTime)
		if gap > backToBackMaxGap {
			return false
		}
	}
	return true
}

// detectNoLunch fires when too many days leave no free half hour anywhere
// in the lunch window.
func detectNoLunch(days []daySchedule) *domain.Pattern {
	series := make([]float64, len(days))
	count := 0
	for i, d := range days {
		if isNoLunchDay(d) {
			series[i] = 1
			count++
		}
	}
	if count < noLunchMinDays {
		return nil
	}
	return &domain.Pattern{
		Category:    domain.PatternNoLunch,
		Title:       "No lunch break",
		Description: fmt.Sprintf("%d days with no free %d-minute slot around midday", count, int(lunchMinFree.Minutes())),
		Series:      clampSeries(series),
	}
}

func isNoLunchDay(d daySchedule) bool {
	winStart := d.date.Add(lunchWindowStart)
	winEnd := d.date.Add(lunchWindowEnd)

	// Clip busy intervals to the lunch window and look for the widest
	// free slot between them.
	type span struct{ start, end time.Time }
	var busy []span
	for _, e := range d.events {
		s, en := e.StartTime, e.EndTime
		if !en.After(winStart) || !s.Before(winEnd) {
			continue
		}
		if s.Before(winStart) {
			s = winStart
		}
		if en.After(winEnd) {
			en = winEnd
		}
		busy = append(busy, span{s, en})
	}
	if len(busy) == 0 {
		return false
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].start.Before(busy[j].start) })

	maxFree := busy[0].start.Sub(winStart)
	cursor := busy[0].end
	for _, b := range busy[1:] {
		if b.start.After(cursor) {
			if free := b.start.Sub(cursor); free > maxFree {
				maxFree = free
			}
		}
		if b.end.After(cursor) {
			cursor = b.end
		}
	}
	if tail := winEnd.Sub(cursor); tail > maxFree {
		maxFree = tail
	}
	return maxFree < lunchMinFree
}

// detectOverloaded fires when too many days carry eight or more scheduled
// hours. The series grades each day against a ten-hour worst case.
func detectOverloaded(days []daySchedule) *domain.Pattern {
	series := make([]float64, len(days))
	count := 0
	for i, d := range days {
		total := 0.0
		for _, e := range d.events {
			total += e.Duration().Minutes()
		}
		series[i] = total / overloadedWorst
		if total >= overloadedMinutes {
			count++
		}
	}
	if count < overloadedMinDays {
		return nil
	}
	return &domain.Pattern{
		Category:    domain.PatternOverloaded,
		Title:       "Overloaded days",
		Description: fmt.Sprintf("%d days with %d+ hours of scheduled time", count, overloadedMinutes/60),
		Series:      clampSeries(series),
	}
}

// detectAfterHours fires when meetings regularly spill outside a civil
// 08:00-19:00 day.
func detectAfterHours(days []daySchedule) *domain.Pattern {
	series := make([]float64, len(days))
	count := 0
	for i, d := range days {
		for _, e := range d.events {
			if e.StartTime.Hour() < earlyStartHour || e.EndTime.Hour() >= lateEndHour {
				series[i] = 1
				count++
				break
			}
		}
	}
	if count < afterHoursMinDays {
		return nil
	}
	return &domain.Pattern{
		Category:    domain.PatternAfterHours,
		Title:       "After-hours creep",
		Description: fmt.Sprintf("%d days with events before %d:00 or after %d:00", count, earlyStartHour, lateEndHour),
		Series:      clampSeries(series),
	}
}

// clampSeries forces every value into [0,1].
func clampSeries(series []float64) []float64 {
	for i, v := range series {
		if v < 0 {
			series[i] = 0
		} else if v > 1 {
			series[i] = 1
		}
	}
	return series
}

package ics

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// maxOccurrencesPerEvent caps recurrence expansion so a pathological rule
// cannot blow up the event list.
const maxOccurrencesPerEvent = 1000

// Occurrence is one concrete instance of a (possibly recurring) event
// inside the requested window.
type Occurrence struct {
	UID       string
	Summary   string
	Location  string
	Start     time.Time
	End       time.Time
	AllDay    bool
	Tentative bool
}

// Expand turns parsed events into concrete occurrences within [from, to).
// Non-recurring events pass through when they overlap the window; RRULE
// events are expanded occurrence by occurrence. A bad RRULE fails only the
// event that carries it.
func Expand(events []ParsedEvent, from, to time.Time) ([]Occurrence, []error) {
	var occurrences []Occurrence
	var errs []error

	for _, ev := range events {
		dur := ev.End.Sub(ev.Start)

		if ev.RRule == "" {
			if ev.Start.Before(to) && ev.End.After(from) {
				occurrences = append(occurrences, occurrenceAt(ev, ev.Start, dur))
			}
			continue
		}

		opt, err := rrule.StrToROption(ev.RRule)
		if err != nil {
			errs = append(errs, fmt.Errorf("event %q: parse RRULE: %w", ev.UID, err))
			continue
		}
		opt.Dtstart = ev.Start

		rule, err := rrule.NewRRule(*opt)
		if err != nil {
			errs = append(errs, fmt.Errorf("event %q: build RRULE: %w", ev.UID, err))
			continue
		}

		// Start searching a little early so an occurrence that began
		// before the window but spills into it is still found.
		starts := rule.Between(from.Add(-dur), to, true)
		for i, start := range starts {
			if i >= maxOccurrencesPerEvent {
				errs = append(errs, fmt.Errorf("event %q: occurrence cap reached", ev.UID))
				break
			}
			end := start.Add(dur)
			if start.Before(to) && end.After(from) {
				occurrences = append(occurrences, occurrenceAt(ev, start, dur))
			}
		}
	}

	return occurrences, errs
}

func occurrenceAt(ev ParsedEvent, start time.Time, dur time.Duration) Occurrence {
	return Occurrence{
		UID:       ev.UID,
		Summary:   ev.Summary,
		Location:  ev.Location,
		Start:     start,
		End:       start.Add(dur),
		AllDay:    ev.AllDay,
		Tentative: ev.Tentative,
	}
}

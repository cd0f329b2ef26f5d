package ics

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
)

// ParsedEvent is a normalized VEVENT. Recurrence is recorded but not yet
// expanded; that happens in expand.go.
type ParsedEvent struct {
	UID       string
	Summary   string
	Location  string
	Start     time.Time
	End       time.Time
	AllDay    bool
	Tentative bool
	RRule     string
}

// Parse decodes an ICS payload into parsed events. Individual malformed
// VEVENTs are skipped; the feed as a whole only fails when it cannot be
// decoded at all.
func Parse(body []byte) ([]ParsedEvent, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("empty ICS body")
	}

	dec := ical.NewDecoder(bytes.NewReader(body))
	var events []ParsedEvent

	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode ICS: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			ev, ok := parseVEvent(comp)
			if !ok {
				continue
			}
			events = append(events, ev)
		}
	}

	return events, nil
}

func parseVEvent(comp *ical.Component) (ParsedEvent, bool) {
	var ev ParsedEvent

	prop := comp.Props.Get(ical.PropUID)
	if prop == nil || prop.Value == "" {
		return ev, false
	}
	ev.UID = prop.Value

	if p := comp.Props.Get(ical.PropSummary); p != nil {
		ev.Summary = p.Value
	}
	if p := comp.Props.Get(ical.PropLocation); p != nil {
		ev.Location = p.Value
	}
	if p := comp.Props.Get(ical.PropStatus); p != nil {
		ev.Tentative = p.Value == "TENTATIVE"
	}
	if p := comp.Props.Get(ical.PropRecurrenceRule); p != nil {
		ev.RRule = p.Value
	}

	p := comp.Props.Get(ical.PropDateTimeStart)
	if p == nil {
		return ev, false
	}
	start, err := p.DateTime(time.UTC)
	if err != nil {
		return ev, false
	}
	ev.Start = start
	if valueType := p.Params.Get(ical.ParamValue); valueType == string(ical.ValueDate) {
		ev.AllDay = true
	}

	if p := comp.Props.Get(ical.PropDateTimeEnd); p != nil {
		if end, err := p.DateTime(time.UTC); err == nil {
			ev.End = end
		}
	}
	if ev.End.IsZero() {
		ev.End = ev.Start
	}

	return ev, true
}

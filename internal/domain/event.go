package domain

import (
	"strings"
	"time"
)

// Source identifies which calendar account an event came from.
type Source string

const (
	SourceDevice  Source = "device"
	SourceGoogle  Source = "google"
	SourceOutlook Source = "outlook"
)

// virtualMarkers are location substrings that identify an online meeting.
var virtualMarkers = []string{
	"zoom.us",
	"meet.google.com",
	"teams.microsoft.com",
	"webex.com",
	"whereby.com",
	"http://",
	"https://",
}

// Event is a normalized calendar event from any source. Events are built
// fresh for each analysis run and never mutated afterwards.
type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	AllDay    bool      `json:"all_day"`
	Location  string    `json:"location,omitempty"`
	Source    Source    `json:"source"`
	Virtual   bool      `json:"virtual"`   // explicit flag from the source, or derived from Location
	Tentative bool      `json:"tentative"` // optional/tentative attendance
}

// Duration returns the event length.
func (e *Event) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// IsZeroDuration returns true for marker events with start == end.
func (e *Event) IsZeroDuration() bool {
	return e.StartTime.Equal(e.EndTime)
}

// IsMalformed returns true if the event's end precedes its start. Such
// events are excluded from analysis and reported as diagnostics.
func (e *Event) IsMalformed() bool {
	return e.EndTime.Before(e.StartTime)
}

// IsVirtual returns true if the event is an online meeting, either flagged
// by the source or recognized from a meeting link in the location text.
func (e *Event) IsVirtual() bool {
	if e.Virtual {
		return true
	}
	loc := strings.ToLower(e.Location)
	for _, m := range virtualMarkers {
		if strings.Contains(loc, m) {
			return true
		}
	}
	return false
}

// IsPhysical returns true if the event plausibly requires being somewhere:
// timed, not virtual, and with a non-empty location.
func (e *Event) IsPhysical() bool {
	return !e.AllDay && !e.IsVirtual() && strings.TrimSpace(e.Location) != ""
}

// Overlaps returns true if the two events' time ranges intersect with a
// positive-length window.
func (e *Event) Overlaps(other *Event) bool {
	return e.StartTime.Before(other.EndTime) && other.StartTime.Before(e.EndTime)
}

// FormatTime returns the event's time range for display.
func (e *Event) FormatTime() string {
	if e.AllDay {
		return "all day"
	}
	return e.StartTime.Format("15:04") + "-" + e.EndTime.Format("15:04")
}

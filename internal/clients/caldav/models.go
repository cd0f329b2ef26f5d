package caldav

import "time"

// Calendar represents a calendar discovered on the CalDAV server
type Calendar struct {
	ID          string // Calendar path/URL
	DisplayName string
	URL         string
}

// Event represents a calendar event fetched over CalDAV
type Event struct {
	UID       string // Unique ID in CalDAV
	Summary   string // Title
	Location  string
	StartTime time.Time
	EndTime   time.Time
	AllDay    bool
	Status    string // CONFIRMED / TENTATIVE / CANCELLED
}

package domain

import "time"

// Severity ranks how serious a conflict is.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Conflict is a maximal cluster of events connected by pairwise time
// overlaps. The overlap window is the tightest common intersection at the
// cluster's peak-concurrency instant. Identity is assigned per run and is
// not stable across runs.
type Conflict struct {
	ID           string    `json:"id"`
	Events       []Event   `json:"events"`
	OverlapStart time.Time `json:"overlap_start"`
	OverlapEnd   time.Time `json:"overlap_end"`
	Severity     Severity  `json:"severity"`
}

// OverlapDuration returns the length of the peak overlap window.
func (c *Conflict) OverlapDuration() time.Duration {
	return c.OverlapEnd.Sub(c.OverlapStart)
}

// IssueSeverity ranks a logistics issue.
type IssueSeverity int

const (
	IssueLow IssueSeverity = iota
	IssueMedium
	IssueHigh
)

// String returns the issue severity name.
func (s IssueSeverity) String() string {
	switch s {
	case IssueLow:
		return "low"
	case IssueMedium:
		return "medium"
	case IssueHigh:
		return "high"
	default:
		return "unknown"
	}
}

// LogisticsIssue flags an infeasible or tight transition between two
// consecutive physical events.
type LogisticsIssue struct {
	From             Event         `json:"from"`
	To               Event         `json:"to"`
	RequiredMinutes  int           `json:"required_minutes"`
	AvailableMinutes int           `json:"available_minutes"`
	ShortfallMinutes int           `json:"shortfall_minutes"`
	Severity         IssueSeverity `json:"severity"`
	Description      string        `json:"description"`
	Suggestion       string        `json:"suggestion"`
}

// PatternCategory tags a detected scheduling pattern.
type PatternCategory string

const (
	PatternBackToBack PatternCategory = "back_to_back"
	PatternNoLunch    PatternCategory = "no_lunch"
	PatternOverloaded PatternCategory = "overloaded"
	PatternAfterHours PatternCategory = "after_hours"
)

// Pattern is a recurring scheduling shape found in the history window.
// Series holds one value per day, normalized to [0,1] where 0 is best.
type Pattern struct {
	Category    PatternCategory `json:"category"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Series      []float64       `json:"series"`
}

// HealthScore is the composite 0-100 schedule quality metric with its four
// component scores, each independently in [0,100].
type HealthScore struct {
	Overall            int `json:"overall"`
	TimeUtilization    int `json:"time_utilization"`
	ConflictManagement int `json:"conflict_management"`
	Balance            int `json:"balance"`
	Buffer             int `json:"buffer"`
}

// ActionKind is the kind of change a recommendation proposes.
type ActionKind string

const (
	ActionReschedule ActionKind = "reschedule"
	ActionDecline    ActionKind = "decline"
	ActionShorten    ActionKind = "shorten"
)

// Recommendation is a user-actionable suggestion derived from a conflict
// or logistics issue. Confidence is always within [0.3, 0.8].
type Recommendation struct {
	ID          string     `json:"id"`
	Action      ActionKind `json:"action"`
	ConflictID  string     `json:"conflict_id,omitempty"`
	TargetEvent string     `json:"target_event,omitempty"`
	Description string     `json:"description"`
	Confidence  float64    `json:"confidence"`
}

// SkippedEvent records an input event excluded from analysis, with the
// reason. Collected as diagnostics instead of failing the run.
type SkippedEvent struct {
	EventID string `json:"event_id"`
	Title   string `json:"title"`
	Reason  string `json:"reason"`
}

// AnalysisResult is the aggregate output of one analysis run. All contained
// values are owned by this result and never mutated after construction.
type AnalysisResult struct {
	GeneratedAt     time.Time        `json:"generated_at"`
	WindowStart     time.Time        `json:"window_start"`
	WindowEnd       time.Time        `json:"window_end"`
	Conflicts       []Conflict       `json:"conflicts"`
	Issues          []LogisticsIssue `json:"issues"`
	Patterns        []Pattern        `json:"patterns"`
	Health          HealthScore      `json:"health"`
	Recommendations []Recommendation `json:"recommendations"`
	Skipped         []SkippedEvent   `json:"skipped,omitempty"`
}

package travel

// estimateResponse is the travel API's answer for a single route lookup.
type estimateResponse struct {
	DurationMinutes int    `json:"duration_minutes"`
	Resolved        bool   `json:"resolved"`
	Mode            string `json:"mode,omitempty"`
}

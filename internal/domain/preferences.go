package domain

// Preferences holds the user-tunable knobs the engine needs. Passed
// explicitly into every analysis run; never stored as process-wide state.
type Preferences struct {
	BufferMinutes      int  `json:"buffer_minutes"`
	TravelEnabled      bool `json:"travel_enabled"`
	MinTravelMinutes   int  `json:"min_travel_minutes"`
	WorkdayStartHour   int  `json:"workday_start_hour"`
	WorkdayEndHour     int  `json:"workday_end_hour"`
	IdealDailyHoursMin int  `json:"ideal_daily_hours_min"`
	IdealDailyHoursMax int  `json:"ideal_daily_hours_max"`
	MinShortenMinutes  int  `json:"min_shorten_minutes"`
}

// DefaultPreferences returns the baseline preference set used until the
// user saves their own.
func DefaultPreferences() Preferences {
	return Preferences{
		BufferMinutes:      15,
		TravelEnabled:      true,
		MinTravelMinutes:   5,
		WorkdayStartHour:   9,
		WorkdayEndHour:     17,
		IdealDailyHoursMin: 2,
		IdealDailyHoursMax: 7,
		MinShortenMinutes:  45,
	}
}

package models

import "time"

// Settings holds the preferences the calculations depend on.
type Settings struct {
	WeeklyTargetMin  int     `json:"weekly_target_min"`  // expected minutes per week
	WorkDays         [7]bool `json:"work_days"`          // indexed by time.Weekday
	AutoPauseEnabled bool    `json:"auto_pause_enabled"` // insert a pause on clock-out
	AutoPauseBegin   string  `json:"auto_pause_begin"`   // HH:MM
	AutoPauseEnd     string  `json:"auto_pause_end"`     // HH:MM
	FlexiEnabled     bool    `json:"flexi_enabled"`
	FlexiStartMin    int     `json:"flexi_start_min"` // balance before the first tracked week
	// FlexiStartDate, when set, skips weeks before the week containing it.
	FlexiStartDate *time.Time `json:"flexi_start_date,omitempty"`
	// DistributeFlexi spreads a positive balance over the remaining work days of
	// the week instead of applying it only to the last work day.
	DistributeFlexi bool   `json:"distribute_flexi"`
	Timezone        string `json:"timezone"` // IANA name or "Local"
}

// WorkDayCount returns the number of configured work days.
func (s Settings) WorkDayCount() int {
	n := 0
	for _, w := range s.WorkDays {
		if w {
			n++
		}
	}
	return n
}

// IsWorkDay reports the configured flag for d.
func (s Settings) IsWorkDay(d time.Weekday) bool {
	return s.WorkDays[d]
}

// WorkDayList returns configured work days starting with Monday.
func (s Settings) WorkDayList() []time.Weekday {
	var out []time.Weekday
	for i := 1; i <= 7; i++ {
		d := time.Weekday(i % 7)
		if s.WorkDays[d] {
			out = append(out, d)
		}
	}
	return out
}

// NormalDayTargetMin is the weekly target divided by the work day count,
// rounded half up. It does not have to sum back to the weekly target.
func (s Settings) NormalDayTargetMin() int {
	n := s.WorkDayCount()
	if n == 0 || s.WeeklyTargetMin <= 0 {
		return 0
	}
	return (2*s.WeeklyTargetMin + n) / (2 * n)
}

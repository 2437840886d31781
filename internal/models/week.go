package models

import "time"

// Week caches the worked minutes of the seven days starting at Start (a Monday).
// Start carries the calendar date only; its location is not meaningful.
type Week struct {
	ID    int64     `json:"id"`
	Start time.Time `json:"start"`
	// SumMinutes is nil until the week has been computed once.
	SumMinutes *int `json:"sum_minutes,omitempty"`
	// ComputedAt is when SumMinutes was last written. A sum computed before the
	// week ended may include a live session and needs a refresh.
	ComputedAt time.Time `json:"computed_at"`
}

// StartIn returns midnight of the week's first day in loc.
func (w Week) StartIn(loc *time.Location) time.Time {
	return time.Date(w.Start.Year(), w.Start.Month(), w.Start.Day(), 0, 0, 0, 0, loc)
}

// EndIn returns midnight of the following week's first day in loc.
func (w Week) EndIn(loc *time.Location) time.Time {
	return time.Date(w.Start.Year(), w.Start.Month(), w.Start.Day()+7, 0, 0, 0, 0, loc)
}

// Stale reports whether the cached sum was taken before the week ended and the week is now over.
func (w Week) Stale(now time.Time, loc *time.Location) bool {
	end := w.EndIn(loc)
	return w.SumMinutes != nil && w.ComputedAt.Before(end) && !now.Before(end)
}

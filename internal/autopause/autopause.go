// Package autopause decides when an unpaid break is cut out of a running session.
package autopause

import (
	"time"

	"github.com/julianstephens/punchcard/internal/errors"
	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/timevalue"
	"github.com/julianstephens/punchcard/internal/utils"
)

// Resolver holds a wall-clock pause window. A window with begin >= end never applies;
// it does not wrap past midnight.
type Resolver struct {
	enabled bool
	begin   int // minutes after midnight
	end     int
	loc     *time.Location
}

// New parses the HH:MM window. Malformed times are rejected.
func New(begin, end string, enabled bool, loc *time.Location) (*Resolver, error) {
	b, err := utils.ParseTimeToMinutes(begin)
	if err != nil {
		return nil, errors.Invalid("auto-pause begin %q must be HH:MM", begin)
	}
	e, err := utils.ParseTimeToMinutes(end)
	if err != nil {
		return nil, errors.Invalid("auto-pause end %q must be HH:MM", end)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Resolver{enabled: enabled, begin: b, end: e, loc: loc}, nil
}

// FromSettings builds the resolver configured in s.
func FromSettings(s models.Settings) (*Resolver, error) {
	return New(s.AutoPauseBegin, s.AutoPauseEnd, s.AutoPauseEnabled, s.Location())
}

// Active reports whether the window can ever apply.
func (r *Resolver) Active() bool {
	return r.enabled && r.begin < r.end
}

// Interval returns the pause window on day's calendar date.
func (r *Resolver) Interval(day time.Time) (time.Time, time.Time) {
	d := utils.StartOfDay(day, r.loc)
	return utils.AtMinute(d, r.begin), utils.AtMinute(d, r.end)
}

// Duration is the length of the window on day, or zero when it cannot apply.
func (r *Resolver) Duration(day time.Time) timevalue.TimeValue {
	if !r.Active() {
		return timevalue.Zero
	}
	begin, end := r.Interval(day)
	return timevalue.FromDuration(end.Sub(begin))
}

// IsApplicable reports whether the session opened by last spans the whole window
// on day, as seen at evalTime. last must be the latest event before evalTime; a
// pause is only asserted once the window has fully elapsed.
func (r *Resolver) IsApplicable(day time.Time, last *models.Event, evalTime time.Time) bool {
	if !r.Active() || last == nil || last.Type != models.ClockIn {
		return false
	}
	begin, end := r.Interval(day)
	return last.Time.Before(begin) && !evalTime.Before(end)
}

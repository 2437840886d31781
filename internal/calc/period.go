package calc

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/punchcard/internal/errors"
	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/timevalue"
)

// SumMoments adds up the closed sessions of [start, end). moments must be ascending
// and lie inside the period; carryIn means a session was already open at start.
// A session still open at end is counted up to end, but never past now.
// CLOCK_IN while open is a task switch and CLOCK_OUT while closed is ignored.
func SumMoments(start, end, now time.Time, carryIn bool, moments []models.Moment) int64 {
	var total int64
	open := carryIn
	openSince := start

	closeAt := func(t time.Time) {
		if t.After(openSince) {
			total += (t.UnixMilli() - openSince.UnixMilli()) / int64(time.Minute/time.Millisecond)
		}
	}

	for _, m := range moments {
		switch {
		case m.Type() == models.ClockIn:
			if !open {
				open = true
				openSince = m.Time()
			}
		case m.Type().IsClockOut():
			if open {
				closeAt(m.Time())
				open = false
			}
		}
	}

	if open {
		limit := end
		if now.Before(limit) {
			limit = now
		}
		closeAt(limit)
	}
	return total
}

// withSyntheticNow inserts the still-clocked-in marker at now, after any stored
// event at the same instant.
func withSyntheticNow(events []models.Event, now time.Time) []models.Moment {
	moments := models.Moments(events)
	i := sort.Search(len(moments), func(i int) bool {
		return moments[i].Time().After(now)
	})
	moments = append(moments, models.Moment{})
	copy(moments[i+1:], moments[i:])
	moments[i] = models.SyntheticNow(now)
	return moments
}

// Sum is the worked time in [start, end). An open session is closed at now by a
// synthetic clock-out when now lies inside the period; with auto-pause on, the
// pause that clocking out now would insert is subtracted so live totals match
// the totals after the clock-out.
func (c *Calculator) Sum(start, end time.Time) (timevalue.TimeValue, error) {
	if !start.Before(end) {
		return timevalue.Zero, nil
	}
	now := c.Now()

	events, err := c.store.GetEventsInRange(start, end)
	if err != nil {
		return timevalue.Zero, fmt.Errorf("failed to load events: %w", err)
	}
	carry, err := c.store.GetLastEventBefore(start)
	if err != nil {
		return timevalue.Zero, fmt.Errorf("failed to load carry-over event: %w", err)
	}
	carryIn := carry != nil && carry.Type == models.ClockIn

	moments := models.Moments(events)
	var pause int64
	if !now.Before(start) && now.Before(end) {
		last, err := c.store.GetLastEventAtOrBefore(now)
		if err != nil {
			return timevalue.Zero, fmt.Errorf("failed to load current state: %w", err)
		}
		if last != nil && last.Type == models.ClockIn {
			moments = withSyntheticNow(events, now)
			pause = c.livePause(start, end, now, last)
		}
	}

	total := SumMoments(start, end, now, carryIn, moments) - pause
	return c.clamp(total, "sum %s..%s", start.Format(time.RFC3339), end.Format(time.RFC3339))
}

// livePause is the part of today's pause window inside [start, end) that a
// clock-out at now would cut out of the session opened by last.
func (c *Calculator) livePause(start, end, now time.Time, last *models.Event) int64 {
	if !c.pause.IsApplicable(now, last, now) {
		return 0
	}
	begin, stop := c.pause.Interval(now)
	if begin.Before(start) {
		begin = start
	}
	if stop.After(end) {
		stop = end
	}
	if !stop.After(begin) {
		return 0
	}
	return int64(stop.Sub(begin) / time.Minute)
}

func (c *Calculator) clamp(total int64, format string, args ...interface{}) (timevalue.TimeValue, error) {
	v, clamped := timevalue.Clamp(total)
	if clamped {
		_ = errors.Overflow(format, args...)
	}
	return v, nil
}

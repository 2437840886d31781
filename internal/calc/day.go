package calc

import (
	"fmt"
	"time"

	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/timevalue"
	"github.com/julianstephens/punchcard/internal/utils"
)

// DayLine summarizes one calendar day.
type DayLine struct {
	Date time.Time
	// TimeIn is the first clock-in, or midnight for a session carried over from an earlier day.
	TimeIn *time.Time
	// TimeOut is the clock-out ending the last session. An open session ends at
	// now on the current day and at the next midnight otherwise.
	TimeOut *time.Time
	// Open is set when the day ends without a clock-out.
	Open   bool
	Worked timevalue.TimeValue
	// Granted is the deficit added by a DAY_GRANT target; Worked stays the measured value.
	Granted  timevalue.TimeValue
	Flexi    timevalue.TimeValue
	Decision TargetDecision
}

// DayLine computes the line for day.
func (c *Calculator) DayLine(day time.Time) (DayLine, error) {
	day = c.Day(day)
	next := utils.NextDay(day)
	now := c.Now()

	decision, err := c.Resolve(day)
	if err != nil {
		return DayLine{}, err
	}
	line := DayLine{Date: day, Decision: decision}

	events, err := c.store.GetEventsOnDay(day)
	if err != nil {
		return DayLine{}, fmt.Errorf("failed to load events: %w", err)
	}
	carry, err := c.store.GetLastEventBefore(day)
	if err != nil {
		return DayLine{}, fmt.Errorf("failed to load carry-over event: %w", err)
	}

	line.TimeIn, line.TimeOut, line.Open = sessionBounds(day, next, now, carry, events)

	if line.Worked, err = c.Sum(day, next); err != nil {
		return DayLine{}, err
	}

	if decision.Grant && line.Worked < decision.Target {
		line.Granted = decision.Target - line.Worked
	}
	if decision.DayType == IgnoredDay {
		line.Flexi = timevalue.Zero
	} else {
		line.Flexi = line.Worked + line.Granted - decision.Target
	}
	return line, nil
}

// sessionBounds finds the first clock-in and the effective last clock-out of the day.
func sessionBounds(day, next, now time.Time, carry *models.Event, events []models.Event) (*time.Time, *time.Time, bool) {
	if !day.Before(now) {
		return nil, nil, false
	}

	var in, out *time.Time
	open := carry != nil && carry.Type == models.ClockIn && carry.Time.Before(now)
	if open {
		in = ptr(day)
	}
	for _, e := range events {
		if e.Time.After(now) {
			break
		}
		switch e.Type {
		case models.ClockIn:
			if in == nil {
				in = ptr(e.Time)
			}
			if !open {
				open = true
				out = nil
			}
		case models.ClockOut:
			// A stray clock-out after the session closed does not move the end.
			if open {
				out = ptr(e.Time)
				open = false
			}
		}
	}

	if open {
		end := next
		if now.Before(next) {
			end = now
		}
		out = ptr(end)
	}
	if in == nil {
		return nil, nil, false
	}
	return in, out, open
}

func ptr(t time.Time) *time.Time {
	return &t
}

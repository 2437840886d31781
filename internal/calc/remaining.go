package calc

import (
	"time"

	"github.com/julianstephens/punchcard/internal/timevalue"
	"github.com/julianstephens/punchcard/internal/utils"
)

// Remaining is what is left to work today and this week.
type Remaining struct {
	// TodayTarget is today's target after the flexi reduction.
	TodayTarget timevalue.TimeValue
	// Reduction is the part of a positive balance taken off today's target.
	Reduction timevalue.TimeValue
	Today     timevalue.TimeValue
	Week      timevalue.TimeValue
	// Balance is the flexi balance before today.
	Balance timevalue.TimeValue
}

// Remaining computes the time left to reach today's and this week's target. A
// positive balance lowers today's target, either spread evenly over the work
// days left in the week or only on the week's last work day.
func (c *Calculator) Remaining() (Remaining, error) {
	today := c.Today()
	ws := c.WeekOf(today)

	line, err := c.DayLine(today)
	if err != nil {
		return Remaining{}, err
	}
	var r Remaining
	if !today.Equal(ws) {
		if r.Balance, err = c.BalanceAt(utils.AddDays(today, -1)); err != nil {
			return Remaining{}, err
		}
	} else if r.Balance, err = c.BalanceAtWeekStart(ws); err != nil {
		return Remaining{}, err
	}

	target := line.Decision.Target
	if line.Decision.DayType == WorkDay && r.Balance > 0 && target > 0 {
		left, err := c.workDaysLeft(today, utils.AddDays(ws, 7))
		if err != nil {
			return Remaining{}, err
		}
		switch {
		case c.settings.DistributeFlexi && left > 0:
			n := timevalue.TimeValue(left)
			r.Reduction = (2*r.Balance + n) / (2 * n)
		case left == 1:
			r.Reduction = r.Balance
		}
		if r.Reduction > target {
			r.Reduction = target
		}
	}
	r.TodayTarget = target - r.Reduction
	r.Today = (r.TodayTarget - line.Worked).Max(timevalue.Zero)

	worked, err := c.Sum(ws, utils.AddDays(ws, 7))
	if err != nil {
		return Remaining{}, err
	}
	weekTarget := timevalue.FromMinutes(c.settings.WeeklyTargetMin)
	if c.settings.FlexiEnabled {
		if start, err := c.BalanceAtWeekStart(ws); err != nil {
			return Remaining{}, err
		} else if start > 0 {
			weekTarget -= start
		}
	}
	r.Week = (weekTarget - worked).Max(timevalue.Zero)
	return r, nil
}

// workDaysLeft counts the resolved work days in [from, end).
func (c *Calculator) workDaysLeft(from, end time.Time) (int, error) {
	n := 0
	for d := from; d.Before(end); d = utils.NextDay(d) {
		dec, err := c.Resolve(d)
		if err != nil {
			return 0, err
		}
		if dec.DayType == WorkDay && dec.Target > 0 {
			n++
		}
	}
	return n, nil
}

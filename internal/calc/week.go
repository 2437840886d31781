package calc

import (
	"time"

	"github.com/julianstephens/punchcard/internal/timevalue"
	"github.com/julianstephens/punchcard/internal/utils"
)

// WeekSummary holds the seven day lines of a week.
type WeekSummary struct {
	Start  time.Time
	Days   []DayLine
	Worked timevalue.TimeValue
	Target timevalue.TimeValue
	// Flexi is the sum of the day deltas.
	Flexi timevalue.TimeValue
	// BalanceStart and BalanceEnd bracket the week in the running balance.
	BalanceStart timevalue.TimeValue
	BalanceEnd   timevalue.TimeValue
}

// WeekSum is the worked time of the week starting at weekStart, as cached on Week rows.
func (c *Calculator) WeekSum(weekStart time.Time) (timevalue.TimeValue, error) {
	ws := c.WeekOf(weekStart)
	return c.Sum(ws, utils.AddDays(ws, 7))
}

// Week computes the day lines of the week containing day.
func (c *Calculator) Week(day time.Time) (WeekSummary, error) {
	ws := c.WeekOf(day)
	summary := WeekSummary{Start: ws, Days: make([]DayLine, 0, 7)}

	var err error
	if summary.BalanceStart, err = c.BalanceAtWeekStart(ws); err != nil {
		return WeekSummary{}, err
	}
	for d := ws; len(summary.Days) < 7; d = utils.NextDay(d) {
		line, err := c.DayLine(d)
		if err != nil {
			return WeekSummary{}, err
		}
		summary.Days = append(summary.Days, line)
		summary.Worked += line.Worked
		if line.Decision.DayType != IgnoredDay {
			summary.Target += line.Decision.Target
		}
		summary.Flexi += line.Flexi
	}
	if c.settings.FlexiEnabled {
		summary.BalanceEnd = summary.BalanceStart + summary.Flexi
	}
	return summary, nil
}

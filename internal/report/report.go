// Package report aggregates day lines over long date ranges in per-week chunks.
package report

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/punchcard/internal/calc"
	"github.com/julianstephens/punchcard/internal/constants"
	"github.com/julianstephens/punchcard/internal/errors"
	"github.com/julianstephens/punchcard/internal/logger"
	"github.com/julianstephens/punchcard/internal/timevalue"
	"github.com/julianstephens/punchcard/internal/utils"
)

// Week is one chunk of a report, restricted to the requested range.
type Week struct {
	Start  time.Time
	Days   []calc.DayLine
	Worked timevalue.TimeValue
	Target timevalue.TimeValue
	Flexi  timevalue.TimeValue
}

type Report struct {
	From   time.Time
	To     time.Time
	Weeks  []Week
	Worked timevalue.TimeValue
	Target timevalue.TimeValue
	Flexi  timevalue.TimeValue
	// DaysWorked counts days with any worked time.
	DaysWorked int
	// Balance is the running flexi balance at the end of To.
	Balance timevalue.TimeValue
}

// Build computes the report for the calendar days from..to inclusive. Weeks are
// computed concurrently; a cancelled ctx discards everything computed so far.
func Build(ctx context.Context, c *calc.Calculator, from, to time.Time) (*Report, error) {
	from, to = c.Day(from), c.Day(to)
	if to.Before(from) {
		return nil, errors.Invalid("report end %s is before start %s", to.Format(constants.DateFormat), from.Format(constants.DateFormat))
	}

	var starts []time.Time
	for ws := c.WeekOf(from); !ws.After(to); ws = utils.AddDays(ws, 7) {
		starts = append(starts, ws)
	}
	weeks := make([]Week, len(starts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.ReportWorkers)
	for i, ws := range starts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			w, err := buildWeek(c, ws, from, to)
			if err != nil {
				return err
			}
			weeks[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := &Report{From: from, To: to, Weeks: weeks}
	for _, w := range weeks {
		r.Worked += w.Worked
		r.Target += w.Target
		r.Flexi += w.Flexi
		for _, d := range w.Days {
			if d.Worked > 0 {
				r.DaysWorked++
			}
		}
	}

	balance, err := c.BalanceAt(to)
	if err != nil {
		return nil, err
	}
	r.Balance = balance
	logger.Debug("Built report", "from", from, "to", to, "weeks", len(weeks))
	return r, nil
}

func buildWeek(c *calc.Calculator, ws, from, to time.Time) (Week, error) {
	w := Week{Start: ws}
	for d := ws; d.Before(utils.AddDays(ws, 7)); d = utils.NextDay(d) {
		if d.Before(from) || d.After(to) {
			continue
		}
		line, err := c.DayLine(d)
		if err != nil {
			return Week{}, err
		}
		w.Days = append(w.Days, line)
		w.Worked += line.Worked
		w.Flexi += line.Flexi
		if line.Decision.DayType != calc.IgnoredDay {
			w.Target += line.Decision.Target
		}
	}
	return w, nil
}

package calc

import (
	"fmt"
	"time"

	"github.com/julianstephens/punchcard/internal/errors"
	"github.com/julianstephens/punchcard/internal/logger"
	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/storage"
	"github.com/julianstephens/punchcard/internal/timevalue"
	"github.com/julianstephens/punchcard/internal/utils"
)

// BalanceAtWeekStart folds the stored week sums before the week containing
// weekStart into the running flexi balance. It is zero when flexi time is disabled.
func (c *Calculator) BalanceAtWeekStart(weekStart time.Time) (timevalue.TimeValue, error) {
	if !c.settings.FlexiEnabled {
		return timevalue.Zero, nil
	}
	ws := c.WeekOf(weekStart)

	flexiTargets, err := c.store.GetFlexiTargets()
	if err != nil {
		return timevalue.Zero, fmt.Errorf("failed to load flexi targets: %w", err)
	}
	weeks, err := c.store.GetWeeksUpTo(utils.AddDays(ws, -1))
	if err != nil {
		return timevalue.Zero, fmt.Errorf("failed to load weeks: %w", err)
	}

	balance := int64(c.settings.FlexiStartMin)
	dated := make(map[string][]models.Target)
	var first *time.Time
	for _, t := range flexiTargets {
		if t.Date == nil {
			balance = applyFlexiTarget(balance, t)
			continue
		}
		w := c.WeekOf(c.inLoc(*t.Date))
		dated[storage.DateKey(w)] = append(dated[storage.DateKey(w)], t)
		if first == nil || w.Before(*first) {
			first = ptr(w)
		}
	}

	sums := make(map[string]models.Week, len(weeks))
	for _, w := range weeks {
		sums[storage.DateKey(w.Start)] = w
		if start := w.StartIn(c.loc); first == nil || start.Before(*first) {
			first = ptr(start)
		}
	}
	if c.settings.FlexiStartDate != nil {
		fs := c.WeekOf(c.inLoc(*c.settings.FlexiStartDate))
		if first == nil || fs.After(*first) {
			first = ptr(fs)
		}
	}
	if first == nil {
		return c.clamp(balance, "flexi balance at %s", storage.DateKey(ws))
	}

	for w := *first; !w.After(ws); w = utils.AddDays(w, 7) {
		key := storage.DateKey(w)
		for _, t := range dated[key] {
			balance = applyFlexiTarget(balance, t)
		}
		if w.Equal(ws) {
			break
		}

		delta, err := c.weekDelta(w, sums)
		if err != nil {
			return timevalue.Zero, err
		}
		balance += delta
	}
	return c.clamp(balance, "flexi balance at %s", storage.DateKey(ws))
}

func applyFlexiTarget(balance int64, t models.Target) int64 {
	if t.Kind == models.TargetFlexiSet {
		return int64(t.ValueMin)
	}
	return balance + int64(t.ValueMin)
}

// inLoc reinterprets a stored calendar date as midnight in the configured zone.
func (c *Calculator) inLoc(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, c.loc)
}

// weekDelta is the balance change of one completed week: its cached sum minus
// the weekly target, corrected by the day targets inside it.
func (c *Calculator) weekDelta(ws time.Time, sums map[string]models.Week) (int64, error) {
	var worked int64
	key := storage.DateKey(ws)
	switch w, ok := sums[key]; {
	case !ok:
		logger.Debug("No stored week, counting zero worked time", "week", key)
	case w.SumMinutes == nil:
		_ = errors.Inconsistent("week %s has no cached sum", key)
	default:
		worked = int64(*w.SumMinutes)
	}

	adj, err := c.dayAdjustments(ws)
	if err != nil {
		return 0, err
	}
	return worked - int64(c.settings.WeeklyTargetMin) + adj, nil
}

// dayAdjustments converts the DAY_* targets of a week into a correction of the
// weekly target based delta.
func (c *Calculator) dayAdjustments(ws time.Time) (int64, error) {
	targets, err := c.store.GetTargets(ws, utils.AddDays(ws, 6))
	if err != nil {
		return 0, fmt.Errorf("failed to load day targets: %w", err)
	}

	var adj int64
	for i := range targets {
		t := targets[i]
		if !t.Kind.IsDayTarget() || t.Date == nil {
			continue
		}
		date := c.inLoc(*t.Date)
		base := c.defaultTarget(date)
		d := c.resolveWith(date, &t)

		switch d.DayType {
		case IgnoredDay:
			worked, err := c.Sum(date, utils.NextDay(date))
			if err != nil {
				return 0, err
			}
			adj += int64(base.Target - worked)
		default:
			adj += int64(base.Target - d.Target)
			if d.Grant {
				worked, err := c.Sum(date, utils.NextDay(date))
				if err != nil {
					return 0, err
				}
				if worked < d.Target {
					adj += int64(d.Target - worked)
				}
			}
		}
	}
	return adj, nil
}

// CurrentBalance is the balance at the start of this week plus the deltas of
// this week's days up to and including today.
func (c *Calculator) CurrentBalance() (timevalue.TimeValue, error) {
	return c.BalanceAt(c.Today())
}

// BalanceAt is the running balance at the end of day.
func (c *Calculator) BalanceAt(day time.Time) (timevalue.TimeValue, error) {
	if !c.settings.FlexiEnabled {
		return timevalue.Zero, nil
	}
	day = c.Day(day)
	ws := c.WeekOf(day)
	start, err := c.BalanceAtWeekStart(ws)
	if err != nil {
		return timevalue.Zero, err
	}

	total := int64(start)
	for d := ws; !d.After(day); d = utils.NextDay(d) {
		line, err := c.DayLine(d)
		if err != nil {
			return timevalue.Zero, err
		}
		total += int64(line.Flexi)
	}
	return c.clamp(total, "flexi balance at %s", storage.DateKey(day))
}

package calc

import (
	"fmt"
	"time"

	"github.com/julianstephens/punchcard/internal/errors"
	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/timevalue"
)

// DayType is how a date takes part in the target and flexi math.
type DayType int

const (
	WorkDay DayType = iota
	FreeDay
	// IgnoredDay keeps its worked time but contributes no flexi delta.
	IgnoredDay
)

func (d DayType) String() string {
	switch d {
	case WorkDay:
		return "work"
	case FreeDay:
		return "free"
	case IgnoredDay:
		return "ignored"
	}
	return fmt.Sprintf("day_type(%d)", int(d))
}

// TargetDecision is the resolved expectation for one date.
type TargetDecision struct {
	DayType DayType
	Target  timevalue.TimeValue
	// Grant raises the worked time of a completed day to Target.
	Grant bool
	// Kind is the applied day target, empty when the weekday default is used.
	Kind    models.TargetKind
	Comment string
}

// defaultTarget is the expectation from the weekday flags alone.
func (c *Calculator) defaultTarget(date time.Time) TargetDecision {
	if !c.settings.IsWorkDay(date.Weekday()) {
		return TargetDecision{DayType: FreeDay}
	}
	return TargetDecision{
		DayType: WorkDay,
		Target:  timevalue.FromMinutes(c.settings.NormalDayTargetMin()),
	}
}

// Resolve applies the day target stored for date, if any, on top of the weekday default.
func (c *Calculator) Resolve(date time.Time) (TargetDecision, error) {
	date = c.Day(date)
	t, err := c.store.GetDayTarget(date)
	if err != nil {
		return TargetDecision{}, fmt.Errorf("failed to load day target: %w", err)
	}
	return c.resolveWith(date, t), nil
}

func (c *Calculator) resolveWith(date time.Time, t *models.Target) TargetDecision {
	base := c.defaultTarget(date)
	if t == nil {
		return base
	}

	d := base
	d.Kind = t.Kind
	d.Comment = t.Comment
	switch t.Kind {
	case models.TargetDayIgnore:
		d.DayType = IgnoredDay
	case models.TargetDaySet:
		if t.ValueMin == 0 {
			d.DayType = FreeDay
			d.Target = timevalue.Zero
		} else {
			d.DayType = WorkDay
			d.Target = timevalue.FromMinutes(t.ValueMin)
		}
	case models.TargetDayGrant:
		if base.DayType == FreeDay {
			_ = errors.Inconsistent("%s target on free day %s", t.Kind, date.Format("2006-01-02"))
			d.Kind = ""
			return d
		}
		d.Target = timevalue.FromMinutes(c.settings.NormalDayTargetMin())
		// The day in progress is never granted early.
		d.Grant = date.Before(c.Today())
	default:
		_ = errors.Inconsistent("%s is not a day target (date %s)", t.Kind, date.Format("2006-01-02"))
		return base
	}
	return d
}

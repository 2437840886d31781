package storage

import (
	"time"

	"github.com/julianstephens/punchcard/internal/errors"
	"github.com/julianstephens/punchcard/internal/models"
)

// ValidateEvent rejects events that may not be written.
func ValidateEvent(e models.Event) error {
	if e.Time.IsZero() {
		return errors.Invalid("event has no timestamp")
	}
	if !e.Type.Persistable() {
		return errors.Invalid("event type %s cannot be stored", e.Type)
	}
	return nil
}

// ValidateTarget rejects targets with a missing or superfluous date.
func ValidateTarget(t models.Target) error {
	if _, err := models.ParseTargetKind(string(t.Kind)); err != nil {
		return errors.Invalid("%v", err)
	}
	if t.Kind.IsDayTarget() && t.Date == nil {
		return errors.Invalid("%s target needs a date", t.Kind)
	}
	if t.Kind == models.TargetDaySet && t.ValueMin < 0 {
		return errors.Invalid("%s value must not be negative", t.Kind)
	}
	return nil
}

// DateKey formats the calendar date of t as stored in date columns.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDateKey is the inverse of DateKey; dates come back as UTC midnight.
func ParseDateKey(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// DayBounds returns [day 00:00, next day 00:00) in day's location.
func DayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, day.Location())
}

// WeekBounds returns [weekStart 00:00, +7 days) in weekStart's location.
func WeekBounds(weekStart time.Time) (time.Time, time.Time) {
	start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())
	return start, time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day()+7, 0, 0, 0, 0, weekStart.Location())
}

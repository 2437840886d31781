package validation

import (
	"fmt"
	"time"

	"github.com/julianstephens/punchcard/internal/constants"
	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/storage"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictLeadingClockOut ConflictType = "leading_clock_out"
	ConflictDoubleClockOut  ConflictType = "double_clock_out"
	ConflictMissingTaskID   ConflictType = "missing_task_id"
	ConflictFutureEvent     ConflictType = "future_event"
	ConflictLongSession     ConflictType = "long_session"
	ConflictUncomputedWeek  ConflictType = "uncomputed_week"
	ConflictStaleWeek       ConflictType = "stale_week"
)

// Conflict is one anomaly found in the event log or the week cache
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	EventIDs    []string // events involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns the number of conflicts of type t
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

func (vr *ValidationResult) add(t ConflictType, date time.Time, ids []string, format string, args ...interface{}) {
	vr.Conflicts = append(vr.Conflicts, Conflict{
		Type:        t,
		Description: fmt.Sprintf(format, args...),
		Date:        storage.DateKey(date),
		EventIDs:    ids,
	})
}

// Validator checks a stored log for entries the calculations tolerate but that
// usually point at a mistake.
type Validator struct {
	now time.Time
	loc *time.Location
}

// New creates a Validator evaluating at now in loc
func New(now time.Time, loc *time.Location) *Validator {
	return &Validator{now: now, loc: loc}
}

// ValidateEvents checks a time-ordered event list against the known tasks.
func (v *Validator) ValidateEvents(events []models.Event, tasks []models.Task) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	known := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		known[t.ID] = true
	}

	var prev *models.Event
	var open *models.Event
	for i := range events {
		e := &events[i]
		at := e.Time.In(v.loc)

		if e.TaskID != "" && !known[e.TaskID] {
			result.add(ConflictMissingTaskID, at, []string{e.ID},
				"Event %s at %s references unknown task %s", e.ID, at.Format(constants.DateTimeFormat), e.TaskID)
		}
		if e.Time.After(v.now) {
			result.add(ConflictFutureEvent, at, []string{e.ID},
				"Event %s is in the future (%s)", e.ID, at.Format(constants.DateTimeFormat))
		}

		switch e.Type {
		case models.ClockIn:
			if open == nil {
				open = e
			}
		case models.ClockOut:
			switch {
			case prev == nil:
				result.add(ConflictLeadingClockOut, at, []string{e.ID},
					"First event %s at %s is a clock-out", e.ID, at.Format(constants.DateTimeFormat))
			case prev.Type == models.ClockOut:
				result.add(ConflictDoubleClockOut, at, []string{prev.ID, e.ID},
					"Clock-out at %s follows another clock-out at %s", at.Format(constants.DateTimeFormat), prev.Time.In(v.loc).Format(constants.DateTimeFormat))
			}
			if open != nil {
				v.checkSession(&result, open, e.Time)
				open = nil
			}
		}
		prev = e
	}
	if open != nil && open.Time.Before(v.now) {
		v.checkSession(&result, open, v.now)
	}
	return result
}

func (v *Validator) checkSession(result *ValidationResult, in *models.Event, end time.Time) {
	if d := end.Sub(in.Time); d > constants.LongSession {
		at := in.Time.In(v.loc)
		result.add(ConflictLongSession, at, []string{in.ID},
			"Session starting %s lasts %s; a clock-out may be missing", at.Format(constants.DateTimeFormat), d.Truncate(time.Minute))
	}
}

// ValidateWeeks checks the cached week sums.
func (v *Validator) ValidateWeeks(weeks []models.Week) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	for _, w := range weeks {
		start := w.StartIn(v.loc)
		switch {
		case w.SumMinutes == nil:
			result.add(ConflictUncomputedWeek, start, nil, "Week %s has no computed sum", storage.DateKey(start))
		case w.Stale(v.now, v.loc):
			result.add(ConflictStaleWeek, start, nil, "Week %s was computed before it ended", storage.DateKey(start))
		}
	}
	return result
}

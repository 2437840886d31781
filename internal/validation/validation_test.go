package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/punchcard/internal/models"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 3, day, hour, minute, 0, 0, time.UTC)
}

func TestValidateEvents_CleanLog(t *testing.T) {
	v := New(at(6, 12, 0), time.UTC)
	tasks := []models.Task{{ID: "t1", Name: "Dev"}}
	events := []models.Event{
		{ID: "1", Time: at(4, 8, 0), Type: models.ClockIn, TaskID: "t1"},
		{ID: "2", Time: at(4, 12, 0), Type: models.ClockIn},
		{ID: "3", Time: at(4, 17, 0), Type: models.ClockOut},
		{ID: "4", Time: at(6, 9, 0), Type: models.ClockIn},
	}

	result := v.ValidateEvents(events, tasks)
	if result.HasConflicts() {
		t.Errorf("expected no conflicts, got: %s", result.FormatReport())
	}
}

func TestValidateEvents_Conflicts(t *testing.T) {
	v := New(at(6, 12, 0), time.UTC)
	events := []models.Event{
		{ID: "1", Time: at(3, 18, 0), Type: models.ClockOut},
		{ID: "2", Time: at(4, 8, 0), Type: models.ClockIn, TaskID: "gone"},
		{ID: "3", Time: at(5, 9, 0), Type: models.ClockOut},
		{ID: "4", Time: at(5, 10, 0), Type: models.ClockOut},
		{ID: "5", Time: at(7, 8, 0), Type: models.ClockIn},
	}

	result := v.ValidateEvents(events, nil)

	tests := []struct {
		typ  ConflictType
		want int
	}{
		{ConflictLeadingClockOut, 1},
		{ConflictMissingTaskID, 1},
		{ConflictDoubleClockOut, 1},
		{ConflictLongSession, 1},
		{ConflictFutureEvent, 1},
	}
	for _, tt := range tests {
		if got := result.Count(tt.typ); got != tt.want {
			t.Errorf("Count(%s) = %d, want %d\n%s", tt.typ, got, tt.want, result.FormatReport())
		}
	}
}

func TestValidateEvents_OpenSession(t *testing.T) {
	events := []models.Event{{ID: "1", Time: at(4, 8, 0), Type: models.ClockIn}}

	if r := New(at(4, 20, 0), time.UTC).ValidateEvents(events, nil); r.HasConflicts() {
		t.Errorf("12h open session flagged: %s", r.FormatReport())
	}
	r := New(at(5, 9, 0), time.UTC).ValidateEvents(events, nil)
	if r.Count(ConflictLongSession) != 1 {
		t.Errorf("expected long open session, got: %s", r.FormatReport())
	}
	if !strings.Contains(r.Conflicts[0].Description, "25h0m0s") {
		t.Errorf("unexpected description %q", r.Conflicts[0].Description)
	}
}

func TestValidateWeeks(t *testing.T) {
	v := New(at(20, 9, 0), time.UTC)
	sum := 2400
	weeks := []models.Week{
		{Start: at(4, 0, 0), SumMinutes: &sum, ComputedAt: at(12, 0, 0)},
		{Start: at(11, 0, 0), SumMinutes: &sum, ComputedAt: at(15, 17, 0)},
		{Start: at(18, 0, 0)},
	}

	result := v.ValidateWeeks(weeks)
	if result.Count(ConflictStaleWeek) != 1 || result.Count(ConflictUncomputedWeek) != 1 {
		t.Errorf("unexpected result: %s", result.FormatReport())
	}
	if result.Conflicts[0].Date != "2024-03-11" {
		t.Errorf("stale week date = %s, want 2024-03-11", result.Conflicts[0].Date)
	}
}

func TestFormatReport_Empty(t *testing.T) {
	var r ValidationResult
	if got := r.FormatReport(); got != "No conflicts detected." {
		t.Errorf("FormatReport() = %q", got)
	}
}

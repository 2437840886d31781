package events

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/punchcard/internal/cli"
	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/storage/memory"
	"github.com/julianstephens/punchcard/internal/tracker"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := memory.NewStore("")
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	settings := models.DefaultSettings()
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	now := time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC)
	out := &bytes.Buffer{}
	return &cli.Context{
		Store:   store,
		Tracker: tracker.New(store, func() time.Time { return now }),
		Out:     out,
	}, out
}

func listAll(t *testing.T, ctx *cli.Context) []models.Event {
	t.Helper()
	events, err := ctx.Store.GetEventsInRange(time.Time{}, time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	return events
}

func TestEventAddCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&EventAddCmd{Type: "in", At: "2024-03-04 08:00", Note: "forgot"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := (&EventAddCmd{Type: "out", At: "12:15"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	events := listAll(t, ctx)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if !events[0].Time.Equal(time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)) || events[0].Note != "forgot" {
		t.Errorf("first event = %+v", events[0])
	}
	// A bare time means today
	if !events[1].Time.Equal(time.Date(2024, 3, 5, 12, 15, 0, 0, time.UTC)) {
		t.Errorf("second event at %v, want 2024-03-05 12:15", events[1].Time)
	}
	if !strings.Contains(out.String(), "Added clock_in at 2024-03-04 08:00") {
		t.Errorf("unexpected output: %q", out.String())
	}

	w, err := ctx.Store.GetWeek(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	if err != nil || w == nil || w.SumMinutes == nil {
		t.Fatalf("expected week row, got %+v, %v", w, err)
	}
	if *w.SumMinutes != 28*60+15 {
		t.Errorf("week sum = %d, want %d", *w.SumMinutes, 28*60+15)
	}
}

func TestEventAddCmd_Invalid(t *testing.T) {
	ctx, _ := setupTestContext(t)

	tests := []struct {
		name string
		cmd  EventAddCmd
	}{
		{"bad type", EventAddCmd{Type: "pause", At: "08:00"}},
		{"bad time", EventAddCmd{Type: "in", At: "8 o'clock"}},
		{"unknown task", EventAddCmd{Type: "in", At: "08:00", Task: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected error")
			}
		})
	}
	if n := len(listAll(t, ctx)); n != 0 {
		t.Errorf("expected no events, got %d", n)
	}
}

func TestEventEditCmd(t *testing.T) {
	ctx, _ := setupTestContext(t)
	e, err := ctx.Tracker.AddEvent(ctx.Background(), models.Event{Time: time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC), Type: models.ClockIn, Note: "old"})
	if err != nil {
		t.Fatalf("failed to add event: %v", err)
	}

	note := "new"
	if err := (&EventEditCmd{ID: e.ID, At: "2024-03-04 07:30", Note: &note}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	got, err := ctx.Store.GetEvent(e.ID)
	if err != nil {
		t.Fatalf("failed to get event: %v", err)
	}
	if !got.Time.Equal(time.Date(2024, 3, 4, 7, 30, 0, 0, time.UTC)) || got.Note != "new" || got.Type != models.ClockIn {
		t.Errorf("edited event = %+v", got)
	}

	if err := (&EventEditCmd{ID: "missing"}).Run(ctx); err == nil {
		t.Error("expected error for missing event")
	}
}

func TestEventDeleteCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	e, err := ctx.Tracker.AddEvent(ctx.Background(), models.Event{Time: time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC), Type: models.ClockIn})
	if err != nil {
		t.Fatalf("failed to add event: %v", err)
	}

	ctx.Confirm = func(string) (bool, error) { return false, nil }
	if err := (&EventDeleteCmd{ID: e.ID}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out.String(), "Cancelled") || len(listAll(t, ctx)) != 1 {
		t.Fatalf("declined delete removed the event")
	}

	if err := (&EventDeleteCmd{ID: e.ID, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if n := len(listAll(t, ctx)); n != 0 {
		t.Errorf("expected no events, got %d", n)
	}
}

func TestEventListCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	for _, at := range []time.Time{
		time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC),
	} {
		if _, err := ctx.Store.InsertEvent(models.Event{Time: at, Type: models.ClockIn}); err != nil {
			t.Fatalf("failed to insert event: %v", err)
		}
	}

	if err := (&EventListCmd{From: "2024-03-04"}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "2024-03-04 08:00") || strings.Contains(got, "2024-03-05 08:00") {
		t.Errorf("expected only the 4th:\n%s", got)
	}

	out.Reset()
	if err := (&EventListCmd{From: "2024-03-04", To: "2024-03-05"}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "2024-03-05 08:00") {
		t.Errorf("expected both days:\n%s", out.String())
	}

	out.Reset()
	if err := (&EventListCmd{From: "2024-01-01"}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No events found") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

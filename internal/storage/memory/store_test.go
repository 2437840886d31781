package memory

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/storage"
)

func at(h, m int) time.Time {
	return time.Date(2024, 3, 4, h, m, 0, 0, time.UTC)
}

func TestLoadWithoutData(t *testing.T) {
	if err := NewStore("").Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
	if err := NewStore(filepath.Join(t.TempDir(), "missing.json")).Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load(missing file) error = %v, want ErrNotInitialized", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "punchcard.json")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	task, err := store.AddTask(models.Task{Name: "review", Active: true, IsDefault: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.InsertEvent(models.Event{Time: at(8, 0), Type: models.ClockIn, TaskID: task.ID}); err != nil {
		t.Fatal(err)
	}
	sum := 480
	if _, err := store.InsertWeek(models.Week{Start: at(0, 0), SumMinutes: &sum}); err != nil {
		t.Fatal(err)
	}

	reloaded := NewStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	events, err := reloaded.GetEventsOnDay(at(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].TaskID != task.ID {
		t.Errorf("events = %+v", events)
	}
	w, err := reloaded.GetWeek(at(0, 0))
	if err != nil || w == nil || *w.SumMinutes != 480 {
		t.Errorf("GetWeek() = %+v, %v", w, err)
	}
	if def, _ := reloaded.GetDefaultTask(); def == nil || def.ID != task.ID {
		t.Errorf("GetDefaultTask() = %+v", def)
	}
}

func TestEventsOrderedWithClockInFirstOnTies(t *testing.T) {
	store := NewStore("")
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	for _, e := range []models.Event{
		{Time: at(12, 0), Type: models.ClockOut},
		{Time: at(12, 0), Type: models.ClockIn},
		{Time: at(8, 0), Type: models.ClockIn},
	} {
		if _, err := store.InsertEvent(e); err != nil {
			t.Fatal(err)
		}
	}

	events, _ := store.GetEventsOnDay(at(0, 0))
	want := []models.EventType{models.ClockIn, models.ClockIn, models.ClockOut}
	for i, e := range events {
		if e.Type != want[i] {
			t.Errorf("event %d = %s, want %s", i, e.Type, want[i])
		}
	}

	last, _ := store.GetLastEventAtOrBefore(at(12, 0))
	if last == nil || last.Type != models.ClockOut {
		t.Errorf("GetLastEventAtOrBefore() = %+v", last)
	}
	if _, err := store.InsertEvent(models.Event{Time: at(13, 0), Type: models.ClockOutNow}); err == nil {
		t.Error("InsertEvent() should reject CLOCK_OUT_NOW")
	}
}

func TestRunInTxDiscardsOnError(t *testing.T) {
	store := NewStore("")
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")

	err := store.RunInTx(func(tx storage.Provider) error {
		if _, err := tx.InsertEvent(models.Event{Time: at(8, 0), Type: models.ClockIn}); err != nil {
			t.Fatal(err)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("RunInTx() error = %v", err)
	}
	if events, _ := store.GetEventsOnDay(at(0, 0)); len(events) != 0 {
		t.Errorf("rolled back events = %+v", events)
	}
}

package settings

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/punchcard/internal/cli"
	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/storage/sqlite"
	"github.com/julianstephens/punchcard/internal/tracker"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	out := &bytes.Buffer{}
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	ctx := &cli.Context{
		Store:   store,
		Tracker: tracker.New(store, func() time.Time { return now }),
		Out:     out,
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return ctx, out, cleanup
}

func TestSettingsShowCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&SettingsShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("settings show failed: %v", err)
	}
	for _, want := range []string{"weekly_target", "40:00", "work_days", "mon,tue,wed,thu,fri", "auto_pause_begin", "12:00"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestSettingsSetCmd(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(models.Settings) bool
	}{
		{"weekly target", "weekly_target", "38:30", false, func(s models.Settings) bool { return s.WeeklyTargetMin == 38*60+30 }},
		{"work days", "work_days", "mon,tue,wed,thu", false, func(s models.Settings) bool { return s.WorkDayCount() == 4 && !s.WorkDays[time.Friday] }},
		{"distribute", "distribute_flexi_reduction", "true", false, func(s models.Settings) bool { return s.DistributeFlexi }},
		{"flexi start date", "flexi_start_date", "2024-01-01", false, func(s models.Settings) bool { return s.FlexiStartDate != nil }},
		{"unknown key", "colour", "blue", true, nil},
		{"bad time", "auto_pause_begin", "25:00", true, nil},
		{"bad timezone", "timezone", "Mars/Olympus", true, nil},
		{"negative target", "weekly_target", "-1:00", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _, cleanup := setupTestDB(t)
			defer cleanup()

			err := (&SettingsSetCmd{Key: tt.key, Value: tt.value}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check == nil {
				return
			}
			settings, err := ctx.Store.GetSettings()
			if err != nil {
				t.Fatalf("failed to get settings: %v", err)
			}
			if !tt.check(settings) {
				t.Errorf("setting %s not applied: %+v", tt.key, settings)
			}
		})
	}
}

func TestSettingsSetCmd_RecomputesWeeks(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := ctx.Tracker.AddEvent(ctx.Background(), models.Event{Time: time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC), Type: models.ClockIn}); err != nil {
		t.Fatalf("failed to add event: %v", err)
	}
	if _, err := ctx.Tracker.AddEvent(ctx.Background(), models.Event{Time: time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC), Type: models.ClockOut}); err != nil {
		t.Fatalf("failed to add event: %v", err)
	}

	out.Reset()
	if err := (&SettingsSetCmd{Key: "auto_pause_enabled", Value: "true"}).Run(ctx); err != nil {
		t.Fatalf("settings set failed: %v", err)
	}
	if !strings.Contains(out.String(), "Recomputed 3 week(s)") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

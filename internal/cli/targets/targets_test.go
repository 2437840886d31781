package targets

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

	now := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
	out := &bytes.Buffer{}
	return &cli.Context{
		Store:   store,
		Tracker: tracker.New(store, func() time.Time { return now }),
		Out:     out,
	}, out
}

func TestTargetSetCmd(t *testing.T) {
	tests := []struct {
		name    string
		cmd     TargetSetCmd
		wantErr bool
		wantMin int
	}{
		{name: "day set", cmd: TargetSetCmd{Kind: "day_set", Date: "2024-03-08", Value: "4:00"}, wantMin: 240},
		{name: "day ignore", cmd: TargetSetCmd{Kind: "day_ignore", Date: "2024-03-08", Comment: "sick"}},
		{name: "flexi add dateless", cmd: TargetSetCmd{Kind: "flexi_add", Value: "-1:30"}, wantMin: -90},
		{name: "day set without value", cmd: TargetSetCmd{Kind: "day_set", Date: "2024-03-08"}, wantErr: true},
		{name: "day grant with value", cmd: TargetSetCmd{Kind: "day_grant", Date: "2024-03-08", Value: "1:00"}, wantErr: true},
		{name: "day target without date", cmd: TargetSetCmd{Kind: "day_ignore"}, wantErr: true},
		{name: "unknown kind", cmd: TargetSetCmd{Kind: "week_set", Value: "1:00"}, wantErr: true},
		{name: "bad value", cmd: TargetSetCmd{Kind: "flexi_set", Value: "1:75"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestContext(t)
			err := tt.cmd.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			var got *models.Target
			if tt.cmd.Date != "" {
				got, err = ctx.Store.GetDayTarget(time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC))
			} else {
				flexi, ferr := ctx.Store.GetFlexiTargets()
				if len(flexi) == 1 {
					got = &flexi[0]
				}
				err = ferr
			}
			if err != nil || got == nil {
				t.Fatalf("target not stored: %v", err)
			}
			if string(got.Kind) != tt.cmd.Kind || got.ValueMin != tt.wantMin || got.Comment != tt.cmd.Comment {
				t.Errorf("stored target = %+v", got)
			}
		})
	}
}

func TestTargetSetCmd_ReplacesDayTarget(t *testing.T) {
	ctx, _ := setupTestContext(t)

	if err := (&TargetSetCmd{Kind: "day_set", Date: "2024-03-08", Value: "4:00"}).Run(ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := (&TargetSetCmd{Kind: "day_grant", Date: "2024-03-08"}).Run(ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	day := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	list, err := ctx.Store.GetTargets(day, day)
	if err != nil {
		t.Fatalf("failed to list targets: %v", err)
	}
	if len(list) != 1 || list[0].Kind != models.TargetDayGrant {
		t.Errorf("expected a single day_grant, got %+v", list)
	}
}

func TestTargetListAndClear(t *testing.T) {
	ctx, out := setupTestContext(t)

	for _, cmd := range []TargetSetCmd{
		{Kind: "day_ignore", Date: "2024-03-08", Comment: "doctor"},
		{Kind: "day_set", Date: "2024-04-02", Value: "0"},
		{Kind: "flexi_set", Value: "10:00", Comment: "opening balance"},
	} {
		if err := cmd.Run(ctx); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}

	out.Reset()
	if err := (&TargetListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"doctor", "opening balance", "10:00"} {
		if !strings.Contains(got, want) {
			t.Errorf("list missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "2024-04-02") {
		t.Errorf("list should stop at the end of March:\n%s", got)
	}

	if err := (&TargetClearCmd{Date: "2024-03-08", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if tg, _ := ctx.Store.GetDayTarget(time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)); tg != nil {
		t.Errorf("day target still present: %+v", tg)
	}

	out.Reset()
	if err := (&TargetClearCmd{Date: "2024-03-08", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if !strings.Contains(out.String(), "No day target") {
		t.Errorf("unexpected output: %q", out.String())
	}

	if err := (&TargetClearCmd{ID: "missing", Yes: true}).Run(ctx); err == nil {
		t.Error("expected error for unknown target")
	}
}

func TestTargetClearCmd_Validate(t *testing.T) {
	if err := (&TargetClearCmd{}).Validate(); err == nil {
		t.Error("expected error without ID or date")
	}
	if err := (&TargetClearCmd{ID: "x", Date: "2024-03-08"}).Validate(); err == nil {
		t.Error("expected error with both ID and date")
	}
}

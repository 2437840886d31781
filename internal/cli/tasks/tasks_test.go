package tasks

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/punchcard/internal/cli"
	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := cli.NewContext(store)
	ctx.Out = out

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return ctx, out, cleanup
}

func TestTaskAddAndList(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&TaskAddCmd{Name: "Meetings"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := (&TaskAddCmd{Name: "Archive", Inactive: true}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	out.Reset()
	if err := (&TaskListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "Meetings") || strings.Contains(got, "Archive") {
		t.Errorf("expected only active tasks:\n%s", got)
	}

	out.Reset()
	if err := (&TaskListCmd{All: true}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "Archive") || !strings.Contains(got, "inactive") {
		t.Errorf("expected inactive task listed:\n%s", got)
	}
}

func TestTaskAddCmd_Validate(t *testing.T) {
	if err := (&TaskAddCmd{Name: "  "}).Validate(); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestTaskDefaultCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	a, _ := ctx.Store.AddTask(models.Task{Name: "A", Active: true, IsDefault: true})
	b, _ := ctx.Store.AddTask(models.Task{Name: "B", Active: true})

	if err := (&TaskDefaultCmd{Task: "b"}).Run(ctx); err != nil {
		t.Fatalf("default failed: %v", err)
	}
	def, err := ctx.Store.GetDefaultTask()
	if err != nil || def == nil || def.ID != b.ID {
		t.Fatalf("default task = %+v, want %s", def, b.ID)
	}
	if got, _ := ctx.Store.GetTask(a.ID); got.IsDefault {
		t.Error("previous default still marked")
	}

	out.Reset()
	if err := (&TaskDefaultCmd{}).Run(ctx); err != nil {
		t.Fatalf("default show failed: %v", err)
	}
	if !strings.Contains(out.String(), "Default task: B") {
		t.Errorf("unexpected output: %q", out.String())
	}

	if err := (&TaskDefaultCmd{Clear: true}).Run(ctx); err != nil {
		t.Fatalf("default clear failed: %v", err)
	}
	if def, _ := ctx.Store.GetDefaultTask(); def != nil {
		t.Errorf("expected no default task, got %+v", def)
	}
}

func TestTaskDefaultCmd_Inactive(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := ctx.Store.AddTask(models.Task{Name: "Old"}); err != nil {
		t.Fatalf("failed to add task: %v", err)
	}
	if err := (&TaskDefaultCmd{Task: "Old"}).Run(ctx); err == nil {
		t.Error("expected error for inactive task")
	}
}

func TestTaskEditCmd(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	task, _ := ctx.Store.AddTask(models.Task{Name: "Dev", Active: true, IsDefault: true})
	name := "Development"
	if err := (&TaskEditCmd{Task: task.ID, Name: &name, Inactive: true}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	got, err := ctx.Store.GetTask(task.ID)
	if err != nil {
		t.Fatalf("failed to get task: %v", err)
	}
	if got.Name != "Development" || got.Active || got.IsDefault {
		t.Errorf("edited task = %+v", got)
	}
}

func TestTaskDeleteCmd(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	free, _ := ctx.Store.AddTask(models.Task{Name: "Free", Active: true})
	used, _ := ctx.Store.AddTask(models.Task{Name: "Used", Active: true})
	if _, err := ctx.Store.InsertEvent(models.Event{Time: time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC), Type: models.ClockIn, TaskID: used.ID}); err != nil {
		t.Fatalf("failed to insert event: %v", err)
	}

	if err := (&TaskDeleteCmd{Task: "Used", Yes: true}).Run(ctx); err == nil {
		t.Error("expected error deleting a task with events")
	}

	if err := (&TaskDeleteCmd{Task: free.ID, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := ctx.Store.GetTask(free.ID); err == nil {
		t.Error("task still exists after delete")
	}
}

package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/punchcard/internal/autopause"
	"github.com/julianstephens/punchcard/internal/cli"
	"github.com/julianstephens/punchcard/internal/utils"
	"github.com/julianstephens/punchcard/internal/validation"
)

type schemaVersioner interface {
	SchemaVersion() (current, latest int, err error)
}

type DoctorCmd struct{}

type check struct {
	name     string
	run      func(ctx *cli.Context) error
	needsDB  bool
	critical bool
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable, critical: true},
	{name: "Schema version", run: checkSchemaVersion, needsDB: true, critical: true},
	{name: "Settings", run: checkSettings, needsDB: true, critical: true},
	{name: "Event log", run: checkEventLog, needsDB: true},
	{name: "Week cache", run: checkWeekCache, needsDB: true},
	{name: "Clock/timezone", run: checkClockTimezone, critical: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.critical:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Database reachable" {
				dbReachable = false
			}
		default:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sv, ok := ctx.Store.(schemaVersioner)
	if !ok {
		// The JSON file store has no schema
		return nil
	}
	current, latest, err := sv.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if _, err := utils.LoadLocation(settings.Timezone); err != nil {
		return fmt.Errorf("timezone %q cannot be loaded: %w", settings.Timezone, err)
	}
	if _, err := autopause.FromSettings(settings); err != nil {
		return err
	}
	if settings.WorkDayCount() == 0 && settings.WeeklyTargetMin > 0 {
		return fmt.Errorf("weekly target is set but no work days are configured")
	}
	return nil
}

func logResult(ctx *cli.Context) (validation.ValidationResult, error) {
	engine, err := ctx.Calculator()
	if err != nil {
		return validation.ValidationResult{}, err
	}
	v := validation.New(engine.Now(), engine.Location())

	events, err := ctx.Store.GetEventsInRange(time.Time{}, time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to load events: %w", err)
	}
	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to load tasks: %w", err)
	}
	return v.ValidateEvents(events, tasks), nil
}

func weekResult(ctx *cli.Context) (validation.ValidationResult, error) {
	engine, err := ctx.Calculator()
	if err != nil {
		return validation.ValidationResult{}, err
	}
	weeks, err := ctx.Store.GetWeeksUpTo(engine.Today())
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to load weeks: %w", err)
	}
	return validation.New(engine.Now(), engine.Location()).ValidateWeeks(weeks), nil
}

func checkEventLog(ctx *cli.Context) error {
	result, err := logResult(ctx)
	if err != nil {
		return err
	}
	if result.HasConflicts() {
		return fmt.Errorf("%d issue(s) found - run 'punchcard validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkWeekCache(ctx *cli.Context) error {
	result, err := weekResult(ctx)
	if err != nil {
		return err
	}
	if result.HasConflicts() {
		return fmt.Errorf("%d week(s) need recomputing - run 'punchcard recompute --stale'", len(result.Conflicts))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

type ValidateCmd struct {
	Fix bool `help:"Recompute stale or missing week sums."`
}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	events, err := logResult(ctx)
	if err != nil {
		return err
	}
	weeks, err := weekResult(ctx)
	if err != nil {
		return err
	}

	all := validation.ValidationResult{Conflicts: append(events.Conflicts, weeks.Conflicts...)}
	ctx.Print(all.FormatReport())
	if !all.HasConflicts() {
		ctx.Println()
	}

	if cmd.Fix && weeks.HasConflicts() {
		n, err := ctx.Tracker.RefreshWeeks(ctx.Background())
		if err != nil {
			return fmt.Errorf("failed to recompute weeks: %w", err)
		}
		ctx.Printf("Recomputed %d week(s).\n", n)
	}
	return nil
}

package tracking

import (
	"fmt"
	"time"

	"github.com/julianstephens/punchcard/internal/cli"
	"github.com/julianstephens/punchcard/internal/constants"
	"github.com/julianstephens/punchcard/internal/models"
)

type InCmd struct {
	Task    string `short:"t" help:"Task ID or name. Defaults to the default task."`
	Note    string `short:"n" help:"Note stored on the clock-in."`
	Predate int    `short:"p" help:"Clock in this many minutes ago." default:"0"`
}

func (c *InCmd) Run(ctx *cli.Context) error {
	taskID := ""
	if c.Task != "" {
		task, err := cli.FindTask(ctx.Store, c.Task)
		if err != nil {
			return err
		}
		taskID = task.ID
	}

	e, err := ctx.Tracker.StartTracking(ctx.Background(), c.Predate, taskID, c.Note)
	if err != nil {
		return fmt.Errorf("failed to clock in: %w", err)
	}

	ctx.Printf("✓ Clocked in at %s%s\n", e.Time.Format(constants.TimeFormat), taskSuffix(ctx, e.TaskID))
	return nil
}

type OutCmd struct {
	Predate int `short:"p" help:"Clock out this many minutes ago." default:"0"`
}

func (c *OutCmd) Run(ctx *cli.Context) error {
	events, err := ctx.Tracker.StopTracking(ctx.Background(), c.Predate)
	if err != nil {
		return fmt.Errorf("failed to clock out: %w", err)
	}
	if len(events) == 0 {
		ctx.Println("Not clocked in.")
		return nil
	}

	for _, e := range events[:len(events)-1] {
		if e.Type == models.ClockOut {
			ctx.Printf("  Auto-pause %s", e.Time.Format(constants.TimeFormat))
		} else {
			ctx.Printf("-%s\n", e.Time.Format(constants.TimeFormat))
		}
	}
	out := events[len(events)-1]
	ctx.Printf("✓ Clocked out at %s\n", out.Time.Format(constants.TimeFormat))
	return nil
}

func taskSuffix(ctx *cli.Context, taskID string) string {
	if taskID == "" {
		return ""
	}
	task, err := ctx.Store.GetTask(taskID)
	if err != nil {
		return ""
	}
	return fmt.Sprintf(" on %s", task.Name)
}

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	engine, err := ctx.Calculator()
	if err != nil {
		return err
	}
	open, err := ctx.Tracker.Current(ctx.Background())
	if err != nil {
		return err
	}

	if open == nil {
		ctx.Println("Status: clocked out")
	} else {
		since := engine.Now().Sub(open.Time).Truncate(time.Minute)
		ctx.Printf("Status: clocked in since %s (%s)%s\n",
			open.Time.Format(constants.DateTimeFormat), formatSince(since), taskSuffix(ctx, open.TaskID))
		if open.Note != "" {
			ctx.Printf("Note:   %s\n", open.Note)
		}
	}

	line, err := engine.DayLine(engine.Today())
	if err != nil {
		return err
	}
	rem, err := engine.Remaining()
	if err != nil {
		return err
	}

	rows := [][]string{
		{"Worked today", line.Worked.String()},
		{"Target today", rem.TodayTarget.String()},
		{"Left today", rem.Today.String()},
		{"Left this week", rem.Week.String()},
	}
	if engine.Settings().FlexiEnabled {
		balance, err := engine.CurrentBalance()
		if err != nil {
			return err
		}
		if rem.Reduction > 0 {
			rows = append(rows, []string{"Flexi reduction", rem.Reduction.String()})
		}
		rows = append(rows, []string{"Flexi balance", cli.Balance(balance)})
	}
	ctx.Println(cli.Table([]string{"", ""}, rows))
	return nil
}

func formatSince(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}

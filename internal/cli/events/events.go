package events

import (
	"errors"
	"fmt"

	"github.com/julianstephens/punchcard/internal/cli"
	"github.com/julianstephens/punchcard/internal/constants"
	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/storage"
	"github.com/julianstephens/punchcard/internal/utils"
)

type EventListCmd struct {
	From string `help:"First day (YYYY-MM-DD). Defaults to today."`
	To   string `help:"Last day (YYYY-MM-DD). Defaults to --from."`
}

func (c *EventListCmd) Run(ctx *cli.Context) error {
	engine, err := ctx.Calculator()
	if err != nil {
		return err
	}
	from, err := cli.ParseDate(engine, c.From)
	if err != nil {
		return err
	}
	to := from
	if c.To != "" {
		if to, err = cli.ParseDate(engine, c.To); err != nil {
			return err
		}
	}

	events, err := ctx.Store.GetEventsInRange(from, utils.NextDay(to))
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}
	if len(events) == 0 {
		ctx.Println("No events found.")
		return nil
	}
	names, err := cli.TaskNames(ctx.Store)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{e.ID, e.Time.Format(constants.DateTimeFormat), e.Type.String(), names[e.TaskID], e.Note})
	}
	ctx.Println(cli.Table([]string{"ID", "Time", "Type", "Task", "Note"}, rows))
	return nil
}

type EventAddCmd struct {
	Type string `arg:"" enum:"in,out,clock_in,clock_out" help:"Event type (in or out)."`
	At   string `arg:"" help:"Timestamp, \"YYYY-MM-DD HH:MM\" or \"HH:MM\" for today."`
	Task string `short:"t" help:"Task ID or name."`
	Note string `short:"n" help:"Note."`
}

func (c *EventAddCmd) Run(ctx *cli.Context) error {
	engine, err := ctx.Calculator()
	if err != nil {
		return err
	}
	typ, err := models.ParseEventType(c.Type)
	if err != nil {
		return err
	}
	at, err := cli.ParseTimestamp(engine, c.At)
	if err != nil {
		return err
	}

	e := models.Event{Time: at, Type: typ, Note: c.Note}
	if c.Task != "" {
		task, err := cli.FindTask(ctx.Store, c.Task)
		if err != nil {
			return err
		}
		e.TaskID = task.ID
	}

	saved, err := ctx.Tracker.AddEvent(ctx.Background(), e)
	if err != nil {
		return fmt.Errorf("failed to add event: %w", err)
	}
	ctx.Printf("✓ Added %s at %s (ID: %s)\n", saved.Type, saved.Time.Format(constants.DateTimeFormat), saved.ID)
	return nil
}

type EventEditCmd struct {
	ID   string  `arg:"" help:"Event ID."`
	At   string  `help:"New timestamp, \"YYYY-MM-DD HH:MM\" or \"HH:MM\" for today."`
	Type string  `help:"New type (in or out)."`
	Task *string `short:"t" help:"New task ID or name; empty clears the task."`
	Note *string `short:"n" help:"New note."`
}

func (c *EventEditCmd) Run(ctx *cli.Context) error {
	engine, err := ctx.Calculator()
	if err != nil {
		return err
	}
	e, err := ctx.Store.GetEvent(c.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("event %s not found", c.ID)
		}
		return err
	}

	if c.At != "" {
		if e.Time, err = cli.ParseTimestamp(engine, c.At); err != nil {
			return err
		}
	}
	if c.Type != "" {
		if e.Type, err = models.ParseEventType(c.Type); err != nil {
			return err
		}
	}
	if c.Task != nil {
		e.TaskID = ""
		if *c.Task != "" {
			task, err := cli.FindTask(ctx.Store, *c.Task)
			if err != nil {
				return err
			}
			e.TaskID = task.ID
		}
	}
	if c.Note != nil {
		e.Note = *c.Note
	}

	if err := ctx.Tracker.UpdateEvent(ctx.Background(), e); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	ctx.Printf("✓ Updated event %s: %s at %s\n", e.ID, e.Type, e.Time.Format(constants.DateTimeFormat))
	return nil
}

type EventDeleteCmd struct {
	ID  string `arg:"" help:"Event ID."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *EventDeleteCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Store.GetEvent(c.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("event %s not found", c.ID)
		}
		return err
	}

	ok, err := ctx.AskConfirm(fmt.Sprintf("Delete %s at %s?", e.Type, e.Time.Format(constants.DateTimeFormat)), c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Cancelled.")
		return nil
	}

	if _, err := ctx.Tracker.DeleteEvent(ctx.Background(), c.ID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	ctx.Printf("✓ Deleted event %s\n", c.ID)
	return nil
}

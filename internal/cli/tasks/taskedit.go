package tasks

import (
	"fmt"
	"strings"

	"github.com/julianstephens/punchcard/internal/cli"
)

type TaskEditCmd struct {
	Task     string  `arg:"" help:"Task ID or name."`
	Name     *string `help:"New name."`
	Active   bool    `help:"Mark the task active." xor:"state"`
	Inactive bool    `help:"Mark the task inactive." xor:"state"`
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	task, err := cli.FindTask(ctx.Store, c.Task)
	if err != nil {
		return err
	}

	if c.Name != nil {
		name := strings.TrimSpace(*c.Name)
		if name == "" {
			return fmt.Errorf("task name cannot be empty")
		}
		task.Name = name
	}
	switch {
	case c.Active:
		task.Active = true
	case c.Inactive:
		task.Active = false
		task.IsDefault = false
	}

	if err := ctx.Store.UpdateTask(task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	ctx.Printf("Updated task: %s (ID: %s)\n", task.Name, task.ID)
	return nil
}

type TaskDefaultCmd struct {
	Task  string `arg:"" optional:"" help:"Task ID or name to make the default."`
	Clear bool   `help:"Unset the default task."`
}

func (c *TaskDefaultCmd) Run(ctx *cli.Context) error {
	if c.Clear {
		def, err := ctx.Store.GetDefaultTask()
		if err != nil {
			return err
		}
		if def == nil {
			ctx.Println("No default task set.")
			return nil
		}
		def.IsDefault = false
		if err := ctx.Store.UpdateTask(*def); err != nil {
			return fmt.Errorf("failed to clear default task: %w", err)
		}
		ctx.Printf("Cleared default task %s\n", def.Name)
		return nil
	}

	if c.Task == "" {
		def, err := ctx.Store.GetDefaultTask()
		if err != nil {
			return err
		}
		if def == nil {
			ctx.Println("No default task set.")
		} else {
			ctx.Printf("Default task: %s (ID: %s)\n", def.Name, def.ID)
		}
		return nil
	}

	task, err := cli.FindTask(ctx.Store, c.Task)
	if err != nil {
		return err
	}
	if !task.Active {
		return fmt.Errorf("task %q is inactive", task.Name)
	}
	task.IsDefault = true
	if err := ctx.Store.UpdateTask(task); err != nil {
		return fmt.Errorf("failed to set default task: %w", err)
	}
	ctx.Printf("Default task: %s (ID: %s)\n", task.Name, task.ID)
	return nil
}

package tasks

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/punchcard/internal/cli"
	"github.com/julianstephens/punchcard/internal/models"
)

type TaskAddCmd struct {
	Name     string `arg:"" help:"Task name."`
	Default  bool   `short:"d" help:"Use this task when clocking in without --task."`
	Inactive bool   `help:"Create the task inactive."`
}

func (c *TaskAddCmd) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("task name cannot be empty")
	}
	return nil
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	task := models.Task{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(c.Name),
		Active:    !c.Inactive,
		IsDefault: c.Default,
	}
	saved, err := ctx.Store.AddTask(task)
	if err != nil {
		return err
	}
	ctx.Printf("Added task: %s (ID: %s)\n", saved.Name, saved.ID)
	return nil
}

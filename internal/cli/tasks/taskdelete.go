package tasks

import (
	"errors"
	"fmt"

	"github.com/julianstephens/punchcard/internal/cli"
	"github.com/julianstephens/punchcard/internal/storage"
)

type TaskDeleteCmd struct {
	Task string `arg:"" help:"Task ID or name to delete."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	task, err := cli.FindTask(ctx.Store, c.Task)
	if err != nil {
		return fmt.Errorf("failed to find task %s: %w", c.Task, err)
	}

	ok, err := ctx.AskConfirm(fmt.Sprintf("Delete task %q?", task.Name), c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Cancelled.")
		return nil
	}

	if err := ctx.Store.DeleteTask(task.ID); err != nil {
		if errors.Is(err, storage.ErrTaskInUse) {
			return fmt.Errorf("task %q still has events; deactivate it with 'task edit --inactive' instead", task.Name)
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	ctx.Printf("Deleted task: %s (ID: %s)\n", task.Name, task.ID)
	return nil
}

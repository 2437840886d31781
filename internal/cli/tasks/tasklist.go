package tasks

import (
	"github.com/julianstephens/punchcard/internal/cli"
)

type TaskListCmd struct {
	All bool `short:"a" help:"Include inactive tasks."`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		if !t.Active && !c.All {
			continue
		}
		flags := ""
		if t.IsDefault {
			flags = "default"
		}
		if !t.Active {
			flags = "inactive"
		}
		rows = append(rows, []string{t.ID, t.Name, flags})
	}
	if len(rows) == 0 {
		ctx.Println("No tasks found.")
		return nil
	}
	ctx.Println(cli.Table([]string{"ID", "Name", ""}, rows))
	return nil
}

package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/punchcard/internal/cli"
	"github.com/julianstephens/punchcard/internal/storage/postgres"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing database before initialization."`
	Yes   bool `short:"y" help:"Skip the confirmation prompt for --force."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if _, ok := ctx.Store.(*postgres.Store); ok {
			return fmt.Errorf("--force only resets SQLite databases")
		}
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			ok, err := ctx.AskConfirm(fmt.Sprintf("Delete all data in %s?", dbPath), c.Yes)
			if err != nil {
				return err
			}
			if !ok {
				ctx.Println("Cancelled.")
				return nil
			}
			// Close first to release the file lock
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized punchcard storage at: %s\n", cli.DisplayLocation(ctx.Store.GetConfigPath()))
	return nil
}

package system

import (
	"fmt"

	"github.com/julianstephens/punchcard/internal/cli"
)

type RecomputeCmd struct {
	Stale bool `help:"Only refresh weeks cached before they ended."`
}

func (c *RecomputeCmd) Run(ctx *cli.Context) error {
	recompute := ctx.Tracker.RecomputeAll
	if c.Stale {
		recompute = ctx.Tracker.RefreshWeeks
	}
	n, err := recompute(ctx.Background())
	if err != nil {
		return fmt.Errorf("failed to recompute weeks: %w", err)
	}
	ctx.Printf("Recomputed %d week(s).\n", n)
	return nil
}

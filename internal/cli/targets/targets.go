package targets

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/punchcard/internal/cli"
	"github.com/julianstephens/punchcard/internal/constants"
	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/storage"
	"github.com/julianstephens/punchcard/internal/timevalue"
)

type TargetSetCmd struct {
	Kind    string `arg:"" enum:"day_ignore,day_set,day_grant,flexi_set,flexi_add" help:"Target kind (day_ignore, day_set, day_grant, flexi_set, flexi_add)."`
	Date    string `short:"d" help:"Date (YYYY-MM-DD). Required for day targets, optional for flexi targets."`
	Value   string `short:"v" help:"Duration as H:MM. Required for day_set and flexi targets."`
	Comment string `short:"c" help:"Comment shown in day and week views."`
}

func (c *TargetSetCmd) Run(ctx *cli.Context) error {
	kind, err := models.ParseTargetKind(c.Kind)
	if err != nil {
		return err
	}
	t := models.Target{Kind: kind, Comment: c.Comment}

	if c.Date != "" {
		engine, err := ctx.Calculator()
		if err != nil {
			return err
		}
		d, err := cli.ParseDate(engine, c.Date)
		if err != nil {
			return err
		}
		t.Date = &d
	}

	switch kind {
	case models.TargetDaySet, models.TargetFlexiSet, models.TargetFlexiAdd:
		if c.Value == "" {
			return fmt.Errorf("%s needs --value", kind)
		}
		v, err := timevalue.Parse(c.Value)
		if err != nil {
			return err
		}
		t.ValueMin = v.Minutes()
	default:
		if c.Value != "" {
			return fmt.Errorf("%s does not take a value", kind)
		}
	}

	saved, err := ctx.Store.SetTarget(t)
	if err != nil {
		return fmt.Errorf("failed to set target: %w", err)
	}
	ctx.Println(cli.Table(cli.TargetHeaders, cli.TargetRows([]models.Target{saved})))
	return nil
}

type TargetClearCmd struct {
	ID   string `arg:"" optional:"" help:"Target ID."`
	Date string `short:"d" help:"Clear the day target on this date (YYYY-MM-DD) instead."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *TargetClearCmd) Validate() error {
	if (c.ID == "") == (c.Date == "") {
		return fmt.Errorf("give either a target ID or --date")
	}
	return nil
}

func (c *TargetClearCmd) Run(ctx *cli.Context) error {
	id := c.ID
	label := id
	if c.Date != "" {
		engine, err := ctx.Calculator()
		if err != nil {
			return err
		}
		d, err := cli.ParseDate(engine, c.Date)
		if err != nil {
			return err
		}
		t, err := ctx.Store.GetDayTarget(d)
		if err != nil {
			return err
		}
		if t == nil {
			ctx.Printf("No day target on %s.\n", d.Format(constants.DateFormat))
			return nil
		}
		id = t.ID
		label = fmt.Sprintf("%s on %s", t.Kind, d.Format(constants.DateFormat))
	}

	ok, err := ctx.AskConfirm(fmt.Sprintf("Clear target %s?", label), c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Cancelled.")
		return nil
	}

	if err := ctx.Store.DeleteTarget(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("target %s not found", id)
		}
		return err
	}
	ctx.Printf("Cleared target %s\n", label)
	return nil
}

type TargetListCmd struct {
	From string `help:"First day (YYYY-MM-DD). Defaults to the first of the current month."`
	To   string `help:"Last day (YYYY-MM-DD). Defaults to the end of --from's month."`
}

func (c *TargetListCmd) Run(ctx *cli.Context) error {
	engine, err := ctx.Calculator()
	if err != nil {
		return err
	}
	today := engine.Today()
	from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, engine.Location())
	if c.From != "" {
		if from, err = cli.ParseDate(engine, c.From); err != nil {
			return err
		}
	}
	to := time.Date(from.Year(), from.Month()+1, 0, 0, 0, 0, 0, engine.Location())
	if c.To != "" {
		if to, err = cli.ParseDate(engine, c.To); err != nil {
			return err
		}
	}

	flexi, err := ctx.Store.GetFlexiTargets()
	if err != nil {
		return err
	}
	var list []models.Target
	for _, t := range flexi {
		if t.Date == nil {
			list = append(list, t)
		}
	}
	dated, err := ctx.Store.GetTargets(from, to)
	if err != nil {
		return err
	}
	list = append(list, dated...)

	if len(list) == 0 {
		ctx.Println("No targets found.")
		return nil
	}
	ctx.Println(cli.Table(cli.TargetHeaders, cli.TargetRows(list)))
	return nil
}

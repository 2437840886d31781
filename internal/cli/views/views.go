package views

import (
	"fmt"
	"time"

	"github.com/julianstephens/punchcard/internal/calc"
	"github.com/julianstephens/punchcard/internal/cli"
	"github.com/julianstephens/punchcard/internal/constants"
	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/report"
)

var dayHeaders = []string{"Date", "In", "Out", "Worked", "Target", "Flexi", "Note"}

func dayRow(line calc.DayLine) []string {
	out := cli.Clock(line.TimeOut)
	if line.Open {
		out += "…"
	}
	note := ""
	switch {
	case line.Decision.Kind != "":
		note = string(line.Decision.Kind)
		if line.Decision.Comment != "" {
			note += ": " + line.Decision.Comment
		}
	case line.Decision.DayType == calc.FreeDay:
		note = "free"
	}
	if line.Granted > 0 {
		note += fmt.Sprintf(" (+%s granted)", line.Granted)
	}
	return []string{
		line.Date.Format("Mon " + constants.DateFormat),
		cli.Clock(line.TimeIn),
		out,
		line.Worked.String(),
		line.Decision.Target.String(),
		cli.Balance(line.Flexi),
		note,
	}
}

type DayCmd struct {
	Date string `arg:"" optional:"" help:"Day to show (YYYY-MM-DD). Defaults to today."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	engine, err := ctx.Calculator()
	if err != nil {
		return err
	}
	day, err := cli.ParseDate(engine, c.Date)
	if err != nil {
		return err
	}

	line, err := engine.DayLine(day)
	if err != nil {
		return err
	}
	ctx.Println(cli.Table(dayHeaders, [][]string{dayRow(line)}))

	events, err := ctx.Store.GetEventsOnDay(day)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}
	if len(events) == 0 {
		return nil
	}
	names, err := cli.TaskNames(ctx.Store)
	if err != nil {
		return err
	}
	ctx.Println(cli.Table([]string{"Time", "Type", "Task", "Note"}, eventRows(events, names)))
	return nil
}

func eventRows(events []models.Event, names map[string]string) [][]string {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{e.Time.Format(constants.TimeFormat), e.Type.String(), names[e.TaskID], e.Note})
	}
	return rows
}

type WeekCmd struct {
	Date string `arg:"" optional:"" help:"Any day of the week to show (YYYY-MM-DD). Defaults to today."`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	engine, err := ctx.Calculator()
	if err != nil {
		return err
	}
	day, err := cli.ParseDate(engine, c.Date)
	if err != nil {
		return err
	}

	week, err := engine.Week(day)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(week.Days)+1)
	for _, line := range week.Days {
		rows = append(rows, dayRow(line))
	}
	rows = append(rows, []string{"Total", "", "", week.Worked.String(), week.Target.String(), cli.Balance(week.Flexi), ""})

	_, isoWeek := week.Start.ISOWeek()
	ctx.Println(cli.HeaderStyle.Render(fmt.Sprintf("Week %d, starting %s", isoWeek, week.Start.Format(constants.DateFormat))))
	ctx.Println(cli.Table(dayHeaders, rows))
	if engine.Settings().FlexiEnabled {
		ctx.Printf("Flexi balance: %s → %s\n", cli.Balance(week.BalanceStart), cli.Balance(week.BalanceEnd))
	}
	return nil
}

type FlexiCmd struct{}

func (c *FlexiCmd) Run(ctx *cli.Context) error {
	engine, err := ctx.Calculator()
	if err != nil {
		return err
	}
	if !engine.Settings().FlexiEnabled {
		ctx.Println("Flexi time is disabled.")
		return nil
	}

	ws := engine.WeekOf(engine.Today())
	start, err := engine.BalanceAtWeekStart(ws)
	if err != nil {
		return err
	}
	current, err := engine.CurrentBalance()
	if err != nil {
		return err
	}
	rem, err := engine.Remaining()
	if err != nil {
		return err
	}

	rows := [][]string{
		{"Balance at week start", cli.Balance(start)},
		{"Balance now", cli.Balance(current)},
		{"Reduction today", rem.Reduction.String()},
	}
	ctx.Println(cli.Table([]string{"Flexi", "Value"}, rows))

	targets, err := ctx.Store.GetFlexiTargets()
	if err != nil {
		return fmt.Errorf("failed to load flexi targets: %w", err)
	}
	if len(targets) > 0 {
		ctx.Println(cli.Table(cli.TargetHeaders, cli.TargetRows(targets)))
	}
	return nil
}

type ReportCmd struct {
	From string `help:"First day (YYYY-MM-DD). Defaults to the first of the current month."`
	To   string `help:"Last day (YYYY-MM-DD). Defaults to today."`
	Days bool   `help:"List every day instead of one row per week."`
}

func (c *ReportCmd) Run(ctx *cli.Context) error {
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
	to, err := cli.ParseDate(engine, c.To)
	if err != nil {
		return err
	}

	r, err := report.Build(ctx.Background(), engine, from, to)
	if err != nil {
		return err
	}

	ctx.Println(cli.HeaderStyle.Render(fmt.Sprintf("Report %s to %s", r.From.Format(constants.DateFormat), r.To.Format(constants.DateFormat))))
	if c.Days {
		var rows [][]string
		for _, w := range r.Weeks {
			for _, line := range w.Days {
				rows = append(rows, dayRow(line))
			}
		}
		ctx.Println(cli.Table(dayHeaders, rows))
	} else {
		rows := make([][]string, 0, len(r.Weeks))
		for _, w := range r.Weeks {
			_, isoWeek := w.Start.ISOWeek()
			rows = append(rows, []string{
				fmt.Sprintf("%d", isoWeek),
				w.Start.Format(constants.DateFormat),
				w.Worked.String(),
				w.Target.String(),
				cli.Balance(w.Flexi),
			})
		}
		ctx.Println(cli.Table([]string{"Week", "Start", "Worked", "Target", "Flexi"}, rows))
	}

	ctx.Printf("Worked %s (%s h) on %d days, target %s, flexi %s\n",
		r.Worked, r.Worked.Decimal(), r.DaysWorked, r.Target, cli.Balance(r.Flexi))
	if engine.Settings().FlexiEnabled {
		ctx.Printf("Balance at %s: %s\n", r.To.Format(constants.DateFormat), cli.Balance(r.Balance))
	}
	return nil
}

package cli

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/punchcard/internal/constants"
	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/timevalue"
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	MutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Table renders rows under headers with a rounded border.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(MutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle.Padding(0, 1)
			}
			return cellStyle
		})
	return t.Render()
}

// Balance colors a signed value green when positive and red when negative.
func Balance(v timevalue.TimeValue) string {
	switch {
	case v > 0:
		return positiveStyle.Render(v.Signed())
	case v < 0:
		return negativeStyle.Render(v.Signed())
	}
	return v.Signed()
}

// Clock formats an optional time of day, "-" when unset.
func Clock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(constants.TimeFormat)
}

var TargetHeaders = []string{"ID", "Date", "Kind", "Value", "Comment"}

func TargetRows(targets []models.Target) [][]string {
	rows := make([][]string, 0, len(targets))
	for _, t := range targets {
		date := "-"
		if t.Date != nil {
			date = t.Date.Format(constants.DateFormat)
		}
		rows = append(rows, []string{t.ID, date, string(t.Kind), timevalue.FromMinutes(t.ValueMin).String(), t.Comment})
	}
	return rows
}

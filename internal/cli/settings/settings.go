package settings

import (
	"fmt"
	"sort"

	"github.com/julianstephens/punchcard/internal/cli"
	"github.com/julianstephens/punchcard/internal/constants"
	"github.com/julianstephens/punchcard/internal/models"
)

// Changing these alters the worked minutes cached on week rows.
var recomputeKeys = map[string]bool{
	constants.SettingTimezone:         true,
	constants.SettingAutoPauseEnabled: true,
	constants.SettingAutoPauseBegin:   true,
	constants.SettingAutoPauseEnd:     true,
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	values := models.SettingsToMap(settings)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, values[k]})
	}
	ctx.Println(cli.Table([]string{"Setting", "Value"}, rows))
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting name (see 'settings show')."`
	Value string `arg:"" optional:"" help:"New value. Empty clears flexi_start_date."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := models.ApplySetting(&settings, c.Key, c.Value); err != nil {
		return err
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Printf("Set %s = %s\n", c.Key, models.SettingsToMap(settings)[c.Key])

	if recomputeKeys[c.Key] {
		n, err := ctx.Tracker.RecomputeAll(ctx.Background())
		if err != nil {
			return fmt.Errorf("failed to recompute weeks: %w", err)
		}
		ctx.Printf("Recomputed %d week(s).\n", n)
	}
	return nil
}

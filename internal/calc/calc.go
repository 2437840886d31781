// Package calc turns the stored event log into worked time, day lines and
// flexi balances. A Calculator reads through a storage.Provider on every call
// and keeps no entity state between calls, so it is safe for concurrent reads.
package calc

import (
	"fmt"
	"time"

	"github.com/julianstephens/punchcard/internal/autopause"
	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/storage"
	"github.com/julianstephens/punchcard/internal/utils"
)

// Clock returns the current instant.
type Clock func() time.Time

type Calculator struct {
	store    storage.Provider
	settings models.Settings
	pause    *autopause.Resolver
	loc      *time.Location
	clock    Clock
}

// New builds a calculator over store with the given preferences. A nil clock uses time.Now.
func New(store storage.Provider, settings models.Settings, clock Clock) (*Calculator, error) {
	pause, err := autopause.FromSettings(settings)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = time.Now
	}
	return &Calculator{
		store:    store,
		settings: settings,
		pause:    pause,
		loc:      settings.Location(),
		clock:    clock,
	}, nil
}

// Load reads the preferences from store and builds a calculator.
func Load(store storage.Provider, clock Clock) (*Calculator, error) {
	settings, err := store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return New(store, settings, clock)
}

func (c *Calculator) Settings() models.Settings { return c.settings }

func (c *Calculator) Location() *time.Location { return c.loc }

func (c *Calculator) AutoPause() *autopause.Resolver { return c.pause }

// Now is the clock reading truncated to the minute, in the configured zone.
func (c *Calculator) Now() time.Time {
	return c.clock().In(c.loc).Truncate(time.Minute)
}

// Today is midnight of the current day.
func (c *Calculator) Today() time.Time {
	return utils.StartOfDay(c.Now(), c.loc)
}

// Day normalizes t to midnight of its calendar day in the configured zone.
func (c *Calculator) Day(t time.Time) time.Time {
	return utils.StartOfDay(t, c.loc)
}

// WeekOf returns midnight of the Monday starting t's week.
func (c *Calculator) WeekOf(t time.Time) time.Time {
	return utils.WeekStart(t, c.loc)
}

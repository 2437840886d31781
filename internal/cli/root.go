package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/punchcard/internal/calc"
	"github.com/julianstephens/punchcard/internal/keyring"
	"github.com/julianstephens/punchcard/internal/logger"
	"github.com/julianstephens/punchcard/internal/storage"
	"github.com/julianstephens/punchcard/internal/tracker"
	"github.com/julianstephens/punchcard/internal/utils"
)

type Context struct {
	Store   storage.Provider
	Tracker *tracker.Manager
	// Out receives command output; nil means stdout.
	Out io.Writer
	// Confirm asks a yes/no question; nil uses an interactive huh prompt.
	Confirm func(title string) (bool, error)
}

// NewContext wires a tracker to store using the wall clock.
func NewContext(store storage.Provider) *Context {
	return &Context{
		Store:   store,
		Tracker: tracker.New(store, time.Now),
	}
}

func (c *Context) Background() context.Context {
	return context.Background()
}

func (c *Context) writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.writer(), format, args...)
}

func (c *Context) Print(args ...interface{}) {
	fmt.Fprint(c.writer(), args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.writer(), args...)
}

// Calculator returns a calculator over the current settings.
func (c *Context) Calculator() (*calc.Calculator, error) {
	return c.Tracker.Calculator()
}

// AskConfirm returns true without prompting when yes is set.
func (c *Context) AskConfirm(title string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if c.Confirm != nil {
		return c.Confirm(title)
	}
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return ok, nil
}

// RefreshStaleWeeks recomputes week sums cached while the week was still
// running. Failures are logged and never interrupt the command.
func (c *Context) RefreshStaleWeeks() {
	if _, err := c.Tracker.RefreshWeeks(c.Background()); err != nil {
		logger.Warn("Refreshing stale weeks failed", "error", err)
	}
}

// ParseDate parses YYYY-MM-DD in the calculator's timezone. An empty string means today.
func ParseDate(c *calc.Calculator, s string) (time.Time, error) {
	if s == "" {
		return c.Today(), nil
	}
	d, err := utils.ParseDateInLocation(s, c.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// ParseTimestamp parses "YYYY-MM-DD HH:MM" or "HH:MM" (today) in the calculator's timezone.
func ParseTimestamp(c *calc.Calculator, s string) (time.Time, error) {
	return utils.ParseDateTimeInLocation(s, c.Now(), c.Location())
}

// DisplayLocation masks the password of a connection string and leaves paths alone.
func DisplayLocation(loc string) string {
	return keyring.Mask(loc)
}

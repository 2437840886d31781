// Package tracker owns the clocked-in state and every write to the event log.
// Each mutation and the recomputation of the week sums it affects run in one
// storage transaction, serialized by the Manager.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/punchcard/internal/calc"
	"github.com/julianstephens/punchcard/internal/errors"
	"github.com/julianstephens/punchcard/internal/logger"
	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/storage"
)

type Manager struct {
	mu    sync.Mutex
	store storage.Provider
	clock calc.Clock
}

// New returns a manager writing through store. A nil clock uses time.Now.
func New(store storage.Provider, clock calc.Clock) *Manager {
	if clock == nil {
		clock = time.Now
	}
	return &Manager{store: store, clock: clock}
}

// Calculator returns a read-side calculator sharing the manager's clock.
func (m *Manager) Calculator() (*calc.Calculator, error) {
	return calc.Load(m.store, m.clock)
}

// mutate runs fn in a transaction under the manager lock with a calculator bound to it.
func (m *Manager) mutate(ctx context.Context, fn func(tx storage.Provider, c *calc.Calculator) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.store.RunInTx(func(tx storage.Provider) error {
		c, err := calc.Load(tx, m.clock)
		if err != nil {
			return err
		}
		return fn(tx, c)
	})
}

// Current returns the open CLOCK_IN, or nil when clocked out. It is derived from
// the log on every call.
func (m *Manager) Current(ctx context.Context) (*models.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := m.Calculator()
	if err != nil {
		return nil, err
	}
	return current(m.store, c.Now())
}

func current(p storage.Provider, now time.Time) (*models.Event, error) {
	last, err := p.GetLastEventAtOrBefore(now)
	if err != nil {
		return nil, fmt.Errorf("failed to load last event: %w", err)
	}
	if last == nil || last.Type != models.ClockIn {
		return nil, nil
	}
	return last, nil
}

// IsTracking is true iff the latest event at or before now is a CLOCK_IN.
func (m *Manager) IsTracking(ctx context.Context) (bool, error) {
	e, err := m.Current(ctx)
	return e != nil, err
}

func predateTime(now time.Time, predateMin int) (time.Time, error) {
	if predateMin < 0 {
		return time.Time{}, errors.Invalid("predate must not be negative, got %d", predateMin)
	}
	return now.Add(-time.Duration(predateMin) * time.Minute), nil
}

// resolveTask returns the task to clock in on: taskID when given, else the default task.
func resolveTask(p storage.Provider, taskID string) (string, error) {
	if taskID == "" {
		def, err := p.GetDefaultTask()
		if err != nil {
			return "", fmt.Errorf("failed to load default task: %w", err)
		}
		if def == nil {
			return "", nil
		}
		return def.ID, nil
	}
	task, err := p.GetTask(taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", errors.Invalid("task %s does not exist", taskID)
		}
		return "", err
	}
	if !task.Active {
		return "", errors.Invalid("task %q is inactive", task.Name)
	}
	return task.ID, nil
}

// StartTracking clocks in predateMin minutes before now. Clocking in again on
// the open task only updates its note; another task starts a new session
// segment (task switch).
func (m *Manager) StartTracking(ctx context.Context, predateMin int, taskID, note string) (models.Event, error) {
	var result models.Event
	err := m.mutate(ctx, func(tx storage.Provider, c *calc.Calculator) error {
		now := c.Now()
		at, err := predateTime(now, predateMin)
		if err != nil {
			return err
		}
		if taskID, err = resolveTask(tx, taskID); err != nil {
			return err
		}

		last, err := tx.GetLastEventAtOrBefore(now)
		if err != nil {
			return fmt.Errorf("failed to load last event: %w", err)
		}
		// A clock-in on the instant of the last clock-out would sort before it
		// and be lost, so such clock-outs are withdrawn and the session resumes.
		resumed := false
		for last != nil && last.Type == models.ClockOut && last.Time.Equal(at) {
			if _, err := tx.DeleteEvent(last.ID); err != nil {
				return fmt.Errorf("failed to withdraw clock-out: %w", err)
			}
			logger.Info("Resumed session", "withdrawn", last.ID, "at", at)
			resumed = true
			if last, err = tx.GetLastEventAtOrBefore(now); err != nil {
				return fmt.Errorf("failed to load last event: %w", err)
			}
		}
		if last != nil && last.Type == models.ClockIn && last.TaskID == taskID {
			last.Note = note
			if err := tx.UpdateEvent(*last); err != nil {
				return fmt.Errorf("failed to update note: %w", err)
			}
			result = *last
			logger.Info("Updated running session", "event", last.ID, "task", taskID)
			if resumed {
				return recompute(tx, c, at, at)
			}
			return nil
		}
		if last != nil && at.Before(last.Time) {
			return errors.Invalid("clock-in at %s would precede the last event at %s", at.Format(time.RFC3339), last.Time.Format(time.RFC3339))
		}

		result, err = tx.InsertEvent(models.Event{Time: at, Type: models.ClockIn, TaskID: taskID, Note: note})
		if err != nil {
			return fmt.Errorf("failed to insert clock-in: %w", err)
		}
		logger.Info("Clocked in", "at", at, "task", taskID)
		return recompute(tx, c, at, at)
	})
	if err != nil {
		return models.Event{}, err
	}
	return result, nil
}

// StopTracking clocks out predateMin minutes before now and returns the inserted
// events, including the auto-pause pair when it applies. It is a no-op returning
// nil when already clocked out.
func (m *Manager) StopTracking(ctx context.Context, predateMin int) ([]models.Event, error) {
	var inserted []models.Event
	err := m.mutate(ctx, func(tx storage.Provider, c *calc.Calculator) error {
		now := c.Now()
		at, err := predateTime(now, predateMin)
		if err != nil {
			return err
		}
		open, err := current(tx, now)
		if err != nil || open == nil {
			return err
		}
		if at.Before(open.Time) {
			return errors.Invalid("clock-out at %s would precede the clock-in at %s", at.Format(time.RFC3339), open.Time.Format(time.RFC3339))
		}

		// The whole session changes, including weeks cached while it was running.
		earliest := open.Time
		pause := c.AutoPause()
		if pause.IsApplicable(at, open, at) {
			begin, end := pause.Interval(at)
			for _, e := range []models.Event{
				{Time: begin, Type: models.ClockOut, TaskID: open.TaskID, Note: open.Note},
				{Time: end, Type: models.ClockIn, TaskID: open.TaskID, Note: open.Note},
			} {
				saved, err := tx.InsertEvent(e)
				if err != nil {
					return fmt.Errorf("failed to insert auto-pause: %w", err)
				}
				inserted = append(inserted, saved)
			}
			logger.Info("Inserted auto-pause", "begin", begin, "end", end)
		}

		out, err := tx.InsertEvent(models.Event{Time: at, Type: models.ClockOut, TaskID: open.TaskID, Note: open.Note})
		if err != nil {
			return fmt.Errorf("failed to insert clock-out: %w", err)
		}
		inserted = append(inserted, out)
		logger.Info("Clocked out", "at", at)
		return recompute(tx, c, earliest, at)
	})
	if err != nil {
		return nil, err
	}
	return inserted, nil
}

func (m *Manager) validateEvent(tx storage.Provider, e *models.Event) error {
	if err := storage.ValidateEvent(*e); err != nil {
		return err
	}
	if e.TaskID != "" {
		if _, err := tx.GetTask(e.TaskID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return errors.Invalid("task %s does not exist", e.TaskID)
			}
			return err
		}
	}
	return nil
}

// AddEvent stores a manually entered event.
func (m *Manager) AddEvent(ctx context.Context, e models.Event) (models.Event, error) {
	var saved models.Event
	err := m.mutate(ctx, func(tx storage.Provider, c *calc.Calculator) error {
		if err := m.validateEvent(tx, &e); err != nil {
			return err
		}
		var err error
		if saved, err = tx.InsertEvent(e); err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
		return recompute(tx, c, e.Time, e.Time)
	})
	return saved, err
}

// UpdateEvent rewrites a stored event and recomputes both its old and new weeks.
func (m *Manager) UpdateEvent(ctx context.Context, e models.Event) error {
	return m.mutate(ctx, func(tx storage.Provider, c *calc.Calculator) error {
		if e.ID == "" {
			return errors.Invalid("event id is required")
		}
		if err := m.validateEvent(tx, &e); err != nil {
			return err
		}
		old, err := tx.GetEvent(e.ID)
		if err != nil {
			return err
		}
		if err := tx.UpdateEvent(e); err != nil {
			return fmt.Errorf("failed to update event: %w", err)
		}
		earliest, latest := old.Time, e.Time
		if latest.Before(earliest) {
			earliest, latest = latest, earliest
		}
		return recompute(tx, c, earliest, latest)
	})
}

// DeleteEvent removes an event and reports whether it existed.
func (m *Manager) DeleteEvent(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := m.mutate(ctx, func(tx storage.Provider, c *calc.Calculator) error {
		old, err := tx.GetEvent(id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil
			}
			return err
		}
		if deleted, err = tx.DeleteEvent(id); err != nil || !deleted {
			return err
		}
		return recompute(tx, c, old.Time, old.Time)
	})
	return deleted, err
}

package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/punchcard/internal/calc"
	"github.com/julianstephens/punchcard/internal/logger"
	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/storage"
	"github.com/julianstephens/punchcard/internal/utils"
)

// recompute rewrites the cached sums of every week a change in [earliest, latest]
// can affect: from the week of earliest through the week of the next event after
// latest, or the current week when the log ends there.
func recompute(tx storage.Provider, c *calc.Calculator, earliest, latest time.Time) error {
	from := c.WeekOf(earliest)
	until := c.WeekOf(c.Now())

	next, err := tx.GetFirstEventAfter(latest)
	if err != nil {
		return fmt.Errorf("failed to load next event: %w", err)
	}
	if next != nil {
		until = c.WeekOf(next.Time)
	}
	if w := c.WeekOf(latest); w.After(until) {
		until = w
	}

	n := 0
	for w := from; !w.After(until); w = utils.AddDays(w, 7) {
		if err := storeWeek(tx, c, w); err != nil {
			return err
		}
		n++
	}
	logger.Debug("Recomputed week sums", "from", storage.DateKey(from), "weeks", n)
	return nil
}

// storeWeek computes the sum of the week starting at ws and upserts its row.
func storeWeek(tx storage.Provider, c *calc.Calculator, ws time.Time) error {
	sum, err := c.WeekSum(ws)
	if err != nil {
		return err
	}
	minutes := sum.Minutes()

	existing, err := tx.GetWeek(ws)
	if err != nil {
		return fmt.Errorf("failed to load week %s: %w", storage.DateKey(ws), err)
	}
	if existing == nil {
		_, err = tx.InsertWeek(models.Week{Start: ws, SumMinutes: &minutes, ComputedAt: c.Now()})
	} else {
		existing.SumMinutes = &minutes
		existing.ComputedAt = c.Now()
		err = tx.UpdateWeek(*existing)
	}
	if err != nil {
		return fmt.Errorf("failed to store week %s: %w", storage.DateKey(ws), err)
	}
	return nil
}

// RefreshWeeks recomputes cached sums that were taken before their week ended,
// and sums that were never computed. It returns the number of weeks rewritten.
func (m *Manager) RefreshWeeks(ctx context.Context) (int, error) {
	n := 0
	err := m.mutate(ctx, func(tx storage.Provider, c *calc.Calculator) error {
		weeks, err := tx.GetWeeksUpTo(c.Now())
		if err != nil {
			return fmt.Errorf("failed to load weeks: %w", err)
		}
		for _, w := range weeks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if w.SumMinutes != nil && !w.Stale(c.Now(), c.Location()) {
				continue
			}
			if err := storeWeek(tx, c, w.StartIn(c.Location())); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info("Refreshed stale weeks", "count", n)
	}
	return n, nil
}

// RecomputeAll rebuilds every week from the first event through the current week.
func (m *Manager) RecomputeAll(ctx context.Context) (int, error) {
	n := 0
	err := m.mutate(ctx, func(tx storage.Provider, c *calc.Calculator) error {
		first, err := tx.GetFirstEventAfter(time.Time{})
		if err != nil {
			return fmt.Errorf("failed to load first event: %w", err)
		}
		if first == nil {
			return nil
		}
		until := c.WeekOf(c.Now())
		for w := c.WeekOf(first.Time); !w.After(until); w = utils.AddDays(w, 7) {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := storeWeek(tx, c, w); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

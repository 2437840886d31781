package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/storage"
)

const weekColumns = "id, start_date, sum_minutes, computed_at"

func scanWeek(scan func(dest ...any) error) (models.Week, error) {
	var (
		w          models.Week
		start      string
		sum        sql.NullInt64
		computedAt int64
	)
	if err := scan(&w.ID, &start, &sum, &computedAt); err != nil {
		return models.Week{}, err
	}
	d, err := storage.ParseDateKey(start)
	if err != nil {
		return models.Week{}, fmt.Errorf("week %d has malformed start %q: %w", w.ID, start, err)
	}
	w.Start = d
	if sum.Valid {
		v := int(sum.Int64)
		w.SumMinutes = &v
	}
	if computedAt > 0 {
		w.ComputedAt = time.UnixMilli(computedAt)
	}
	return w, nil
}

func sumArg(w models.Week) sql.NullInt64 {
	if w.SumMinutes == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*w.SumMinutes), Valid: true}
}

func computedArg(w models.Week) int64 {
	if w.ComputedAt.IsZero() {
		return 0
	}
	return w.ComputedAt.UnixMilli()
}

func (s *Store) GetWeek(start time.Time) (*models.Week, error) {
	w, err := scanWeek(s.queryRow("SELECT "+weekColumns+" FROM weeks WHERE start_date = ?", storage.DateKey(start)).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Store) InsertWeek(w models.Week) (models.Week, error) {
	err := s.queryRow("INSERT INTO weeks (start_date, sum_minutes, computed_at) VALUES (?, ?, ?) RETURNING id",
		storage.DateKey(w.Start), sumArg(w), computedArg(w)).Scan(&w.ID)
	if err != nil {
		return models.Week{}, fmt.Errorf("failed to insert week: %w", err)
	}
	return w, nil
}

func (s *Store) UpdateWeek(w models.Week) error {
	res, err := s.exec("UPDATE weeks SET sum_minutes = ?, computed_at = ? WHERE start_date = ?",
		sumArg(w), computedArg(w), storage.DateKey(w.Start))
	if err != nil {
		return fmt.Errorf("failed to update week: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("week %s: %w", storage.DateKey(w.Start), storage.ErrNotFound)
	}
	return nil
}

func (s *Store) GetWeeksUpTo(date time.Time) ([]models.Week, error) {
	rows, err := s.query("SELECT "+weekColumns+" FROM weeks WHERE start_date <= ? ORDER BY start_date", storage.DateKey(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var weeks []models.Week
	for rows.Next() {
		w, err := scanWeek(rows.Scan)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, w)
	}
	return weeks, rows.Err()
}

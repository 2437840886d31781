package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/storage"
)

const targetColumns = "id, target_date, kind, value_min, comment"

const dayKinds = "('day_ignore', 'day_set', 'day_grant')"

func scanTarget(scan func(dest ...any) error) (models.Target, error) {
	var (
		t    models.Target
		date sql.NullString
		kind string
	)
	if err := scan(&t.ID, &date, &kind, &t.ValueMin, &t.Comment); err != nil {
		return models.Target{}, err
	}
	k, err := models.ParseTargetKind(kind)
	if err != nil {
		return models.Target{}, err
	}
	t.Kind = k
	if date.Valid {
		d, err := storage.ParseDateKey(date.String)
		if err != nil {
			return models.Target{}, fmt.Errorf("target %s has malformed date %q: %w", t.ID, date.String, err)
		}
		t.Date = &d
	}
	return t, nil
}

func (s *Store) queryTargets(query string, args ...any) ([]models.Target, error) {
	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []models.Target
	for rows.Next() {
		t, err := scanTarget(rows.Scan)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

func (s *Store) GetDayTarget(date time.Time) (*models.Target, error) {
	t, err := scanTarget(s.queryRow(
		"SELECT "+targetColumns+" FROM targets WHERE target_date = ? AND kind IN "+dayKinds+" LIMIT 1",
		storage.DateKey(date)).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) GetTargets(start, end time.Time) ([]models.Target, error) {
	return s.queryTargets(
		"SELECT "+targetColumns+" FROM targets WHERE target_date >= ? AND target_date <= ? ORDER BY target_date, kind",
		storage.DateKey(start), storage.DateKey(end))
}

func (s *Store) GetFlexiTargets() ([]models.Target, error) {
	return s.queryTargets(
		"SELECT " + targetColumns + " FROM targets WHERE kind IN ('flexi_set', 'flexi_add') " +
			"ORDER BY CASE WHEN target_date IS NULL THEN 0 ELSE 1 END, target_date, id")
}

func (s *Store) SetTarget(t models.Target) (models.Target, error) {
	if err := storage.ValidateTarget(t); err != nil {
		return models.Target{}, err
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	var date sql.NullString
	if t.Date != nil {
		date = sql.NullString{String: storage.DateKey(*t.Date), Valid: true}
	}

	err := s.inTx(func(scoped *Store) error {
		if t.Kind.IsDayTarget() {
			if _, err := scoped.exec("DELETE FROM targets WHERE target_date = ? AND kind IN "+dayKinds, date); err != nil {
				return err
			}
		}
		_, err := scoped.exec(`
			INSERT INTO targets (id, target_date, kind, value_min, comment) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET target_date = excluded.target_date, kind = excluded.kind,
				value_min = excluded.value_min, comment = excluded.comment`,
			t.ID, date, string(t.Kind), t.ValueMin, t.Comment)
		return err
	})
	if err != nil {
		return models.Target{}, fmt.Errorf("failed to save target: %w", err)
	}
	return t, nil
}

func (s *Store) DeleteTarget(id string) error {
	res, err := s.exec("DELETE FROM targets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete target: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("target %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

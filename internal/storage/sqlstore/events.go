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

const eventColumns = "id, ts, type, task_id, note"

func scanEvent(scan func(dest ...any) error) (models.Event, error) {
	var (
		e      models.Event
		ts     int64
		typ    string
		taskID sql.NullString
	)
	if err := scan(&e.ID, &ts, &typ, &taskID, &e.Note); err != nil {
		return models.Event{}, err
	}
	t, err := models.ParseEventType(typ)
	if err != nil {
		return models.Event{}, err
	}
	e.Type = t
	e.Time = time.UnixMilli(ts)
	if taskID.Valid {
		e.TaskID = taskID.String
	}
	return e, nil
}

func (s *Store) queryEvents(query string, args ...any) ([]models.Event, error) {
	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) queryOneEvent(query string, args ...any) (*models.Event, error) {
	e, err := scanEvent(s.queryRow(query, args...).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) GetEvent(id string) (models.Event, error) {
	e, err := s.queryOneEvent("SELECT "+eventColumns+" FROM events WHERE id = ?", id)
	if err != nil {
		return models.Event{}, err
	}
	if e == nil {
		return models.Event{}, fmt.Errorf("event %s: %w", id, storage.ErrNotFound)
	}
	return *e, nil
}

// Ordered queries break timestamp ties by type: clock_in sorts before clock_out,
// so a zero length session closes cleanly. The tracker never writes a clock-in
// on the instant of a clock-out.
func (s *Store) GetEventsInRange(start, end time.Time) ([]models.Event, error) {
	return s.queryEvents("SELECT "+eventColumns+" FROM events WHERE ts >= ? AND ts < ? ORDER BY ts, type",
		start.UnixMilli(), end.UnixMilli())
}

func (s *Store) GetEventsOnDay(day time.Time) ([]models.Event, error) {
	return s.GetEventsInRange(storage.DayBounds(day))
}

func (s *Store) GetEventsInWeek(weekStart time.Time) ([]models.Event, error) {
	return s.GetEventsInRange(storage.WeekBounds(weekStart))
}

func (s *Store) GetLastEventBefore(t time.Time) (*models.Event, error) {
	return s.queryOneEvent("SELECT "+eventColumns+" FROM events WHERE ts < ? ORDER BY ts DESC, type DESC LIMIT 1",
		t.UnixMilli())
}

func (s *Store) GetLastEventAtOrBefore(t time.Time) (*models.Event, error) {
	return s.queryOneEvent("SELECT "+eventColumns+" FROM events WHERE ts <= ? ORDER BY ts DESC, type DESC LIMIT 1",
		t.UnixMilli())
}

func (s *Store) GetFirstEventAfter(t time.Time) (*models.Event, error) {
	return s.queryOneEvent("SELECT "+eventColumns+" FROM events WHERE ts > ? ORDER BY ts, type LIMIT 1",
		t.UnixMilli())
}

func (s *Store) InsertEvent(e models.Event) (models.Event, error) {
	if err := storage.ValidateEvent(e); err != nil {
		return models.Event{}, err
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	_, err := s.exec("INSERT INTO events (id, ts, type, task_id, note) VALUES (?, ?, ?, ?, ?)",
		e.ID, e.Time.UnixMilli(), e.Type.String(), nullable(e.TaskID), e.Note)
	if err != nil {
		return models.Event{}, fmt.Errorf("failed to insert event: %w", err)
	}
	e.Time = time.UnixMilli(e.Time.UnixMilli())
	return e, nil
}

func (s *Store) UpdateEvent(e models.Event) error {
	if err := storage.ValidateEvent(e); err != nil {
		return err
	}
	res, err := s.exec("UPDATE events SET ts = ?, type = ?, task_id = ?, note = ? WHERE id = ?",
		e.Time.UnixMilli(), e.Type.String(), nullable(e.TaskID), e.Note, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("event %s: %w", e.ID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteEvent(id string) (bool, error) {
	res, err := s.exec("DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

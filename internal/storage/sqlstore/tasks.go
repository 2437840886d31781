package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/storage"
)

const taskColumns = "id, name, active, is_default"

func scanTask(scan func(dest ...any) error) (models.Task, error) {
	var t models.Task
	err := scan(&t.ID, &t.Name, &t.Active, &t.IsDefault)
	return t, err
}

func (s *Store) AddTask(task models.Task) (models.Task, error) {
	if strings.TrimSpace(task.Name) == "" {
		return models.Task{}, fmt.Errorf("task name cannot be empty")
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	err := s.inTx(func(scoped *Store) error {
		if task.IsDefault {
			if _, err := scoped.exec("UPDATE tasks SET is_default = ?", false); err != nil {
				return err
			}
		}
		_, err := scoped.exec("INSERT INTO tasks (id, name, active, is_default) VALUES (?, ?, ?, ?)",
			task.ID, task.Name, task.Active, task.IsDefault)
		return err
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to add task: %w", err)
	}
	return task, nil
}

func (s *Store) GetTask(id string) (models.Task, error) {
	t, err := scanTask(s.queryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %s: %w", id, storage.ErrNotFound)
	}
	return t, err
}

func (s *Store) GetAllTasks() ([]models.Task, error) {
	rows, err := s.query("SELECT " + taskColumns + " FROM tasks ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) GetDefaultTask() (*models.Task, error) {
	t, err := scanTask(s.queryRow("SELECT "+taskColumns+" FROM tasks WHERE is_default = ? LIMIT 1", true).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) UpdateTask(task models.Task) error {
	return s.inTx(func(scoped *Store) error {
		if task.IsDefault {
			if _, err := scoped.exec("UPDATE tasks SET is_default = ? WHERE id <> ?", false, task.ID); err != nil {
				return err
			}
		}
		res, err := scoped.exec("UPDATE tasks SET name = ?, active = ?, is_default = ? WHERE id = ?",
			task.Name, task.Active, task.IsDefault, task.ID)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("task %s: %w", task.ID, storage.ErrNotFound)
		}
		return nil
	})
}

func (s *Store) DeleteTask(id string) error {
	return s.inTx(func(scoped *Store) error {
		var refs int
		if err := scoped.queryRow("SELECT count(*) FROM events WHERE task_id = ?", id).Scan(&refs); err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("task %s (%d events): %w", id, refs, storage.ErrTaskInUse)
		}
		res, err := scoped.exec("DELETE FROM tasks WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("task %s: %w", id, storage.ErrNotFound)
		}
		return nil
	})
}

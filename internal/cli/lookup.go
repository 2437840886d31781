package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/storage"
)

// FindTask resolves ref as a task ID first and then as a case-insensitive name.
func FindTask(store storage.Provider, ref string) (models.Task, error) {
	tasks, err := store.GetAllTasks()
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to load tasks: %w", err)
	}
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
	}
	var match []models.Task
	for _, t := range tasks {
		if strings.EqualFold(t.Name, ref) {
			match = append(match, t)
		}
	}
	switch len(match) {
	case 0:
		return models.Task{}, fmt.Errorf("task %q: %w", ref, storage.ErrNotFound)
	case 1:
		return match[0], nil
	}
	return models.Task{}, fmt.Errorf("task name %q is ambiguous, use the ID", ref)
}

// TaskNames maps task IDs to names for display.
func TaskNames(store storage.Provider) (map[string]string, error) {
	tasks, err := store.GetAllTasks()
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	names := make(map[string]string, len(tasks))
	for _, t := range tasks {
		names[t.ID] = t.Name
	}
	return names, nil
}

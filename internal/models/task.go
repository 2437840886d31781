package models

// Task is something worked on. Events may reference a task by ID.
type Task struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	IsDefault bool   `json:"is_default"`
}

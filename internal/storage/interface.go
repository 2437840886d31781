package storage

import (
	"errors"
	"time"

	"github.com/julianstephens/punchcard/internal/models"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTaskInUse is returned when deleting a task that events still reference.
	ErrTaskInUse = errors.New("task is referenced by events")
	// ErrNotInitialized is returned by Load before init has run.
	ErrNotInitialized = errors.New("storage not initialized, run 'punchcard init' first")
)

// Provider is the storage collaborator of the time-accounting engine.
// Event lists are always ordered by time ascending.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	// RunInTx runs fn against a provider whose writes commit together or not at all.
	RunInTx(fn func(tx Provider) error) error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Tasks
	AddTask(models.Task) (models.Task, error)
	GetTask(id string) (models.Task, error)
	GetAllTasks() ([]models.Task, error)
	// GetDefaultTask returns nil when no task is marked default.
	GetDefaultTask() (*models.Task, error)
	UpdateTask(models.Task) error
	// DeleteTask fails with ErrTaskInUse while any event references the task.
	DeleteTask(id string) error

	// Events
	GetEvent(id string) (models.Event, error)
	// GetEventsOnDay returns events in [day, next midnight) of day's location.
	GetEventsOnDay(day time.Time) ([]models.Event, error)
	// GetEventsInWeek returns events in the seven days starting at weekStart.
	GetEventsInWeek(weekStart time.Time) ([]models.Event, error)
	// GetEventsInRange returns events in [start, end).
	GetEventsInRange(start, end time.Time) ([]models.Event, error)
	// GetLastEventBefore returns the latest event strictly before t, or nil.
	GetLastEventBefore(t time.Time) (*models.Event, error)
	// GetLastEventAtOrBefore returns the latest event with time <= t, or nil.
	GetLastEventAtOrBefore(t time.Time) (*models.Event, error)
	// GetFirstEventAfter returns the earliest event strictly after t, or nil.
	GetFirstEventAfter(t time.Time) (*models.Event, error)
	// InsertEvent assigns an ID and stores the event. Only persistable types are accepted.
	InsertEvent(models.Event) (models.Event, error)
	UpdateEvent(models.Event) error
	// DeleteEvent reports whether a row was removed.
	DeleteEvent(id string) (bool, error)

	// Weeks. Start values are matched by calendar date.
	GetWeek(start time.Time) (*models.Week, error)
	InsertWeek(models.Week) (models.Week, error)
	UpdateWeek(models.Week) error
	// GetWeeksUpTo returns weeks starting on or before date, oldest first.
	GetWeeksUpTo(date time.Time) ([]models.Week, error)

	// Targets
	// GetDayTarget returns the DAY_* target of date, or nil.
	GetDayTarget(date time.Time) (*models.Target, error)
	// GetTargets returns dated targets in [start, end] by calendar date, oldest first.
	GetTargets(start, end time.Time) ([]models.Target, error)
	// GetFlexiTargets returns FLEXI_* targets, dateless ones first, then by date.
	GetFlexiTargets() ([]models.Target, error)
	// SetTarget stores t. A DAY_* target replaces any other DAY_* target on the same date.
	SetTarget(models.Target) (models.Target, error)
	DeleteTarget(id string) error

	// Utils
	GetConfigPath() string
}

// Package memory is a storage.Provider held in memory, optionally snapshotted
// to a JSON file. Tests use it with an empty path.
package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/storage"
)

type data struct {
	Version  int                      `json:"version"`
	Settings *models.Settings         `json:"settings,omitempty"`
	Tasks    map[string]models.Task   `json:"tasks"`
	Events   []models.Event           `json:"events"`
	Weeks    map[string]models.Week   `json:"weeks"` // keyed by start date
	Targets  map[string]models.Target `json:"targets"`
	NextWeek int64                    `json:"next_week"`
}

func newData() *data {
	return &data{
		Version: 1,
		Tasks:   make(map[string]models.Task),
		Weeks:   make(map[string]models.Week),
		Targets: make(map[string]models.Target),
	}
}

func (d *data) clone() *data {
	c := &data{
		Version:  d.Version,
		Tasks:    make(map[string]models.Task, len(d.Tasks)),
		Events:   append([]models.Event(nil), d.Events...),
		Weeks:    make(map[string]models.Week, len(d.Weeks)),
		Targets:  make(map[string]models.Target, len(d.Targets)),
		NextWeek: d.NextWeek,
	}
	if d.Settings != nil {
		s := *d.Settings
		c.Settings = &s
	}
	for k, v := range d.Tasks {
		c.Tasks[k] = v
	}
	for k, v := range d.Weeks {
		c.Weeks[k] = v
	}
	for k, v := range d.Targets {
		c.Targets[k] = v
	}
	return c
}

type Store struct {
	mu   sync.Mutex
	path string
	data *data
	inTx bool
}

// NewStore returns a store persisted to path, or purely in memory when path is empty.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = newData()
	}
	if s.data.Settings == nil {
		def := models.DefaultSettings()
		s.data.Settings = &def
	}
	return s.save()
}

func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data != nil {
		return nil
	}
	if s.path == "" {
		return storage.ErrNotInitialized
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return storage.ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	d := newData()
	if err := json.Unmarshal(raw, d); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if d.Tasks == nil {
		d.Tasks = make(map[string]models.Task)
	}
	if d.Weeks == nil {
		d.Weeks = make(map[string]models.Week)
	}
	if d.Targets == nil {
		d.Targets = make(map[string]models.Target)
	}
	s.data = d
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// save writes the snapshot. Callers hold s.mu.
func (s *Store) save() error {
	if s.path == "" || s.inTx {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) ready() error {
	if s.data == nil {
		return storage.ErrNotInitialized
	}
	return nil
}

// RunInTx runs fn against a copy of the data and swaps it in when fn succeeds.
func (s *Store) RunInTx(fn func(tx storage.Provider) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}

	scoped := &Store{path: s.path, data: s.data.clone(), inTx: true}
	if err := fn(scoped); err != nil {
		return err
	}
	s.data = scoped.data
	return s.save()
}

func (s *Store) GetSettings() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Settings{}, err
	}
	if s.data.Settings == nil {
		return models.Settings{}, fmt.Errorf("settings not found")
	}
	return *s.data.Settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	s.data.Settings = &settings
	return s.save()
}

func (s *Store) AddTask(task models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Task{}, err
	}
	if task.Name == "" {
		return models.Task{}, fmt.Errorf("task name cannot be empty")
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	s.putTask(task)
	return task, s.save()
}

func (s *Store) putTask(task models.Task) {
	if task.IsDefault {
		for id, t := range s.data.Tasks {
			t.IsDefault = false
			s.data.Tasks[id] = t
		}
	}
	s.data.Tasks[task.ID] = task
}

func (s *Store) GetTask(id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Task{}, err
	}
	t, ok := s.data.Tasks[id]
	if !ok {
		return models.Task{}, fmt.Errorf("task %s: %w", id, storage.ErrNotFound)
	}
	return t, nil
}

func (s *Store) GetAllTasks() ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	tasks := make([]models.Task, 0, len(s.data.Tasks))
	for _, t := range s.data.Tasks {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Name < tasks[j].Name })
	return tasks, nil
}

func (s *Store) GetDefaultTask() (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	for _, t := range s.data.Tasks {
		if t.IsDefault {
			return &t, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateTask(task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	if _, ok := s.data.Tasks[task.ID]; !ok {
		return fmt.Errorf("task %s: %w", task.ID, storage.ErrNotFound)
	}
	s.putTask(task)
	return s.save()
}

func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	if _, ok := s.data.Tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id, storage.ErrNotFound)
	}
	refs := 0
	for _, e := range s.data.Events {
		if e.TaskID == id {
			refs++
		}
	}
	if refs > 0 {
		return fmt.Errorf("task %s (%d events): %w", id, refs, storage.ErrTaskInUse)
	}
	delete(s.data.Tasks, id)
	return s.save()
}

var _ storage.Provider = (*Store)(nil)

// less orders events by time, clock-in first on ties, matching the SQL stores.
func less(a, b models.Event) bool {
	if !a.Time.Equal(b.Time) {
		return a.Time.Before(b.Time)
	}
	return a.Type < b.Type
}

func (s *Store) sortEvents() {
	sort.SliceStable(s.data.Events, func(i, j int) bool {
		return less(s.data.Events[i], s.data.Events[j])
	})
}

func (s *Store) filterEvents(keep func(models.Event) bool) []models.Event {
	var out []models.Event
	for _, e := range s.data.Events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) GetEvent(id string) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Event{}, err
	}
	for _, e := range s.data.Events {
		if e.ID == id {
			return e, nil
		}
	}
	return models.Event{}, fmt.Errorf("event %s: %w", id, storage.ErrNotFound)
}

func (s *Store) GetEventsInRange(start, end time.Time) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.filterEvents(func(e models.Event) bool {
		return !e.Time.Before(start) && e.Time.Before(end)
	}), nil
}

func (s *Store) GetEventsOnDay(day time.Time) ([]models.Event, error) {
	return s.GetEventsInRange(storage.DayBounds(day))
}

func (s *Store) GetEventsInWeek(weekStart time.Time) ([]models.Event, error) {
	return s.GetEventsInRange(storage.WeekBounds(weekStart))
}

func (s *Store) lastMatching(keep func(models.Event) bool) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	for i := len(s.data.Events) - 1; i >= 0; i-- {
		if keep(s.data.Events[i]) {
			e := s.data.Events[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (s *Store) GetLastEventBefore(t time.Time) (*models.Event, error) {
	return s.lastMatching(func(e models.Event) bool { return e.Time.Before(t) })
}

func (s *Store) GetLastEventAtOrBefore(t time.Time) (*models.Event, error) {
	return s.lastMatching(func(e models.Event) bool { return !e.Time.After(t) })
}

func (s *Store) GetFirstEventAfter(t time.Time) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	for _, e := range s.data.Events {
		if e.Time.After(t) {
			return &e, nil
		}
	}
	return nil, nil
}

func (s *Store) InsertEvent(e models.Event) (models.Event, error) {
	if err := storage.ValidateEvent(e); err != nil {
		return models.Event{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Event{}, err
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	s.data.Events = append(s.data.Events, e)
	s.sortEvents()
	return e, s.save()
}

func (s *Store) UpdateEvent(e models.Event) error {
	if err := storage.ValidateEvent(e); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	for i := range s.data.Events {
		if s.data.Events[i].ID == e.ID {
			s.data.Events[i] = e
			s.sortEvents()
			return s.save()
		}
	}
	return fmt.Errorf("event %s: %w", e.ID, storage.ErrNotFound)
}

func (s *Store) DeleteEvent(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return false, err
	}
	for i := range s.data.Events {
		if s.data.Events[i].ID == id {
			s.data.Events = append(s.data.Events[:i], s.data.Events[i+1:]...)
			return true, s.save()
		}
	}
	return false, nil
}

func (s *Store) GetWeek(start time.Time) (*models.Week, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	w, ok := s.data.Weeks[storage.DateKey(start)]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (s *Store) InsertWeek(w models.Week) (models.Week, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Week{}, err
	}
	key := storage.DateKey(w.Start)
	if _, ok := s.data.Weeks[key]; ok {
		return models.Week{}, fmt.Errorf("week %s already exists", key)
	}
	s.data.NextWeek++
	w.ID = s.data.NextWeek
	w.Start, _ = storage.ParseDateKey(key)
	s.data.Weeks[key] = w
	return w, s.save()
}

func (s *Store) UpdateWeek(w models.Week) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	key := storage.DateKey(w.Start)
	old, ok := s.data.Weeks[key]
	if !ok {
		return fmt.Errorf("week %s: %w", key, storage.ErrNotFound)
	}
	old.SumMinutes = w.SumMinutes
	old.ComputedAt = w.ComputedAt
	s.data.Weeks[key] = old
	return s.save()
}

func (s *Store) GetWeeksUpTo(date time.Time) ([]models.Week, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	limit := storage.DateKey(date)
	var weeks []models.Week
	for key, w := range s.data.Weeks {
		if key <= limit {
			weeks = append(weeks, w)
		}
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Start.Before(weeks[j].Start) })
	return weeks, nil
}

func (s *Store) GetDayTarget(date time.Time) (*models.Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	key := storage.DateKey(date)
	for _, t := range s.data.Targets {
		if t.Kind.IsDayTarget() && t.Date != nil && storage.DateKey(*t.Date) == key {
			return &t, nil
		}
	}
	return nil, nil
}

func (s *Store) GetTargets(start, end time.Time) ([]models.Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	from, to := storage.DateKey(start), storage.DateKey(end)
	var out []models.Target
	for _, t := range s.data.Targets {
		if t.Date == nil {
			continue
		}
		if key := storage.DateKey(*t.Date); key >= from && key <= to {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := storage.DateKey(*out[i].Date), storage.DateKey(*out[j].Date)
		if ki != kj {
			return ki < kj
		}
		return out[i].Kind < out[j].Kind
	})
	return out, nil
}

func (s *Store) GetFlexiTargets() ([]models.Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	var out []models.Target
	for _, t := range s.data.Targets {
		if !t.Kind.IsDayTarget() {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.Date == nil) != (b.Date == nil) {
			return a.Date == nil
		}
		if a.Date != nil && !a.Date.Equal(*b.Date) {
			return a.Date.Before(*b.Date)
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (s *Store) SetTarget(t models.Target) (models.Target, error) {
	if err := storage.ValidateTarget(t); err != nil {
		return models.Target{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Target{}, err
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Date != nil {
		d, _ := storage.ParseDateKey(storage.DateKey(*t.Date))
		t.Date = &d
	}
	if t.Kind.IsDayTarget() {
		key := storage.DateKey(*t.Date)
		for id, other := range s.data.Targets {
			if other.Kind.IsDayTarget() && other.Date != nil && storage.DateKey(*other.Date) == key {
				delete(s.data.Targets, id)
			}
		}
	}
	s.data.Targets[t.ID] = t
	return t, s.save()
}

func (s *Store) DeleteTarget(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	if _, ok := s.data.Targets[id]; !ok {
		return fmt.Errorf("target %s: %w", id, storage.ErrNotFound)
	}
	delete(s.data.Targets, id)
	return s.save()
}

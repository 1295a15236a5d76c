// Package memory implements service.Service as a process-lifetime,
// in-memory task store.
package memory

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"taskmaster/internal/service"
)

// IDGenerator returns a fresh task id on every call.
type IDGenerator func() string

// Store implements service.Service.
// All operations are serialised behind a single mutex.
type Store struct {
	mu     sync.Mutex
	tasks  []service.Task
	filter service.Filter
	newID  IDGenerator
	log    *logrus.Entry
}

// New creates an empty store that assigns UUID task ids.
func New(logger *logrus.Logger) *Store {
	return NewWithIDGenerator(uuid.NewString, logger)
}

// NewWithIDGenerator creates an empty store with a custom id generator (for testing).
// The generator must never return the same id twice.
func NewWithIDGenerator(gen IDGenerator, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{
		filter: service.FilterAll,
		newID:  gen,
		log:    logger.WithField("component", "store"),
	}
}

// State returns a copy of the current tasks and filter.
func (s *Store) State() service.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return service.State{
		Tasks:  slices.Clone(s.tasks),
		Filter: s.filter,
	}
}

// CreateTask appends a new task.
func (s *Store) CreateTask(f service.Fields) service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := service.Task{
		ID:          s.newID(),
		Title:       f.Title,
		Description: f.Description,
		DueDate:     f.DueDate,
	}
	s.tasks = append(s.tasks, task)

	s.log.WithFields(logrus.Fields{
		"task_id":  task.ID,
		"due_date": task.DueDate.String(),
		"count":    len(s.tasks),
	}).Debug("task created")
	return task
}

// EditTask merges p into the matching task.
func (s *Store) EditTask(id string, p service.Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i >= 0 {
		s.tasks[i] = p.Apply(s.tasks[i])
	}
	s.log.WithFields(logrus.Fields{"task_id": id, "found": i >= 0}).Debug("task edited")
	return i >= 0
}

// DeleteTask removes the matching task.
func (s *Store) DeleteTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i >= 0 {
		s.tasks = slices.Delete(s.tasks, i, i+1)
	}
	s.log.WithFields(logrus.Fields{"task_id": id, "found": i >= 0}).Debug("task deleted")
	return i >= 0
}

// ToggleTask flips the completion flag of the matching task.
func (s *Store) ToggleTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i >= 0 {
		s.tasks[i].Completed = !s.tasks[i].Completed
		s.log.WithFields(logrus.Fields{
			"task_id":   id,
			"completed": s.tasks[i].Completed,
		}).Debug("task toggled")
		return true
	}
	s.log.WithField("task_id", id).Debug("toggle on unknown task ignored")
	return false
}

// SetFilter replaces the active filter.
func (s *Store) SetFilter(f service.Filter) error {
	if !f.Valid() {
		s.log.WithField("filter", string(f)).Warn("rejected filter")
		return service.ErrInvalidFilter
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	s.log.WithField("filter", string(f)).Debug("filter set")
	return nil
}

// indexOf returns the index of the task with the given id, or -1.
// Caller must hold s.mu.
func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t service.Task) bool {
		return t.ID == id
	})
}

var _ service.Service = (*Store)(nil)

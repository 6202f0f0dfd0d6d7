package tasks

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/taskly/internal/models"
	"github.com/desertthunder/taskly/internal/notify"
	"github.com/desertthunder/taskly/internal/services"
	"github.com/desertthunder/taskly/internal/shared"
)

// Notification messages raised by [Store] operations.
const (
	MsgEmpty         = "Task cannot be empty."
	MsgDuplicate     = "Task already exists."
	MsgNotFound      = "Task not found."
	MsgAdded         = "Task added successfully!"
	MsgUpdated       = "Task updated successfully!"
	MsgRemoved       = "Task deleted successfully!"
	MsgAddFailed     = "Error adding task. Please try again."
	MsgUpdateFailed  = "Error updating task. Please try again."
	MsgRemoveFailed  = "Error deleting task. Please try again."
	MsgRefreshFailed = "Error fetching tasks. Please try again."
)

// Notifier receives the user-facing outcome of each store operation.
// [*notify.Center] satisfies it.
type Notifier interface {
	Notify(message string, kind notify.Kind)
}

// Subscriber is called with a copy of the list after every change.
type Subscriber func([]models.Task)

// Store owns the in-memory task list for the signed-in user and is its only mutator.
//
// Remote calls are made without holding the lock. The list is changed under the lock at the moment
// a call settles, so overlapping operations resolve last-settled-wins, reconciled by task ID.
type Store struct {
	mu          sync.Mutex
	svc         services.TaskService
	notifier    Notifier
	logger      *log.Logger
	tasks       []models.Task
	subscribers []Subscriber
	closed      bool
}

// NewStore creates an empty store backed by svc. A nil notifier discards notifications.
func NewStore(svc services.TaskService, n Notifier, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{svc: svc, notifier: n, logger: logger, tasks: []models.Task{}}
}

// Tasks returns a copy of the current list.
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Find returns the task with the given ID.
func (s *Store) Find(id models.TaskID) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return models.Task{}, false
}

// Subscribe registers fn to receive the list after every change.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Close marks the store as torn down. Calls that settle afterwards leave the list alone,
// raise no notification and return [shared.ErrStoreClosed].
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subscribers = nil
}

// Refresh replaces the list with the server's.
func (s *Store) Refresh(ctx context.Context) error {
	if s.isClosed() {
		return shared.ErrStoreClosed
	}

	fetched, err := s.svc.FetchAll(ctx)
	if err != nil {
		if s.isClosed() {
			return shared.ErrStoreClosed
		}
		s.logger.Error("failed to fetch tasks", "error", err)
		s.notify(failureMessage(MsgRefreshFailed, "Error fetching tasks", err), notify.Error)
		return err
	}

	if !s.apply(func() { s.tasks = slices.Clone(fetched) }) {
		return shared.ErrStoreClosed
	}

	s.logger.Debug("fetched tasks", "count", len(fetched))
	return nil
}

// Add validates text and creates it remotely. The stored text is trimmed.
func (s *Store) Add(ctx context.Context, text string) (models.Task, error) {
	if s.isClosed() {
		return models.Task{}, shared.ErrStoreClosed
	}

	text = strings.TrimSpace(text)
	if err := s.validate(text, ""); err != nil {
		s.reject(err)
		return models.Task{}, err
	}

	id, err := s.svc.Create(ctx, text)
	if err != nil {
		if s.isClosed() {
			return models.Task{}, shared.ErrStoreClosed
		}
		s.logger.Error("failed to add task", "text", text, "error", err)
		s.notify(failureMessage(MsgAddFailed, "Error adding task", err), notify.Error)
		return models.Task{}, err
	}

	task := models.Task{ID: id, Text: text, Completed: false}
	ok := s.apply(func() {
		if i := s.indexOf(id); i >= 0 {
			s.tasks[i] = task
			return
		}
		s.tasks = append(s.tasks, task)
	})
	if !ok {
		return models.Task{}, shared.ErrStoreClosed
	}

	s.logger.Info("task added", "id", id)
	s.notify(MsgAdded, notify.Success)
	return task, nil
}

// Update replaces the text of the task with the given ID. ID and completion are kept.
func (s *Store) Update(ctx context.Context, id models.TaskID, text string) (models.Task, error) {
	if s.isClosed() {
		return models.Task{}, shared.ErrStoreClosed
	}

	text = strings.TrimSpace(text)

	current, found := s.Find(id)
	if !found {
		err := &ValidationError{Reason: ReasonNotFound, Text: string(id)}
		s.reject(err)
		return models.Task{}, err
	}
	if err := s.validate(text, id); err != nil {
		s.reject(err)
		return models.Task{}, err
	}

	if err := s.svc.UpdateText(ctx, id, text); err != nil {
		if s.isClosed() {
			return models.Task{}, shared.ErrStoreClosed
		}
		s.logger.Error("failed to update task", "id", id, "error", err)
		s.notify(failureMessage(MsgUpdateFailed, "Error updating task", err), notify.Error)
		return models.Task{}, err
	}

	updated := current
	updated.Text = text
	ok := s.apply(func() {
		i := s.indexOf(id)
		if i < 0 {
			s.logger.Warn("updated task is no longer in the list", "id", id)
			return
		}
		s.tasks[i].Text = text
		updated = s.tasks[i]
	})
	if !ok {
		return models.Task{}, shared.ErrStoreClosed
	}

	s.logger.Info("task updated", "id", id)
	s.notify(MsgUpdated, notify.Success)
	return updated, nil
}

// Remove deletes the task with the given ID.
func (s *Store) Remove(ctx context.Context, id models.TaskID) error {
	if s.isClosed() {
		return shared.ErrStoreClosed
	}

	if err := s.svc.Delete(ctx, id); err != nil {
		if s.isClosed() {
			return shared.ErrStoreClosed
		}
		s.logger.Error("failed to delete task", "id", id, "error", err)
		s.notify(failureMessage(MsgRemoveFailed, "Error deleting task", err), notify.Error)
		return err
	}

	ok := s.apply(func() {
		if i := s.indexOf(id); i >= 0 {
			s.tasks = slices.Delete(s.tasks, i, i+1)
		}
	})
	if !ok {
		return shared.ErrStoreClosed
	}

	s.logger.Info("task deleted", "id", id)
	s.notify(MsgRemoved, notify.Success)
	return nil
}

// validate checks text against the uniqueness rules, ignoring the task with ID self.
func (s *Store) validate(text string, self models.TaskID) error {
	if text == "" {
		return &ValidationError{Reason: ReasonEmpty}
	}

	key := shared.NormalizeText(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.ID != self && shared.NormalizeText(t.Text) == key {
			return &ValidationError{Reason: ReasonDuplicate, Text: text}
		}
	}
	return nil
}

func (s *Store) reject(err error) {
	s.logger.Debug("rejected task operation", "error", err)

	var verr *ValidationError
	if errors.As(err, &verr) {
		s.notify(verr.Message(), notify.Error)
	}
}

// apply runs mutate under the lock and publishes the result. It reports false when the store is closed.
func (s *Store) apply(mutate func()) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	mutate()
	snapshot := slices.Clone(s.tasks)
	subs := slices.Clone(s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
	return true
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Store) notify(message string, kind notify.Kind) {
	if s.notifier == nil || s.isClosed() {
		return
	}
	s.notifier.Notify(message, kind)
}

func (s *Store) indexOf(id models.TaskID) int {
	return slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
}

// failureMessage prefers the server's own message when the error carries one.
func failureMessage(fallback, prefix string, err error) string {
	var netErr *services.NetworkError
	if errors.As(err, &netErr) && netErr.Message != "" {
		return prefix + ": " + netErr.Message
	}
	return fallback
}

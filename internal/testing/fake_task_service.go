package testing

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/desertthunder/taskly/internal/models"
)

// ErrFakeNotFound is returned by [FakeTaskService] for unknown task IDs, like a 404 from the real service.
var ErrFakeNotFound = errors.New("not found")

// Operation names used for [FakeTaskService] call counts and hooks.
const (
	OpFetchAll = "fetch_all"
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
)

// FakeTaskService is an in-memory stand-in for the remote task service.
//
// IDs are assigned sequentially starting after the largest numeric seeded ID.
type FakeTaskService struct {
	mu     sync.Mutex
	tasks  []models.Task
	nextID int
	calls  map[string]int

	// Error injection
	FetchAllErr error
	CreateErr   error
	UpdateErr   error
	DeleteErr   error

	// AcceptMissingUpdates makes UpdateText succeed for IDs the fake no longer holds,
	// like a server that answers a PUT for a deleted row with 2xx.
	AcceptMissingUpdates bool

	// Hooks run before the named operation responds, outside the lock.
	// Tests use them to hold a call in flight.
	Hooks map[string]func()
}

// NewFakeTaskService creates a fake seeded with tasks.
func NewFakeTaskService(tasks ...models.Task) *FakeTaskService {
	f := &FakeTaskService{
		calls: make(map[string]int),
		Hooks: make(map[string]func()),
	}
	for _, t := range tasks {
		if n, err := strconv.Atoi(string(t.ID)); err == nil && n > f.nextID {
			f.nextID = n
		}
		f.tasks = append(f.tasks, t)
	}
	return f
}

func (f *FakeTaskService) enter(op string) {
	f.mu.Lock()
	f.calls[op]++
	hook := f.Hooks[op]
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Calls returns how many times op was invoked.
func (f *FakeTaskService) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// Tasks returns a copy of the server-side list.
func (f *FakeTaskService) Tasks() []models.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

func (f *FakeTaskService) FetchAll(ctx context.Context) ([]models.Task, error) {
	f.enter(OpFetchAll)
	if f.FetchAllErr != nil {
		return nil, f.FetchAllErr
	}
	return f.Tasks(), nil
}

func (f *FakeTaskService) Create(ctx context.Context, text string) (models.TaskID, error) {
	f.enter(OpCreate)
	if f.CreateErr != nil {
		return "", f.CreateErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := models.TaskID(strconv.Itoa(f.nextID))
	f.tasks = append(f.tasks, models.Task{ID: id, Text: text})
	return id, nil
}

func (f *FakeTaskService) UpdateText(ctx context.Context, id models.TaskID, text string) error {
	f.enter(OpUpdate)
	if f.UpdateErr != nil {
		return f.UpdateErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Text = text
			return nil
		}
	}
	if f.AcceptMissingUpdates {
		return nil
	}
	return ErrFakeNotFound
}

func (f *FakeTaskService) Delete(ctx context.Context, id models.TaskID) error {
	f.enter(OpDelete)
	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrFakeNotFound
}

package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/taskly/internal/models"
	"github.com/desertthunder/taskly/internal/notify"
	"github.com/desertthunder/taskly/internal/tasks"
	th "github.com/desertthunder/taskly/internal/testing"
)

type fakeAuth struct {
	err       error
	signedOut bool
}

func (f *fakeAuth) SignIn(context.Context, string, string) (*models.User, error) { return nil, nil }
func (f *fakeAuth) SignUp(context.Context, string, string) (*models.User, error) { return nil, nil }
func (f *fakeAuth) SignInWithGoogle(context.Context) (*models.User, error)       { return nil, nil }
func (f *fakeAuth) Current() (*models.User, bool)                                { return nil, false }
func (f *fakeAuth) Subscribe(func(*models.User))                                 {}

func (f *fakeAuth) SignOut(context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.signedOut = true
	return nil
}

type harness struct {
	model  *Model
	svc    *th.FakeTaskService
	store  *tasks.Store
	center *notify.Center
	clock  *notify.ManualClock
}

func newHarness(t *testing.T, seed ...models.Task) *harness {
	t.Helper()

	logger := log.New(&strings.Builder{})
	clock := notify.NewManualClock(time.Unix(0, 0))
	center := notify.NewCenter(notify.Options{Clock: clock, Logger: logger})
	svc := th.NewFakeTaskService(seed...)
	store := tasks.NewStore(svc, center, logger)
	pager := tasks.NewPager(store, tasks.DefaultPageSize)

	m := NewModel(context.Background(), Options{
		Store:  store,
		Pager:  pager,
		Center: center,
		User:   &models.User{ID: "u1", Email: "ada@example.com", DisplayName: "Ada"},
	})

	h := &harness{model: m, svc: svc, store: store, center: center, clock: clock}
	h.run(m.refresh())
	return h
}

// run executes cmd synchronously and feeds its message back into the model.
func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(Msg); ok {
			h.model.Update(msg)
		}
	}
}

func (h *harness) press(msg tea.KeyMsg) {
	_, cmd := h.model.Update(msg)
	h.run(cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	right = tea.KeyMsg{Type: tea.KeyRight}
	left  = tea.KeyMsg{Type: tea.KeyLeft}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func seedTasks(n int) []models.Task {
	out := make([]models.Task, n)
	for i := range out {
		out[i] = models.Task{ID: models.TaskID(string(rune('1' + i))), Text: "task " + string(rune('a'+i))}
	}
	return out
}

func TestModel(t *testing.T) {
	t.Run("Init", func(t *testing.T) {
		t.Run("loads tasks", func(t *testing.T) {
			h := newHarness(t, seedTasks(2)...)
			if h.store.Len() != 2 {
				t.Fatalf("expected 2 tasks, got %d", h.store.Len())
			}
			if h.model.loading {
				t.Error("expected loading to be cleared after refresh")
			}
			if h.model.Init() == nil {
				t.Error("expected Init to return a command")
			}
		})
	})

	t.Run("Adding", func(t *testing.T) {
		t.Run("successful add clears the input", func(t *testing.T) {
			h := newHarness(t)
			h.model.input.SetValue("Buy milk")
			h.press(enter)

			if h.model.input.Value() != "" {
				t.Errorf("expected input to be cleared, got %q", h.model.input.Value())
			}
			if h.store.Len() != 1 {
				t.Fatalf("expected 1 task, got %d", h.store.Len())
			}
			if n, ok := h.center.Current(); !ok || n.Message != tasks.MsgAdded {
				t.Errorf("expected %q notification, got %+v", tasks.MsgAdded, n)
			}
		})

		t.Run("padded input is cleared after add", func(t *testing.T) {
			h := newHarness(t)
			h.model.input.SetValue("  Buy milk  ")
			h.press(enter)

			if h.model.input.Value() != "" {
				t.Errorf("expected input to be cleared, got %q", h.model.input.Value())
			}
		})

		t.Run("text typed during add is kept", func(t *testing.T) {
			h := newHarness(t)
			h.model.input.SetValue("Buy milk")
			_, cmd := h.model.Update(enter)

			h.model.input.SetValue("Walk dog")
			h.run(cmd)

			if h.store.Len() != 1 {
				t.Fatalf("expected 1 task, got %d", h.store.Len())
			}
			if h.model.input.Value() != "Walk dog" {
				t.Errorf("expected newer input to be kept, got %q", h.model.input.Value())
			}
		})

		t.Run("rejected add keeps the input", func(t *testing.T) {
			h := newHarness(t, models.Task{ID: "1", Text: "Buy milk"})
			h.model.input.SetValue("Buy milk")
			h.press(enter)

			if h.model.input.Value() != "Buy milk" {
				t.Errorf("expected input to be kept, got %q", h.model.input.Value())
			}
			if h.svc.Calls(th.OpCreate) != 0 {
				t.Error("expected no remote create for a duplicate")
			}
			if n, _ := h.center.Current(); n.Message != tasks.MsgDuplicate {
				t.Errorf("expected %q, got %q", tasks.MsgDuplicate, n.Message)
			}
		})
	})

	t.Run("Editing", func(t *testing.T) {
		t.Run("cancel leaves the task untouched", func(t *testing.T) {
			h := newHarness(t, models.Task{ID: "1", Text: "Buy milk"})
			h.press(tab)
			h.press(runes("e"))
			if !h.model.editor.Editing("1") {
				t.Fatal("expected task 1 to be in edit mode")
			}
			if h.model.edit.Value() != "Buy milk" {
				t.Errorf("expected draft to start with current text, got %q", h.model.edit.Value())
			}

			h.model.edit.SetValue("Buy oat milk")
			h.model.editor.SetDraft("Buy oat milk")
			h.press(esc)

			if h.model.editor.Active() {
				t.Error("expected edit mode to end")
			}
			if h.svc.Calls(th.OpUpdate) != 0 {
				t.Error("expected no remote update on cancel")
			}
			if task, _ := h.store.Find("1"); task.Text != "Buy milk" {
				t.Errorf("expected text unchanged, got %q", task.Text)
			}
		})

		t.Run("save exits edit mode", func(t *testing.T) {
			h := newHarness(t, models.Task{ID: "1", Text: "Buy milk"})
			h.press(tab)
			h.press(runes("e"))
			h.model.edit.SetValue("Buy oat milk")
			h.model.editor.SetDraft("Buy oat milk")
			h.press(enter)

			if h.model.editor.Active() {
				t.Error("expected edit mode to end after a successful save")
			}
			if task, _ := h.store.Find("1"); task.Text != "Buy oat milk" {
				t.Errorf("expected updated text, got %q", task.Text)
			}
		})

		t.Run("failed save stays in edit mode", func(t *testing.T) {
			h := newHarness(t, models.Task{ID: "1", Text: "Buy milk"})
			h.press(tab)
			h.press(runes("e"))
			h.model.edit.SetValue("  ")
			h.model.editor.SetDraft("  ")
			h.press(enter)

			if !h.model.editor.Editing("1") {
				t.Error("expected to remain in edit mode")
			}
			if n, _ := h.center.Current(); n.Message != tasks.MsgEmpty {
				t.Errorf("expected %q, got %q", tasks.MsgEmpty, n.Message)
			}
		})
	})

	t.Run("Deleting", func(t *testing.T) {
		t.Run("removes the selected task", func(t *testing.T) {
			h := newHarness(t, seedTasks(2)...)
			h.press(tab)
			h.press(down)
			h.press(runes("d"))

			if h.store.Len() != 1 {
				t.Fatalf("expected 1 task, got %d", h.store.Len())
			}
			if _, ok := h.store.Find("2"); ok {
				t.Error("expected task 2 to be deleted")
			}
			if h.model.cursor != 0 {
				t.Errorf("expected cursor clamped to 0, got %d", h.model.cursor)
			}
		})

		t.Run("empty list is a no-op", func(t *testing.T) {
			h := newHarness(t)
			h.press(tab)
			h.press(runes("d"))
			if h.svc.Calls(th.OpDelete) != 0 {
				t.Error("expected no remote delete")
			}
		})
	})

	t.Run("Paging", func(t *testing.T) {
		h := newHarness(t, seedTasks(5)...)
		h.press(tab)

		if !strings.Contains(h.model.View(), "Page 1 of 2") {
			t.Error("expected view to show page 1 of 2")
		}

		h.press(right)
		if h.model.pager.CurrentPage() != 2 {
			t.Fatalf("expected page 2, got %d", h.model.pager.CurrentPage())
		}
		if got := len(h.model.pager.VisibleSlice()); got != 1 {
			t.Errorf("expected 1 task on page 2, got %d", got)
		}

		h.press(right)
		if h.model.pager.CurrentPage() != 2 {
			t.Error("expected next on the last page to be a no-op")
		}

		h.press(left)
		if h.model.pager.CurrentPage() != 1 {
			t.Errorf("expected page 1, got %d", h.model.pager.CurrentPage())
		}
	})

	t.Run("View", func(t *testing.T) {
		t.Run("shows header and welcome", func(t *testing.T) {
			h := newHarness(t, models.Task{ID: "1", Text: "Buy milk"})
			view := h.model.View()
			for _, want := range []string{"Your Tasks", "Welcome, Ada!", "Task List", "Buy milk", "Page 1 of 1"} {
				if !strings.Contains(view, want) {
					t.Errorf("expected view to contain %q", want)
				}
			}
		})

		t.Run("empty list", func(t *testing.T) {
			h := newHarness(t)
			view := h.model.View()
			if !strings.Contains(view, "Page 1 of 1") {
				t.Error("expected a single page for an empty list")
			}
			if !strings.Contains(view, "No tasks yet.") {
				t.Error("expected empty list placeholder")
			}
		})

		t.Run("notification expires", func(t *testing.T) {
			h := newHarness(t)
			h.center.Error("Task cannot be empty.")
			h.model.Update(NotificationMsg(h.center.Current()))

			if !strings.Contains(h.model.View(), "✗ Task cannot be empty.") {
				t.Error("expected error notification in view")
			}

			h.clock.Advance(notify.DefaultTTL)
			if strings.Contains(h.model.View(), "Task cannot be empty.") {
				t.Error("expected notification to be cleared after its TTL")
			}
		})
	})

	t.Run("SignOut", func(t *testing.T) {
		t.Run("quits after signing out", func(t *testing.T) {
			h := newHarness(t)
			fa := &fakeAuth{}
			h.model.auth = fa

			_, cmd := h.model.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
			if cmd == nil {
				t.Fatal("expected sign-out command")
			}
			_, quit := h.model.Update(cmd())

			if !fa.signedOut || !h.model.SignedOut() {
				t.Error("expected the user to be signed out")
			}
			if quit == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := quit().(tea.QuitMsg); !ok {
				t.Error("expected tea.QuitMsg")
			}
		})

		t.Run("failure stays in the view", func(t *testing.T) {
			h := newHarness(t)
			h.model.auth = &fakeAuth{err: errors.New("disk full")}

			h.press(tea.KeyMsg{Type: tea.KeyCtrlX})

			if h.model.SignedOut() {
				t.Error("expected to remain signed in")
			}
			if n, ok := h.center.Current(); !ok || n.Kind != notify.Error {
				t.Errorf("expected an error notification, got %+v", n)
			}
		})
	})

	t.Run("Quit", func(t *testing.T) {
		h := newHarness(t)
		_, cmd := h.model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

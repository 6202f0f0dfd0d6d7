package ui

import "github.com/desertthunder/taskly/internal/models"

// editor is the per-view edit state: at most one task is being edited at a time.
// It is never persisted; cancelling discards the draft.
type editor struct {
	id     models.TaskID
	draft  string
	active bool
}

// Begin starts editing task with its current text as the draft, replacing any other edit.
func (e *editor) Begin(task models.Task) {
	e.id = task.ID
	e.draft = task.Text
	e.active = true
}

func (e *editor) SetDraft(text string) {
	if e.active {
		e.draft = text
	}
}

// Cancel returns to viewing.
func (e *editor) Cancel() {
	*e = editor{}
}

func (e editor) Active() bool { return e.active }

func (e editor) Editing(id models.TaskID) bool { return e.active && e.id == id }

func (e editor) ID() models.TaskID { return e.id }

func (e editor) Draft() string { return e.draft }

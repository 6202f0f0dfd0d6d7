package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/taskly/internal/auth"
	"github.com/desertthunder/taskly/internal/models"
	"github.com/desertthunder/taskly/internal/notify"
	"github.com/desertthunder/taskly/internal/tasks"
)

// Focus selects which part of the view receives keys.
type Focus int

const (
	FocusInput Focus = iota
	FocusList
)

// Options wires a [Model] to its collaborators.
type Options struct {
	Store  *tasks.Store
	Pager  *tasks.Pager
	Center *notify.Center
	Auth   auth.Provider // optional; enables sign out
	User   *models.User
}

// Model is the authenticated task view.
type Model struct {
	ctx       context.Context
	store     *tasks.Store
	pager     *tasks.Pager
	center    *notify.Center
	auth      auth.Provider
	user      *models.User
	input     textinput.Model
	edit      textinput.Model
	editor    editor
	focus     Focus
	cursor    int
	loading   bool
	signedOut bool
	width     int
	height    int
	help      help.Model
	keys      keyMap
}

// NewModel creates the task view. Call [Model.Init] (via tea.NewProgram) to load the list.
func NewModel(ctx context.Context, opts Options) *Model {
	input := textinput.New()
	input.Placeholder = "Add a new task"
	input.Prompt = "+ "
	input.CharLimit = 200
	input.Focus()

	edit := textinput.New()
	edit.Prompt = ""
	edit.CharLimit = 200

	return &Model{
		ctx:     ctx,
		store:   opts.Store,
		pager:   opts.Pager,
		center:  opts.Center,
		auth:    opts.Auth,
		user:    opts.User,
		input:   input,
		edit:    edit,
		focus:   FocusInput,
		loading: true,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// SignedOut reports whether the view exited because the user signed out.
func (m *Model) SignedOut() bool { return m.signedOut }

// Init loads the task list.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), textinput.Blink)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-6, 10)
		m.edit.Width = max(msg.Width-10, 10)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.forceQ) {
			return m, tea.Quit
		}
		switch {
		case m.editor.Active():
			return m.handleEditKeys(msg)
		case m.focus == FocusInput:
			return m.handleInputKeys(msg)
		default:
			return m.handleListKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateInputs(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgTasksRefreshed:
		m.loading = false
		m.clampCursor()

	case MsgTaskAdded:
		// Keep anything typed while the add was in flight.
		res := msg.data.(taskResult)
		if res.err == nil && strings.TrimSpace(m.input.Value()) == res.task.Text {
			m.input.Reset()
		}
		m.clampCursor()

	case MsgTaskUpdated:
		res := msg.data.(taskResult)
		if res.err == nil && m.editor.Editing(res.task.ID) {
			m.stopEditing()
		}
		m.clampCursor()

	case MsgTaskRemoved:
		res := msg.data.(removeResult)
		if res.err == nil && m.editor.Editing(res.id) {
			m.stopEditing()
		}
		m.clampCursor()

	case MsgNotification:
		// Rendering reads the center directly; the message only triggers a redraw.

	case MsgSignedOut:
		if err, _ := msg.data.(error); err != nil {
			m.center.Error(auth.FailureMessage("Sign-out failed", err))
			return m, nil
		}
		m.signedOut = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		return m, m.addTask(m.input.Value())
	case key.Matches(msg, m.keys.focus), key.Matches(msg, m.keys.cancel):
		m.setFocus(FocusList)
		return m, nil
	case key.Matches(msg, m.keys.signOut):
		return m, m.signOut()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.focus):
		m.setFocus(FocusInput)
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor < len(m.pager.VisibleSlice())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.prev):
		if m.pager.Previous() {
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.next):
		if m.pager.Next() {
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.edit):
		if task, ok := m.selected(); ok {
			m.startEditing(task)
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keys.remove):
		if task, ok := m.selected(); ok {
			return m, m.removeTask(task.ID)
		}
	case key.Matches(msg, m.keys.reload):
		m.loading = true
		return m, m.refresh()
	case key.Matches(msg, m.keys.signOut):
		return m, m.signOut()
	}

	return m, nil
}

func (m *Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.stopEditing()
		return m, nil
	case key.Matches(msg, m.keys.submit):
		return m, m.updateTask(m.editor.ID(), m.editor.Draft())
	}

	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	m.editor.SetDraft(m.edit.Value())
	return m, cmd
}

func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.editor.Active() {
		m.edit, cmd = m.edit.Update(msg)
		return m, cmd
	}
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) setFocus(f Focus) {
	m.focus = f
	if f == FocusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) startEditing(task models.Task) {
	m.editor.Begin(task)
	m.edit.SetValue(task.Text)
	m.edit.CursorEnd()
	m.edit.Focus()
}

func (m *Model) stopEditing() {
	m.editor.Cancel()
	m.edit.Blur()
	m.edit.Reset()
}

func (m *Model) selected() (models.Task, bool) {
	visible := m.pager.VisibleSlice()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return models.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.pager.VisibleSlice())
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg {
		return tasksRefreshedMsg(m.store.Refresh(m.ctx))
	}
}

func (m *Model) addTask(text string) tea.Cmd {
	return func() tea.Msg {
		task, err := m.store.Add(m.ctx, text)
		return taskAddedMsg(task, err)
	}
}

func (m *Model) updateTask(id models.TaskID, text string) tea.Cmd {
	return func() tea.Msg {
		task, err := m.store.Update(m.ctx, id, text)
		if err == nil {
			task.ID = id
		}
		return taskUpdatedMsg(task, err)
	}
}

func (m *Model) removeTask(id models.TaskID) tea.Cmd {
	return func() tea.Msg {
		return taskRemovedMsg(id, m.store.Remove(m.ctx, id))
	}
}

func (m *Model) signOut() tea.Cmd {
	if m.auth == nil {
		return nil
	}
	return func() tea.Msg {
		return signedOutMsg(m.auth.SignOut(m.ctx))
	}
}

// View renders the task view.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Your Tasks"))
	b.WriteString("\n")
	if m.user != nil {
		fmt.Fprintf(&b, "Welcome, %s!\n", m.user.Name())
	}
	b.WriteString(m.renderNotification())
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	b.WriteString(styles.heading.Render("Task List"))
	b.WriteString("\n")
	b.WriteString(m.renderTasks())
	b.WriteString("\n")

	b.WriteString(renderPager(m.pager.CurrentPage(), m.pager.TotalPages(), m.pager.HasPrevious(), m.pager.HasNext()))
	b.WriteString("\n\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m *Model) renderNotification() string {
	n, ok := m.center.Current()
	if !ok {
		return ""
	}
	if n.Kind == notify.Error {
		return styles.err.Render("✗ " + n.Message)
	}
	return styles.ok.Render("✓ " + n.Message)
}

func (m *Model) renderTasks() string {
	visible := m.pager.VisibleSlice()
	if len(visible) == 0 {
		if m.loading {
			return styles.help.Render("Loading tasks...") + "\n"
		}
		return styles.help.Render("No tasks yet.") + "\n"
	}

	offset := (m.pager.CurrentPage() - 1) * m.pager.PageSize()
	var b strings.Builder
	for i, task := range visible {
		selected := m.focus == FocusList && i == m.cursor
		editView := ""
		if m.editor.Editing(task.ID) {
			editView = m.edit.View()
		}
		b.WriteString(renderRow(offset+i+1, task, selected, editView))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderHelp() string {
	switch {
	case m.editor.Active():
		return m.help.ShortHelpView(m.keys.editHelp())
	case m.focus == FocusInput:
		return m.help.ShortHelpView(m.keys.inputHelp())
	default:
		return m.help.ShortHelpView(m.keys.listHelp())
	}
}

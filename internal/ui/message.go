package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/taskly/internal/models"
	"github.com/desertthunder/taskly/internal/notify"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgTasksRefreshed MsgKind = iota
	MsgTaskAdded
	MsgTaskUpdated
	MsgTaskRemoved
	MsgNotification
	MsgSignedOut
)

// Kind reports which member of the union m is.
func (m Msg) Kind() MsgKind { return m.kind }

type taskResult struct {
	task models.Task
	err  error
}

type removeResult struct {
	id  models.TaskID
	err error
}

type notificationResult struct {
	notification notify.Notification
	ok           bool
}

// tasksRefreshedMsg is the constructor for [MsgTasksRefreshed]
func tasksRefreshedMsg(err error) Msg {
	return Msg{kind: MsgTasksRefreshed, data: err}
}

// taskAddedMsg is the constructor for [MsgTaskAdded]
func taskAddedMsg(task models.Task, err error) Msg {
	return Msg{kind: MsgTaskAdded, data: taskResult{task, err}}
}

// taskUpdatedMsg is the constructor for [MsgTaskUpdated]
func taskUpdatedMsg(task models.Task, err error) Msg {
	return Msg{kind: MsgTaskUpdated, data: taskResult{task, err}}
}

// taskRemovedMsg is the constructor for [MsgTaskRemoved]
func taskRemovedMsg(id models.TaskID, err error) Msg {
	return Msg{kind: MsgTaskRemoved, data: removeResult{id, err}}
}

// NotificationMsg is the constructor for [MsgNotification]. It is sent from outside the program
// whenever the notification center changes.
func NotificationMsg(n notify.Notification, ok bool) Msg {
	return Msg{kind: MsgNotification, data: notificationResult{n, ok}}
}

// signedOutMsg is the constructor for [MsgSignedOut]
func signedOutMsg(err error) Msg {
	return Msg{kind: MsgSignedOut, data: err}
}

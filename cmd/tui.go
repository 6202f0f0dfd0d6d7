package main

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/taskly/internal/auth"
	"github.com/desertthunder/taskly/internal/models"
	"github.com/desertthunder/taskly/internal/notify"
	"github.com/desertthunder/taskly/internal/shared"
	"github.com/desertthunder/taskly/internal/tasks"
	"github.com/desertthunder/taskly/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive task view, asking the user to sign in first when needed.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	session, err := r.authSession(ctx)
	if err != nil {
		return err
	}

	user, err := session.Restore(ctx)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		if user, err = r.promptSignIn(ctx, session); err != nil {
			return err
		}
	} else if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	svc, err := r.taskService(ctx, session)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.UI.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	center := r.newCenter()
	store := tasks.NewStore(svc, center, shared.WithLogger(r.logger, "component", "store"))
	pager := tasks.NewPager(store, r.config.UI.PageSize)

	model := ui.NewModel(ctx, ui.Options{
		Store:  store,
		Pager:  pager,
		Center: center,
		Auth:   session,
		User:   user,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Send blocks until the program reads it, so it must not run on the notifying goroutine.
	center.Subscribe(func(n notify.Notification, ok bool) {
		go p.Send(ui.NotificationMsg(n, ok))
	})
	signedOut := endOnSignOut(session, store, func() { go p.Quit() })

	_, runErr := p.Run()
	store.Close()
	center.Close()

	if runErr != nil {
		return fmt.Errorf("error running TUI: %w", runErr)
	}
	if signedOut.Load() || model.SignedOut() {
		return r.writePlain("✓ %s\n", auth.MsgSignedOut)
	}
	return nil
}

// endOnSignOut closes store and calls quit once session reports that the user signed out.
// The returned flag is set when that happened.
func endOnSignOut(session auth.Provider, store *tasks.Store, quit func()) *atomic.Bool {
	var signedOut atomic.Bool
	session.Subscribe(func(user *models.User) {
		if user != nil || signedOut.Swap(true) {
			return
		}
		store.Close()
		quit()
	})
	return &signedOut
}

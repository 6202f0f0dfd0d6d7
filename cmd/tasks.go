package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/desertthunder/taskly/internal/formatter"
	"github.com/desertthunder/taskly/internal/models"
	"github.com/desertthunder/taskly/internal/notify"
	"github.com/desertthunder/taskly/internal/shared"
	"github.com/desertthunder/taskly/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// withStore signs in, loads the task list and runs fn against it. Store notifications are
// printed as they happen.
func (r *Runner) withStore(ctx context.Context, fn func(*tasks.Store, *models.User) error) error {
	session, user, err := r.signedIn(ctx)
	if err != nil {
		return err
	}

	svc, err := r.taskService(ctx, session)
	if err != nil {
		return err
	}

	center := r.newCenter()
	defer center.Close()
	r.printNotifications(center)

	store := tasks.NewStore(svc, center, shared.WithLogger(r.logger, "component", "store"))
	defer store.Close()

	if err := store.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to fetch tasks: %w", err)
	}
	return fn(store, user)
}

// TasksList prints the task list, or a single page of it with --page.
func (r *Runner) TasksList(ctx context.Context, cmd *cli.Command) error {
	return r.withStore(ctx, func(store *tasks.Store, user *models.User) error {
		list := store.Tasks()
		page := cmd.Int("page")

		var pager *tasks.Pager
		if page > 0 {
			pager = tasks.NewPager(store, r.config.UI.PageSize)
			pager.SetPage(page)
			list = pager.VisibleSlice()
		}

		if cmd.Bool("json") {
			return r.writeJSON(list, cmd.Bool("pretty"))
		}

		r.writePlain("Your Tasks\n")
		r.writePlain("Welcome, %s!\n\n", user.Name())

		if len(list) == 0 {
			return r.writePlain("No tasks yet.\n")
		}

		offset := 0
		if pager != nil {
			offset = (pager.CurrentPage() - 1) * pager.PageSize()
		}
		for i, task := range list {
			r.writePlain("%d. %s %s  (%s)\n", offset+i+1, checkbox(task), task.Text, task.ID)
		}

		if pager != nil {
			return r.writePlain("\nPage %d of %d\n", pager.CurrentPage(), pager.TotalPages())
		}
		return r.writePlain("\n%d tasks\n", len(list))
	})
}

// TasksAdd creates a task from the command arguments.
func (r *Runner) TasksAdd(ctx context.Context, cmd *cli.Command) error {
	text := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: task text", shared.ErrMissingArgument)
	}

	return r.withStore(ctx, func(store *tasks.Store, _ *models.User) error {
		task, err := store.Add(ctx, text)
		if err != nil {
			return err
		}
		r.logger.Debug("added task", "id", task.ID)
		return nil
	})
}

// TasksEdit replaces the text of the task with the given ID.
func (r *Runner) TasksEdit(ctx context.Context, cmd *cli.Command) error {
	id := models.TaskID(cmd.Args().First())
	text := strings.Join(cmd.Args().Tail(), " ")
	if id == "" {
		return fmt.Errorf("%w: task id", shared.ErrMissingArgument)
	}

	return r.withStore(ctx, func(store *tasks.Store, _ *models.User) error {
		_, err := store.Update(ctx, id, text)
		return err
	})
}

// TasksRemove deletes the task with the given ID.
func (r *Runner) TasksRemove(ctx context.Context, cmd *cli.Command) error {
	id := models.TaskID(cmd.Args().First())
	if id == "" {
		return fmt.Errorf("%w: task id", shared.ErrMissingArgument)
	}

	return r.withStore(ctx, func(store *tasks.Store, _ *models.User) error {
		if _, ok := store.Find(id); !ok {
			err := &tasks.ValidationError{Reason: tasks.ReasonNotFound, Text: string(id)}
			r.writeStatus(notify.Error, err.Message())
			return err
		}
		return store.Remove(ctx, id)
	})
}

// TasksExport writes the task list in the requested format.
func (r *Runner) TasksExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	return r.withStore(ctx, func(store *tasks.Store, user *models.User) error {
		export := &formatter.TaskExport{
			Owner:      user.Email,
			ExportedAt: time.Now().UTC(),
			Tasks:      store.Tasks(),
		}

		output := cmd.String("output")
		if output == "-" && format == formatter.FormatMarkdown && r.renderMarkdown(cmd) {
			rendered, err := formatter.RenderMarkdown(export, cmd.String("style"))
			if err != nil {
				return err
			}
			return r.writePlain("%s", rendered)
		}
		if output == "-" {
			data, err := formatter.Export(export, format)
			if err != nil {
				return err
			}
			return r.writePlain("%s", data)
		}

		path, err := formatter.WriteExport(export, format, output)
		if err != nil {
			return err
		}

		r.logger.Info("exported tasks", "path", path, "format", format, "count", len(export.Tasks))
		return r.writePlain("✓ Exported %d tasks (%d completed) to %s\n", len(export.Tasks), export.Completed(), path)
	})
}

// renderMarkdown reports whether Markdown printed to the output should be rendered for a terminal.
func (r *Runner) renderMarkdown(cmd *cli.Command) bool {
	if cmd.IsSet("render") {
		return cmd.Bool("render")
	}
	f, ok := r.output.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func checkbox(task models.Task) string {
	if task.Completed {
		return "[x]"
	}
	return "[ ]"
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/charmbracelet/huh"
	"github.com/desertthunder/taskly/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "taskly",
		Usage:    "Manage your task list from the terminal",
		Version:  "0.1.0",
		Flags:    rootFlags(),
		Before:   runner.Load,
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := app.Run(ctx, os.Args)
	stop()

	if cerr := runner.Close(); cerr != nil {
		logger.Warn("failed to close database", "error", cerr)
	}

	switch {
	case err == nil:
	case errors.Is(err, huh.ErrUserAborted), errors.Is(err, context.Canceled):
		os.Exit(130)
	case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrInvalidInput):
		logger.Error(err)
		os.Exit(1)
	default:
		logger.Fatalf("application error: %v", err)
	}
}

// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// rootFlags are inherited by every subcommand.
func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
			Sources: cli.EnvVars("TASKLY_CONFIG"),
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
}

// setupCommand handles setup operations for configuration and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config file from the built-in template",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "validate",
						Usage: "Validate the existing config file instead of creating one",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles sign-in operations
func authCommand(r *Runner) *cli.Command {
	credentials := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{
				Name:    "email",
				Aliases: []string{"e"},
				Usage:   "Account email (prompted when omitted)",
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Account password (prompted when omitted)",
				Sources: cli.EnvVars("TASKLY_PASSWORD"),
			},
		}
	}

	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Sign in with email and password",
				Flags:  credentials(),
				Action: r.AuthLogin,
			},
			{
				Name:   "register",
				Usage:  "Create an account and sign in",
				Flags:  credentials(),
				Action: r.AuthRegister,
			},
			{
				Name:   "google",
				Usage:  "Sign in with Google in the browser",
				Action: r.AuthGoogle,
			},
			{
				Name:    "logout",
				Aliases: []string{"signout"},
				Usage:   "Sign out and forget the saved session",
				Action:  r.AuthLogout,
			},
			{
				Name:  "status",
				Usage: "Show the signed-in user",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthStatus,
			},
		},
	}
}

// tasksCommand handles task list operations against the remote task service
func tasksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tasks",
		Aliases: []string{"t"},
		Usage:   "Manage your tasks",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List tasks",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "page",
						Usage: "Show a single page (1-based)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.TasksList,
			},
			{
				Name:      "add",
				Usage:     "Add a task",
				ArgsUsage: "<text>",
				Action:    r.TasksAdd,
			},
			{
				Name:      "edit",
				Usage:     "Replace the text of a task",
				ArgsUsage: "<id> <text>",
				Action:    r.TasksEdit,
			},
			{
				Name:      "rm",
				Aliases:   []string{"delete"},
				Usage:     "Delete a task",
				ArgsUsage: "<id>",
				Action:    r.TasksRemove,
			},
			{
				Name:  "export",
				Usage: "Export tasks to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, markdown, json, txt)",
						Value:   "markdown",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path, or - for stdout (default: tasks.<ext>)",
					},
					&cli.BoolFlag{
						Name:  "render",
						Usage: "Render Markdown for the terminal when writing to stdout (default: when stdout is a terminal)",
					},
					&cli.StringFlag{
						Name:  "style",
						Usage: "Markdown render style (dark, light, notty)",
						Value: "dark",
					},
				},
				Action: r.TasksExport,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive task management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive task view",
		Action:  r.TUI,
	}
}

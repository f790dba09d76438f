// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file, initialize the database and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
			},
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "Roll back and reapply every migration, clearing saved preferences",
			},
		},
		Action: r.Setup,
	}
}

// watchCommand keeps a live view and logs every change
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Follow the task list from the terminal log",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "last-event-id",
				Usage: "Resume the event stream after this id",
			},
			&cli.BoolFlag{
				Name:  "html",
				Usage: "Print the document after every change",
			},
		},
		Action: r.Watch,
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Open the interactive task dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs here while the dashboard owns the terminal",
			},
		},
		Action: r.TUI,
	}
}

// taskCommand handles one-shot control requests
func taskCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "task",
		Usage: "Add, retry, remove or clear tasks",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Queue a new download",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "album-id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "slugs",
						Usage: "Slugs to download (defaults to the album id)",
					},
					&cli.StringFlag{
						Name:    "service",
						Aliases: []string{"s"},
						Usage:   "Download service (defaults to the saved selection)",
					},
				},
				Action: r.TaskAdd,
			},
			{
				Name:  "retry",
				Usage: "Retry one task",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.TaskRetry,
			},
			{
				Name:  "remove",
				Usage: "Remove one task",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.TaskRemove,
			},
			{
				Name:  "clear",
				Usage: "Clear tasks in bulk",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "queued, completed, succeeded, failed, retry-fail-completed or multiple",
						Value:   "completed",
					},
				},
				Action: r.TaskClear,
			},
			{
				Name:  "copy-error",
				Usage: "Copy a failed task's error log to the clipboard",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.TaskCopyError,
			},
		},
	}
}

func restartCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "restart",
		Usage: "Restart the dashboard server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation prompt",
			},
		},
		Action: r.Restart,
	}
}

// serviceCommand reads and writes the saved download service
func serviceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "service",
		Usage: "Show or change the selected download service",
		Commands: []*cli.Command{
			{
				Name:   "get",
				Usage:  "Print the selected service",
				Action: r.ServiceGet,
			},
			{
				Name:  "set",
				Usage: "Select a service",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.ServiceSet,
			},
			{
				Name:  "list",
				Usage: "List known services",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON",
					},
				},
				Action: r.ServiceList,
			},
		},
	}
}

func snapshotCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Fetch the task list once and print or export it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "text, csv, markdown or json",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to this file instead of stdout",
			},
			&cli.StringFlag{
				Name:  "export-dir",
				Usage: "Write every format plus a manifest to this directory",
			},
		},
		Action: r.Snapshot,
	}
}

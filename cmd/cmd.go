// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for configuration and the store backend.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and the task store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// tasksCommand handles local task operations
func tasksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tasks",
		Aliases: []string{"task", "t"},
		Usage:   "Local task operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List tasks in the local store",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "status",
						Usage: "Only show tasks with this status",
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
				Name:  "show",
				Usage: "Show a single task as JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "uuid",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.TasksShow,
			},
			{
				Name:  "add",
				Usage: "Add a new pending task",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "description",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "project",
						Aliases: []string{"p"},
						Usage:   "Project to file the task under",
					},
					&cli.StringFlag{
						Name:  "due",
						Usage: "Due date (epoch seconds or YYYY-MM-DD)",
					},
				},
				Action: r.TasksAdd,
			},
			{
				Name:  "done",
				Usage: "Mark a task as complete",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "uuid",
					},
				},
				Action: r.TasksDone,
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Delete a task",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "uuid",
					},
				},
				Action: r.TasksDelete,
			},
		},
	}
}

// exportCommand writes task listings to files
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the task listing to a file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (csv, json, markdown, text)",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Listing title for markdown exports",
			},
		},
		Action: r.TasksExport,
	}
}

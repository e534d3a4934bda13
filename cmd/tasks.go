package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/twsync/internal/formatter"
	"github.com/desertthunder/twsync/internal/shared"
	"github.com/desertthunder/twsync/internal/taskwarrior"
	"github.com/desertthunder/twsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// parseDueFlag accepts either epoch seconds or a YYYY-MM-DD date and returns
// the epoch-second form records carry.
func parseDueFlag(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if _, err := strconv.ParseInt(value, 10, 64); err == nil {
		return value, nil
	}
	ts, err := time.Parse("2006-01-02", value)
	if err != nil {
		return "", fmt.Errorf("%w: due must be epoch seconds or YYYY-MM-DD, got %q", shared.ErrInvalidFlag, value)
	}
	return strconv.FormatInt(ts.Unix(), 10), nil
}

// findTask locates a task by its identifier across the repository.
func (r *Runner) findTask(ctx context.Context, uid string) (*taskwarrior.Task, error) {
	repo, err := r.repo()
	if err != nil {
		return nil, err
	}

	all, err := repo.All(ctx)
	if err != nil {
		return nil, err
	}

	for _, task := range all {
		if task.UID() == uid {
			return task, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", shared.ErrTaskNotFound, uid)
}

// TasksList prints every task in the repository.
func (r *Runner) TasksList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.repo()
	if err != nil {
		return err
	}

	all, err := repo.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	statusFilter := cmd.String("status")
	records := make([]taskwarrior.Record, 0, len(all))
	for _, task := range all {
		rec := task.Record()
		if statusFilter != "" && rec.Status != statusFilter {
			continue
		}
		records = append(records, rec)
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Tasks (%d)", len(records)))
	for _, rec := range records {
		line := fmt.Sprintf("%s  [%s] %s", rec.UUID, rec.Status, rec.Description)
		if rec.Project != "" {
			line += fmt.Sprintf(" (%s)", rec.Project)
		}
		r.writePlain("%s\n", line)
	}

	return nil
}

// TasksShow prints a single task as JSON.
func (r *Runner) TasksShow(ctx context.Context, cmd *cli.Command) error {
	uid := cmd.StringArg("uuid")
	if uid == "" {
		return fmt.Errorf("%w: uuid", shared.ErrMissingArgument)
	}

	task, err := r.findTask(ctx, uid)
	if err != nil {
		return err
	}

	return r.writeJSON(task.Record(), cmd.Bool("pretty"))
}

// TasksAdd creates a new pending task.
func (r *Runner) TasksAdd(ctx context.Context, cmd *cli.Command) error {
	description := cmd.StringArg("description")
	if description == "" {
		return fmt.Errorf("%w: description", shared.ErrMissingArgument)
	}

	due, err := parseDueFlag(cmd.String("due"))
	if err != nil {
		return err
	}

	rec := taskwarrior.Record{
		Status:      tasks.StatusPending,
		Description: description,
		Project:     cmd.String("project"),
		Due:         due,
	}

	task, err := r.factory.CreateFrom(taskwarrior.Source{Record: &rec})
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	repo, err := r.repo()
	if err != nil {
		return err
	}
	if err := repo.Save(ctx, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	r.logger.Info("task created", "uuid", task.UID())
	r.writePlain("Created task %s\n", task.UID())
	return nil
}

// TasksDone marks a task as complete.
func (r *Runner) TasksDone(ctx context.Context, cmd *cli.Command) error {
	uid := cmd.StringArg("uuid")
	if uid == "" {
		return fmt.Errorf("%w: uuid", shared.ErrMissingArgument)
	}

	task, err := r.findTask(ctx, uid)
	if err != nil {
		return err
	}

	rec := task.Record()
	if rec.Status == tasks.StatusCompleted {
		r.writePlain("Task %s is already completed\n", uid)
		return nil
	}
	rec.End = strconv.FormatInt(time.Now().Unix(), 10)

	done, err := r.factory.CreateFrom(taskwarrior.Source{Record: &rec})
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	repo, err := r.repo()
	if err != nil {
		return err
	}
	if err := repo.Save(ctx, done); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	r.writePlain("Completed task %s\n", uid)
	return nil
}

// TasksDelete removes a task.
func (r *Runner) TasksDelete(ctx context.Context, cmd *cli.Command) error {
	uid := cmd.StringArg("uuid")
	if uid == "" {
		return fmt.Errorf("%w: uuid", shared.ErrMissingArgument)
	}

	task, err := r.findTask(ctx, uid)
	if err != nil {
		return err
	}

	repo, err := r.repo()
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, task); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	r.writePlain("Deleted task %s\n", uid)
	return nil
}

// TasksExport writes the task listing to a file in the requested format.
func (r *Runner) TasksExport(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.repo()
	if err != nil {
		return err
	}

	all, err := repo.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	records := make([]taskwarrior.Record, 0, len(all))
	for _, task := range all {
		records = append(records, task.Record())
	}

	format := cmd.String("format")
	output := cmd.String("output")
	title := cmd.String("title")

	var path string
	switch format {
	case "csv":
		path, err = formatter.WriteCSVExport(records, output)
	case "json":
		path, err = formatter.WriteJSONExport(records, output)
	case "markdown", "md":
		path, err = formatter.WriteMarkdownExport(records, title, output)
	case "text", "txt":
		path, err = formatter.WriteTextExport(records, output)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return fmt.Errorf("failed to export tasks: %w", err)
	}

	r.logger.Info("tasks exported", "format", format, "path", path, "count", len(records))
	r.writePlain("Exported %d tasks to %s\n", len(records), path)
	return nil
}

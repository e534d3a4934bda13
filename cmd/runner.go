package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/twsync/internal/shared"
	"github.com/desertthunder/twsync/internal/taskdb"
	"github.com/desertthunder/twsync/internal/taskwarrior"
	"github.com/desertthunder/twsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	repository tasks.Repository[*taskwarrior.Task]
	factory    *taskwarrior.Factory
	keys       taskwarrior.Keys
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Repository tasks.Repository[*taskwarrior.Task]
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	keys := taskwarrior.Keys{Namespace: opts.Config.Sync.Namespace}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		repository: opts.Repository,
		factory:    taskwarrior.NewFactory(keys),
		keys:       keys,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// repo returns the task repository, building it from the configured store
// backend on first use.
func (r *Runner) repo() (tasks.Repository[*taskwarrior.Task], error) {
	if r.repository != nil {
		return r.repository, nil
	}

	switch r.config.Store.Backend {
	case "sqlite":
		db, err := shared.OpenStoreDatabase(r.config.Store)
		if err != nil {
			return nil, fmt.Errorf("failed to open store database: %w", err)
		}
		if err := shared.RunMigrations(db); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		r.repository = taskwarrior.NewRepository(taskdb.NewSQLiteStore(db), r.factory, r.logger)
	case "taskwarrior":
		store := taskdb.NewCLIStore(r.config.Store.TaskBin, r.config.Store.Taskrc, r.keys)
		r.repository = taskwarrior.NewRepository(store, r.factory, r.logger)
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", shared.ErrInvalidConfig, r.config.Store.Backend)
	}

	return r.repository, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, tasksCommand, exportCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return err
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("%s\n", headerStyle.Render(title))
}

package taskwarrior

import (
	"context"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/twsync/internal/shared"
	"github.com/desertthunder/twsync/internal/tasks"
)

// Store is the local task database surface the repository drives. Every
// mutating operation returns the store's canonical record, which replaces the
// wrapper's copy. Store failures propagate verbatim; resilience policy lives
// with the caller.
type Store interface {
	// LoadAll fetches every record, grouped however the store groups them
	// (typically by status).
	LoadAll(ctx context.Context) (map[string][]Record, error)

	// Add creates a record; the store assigns the identifier.
	Add(ctx context.Context, rec Record) (Record, error)

	// Update rewrites an existing record by its identifier.
	Update(ctx context.Context, rec Record) (Record, error)

	// Delete removes the record with the given identifier.
	Delete(ctx context.Context, uuid string) error

	// Complete runs the store's dedicated completion transition, given only
	// the identifier and the completion timestamp.
	Complete(ctx context.Context, uuid string, end time.Time) (Record, error)
}

// Repository bridges the wrapper/factory pair to a [Store].
type Repository struct {
	store   Store
	factory *Factory
	logger  *log.Logger
}

var _ tasks.Repository[*Task] = (*Repository)(nil)

// NewRepository creates a Repository over store. A nil logger falls back to
// the shared default.
func NewRepository(store Store, factory *Factory, logger *log.Logger) *Repository {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Repository{store: store, factory: factory, logger: logger}
}

// All enumerates every record in the store, flattened across the store's
// groupings in sorted group order, one fresh wrapper per record. Nothing is
// cached between calls.
func (r *Repository) All(ctx context.Context) ([]*Task, error) {
	groups, err := r.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var all []*Task
	for _, name := range names {
		for _, rec := range groups[name] {
			task, err := r.factory.CreateFrom(Source{Record: &rec})
			if err != nil {
				return nil, err
			}
			all = append(all, task)
		}
	}

	return all, nil
}

// Delete removes the task from the store by its identifier.
func (r *Repository) Delete(ctx context.Context, task *Task) error {
	return r.store.Delete(ctx, task.UID())
}

// Save persists the task: a create when the store has not assigned an
// identifier yet, an update otherwise. The store's returned record replaces
// the wrapper's. A save that leaves a pending task carrying a completion
// timestamp then runs the store's dedicated completion transition.
func (r *Repository) Save(ctx context.Context, task *Task) error {
	if task.UID() == "" {
		rec, err := r.store.Add(ctx, task.rec.Clone())
		if err != nil {
			return err
		}
		task.rec = rec
	} else {
		rec, err := r.store.Update(ctx, task.rec.Clone())
		if err != nil {
			return err
		}
		task.rec = rec
	}

	pending, err := r.completionPending(task)
	if err != nil {
		return err
	}
	if !pending {
		return nil
	}
	return r.complete(ctx, task)
}

// completionPending guards the completion transition: a task still in the
// pending status that now carries a completion timestamp has been completed
// locally, and the store models completion as a state transition rather than
// a field edit.
func (r *Repository) completionPending(task *Task) (bool, error) {
	status, err := task.Status()
	if err != nil {
		return false, err
	}
	if status != tasks.StatusPending {
		return false, nil
	}

	completed, err := task.Completed()
	if err != nil {
		return false, err
	}
	return completed != nil, nil
}

// complete issues the store's completion transition with the identifier and
// completion timestamp only, and adopts the store's resulting record.
func (r *Repository) complete(ctx context.Context, task *Task) error {
	completed, err := task.Completed()
	if err != nil {
		return err
	}

	r.logger.Info("marking task as complete", "uuid", task.UID())

	rec, err := r.store.Complete(ctx, task.UID(), *completed)
	if err != nil {
		return err
	}
	task.rec = rec
	return nil
}

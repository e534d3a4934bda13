package tasks

import (
	"context"
	"time"
)

// Task status values as stored by the local task database.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusDeleted   = "deleted"
	StatusRecurring = "recurring"
)

// Task is the engine-facing view of one local task.
//
// Accessors over mandatory record fields (status, description) return an
// error when the underlying record is malformed; optional fields yield their
// zero value when absent.
type Task interface {
	// UID returns the store-assigned identifier, or "" until the task has
	// been persisted once.
	UID() string

	// Status returns the task status (pending, completed, deleted, recurring).
	Status() (string, error)

	// Project returns the project name, or "" when unset.
	Project() string

	// Subject returns the task description.
	Subject() (string, error)

	// Due returns the due timestamp, or nil when unset.
	Due() (*time.Time, error)

	// Completed returns the completion timestamp, or nil when unset.
	Completed() (*time.Time, error)

	// Annotations returns every freeform annotation field on the record.
	Annotations() map[string]string

	// Association returns an upstream identifier when the task is associated
	// with any provider, or "" when it has none.
	//
	// When associations for more than one provider coexist the choice is
	// deterministic but arbitrary; use IsAssociatedWith for a provider-scoped
	// check.
	Association() string

	// IsAssociatedWith reports whether the task holds an association for
	// other's provider matching other's identifier.
	IsAssociatedWith(other UpstreamTask) bool

	// AssociateWith records other's identifier under its provider and
	// refreshes the stored etag with other's current change tag.
	AssociateWith(other UpstreamTask)

	// Stale reports whether the task has fallen behind other upstream. A task
	// that never synced has no etag and is never stale.
	Stale(other UpstreamTask) bool

	// CopyFrom overwrites the task's project, subject, due and completion
	// fields from other, clearing each field whose upstream value is unset.
	CopyFrom(other UpstreamTask) error

	// ShouldSync reports whether the task belongs in outbound sync.
	ShouldSync() (bool, error)
}

// UpstreamTask is the counterpart task in an upstream provider, as the sync
// engine presents it to downstream adapters.
type UpstreamTask interface {
	UID() string
	Etag() string     // opaque change-tracking tag
	Provider() string // identifying name of the upstream source
	Subject() string
	Project() string
	Due() *time.Time
	Completed() *time.Time
}

// Repository defines the list/save/delete surface the sync engine drives
// against a local task store.
type Repository[T Task] interface {
	// All enumerates every task in the store, one fresh wrapper per record.
	All(ctx context.Context) ([]T, error)

	// Save persists the task: a create when it has no identifier yet, an
	// update otherwise.
	Save(ctx context.Context, task T) error

	// Delete removes the task from the store by its identifier.
	Delete(ctx context.Context, task T) error
}

package taskwarrior

import (
	"github.com/desertthunder/twsync/internal/shared"
	"github.com/desertthunder/twsync/internal/tasks"
)

// Source names where a new task wrapper comes from: a snapshot of a store
// record, or an upstream counterpart discovered by the sync engine. Exactly
// one field should be set.
type Source struct {
	Record   *Record
	Upstream tasks.UpstreamTask
}

// Factory is the single construction point for task wrappers.
type Factory struct {
	keys Keys
}

// NewFactory creates a Factory writing extension fields under keys.
func NewFactory(keys Keys) *Factory {
	return &Factory{keys: keys}
}

// CreateFrom builds a task wrapper from src.
//
// The record path wraps a deep copy, so later mutation of the caller's record
// never crosses into the wrapper (and vice versa). The upstream path seeds a
// fresh pending record and populates it via CopyFrom; this is how tasks
// discovered upstream get a local counterpart. Supplying neither source is an
// error, never a silent default.
func (f *Factory) CreateFrom(src Source) (*Task, error) {
	switch {
	case src.Record != nil:
		return newTask(src.Record.Clone(), f.keys), nil

	case src.Upstream != nil:
		task := newTask(Record{Status: tasks.StatusPending}, f.keys)
		if err := task.CopyFrom(src.Upstream); err != nil {
			return nil, err
		}
		return task, nil
	}

	return nil, shared.ErrNoSource
}

package taskwarrior

import (
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/twsync/internal/shared"
	"github.com/desertthunder/twsync/internal/tasks"
)

// Task wraps exactly one local [Record] behind the engine-facing [tasks.Task]
// capability set. A wrapper is short-lived: built by the [Factory], optionally
// mutated via CopyFrom or AssociateWith, then handed to the [Repository] and
// discarded. Records are never shared between wrappers.
type Task struct {
	keys Keys
	rec  Record
}

var _ tasks.Task = (*Task)(nil)

func newTask(rec Record, keys Keys) *Task {
	return &Task{keys: keys, rec: rec}
}

// Record returns a snapshot of the wrapped record. Mutating the snapshot does
// not affect the task.
func (t *Task) Record() Record {
	return t.rec.Clone()
}

// UID returns the store-assigned identifier, or "" until the record has been
// persisted once.
func (t *Task) UID() string {
	return t.rec.UUID
}

// Status returns the task status, or an error when the mandatory field is
// missing from the record.
func (t *Task) Status() (string, error) {
	if t.rec.Status == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingField, fieldStatus)
	}
	return t.rec.Status, nil
}

// Subject returns the task description, or an error when the mandatory field
// is missing from the record.
func (t *Task) Subject() (string, error) {
	if t.rec.Description == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingField, fieldDescription)
	}
	return t.rec.Description, nil
}

// Project returns the project name, or "" when unset.
func (t *Task) Project() string {
	return t.rec.Project
}

// Due returns the due timestamp, or nil when unset.
func (t *Task) Due() (*time.Time, error) {
	return parseEpoch(fieldDue, t.rec.Due)
}

// Completed returns the completion timestamp, or nil when unset.
func (t *Task) Completed() (*time.Time, error) {
	return parseEpoch(fieldEnd, t.rec.End)
}

// Annotations returns a copy of every annotation field on the record; the
// mapping is empty when the record has none.
func (t *Task) Annotations() map[string]string {
	out := make(map[string]string, len(t.rec.Annotations))
	for key, value := range t.rec.Annotations {
		out[key] = value
	}
	return out
}

// Association returns an upstream identifier when the record holds an
// association for any provider, or "" when it holds none.
//
// With more than one provider the first in sorted provider order wins;
// callers needing a specific provider should use [Task.IsAssociatedWith].
func (t *Task) Association() string {
	for _, provider := range t.rec.providers() {
		return t.rec.Associations[provider]
	}
	return ""
}

// IsAssociatedWith reports whether the record holds an association for
// other's provider whose value equals other's identifier.
func (t *Task) IsAssociatedWith(other tasks.UpstreamTask) bool {
	uid, ok := t.rec.Associations[other.Provider()]
	return ok && uid == other.UID()
}

// AssociateWith records other's identifier under its provider and overwrites
// the etag with other's current change tag. The underlying record is mutated
// in place.
func (t *Task) AssociateWith(other tasks.UpstreamTask) {
	if t.rec.Associations == nil {
		t.rec.Associations = make(map[string]string)
	}
	t.rec.Associations[other.Provider()] = other.UID()

	etag := other.Etag()
	t.rec.Etag = &etag
}

// Stale reports whether the recorded etag differs from other's current etag.
// A record with no etag has no sync history and is never stale.
func (t *Task) Stale(other tasks.UpstreamTask) bool {
	if t.rec.Etag == nil {
		return false
	}
	return *t.rec.Etag != other.Etag()
}

// CopyFrom overwrites the project, description, due and end fields from
// other. Each field is cleared when the corresponding upstream value is
// unset, and set otherwise. The record is left untouched when other is nil.
func (t *Task) CopyFrom(other tasks.UpstreamTask) error {
	if other == nil {
		return fmt.Errorf("%w: cannot sync with nothing", shared.ErrNilUpstream)
	}

	t.rec.Project = other.Project()
	t.rec.Description = other.Subject()
	t.rec.Due = formatEpoch(other.Due())
	t.rec.End = formatEpoch(other.Completed())
	return nil
}

// ShouldSync reports whether the task belongs in outbound sync.
func (t *Task) ShouldSync() (bool, error) {
	status, err := t.Status()
	if err != nil {
		return false, err
	}

	switch {
	case status == tasks.StatusRecurring || status == tasks.StatusDeleted:
		// These never exist upstream.
		return false, nil
	case status == tasks.StatusCompleted && t.Association() == "":
		// Completed locally without ever syncing; not worth pushing.
		return false, nil
	}

	return true, nil
}

// parseEpoch converts a stored epoch-second string into a timestamp, nil when
// the field is unset. Conversion is lossless to the second.
func parseEpoch(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	secs, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q is not an epoch timestamp", shared.ErrInvalidField, field, value)
	}
	ts := time.Unix(secs, 0)
	return &ts, nil
}

// formatEpoch renders a timestamp back into the store's epoch-second
// encoding, "" for nil.
func formatEpoch(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return strconv.FormatInt(ts.Unix(), 10)
}

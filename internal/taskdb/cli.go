package taskdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/twsync/internal/shared"
	"github.com/desertthunder/twsync/internal/taskwarrior"
)

// taskwarriorTime is the timestamp layout the task binary speaks on its JSON
// boundary. Records carry epoch seconds, so every date field crosses through
// a conversion in each direction.
const taskwarriorTime = "20060102T150405Z"

// dateFields are the export fields carrying taskwarrior timestamps.
var dateFields = map[string]bool{
	"due":       true,
	"end":       true,
	"entry":     true,
	"modified":  true,
	"scheduled": true,
	"start":     true,
	"until":     true,
	"wait":      true,
}

// CLIStore implements [taskwarrior.Store] by shelling out to the task binary.
// Confirmation prompts and hooks are switched off on every invocation so the
// process never blocks on a tty.
type CLIStore struct {
	bin    string
	taskrc string
	keys   taskwarrior.Keys
}

// NewCLIStore creates a CLIStore. bin defaults to "task" when empty; taskrc,
// when set, overrides the binary's rc file.
func NewCLIStore(bin, taskrc string, keys taskwarrior.Keys) *CLIStore {
	if bin == "" {
		bin = "task"
	}
	return &CLIStore{bin: bin, taskrc: taskrc, keys: keys}
}

// LoadAll exports every task, grouped by status.
func (s *CLIStore) LoadAll(ctx context.Context) (map[string][]taskwarrior.Record, error) {
	records, err := s.export(ctx, nil)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]taskwarrior.Record)
	for _, rec := range records {
		groups[rec.Status] = append(groups[rec.Status], rec)
	}

	return groups, nil
}

// Add imports a new task, assigning its identifier, and returns the stored
// form.
func (s *CLIStore) Add(ctx context.Context, rec taskwarrior.Record) (taskwarrior.Record, error) {
	rec.UUID = shared.GenerateID()
	return s.importRecord(ctx, rec)
}

// Update rewrites an existing task by its identifier. Import with a known
// uuid overwrites the matching task in place.
func (s *CLIStore) Update(ctx context.Context, rec taskwarrior.Record) (taskwarrior.Record, error) {
	if _, err := s.exportOne(ctx, rec.UUID); err != nil {
		return taskwarrior.Record{}, err
	}
	return s.importRecord(ctx, rec)
}

// Delete removes a task by its identifier.
func (s *CLIStore) Delete(ctx context.Context, uuid string) error {
	if _, err := s.exportOne(ctx, uuid); err != nil {
		return err
	}
	_, err := s.run(ctx, nil, "uuid:"+uuid, "delete")
	return err
}

// Complete runs the completion transition: the task is marked done, then its
// completion timestamp is pinned to the caller's value.
func (s *CLIStore) Complete(ctx context.Context, uuid string, end time.Time) (taskwarrior.Record, error) {
	if _, err := s.exportOne(ctx, uuid); err != nil {
		return taskwarrior.Record{}, err
	}

	if _, err := s.run(ctx, nil, "uuid:"+uuid, "done"); err != nil {
		return taskwarrior.Record{}, err
	}
	if _, err := s.run(ctx, nil, "uuid:"+uuid, "modify", "end:"+end.UTC().Format(taskwarriorTime)); err != nil {
		return taskwarrior.Record{}, err
	}

	return s.exportOne(ctx, uuid)
}

// importRecord pushes a record through `task import` and re-exports it.
func (s *CLIStore) importRecord(ctx context.Context, rec taskwarrior.Record) (taskwarrior.Record, error) {
	payload, err := encodeRecord(rec, s.keys)
	if err != nil {
		return taskwarrior.Record{}, err
	}

	if _, err := s.run(ctx, payload, "import", "-"); err != nil {
		return taskwarrior.Record{}, err
	}

	return s.exportOne(ctx, rec.UUID)
}

// export runs `task [filter...] export` and parses its JSON.
func (s *CLIStore) export(ctx context.Context, filter []string) ([]taskwarrior.Record, error) {
	out, err := s.run(ctx, nil, append(filter, "export")...)
	if err != nil {
		return nil, err
	}

	var raw []map[string]any
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse export output: %w", err)
	}

	records := make([]taskwarrior.Record, 0, len(raw))
	for _, entry := range raw {
		fields, err := flattenExport(entry)
		if err != nil {
			return nil, err
		}
		records = append(records, taskwarrior.ParseRecord(fields, s.keys))
	}

	return records, nil
}

func (s *CLIStore) exportOne(ctx context.Context, uuid string) (taskwarrior.Record, error) {
	records, err := s.export(ctx, []string{"uuid:" + uuid})
	if err != nil {
		return taskwarrior.Record{}, err
	}
	if len(records) == 0 {
		return taskwarrior.Record{}, fmt.Errorf("%w: %s", shared.ErrTaskNotFound, uuid)
	}
	return records[0], nil
}

// run executes the task binary with the store's standing overrides prepended.
func (s *CLIStore) run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	base := []string{"rc.confirmation=off", "rc.hooks=0", "rc.json.array=on", "rc.verbose=nothing"}
	if s.taskrc != "" {
		base = append([]string{"rc:" + s.taskrc}, base...)
	}

	cmd := exec.CommandContext(ctx, s.bin, append(base, args...)...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("task %s failed: %s", strings.Join(args, " "), strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("failed to run %s: %w", s.bin, err)
	}

	return stdout.Bytes(), nil
}

// flattenExport converts one export object into the flat string mapping
// ParseRecord expects: timestamps become epoch seconds and the annotations
// array becomes keyed entries.
func flattenExport(entry map[string]any) (map[string]string, error) {
	fields := make(map[string]string, len(entry))

	for key, value := range entry {
		switch key {
		case "id", "urgency":
			// Working-set ordinals and computed urgency are not part of
			// the record.
			continue
		case "annotations":
			items, ok := value.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: annotations", shared.ErrInvalidField)
			}
			for _, item := range items {
				obj, ok := item.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("%w: annotations", shared.ErrInvalidField)
				}
				entryTime, _ := obj["entry"].(string)
				description, _ := obj["description"].(string)
				epoch, err := isoToEpoch(entryTime)
				if err != nil {
					return nil, err
				}
				fields["annotation_"+epoch] = description
			}
			continue
		case "tags":
			items, ok := value.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: tags", shared.ErrInvalidField)
			}
			names := make([]string, 0, len(items))
			for _, item := range items {
				if name, ok := item.(string); ok {
					names = append(names, name)
				}
			}
			// Records carry tags comma-joined in their passthrough fields.
			fields["tags"] = strings.Join(names, ",")
			continue
		}

		switch v := value.(type) {
		case string:
			if dateFields[key] {
				epoch, err := isoToEpoch(v)
				if err != nil {
					return nil, err
				}
				fields[key] = epoch
			} else {
				fields[key] = v
			}
		case float64:
			fields[key] = strconv.FormatInt(int64(v), 10)
		case bool:
			fields[key] = strconv.FormatBool(v)
		}
	}

	return fields, nil
}

// encodeRecord converts a record into the JSON object `task import` expects.
func encodeRecord(rec taskwarrior.Record, keys taskwarrior.Keys) ([]byte, error) {
	flat := rec.Flatten(keys)
	obj := make(map[string]any, len(flat))
	var annotations []map[string]string

	for key, value := range flat {
		if epoch, ok := strings.CutPrefix(key, "annotation_"); ok {
			iso, err := epochToISO(epoch)
			if err != nil {
				return nil, err
			}
			annotations = append(annotations, map[string]string{
				"entry":       iso,
				"description": value,
			})
			continue
		}

		if dateFields[key] {
			iso, err := epochToISO(value)
			if err != nil {
				return nil, err
			}
			obj[key] = iso
			continue
		}

		if key == "tags" {
			obj[key] = strings.Split(value, ",")
			continue
		}

		obj[key] = value
	}

	if len(annotations) > 0 {
		obj["annotations"] = annotations
	}

	payload, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return payload, nil
}

func isoToEpoch(iso string) (string, error) {
	ts, err := time.Parse(taskwarriorTime, iso)
	if err != nil {
		return "", fmt.Errorf("%w: timestamp %q", shared.ErrInvalidField, iso)
	}
	return strconv.FormatInt(ts.Unix(), 10), nil
}

func epochToISO(epoch string) (string, error) {
	secs, err := strconv.ParseInt(epoch, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: timestamp %q", shared.ErrInvalidField, epoch)
	}
	return time.Unix(secs, 0).UTC().Format(taskwarriorTime), nil
}

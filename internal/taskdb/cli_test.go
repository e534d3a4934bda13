package taskdb

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/desertthunder/twsync/internal/shared"
	"github.com/desertthunder/twsync/internal/taskwarrior"
)

func TestNewCLIStore(t *testing.T) {
	store := NewCLIStore("", "", taskwarrior.Keys{})
	if store.bin != "task" {
		t.Errorf("expected default binary task, got %q", store.bin)
	}

	store = NewCLIStore("/usr/local/bin/task", "/tmp/taskrc", taskwarrior.Keys{})
	if store.bin != "/usr/local/bin/task" || store.taskrc != "/tmp/taskrc" {
		t.Errorf("unexpected store config: %+v", store)
	}
}

func TestFlattenExport(t *testing.T) {
	entry := map[string]any{
		"id":          float64(3),
		"uuid":        "a",
		"status":      "pending",
		"description": "write report",
		"project":     "work",
		"due":         "20231114T221320Z",
		"entry":       "20231101T000000Z",
		"urgency":     4.2,
		"twgs_etag":   "etag-a",
		"tags":        []any{"home", "errand"},
		"annotations": []any{
			map[string]any{"entry": "20231114T221321Z", "description": "a note"},
		},
	}

	fields, err := flattenExport(entry)
	if err != nil {
		t.Fatalf("flattenExport failed: %v", err)
	}

	if fields["due"] != "1700000000" {
		t.Errorf("due not converted to epoch seconds: %q", fields["due"])
	}
	if fields["annotation_1700000001"] != "a note" {
		t.Errorf("annotation not flattened: %v", fields)
	}
	if _, ok := fields["id"]; ok {
		t.Error("working-set id should be dropped")
	}
	if _, ok := fields["urgency"]; ok {
		t.Error("computed urgency should be dropped")
	}
	if fields["tags"] != "home,errand" {
		t.Errorf("tags not joined: %q", fields["tags"])
	}

	rec := taskwarrior.ParseRecord(fields, taskwarrior.Keys{})
	if rec.UUID != "a" || rec.Due != "1700000000" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Etag == nil || *rec.Etag != "etag-a" {
		t.Errorf("etag not carried: %v", rec.Etag)
	}

	t.Run("garbage timestamp errors", func(t *testing.T) {
		_, err := flattenExport(map[string]any{"due": "yesterday"})
		if !errors.Is(err, shared.ErrInvalidField) {
			t.Errorf("expected ErrInvalidField, got %v", err)
		}
	})
}

func TestEncodeRecord(t *testing.T) {
	etag := "etag-a"
	rec := taskwarrior.Record{
		UUID:         "a",
		Status:       "pending",
		Description:  "write report",
		Due:          "1700000000",
		Annotations:  map[string]string{"annotation_1700000001": "a note"},
		Associations: map[string]string{"gcal": "evt-1"},
		Etag:         &etag,
	}

	payload, err := encodeRecord(rec, taskwarrior.Keys{})
	if err != nil {
		t.Fatalf("encodeRecord failed: %v", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}

	if obj["due"] != "20231114T221320Z" {
		t.Errorf("due not converted to taskwarrior time: %v", obj["due"])
	}
	if obj["twgs_assoc_gcal"] != "evt-1" {
		t.Errorf("association key not emitted: %v", obj)
	}
	if obj["twgs_etag"] != "etag-a" {
		t.Errorf("etag key not emitted: %v", obj)
	}

	annotations, ok := obj["annotations"].([]any)
	if !ok || len(annotations) != 1 {
		t.Fatalf("expected one annotation object, got %v", obj["annotations"])
	}
	note := annotations[0].(map[string]any)
	if note["entry"] != "20231114T221321Z" || note["description"] != "a note" {
		t.Errorf("unexpected annotation: %v", note)
	}

	t.Run("round trips through flattenExport", func(t *testing.T) {
		fields, err := flattenExport(obj)
		if err != nil {
			t.Fatalf("flattenExport failed: %v", err)
		}
		back := taskwarrior.ParseRecord(fields, taskwarrior.Keys{})
		if back.UUID != rec.UUID || back.Due != rec.Due || back.Associations["gcal"] != "evt-1" {
			t.Errorf("round trip lost data: %+v", back)
		}
	})

	t.Run("garbage epoch errors", func(t *testing.T) {
		_, err := encodeRecord(taskwarrior.Record{Status: "pending", Description: "x", Due: "soon"}, taskwarrior.Keys{})
		if !errors.Is(err, shared.ErrInvalidField) {
			t.Errorf("expected ErrInvalidField, got %v", err)
		}
	})
}

package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/twsync/internal/shared"
	"github.com/desertthunder/twsync/internal/tasks"
	tu "github.com/desertthunder/twsync/internal/testing"
)

// addedUID parses the uuid from the "Created task <uuid>" line.
func addedUID(t *testing.T, output string) string {
	t.Helper()

	for _, line := range strings.Split(output, "\n") {
		if rest, ok := strings.CutPrefix(line, "Created task "); ok {
			return strings.TrimSpace(rest)
		}
	}
	t.Fatalf("no created task line in output: %q", output)
	return ""
}

func TestParseDueFlag(t *testing.T) {
	tc := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{name: "empty passes through", value: "", want: ""},
		{name: "epoch passes through", value: "1700000000", want: "1700000000"},
		{name: "date converts to epoch", value: "2023-11-14", want: "1699920000"},
		{name: "garbage errors", value: "next tuesday", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDueFlag(tt.value)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidFlag) {
					t.Errorf("expected ErrInvalidFlag, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDueFlag failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseDueFlag(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestTasksAddAndList(t *testing.T) {
	runner, output := newTestRunner(t)

	if err := runCommand(t, runner, "tasks", "add", "--project", "home", "buy milk"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	uid := addedUID(t, output.String())
	if uid == "" {
		t.Fatal("expected a task uuid")
	}

	output.Reset()
	if err := runCommand(t, runner, "tasks", "list"); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	listing := output.String()
	if !strings.Contains(listing, "buy milk") {
		t.Errorf("listing missing task description: %q", listing)
	}
	if !strings.Contains(listing, "(home)") {
		t.Errorf("listing missing project: %q", listing)
	}

	t.Run("status filter", func(t *testing.T) {
		output.Reset()
		if err := runCommand(t, runner, "tasks", "list", "--status", tasks.StatusCompleted); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if strings.Contains(output.String(), "buy milk") {
			t.Error("pending task should be filtered out")
		}
	})

	t.Run("json output", func(t *testing.T) {
		output.Reset()
		if err := runCommand(t, runner, "tasks", "list", "--json"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(output.String(), `"buy milk"`) {
			t.Errorf("json listing missing task: %q", output.String())
		}
	})
}

func TestTasksShow(t *testing.T) {
	runner, output := newTestRunner(t)

	if err := runCommand(t, runner, "tasks", "add", "write report"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	uid := addedUID(t, output.String())

	output.Reset()
	if err := runCommand(t, runner, "tasks", "show", uid); err != nil {
		t.Fatalf("show failed: %v", err)
	}

	if !strings.Contains(output.String(), `"write report"`) {
		t.Errorf("show missing task data: %q", output.String())
	}

	t.Run("unknown uuid errors", func(t *testing.T) {
		err := runCommand(t, runner, "tasks", "show", "missing")
		if !errors.Is(err, shared.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})
}

func TestTasksDone(t *testing.T) {
	runner, output := newTestRunner(t)

	if err := runCommand(t, runner, "tasks", "add", "finish this"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	uid := addedUID(t, output.String())

	output.Reset()
	if err := runCommand(t, runner, "tasks", "done", uid); err != nil {
		t.Fatalf("done failed: %v", err)
	}

	task, err := runner.findTask(context.Background(), uid)
	if err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}

	status, err := task.Status()
	if err != nil {
		t.Fatalf("failed to read status: %v", err)
	}
	if status != tasks.StatusCompleted {
		t.Errorf("expected completed status, got %s", status)
	}

	completed, err := task.Completed()
	if err != nil {
		t.Fatalf("failed to read completion time: %v", err)
	}
	if completed == nil {
		t.Error("expected a completion timestamp")
	}

	t.Run("already completed is a no-op", func(t *testing.T) {
		output.Reset()
		if err := runCommand(t, runner, "tasks", "done", uid); err != nil {
			t.Fatalf("done failed: %v", err)
		}
		if !strings.Contains(output.String(), "already completed") {
			t.Errorf("expected no-op message, got %q", output.String())
		}
	})
}

func TestTasksDelete(t *testing.T) {
	runner, output := newTestRunner(t)

	if err := runCommand(t, runner, "tasks", "add", "throwaway"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	uid := addedUID(t, output.String())

	if err := runCommand(t, runner, "tasks", "delete", uid); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := runner.findTask(context.Background(), uid); !errors.Is(err, shared.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound after delete, got %v", err)
	}
}

func TestTasksExport(t *testing.T) {
	runner, output := newTestRunner(t)

	if err := runCommand(t, runner, "tasks", "add", "export me"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	tempDir := t.TempDir()
	originalDir := tu.MustGetwd(t)
	tu.MustChdir(t, tempDir)
	defer tu.MustChdir(t, originalDir)

	t.Run("csv", func(t *testing.T) {
		output.Reset()
		if err := runCommand(t, runner, "export", "--format", "csv"); err != nil {
			t.Fatalf("export failed: %v", err)
		}

		tu.AssertFileExists(t, "tasks.csv")
		content := tu.MustReadFile(t, "tasks.csv")
		if !strings.Contains(content, "export me") {
			t.Errorf("CSV missing task data: %q", content)
		}
	})

	t.Run("json with custom path", func(t *testing.T) {
		output.Reset()
		if err := runCommand(t, runner, "export", "--format", "json", "--output", "out.json"); err != nil {
			t.Fatalf("export failed: %v", err)
		}

		tu.AssertFileExists(t, "out.json")
		if !strings.Contains(output.String(), "Exported 1 tasks to out.json") {
			t.Errorf("missing export summary: %q", output.String())
		}
	})

	t.Run("unknown format errors", func(t *testing.T) {
		err := runCommand(t, runner, "export", "--format", "yaml")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

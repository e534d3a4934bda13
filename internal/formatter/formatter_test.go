package formatter

import (
	"strings"
	"testing"

	"github.com/desertthunder/twsync/internal/taskwarrior"
	"github.com/desertthunder/twsync/internal/tasks"
	th "github.com/desertthunder/twsync/internal/testing"
)

func sampleRecords() []taskwarrior.Record {
	return []taskwarrior.Record{
		{
			UUID:         "a",
			Status:       tasks.StatusPending,
			Description:  "write report",
			Project:      "work",
			Due:          "1700000000",
			Associations: map[string]string{"gcal": "evt-1", "todoist": "item-9"},
		},
		{
			UUID:        "b",
			Status:      tasks.StatusCompleted,
			Description: "book flights",
			End:         "1700086400",
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleRecords())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "UUID,Status,Description,Project,Due,Completed,Associations") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "write report") {
			t.Errorf("CSV missing description")
		}
		if !strings.Contains(output, "2023-11-14") {
			t.Errorf("CSV missing rendered due date, got: %s", output)
		}
		if !strings.Contains(output, "gcal:evt-1 todoist:item-9") {
			t.Errorf("CSV missing sorted association pairs, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleRecords(), "Weekly Review")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# Weekly Review") {
			t.Errorf("Markdown missing title")
		}
		if !strings.Contains(output, "**Tasks**: 2") {
			t.Errorf("Markdown missing task count")
		}
		if !strings.Contains(output, "1. pending - write report (work) [due 2023-11-14]") {
			t.Errorf("Markdown missing task line, got: %s", output)
		}
		if !strings.Contains(output, "2. completed - book flights") {
			t.Errorf("Markdown missing task without project")
		}

		t.Run("default title", func(t *testing.T) {
			data, err := ExportToMarkdown(nil, "")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}
			if !strings.Contains(string(data), "# Tasks") {
				t.Errorf("Markdown missing default title")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleRecords())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Tasks: 2") {
			t.Errorf("Text missing task count")
		}
		if !strings.Contains(output, "1. [pending] write report") {
			t.Errorf("Text missing task line, got: %s", output)
		}
		if !strings.Contains(output, "2. [completed] book flights") {
			t.Errorf("Text missing second task")
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleRecords())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, `"write report"`) {
			t.Errorf("JSON missing description")
		}
		if !strings.Contains(output, `"evt-1"`) {
			t.Errorf("JSON missing association")
		}
	})
}

func TestFormatDate(t *testing.T) {
	tc := []struct {
		name  string
		epoch string
		want  string
	}{
		{name: "empty stays empty", epoch: "", want: ""},
		{name: "epoch renders as date", epoch: "1700000000", want: "2023-11-14"},
		{name: "garbage passes through", epoch: "tomorrow", want: "tomorrow"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDate(tt.epoch); got != tt.want {
				t.Errorf("formatDate(%q) = %q, want %q", tt.epoch, got, tt.want)
			}
		})
	}
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			filepath, err := WriteCSVExport(sampleRecords(), "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if filepath != "tasks.csv" {
				t.Errorf("Expected 'tasks.csv', got '%s'", filepath)
			}

			th.AssertFileExists(t, filepath)

			content := th.MustReadFile(t, filepath)
			if !strings.Contains(content, "write report") {
				t.Errorf("CSV missing task data")
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			filepath, err := WriteCSVExport(sampleRecords(), "my_tasks.csv")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if filepath != "my_tasks.csv" {
				t.Errorf("Expected 'my_tasks.csv', got '%s'", filepath)
			}

			th.AssertFileExists(t, filepath)
		})
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		filepath, err := WriteMarkdownExport(sampleRecords(), "Weekly Review", "")
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}

		if filepath != "tasks.md" {
			t.Errorf("Expected 'tasks.md', got '%s'", filepath)
		}

		th.AssertFileExists(t, filepath)

		content := th.MustReadFile(t, filepath)
		if !strings.Contains(content, "# Weekly Review") {
			t.Errorf("Markdown missing title")
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		filepath, err := WriteTextExport(sampleRecords(), "")
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}

		if filepath != "tasks.txt" {
			t.Errorf("Expected 'tasks.txt', got '%s'", filepath)
		}

		th.AssertFileExists(t, filepath)

		content := th.MustReadFile(t, filepath)
		if !strings.Contains(content, "1. [pending] write report") {
			t.Errorf("Text missing task listing")
		}
	})

	t.Run("WriteJSONExport", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		filepath, err := WriteJSONExport(sampleRecords(), "")
		if err != nil {
			t.Fatalf("WriteJSONExport failed: %v", err)
		}

		if filepath != "tasks.json" {
			t.Errorf("Expected 'tasks.json', got '%s'", filepath)
		}

		th.AssertFileExists(t, filepath)

		content := th.MustReadFile(t, filepath)
		if !strings.Contains(content, `"write report"`) {
			t.Errorf("JSON missing task data")
		}
	})
}

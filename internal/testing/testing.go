// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"os"
	"testing"
	"time"
)

// MockUpstreamTask is a test double for [tasks.UpstreamTask]
type MockUpstreamTask struct {
	TaskUID       string
	TaskEtag      string
	TaskProvider  string
	TaskSubject   string
	TaskProject   string
	TaskDue       *time.Time
	TaskCompleted *time.Time
}

func (m *MockUpstreamTask) UID() string           { return m.TaskUID }
func (m *MockUpstreamTask) Etag() string          { return m.TaskEtag }
func (m *MockUpstreamTask) Provider() string      { return m.TaskProvider }
func (m *MockUpstreamTask) Subject() string       { return m.TaskSubject }
func (m *MockUpstreamTask) Project() string       { return m.TaskProject }
func (m *MockUpstreamTask) Due() *time.Time       { return m.TaskDue }
func (m *MockUpstreamTask) Completed() *time.Time { return m.TaskCompleted }

// Timestamp returns a *time.Time for the given epoch seconds.
func Timestamp(secs int64) *time.Time {
	ts := time.Unix(secs, 0)
	return &ts
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return dir
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

// FWriter is an [io.Writer] that always fails.
type FWriter struct{}

func (FWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write failed")
}

// LimitedWriter allows a fixed number of writes before failing.
type LimitedWriter struct {
	max    int
	writes int
	w      io.Writer
}

func NewLimitedWriter(max, writes int, w io.Writer) LimitedWriter {
	return LimitedWriter{max: max, writes: writes, w: w}
}

func (l *LimitedWriter) Write(p []byte) (int, error) {
	if l.writes >= l.max {
		return 0, errors.New("write limit reached")
	}
	l.writes++
	return l.w.Write(p)
}

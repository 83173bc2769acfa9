package logging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"skyreview/internal/logging"
)

func TestRunLogNameRoundTrip(t *testing.T) {
	started := time.Date(2026, 1, 2, 15, 4, 5, 123e6, time.UTC)
	if got := logging.RunLogName(started); got != "skyreview-20260102T150405.123Z" {
		t.Fatalf("RunLogName = %q", got)
	}
}

func TestPruneRunLogsUsesRunStamp(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	old := filepath.Join(dir, logging.RunLogName(now.AddDate(0, 0, -10))+".log")
	recent := filepath.Join(dir, logging.RunLogName(now.AddDate(0, 0, -1))+".log")
	current := filepath.Join(dir, logging.RunLogName(now.AddDate(0, 0, -30))+".log")
	unstamped := filepath.Join(dir, "skyreview-manual.log")
	unrelated := filepath.Join(dir, "other.log")
	for _, path := range []string{old, recent, current, unstamped, unrelated} {
		if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	stale := now.AddDate(0, 0, -20)
	if err := os.Chtimes(unstamped, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := os.Chtimes(unrelated, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	removed := logging.PruneRunLogs(logging.NewNop(), dir, 7, current)
	if len(removed) != 2 {
		t.Fatalf("expected 2 removals, got %v", removed)
	}
	for _, path := range []string{old, unstamped} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("%s should be pruned", filepath.Base(path))
		}
	}
	for _, path := range []string{recent, current, unrelated} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("%s should remain: %v", filepath.Base(path), err)
		}
	}
}

func TestPruneRunLogsDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, logging.RunLogName(time.Now().AddDate(-1, 0, 0))+".log")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if removed := logging.PruneRunLogs(nil, dir, 0, ""); removed != nil {
		t.Fatalf("retention 0 should not prune, removed %v", removed)
	}
}

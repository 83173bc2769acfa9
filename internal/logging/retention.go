package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// RunLogPrefix starts the name of every per-run serve log.
const RunLogPrefix = "skyreview-"

const runStampLayout = "20060102T150405.000Z"

// RunLogName is the file stem of the log for a serve run started at
// started, e.g. "skyreview-20260102T150405.000Z".
func RunLogName(started time.Time) string {
	return RunLogPrefix + started.UTC().Format(runStampLayout)
}

// runStarted recovers the start time encoded in a run log file name.
func runStarted(name string) (time.Time, bool) {
	stamp, ok := strings.CutPrefix(name, RunLogPrefix)
	if !ok {
		return time.Time{}, false
	}
	stamp, ok = strings.CutSuffix(stamp, ".log")
	if !ok {
		return time.Time{}, false
	}
	started, err := time.Parse(runStampLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return started, true
}

// PruneRunLogs removes run logs in dir that started more than retentionDays
// ago, oldest first. Files whose name carries no run stamp fall back to their
// modification time. current is never removed. retentionDays <= 0 disables
// pruning. It returns the paths removed.
func PruneRunLogs(logger *slog.Logger, dir string, retentionDays int, current string) []string {
	if retentionDays <= 0 || strings.TrimSpace(dir) == "" {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, RunLogPrefix+"*.log"))
	if err != nil || len(matches) == 0 {
		return nil
	}
	sort.Strings(matches)
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	current = filepath.Clean(current)

	var removed []string
	for _, path := range matches {
		if filepath.Clean(path) == current {
			continue
		}
		started, ok := runStarted(filepath.Base(path))
		if !ok {
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			started = info.ModTime()
		}
		if !started.Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "run log not pruned", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check log_dir ownership and permissions"),
				String(FieldImpact, "old run log stays on disk"),
			)
			continue
		}
		removed = append(removed, path)
	}
	if len(removed) > 0 && logger != nil {
		logger.Info("pruned old run logs",
			Int("removed", len(removed)),
			Int("retention_days", retentionDays),
			String(FieldEventType, "log_pruned"),
		)
	}
	return removed
}

package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skyreview/internal/config"
	"skyreview/internal/logging"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg, "serve")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("review server ready")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "serve.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "review server ready") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{
		Format:  "console",
		Level:   "info",
		Outputs: []string{logPath, logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerLeadsWithReviewTags(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "component.log")

	logger, err := logging.New(logging.Options{
		Format:  "console",
		Level:   "info",
		Outputs: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger = logging.NewSessionLogger(logger, "0123456789abcdef")
	logging.NewComponentLogger(logger, "feedback").Info("row updated",
		logging.String("action", "set_visibility"),
		logging.String(logging.FieldArticleID, "a1"),
		logging.String("notes", "two words"),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	want := `INFO  feedback: row updated [article=a1 session=01234567] action=set_visibility notes="two words"`
	if !strings.Contains(line, want) {
		t.Fatalf("expected %q in %q", want, line)
	}
	if strings.Contains(line, "article_id=") || strings.Contains(line, "session_id=") {
		t.Fatalf("review tags should not repeat in the tail: %q", line)
	}
}

func TestConsoleLoggerFlattensGroups(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "group.log")
	logger, err := logging.New(logging.Options{Outputs: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.WithGroup("catalog").Info("loaded", logging.Int("count", 3), slog.Group("batch", logging.String("name", "b1")))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "loaded catalog.count=3 catalog.batch.name=b1") {
		t.Fatalf("unexpected group rendering %q", content)
	}
}

func TestJSONLoggerRenamesTime(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Outputs: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("slow text source")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(content, &record); err != nil {
		t.Fatalf("decode log record: %v", err)
	}
	if _, ok := record["ts"]; !ok || record["level"] != "warn" || record["msg"] != "slow text source" {
		t.Fatalf("unexpected record %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := context.Background()
	ctx = logging.WithSessionID(ctx, "sess-1")
	ctx = logging.WithArticleID(ctx, "a42")
	ctx = logging.WithRequestID(ctx, "req-xyz")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WithContext(ctx, logger).Info("contextual log")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log record: %v", err)
	}
	want := map[string]string{
		logging.FieldSessionID:     "sess-1",
		logging.FieldArticleID:     "a42",
		logging.FieldCorrelationID: "req-xyz",
	}
	for key, value := range want {
		if record[key] != value {
			t.Fatalf("field %s = %v, want %q", key, record[key], value)
		}
	}
}

func TestSessionLoggerStampsRecords(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	logging.NewSessionLogger(base, "review-123").With(logging.FieldArticleID, "a1").Info("feedback updated")

	output := buf.String()
	if !strings.Contains(output, `"session_id":"review-123"`) || !strings.Contains(output, `"article_id":"a1"`) {
		t.Fatalf("expected session and article ids, got: %s", output)
	}
	if logging.NewSessionLogger(base, "") != base {
		t.Fatal("expected base logger when session id is empty")
	}
	if logging.NewSessionLogger(nil, "s") == nil {
		t.Fatal("expected nop logger for nil base")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WarnWithContext(logger, "article text unavailable", "article_text_fetch_failed")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log record: %v", err)
	}
	for _, key := range []string{logging.FieldEventType, logging.FieldErrorHint, logging.FieldImpact} {
		if _, ok := record[key]; !ok {
			t.Fatalf("expected %s to be injected, got %v", key, record)
		}
	}
}

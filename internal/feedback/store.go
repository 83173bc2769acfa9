package feedback

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"skyreview/internal/fileutil"
	"skyreview/internal/logging"
)

// Action names a store mutation.
type Action string

const (
	ActionSetVisibility   Action = "set_visibility"
	ActionClearVisibility Action = "clear_visibility"
	ActionSetNote         Action = "set_note"
	ActionSetDates        Action = "set_dates"
	ActionClearStartDate  Action = "clear_start_date"
	ActionClearEndDate    Action = "clear_end_date"
)

// Change describes one persisted mutation.
type Change struct {
	ArticleID string
	Action    Action
	Value     string
}

// Recorder observes persisted mutations. Recording failures are logged and
// never undo or fail the write.
type Recorder interface {
	RecordChange(ctx context.Context, change Change) error
}

// Option configures a Store.
type Option func(*Store)

// WithRecorder registers a recorder notified after every persisted mutation.
func WithRecorder(recorder Recorder) Option {
	return func(s *Store) {
		s.recorder = recorder
	}
}

// Store is the file-backed feedback table of one batch. It is not safe for
// concurrent use; callers serialize access.
type Store struct {
	path     string
	logger   *slog.Logger
	recorder Recorder
}

// Open returns a store backed by path. The file is created by the first
// write.
func Open(path string, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "feedback"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the current table, empty when the file does not exist yet.
func (s *Store) Load(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewTable(), nil
		}
		return nil, fmt.Errorf("read feedback file: %w", err)
	}
	table, err := decodeTable(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return table, nil
}

// Get returns the current row for articleID.
func (s *Store) Get(ctx context.Context, articleID string) (Record, bool, error) {
	table, err := s.Load(ctx)
	if err != nil {
		return Record{}, false, err
	}
	record, ok := table.Get(articleID)
	return record, ok, nil
}

// SetVisibility records a judgment, creating the row when needed. Only the
// visible field changes.
func (s *Store) SetVisibility(ctx context.Context, articleID string, value Visibility) error {
	if !value.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidVisibility, string(value))
	}
	return s.mutate(ctx, Change{ArticleID: articleID, Action: ActionSetVisibility, Value: string(value)},
		func(record *Record, _ bool) (bool, error) {
			record.Visible = Present(string(value))
			return true, nil
		})
}

// SetNote writes the notes field, creating the row when needed.
func (s *Store) SetNote(ctx context.Context, articleID, text string) error {
	return s.mutate(ctx, Change{ArticleID: articleID, Action: ActionSetNote, Value: text},
		func(record *Record, _ bool) (bool, error) {
			record.Notes = Present(text)
			return true, nil
		})
}

// ClearVisibility resets the judgment to absent. Without a row it does
// nothing, so repeated undo is harmless.
func (s *Store) ClearVisibility(ctx context.Context, articleID string) error {
	return s.mutate(ctx, Change{ArticleID: articleID, Action: ActionClearVisibility},
		func(record *Record, exists bool) (bool, error) {
			if !exists {
				return false, nil
			}
			record.Visible = Absent()
			return true, nil
		})
}

// SetCorrectedDates writes both corrected dates as a pair. The article must
// already carry a visibility judgment; otherwise ErrPreconditionNotMet is
// returned and the file is left untouched.
func (s *Store) SetCorrectedDates(ctx context.Context, articleID, start, end string) error {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if err := ValidateDate(start); err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	if err := ValidateDate(end); err != nil {
		return fmt.Errorf("end date: %w", err)
	}
	return s.mutate(ctx, Change{ArticleID: articleID, Action: ActionSetDates, Value: start + "/" + end},
		func(record *Record, exists bool) (bool, error) {
			if !exists || !record.Reviewed() {
				return false, fmt.Errorf("%w: article %s has no visibility judgment; record Yes, No or Unsure before saving dates", ErrPreconditionNotMet, articleID)
			}
			record.NewStartDate = Present(start)
			record.NewEndDate = Present(end)
			return true, nil
		})
}

// ClearStartDate sets the corrected start date to the empty string. Without a
// row it does nothing.
func (s *Store) ClearStartDate(ctx context.Context, articleID string) error {
	return s.mutate(ctx, Change{ArticleID: articleID, Action: ActionClearStartDate},
		func(record *Record, exists bool) (bool, error) {
			if !exists {
				return false, nil
			}
			record.NewStartDate = Present("")
			return true, nil
		})
}

// ClearEndDate sets the corrected end date to the empty string. Without a row
// it does nothing.
func (s *Store) ClearEndDate(ctx context.Context, articleID string) error {
	return s.mutate(ctx, Change{ArticleID: articleID, Action: ActionClearEndDate},
		func(record *Record, exists bool) (bool, error) {
			if !exists {
				return false, nil
			}
			record.NewEndDate = Present("")
			return true, nil
		})
}

// mutate runs one load, modify, write cycle. apply receives the row (a fresh
// one when missing) and reports whether anything should be written.
func (s *Store) mutate(ctx context.Context, change Change, apply func(record *Record, exists bool) (bool, error)) error {
	articleID := strings.TrimSpace(change.ArticleID)
	if articleID == "" {
		return errors.New("article id cannot be empty")
	}
	change.ArticleID = articleID

	table, err := s.Load(ctx)
	if err != nil {
		return err
	}
	record, exists := table.Get(articleID)
	if !exists {
		record = Record{ArticleID: articleID}
	}

	write, err := apply(&record, exists)
	if err != nil {
		return err
	}
	if !write {
		s.logger.Debug("feedback unchanged",
			logging.String(logging.FieldArticleID, articleID),
			logging.String("action", string(change.Action)),
			logging.String("reason", "no row for article"))
		return nil
	}

	table.put(record)
	if err := fileutil.WriteFileAtomic(s.path, encodeTable(table), 0o644); err != nil {
		return fmt.Errorf("persist feedback: %w", err)
	}

	s.logger.Info("feedback updated",
		logging.String(logging.FieldEventType, "feedback_updated"),
		logging.String(logging.FieldArticleID, articleID),
		logging.String("action", string(change.Action)),
		logging.Bool("row_created", !exists))

	if s.recorder != nil {
		if err := s.recorder.RecordChange(ctx, change); err != nil {
			logging.WarnWithContext(s.logger, "journal write failed", "journal_write_failed",
				logging.String(logging.FieldArticleID, articleID),
				logging.String("action", string(change.Action)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the journal database path and permissions"),
				logging.String(logging.FieldImpact, "feedback was saved; the change is missing from history"))
		}
	}
	return nil
}

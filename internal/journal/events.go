package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Event is one recorded feedback change.
type Event struct {
	ID        int64
	SessionID string
	ArticleID string
	Action    string
	Value     string
	At        time.Time
}

// Filter narrows List results. Zero values match everything; Limit <= 0 means
// no limit.
type Filter struct {
	ArticleID string
	SessionID string
	Limit     int
}

const eventColumns = "id, session_id, article_id, action, value, created_at"

// Append stores event and returns its assigned ID. A zero At is stamped with
// the current time.
func (s *Store) Append(ctx context.Context, event Event) (int64, error) {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(event.ArticleID) == "" {
		return 0, errors.New("article id cannot be empty")
	}
	if strings.TrimSpace(event.Action) == "" {
		return 0, errors.New("action cannot be empty")
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}

	var id int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO events (session_id, article_id, action, value, created_at) VALUES (?, ?, ?, ?, ?)`,
			event.SessionID, event.ArticleID, event.Action, event.Value, event.At.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	return id, nil
}

// List returns matching events, newest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Event, error) {
	ctx = ensureContext(ctx)

	var (
		clauses []string
		args    []any
	)
	if filter.ArticleID != "" {
		clauses = append(clauses, "article_id = ?")
		args = append(args, filter.ArticleID)
	}
	if filter.SessionID != "" {
		clauses = append(clauses, "session_id = ?")
		args = append(args, filter.SessionID)
	}

	query := `SELECT ` + eventColumns + ` FROM events`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	var events []Event
	err := retryOnBusy(ctx, func() error {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		events = events[:0]
		for rows.Next() {
			event, err := scanEvent(rows)
			if err != nil {
				return err
			}
			events = append(events, event)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Count returns the number of stored events.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

func scanEvent(rows *sql.Rows) (Event, error) {
	var (
		event     Event
		createdAt string
	)
	if err := rows.Scan(&event.ID, &event.SessionID, &event.ArticleID, &event.Action, &event.Value, &createdAt); err != nil {
		return Event{}, fmt.Errorf("scan event: %w", err)
	}
	at, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Event{}, fmt.Errorf("parse event time %q: %w", createdAt, err)
	}
	event.At = at
	return event, nil
}

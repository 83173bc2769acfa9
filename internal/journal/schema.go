package journal

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var baseSchema string

// migrations[i] moves the database from user_version i to i+1. Append new
// steps; never edit applied ones.
var migrations = []string{
	baseSchema,
}

// ErrSchemaMismatch reports a journal written by a newer skyreview.
var ErrSchemaMismatch = errors.New("journal schema is newer than this build")

// migrate brings the database up to len(migrations), tracking progress in
// SQLite's user_version header field.
func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read journal version: %w", err)
	}
	if version > len(migrations) {
		return fmt.Errorf("%w: database at version %d, build knows %d (move %s aside to start a new journal)",
			ErrSchemaMismatch, version, len(migrations), s.path)
	}
	for next := version; next < len(migrations); next++ {
		if err := s.applyMigration(ctx, next+1, migrations[next]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) applyMigration(ctx context.Context, version int, stmt string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin journal migration %d: %w", version, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("journal migration %d: %w", version, err)
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("record journal version %d: %w", version, err)
	}
	return tx.Commit()
}

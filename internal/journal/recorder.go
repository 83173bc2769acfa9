package journal

import (
	"context"
	"time"

	"skyreview/internal/feedback"
)

// Recorder appends feedback changes to the journal under one session ID.
type Recorder struct {
	store     *Store
	sessionID string
	now       func() time.Time
}

// NewRecorder returns a feedback.Recorder writing to store.
func NewRecorder(store *Store, sessionID string) *Recorder {
	return &Recorder{store: store, sessionID: sessionID, now: time.Now}
}

// SessionID returns the session the recorder stamps on events.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// RecordChange implements feedback.Recorder.
func (r *Recorder) RecordChange(ctx context.Context, change feedback.Change) error {
	_, err := r.store.Append(ctx, Event{
		SessionID: r.sessionID,
		ArticleID: change.ArticleID,
		Action:    string(change.Action),
		Value:     change.Value,
		At:        r.now(),
	})
	return err
}

var _ feedback.Recorder = (*Recorder)(nil)

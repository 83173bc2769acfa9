package testsupport

import (
	"testing"

	"skyreview/internal/config"
	"skyreview/internal/feedback"
	"skyreview/internal/journal"
)

// MustOpenFeedback opens the feedback store of the configured batch.
func MustOpenFeedback(t testing.TB, cfg *config.Config) *feedback.Store {
	t.Helper()

	return feedback.Open(cfg.FeedbackPath(), nil)
}

// MustOpenJournal opens a journal.Store for tests and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg.JournalPath())
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

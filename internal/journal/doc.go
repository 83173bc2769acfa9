// Package journal keeps an append-only SQLite history of feedback changes.
//
// The CSV feedback file holds only the latest state of each article. The
// journal records every persisted mutation with the review session that made
// it, so a reviewer can see how a judgment evolved and which session changed
// it. The journal is auxiliary: failures to record are logged by the caller
// and never block a feedback write.
package journal

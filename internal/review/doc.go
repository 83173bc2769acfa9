// Package review holds the reviewer's navigation state and assembles the
// per-article view from the catalog, imagery, article text and feedback
// store. Every view re-reads the feedback file so it reflects the latest
// persisted state.
package review

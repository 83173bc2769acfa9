// Package api defines wire-format types and converters for the review
// server's JSON endpoints and the CLI's --json output.
//
// # Key Types
//
// FeedbackRow: one feedback record. Fields are JSON null when never written
// and "" when cleared, mirroring the distinction kept in the CSV file.
//
// ArticleSummary: catalog position, classification and review state of one
// article.
//
// Progress: reviewed versus total article counts.
//
// HistoryEvent: one journaled feedback change.
//
// # Design Notes
//
// DTOs use camelCase JSON tags. Timestamps use RFC3339 with milliseconds.
package api

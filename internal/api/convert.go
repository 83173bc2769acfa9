package api

import (
	"skyreview/internal/catalog"
	"skyreview/internal/feedback"
	"skyreview/internal/journal"
	"skyreview/internal/review"
)

// FromRecord converts a feedback record to its API representation.
func FromRecord(record feedback.Record) FeedbackRow {
	return FeedbackRow{
		ArticleID:    record.ArticleID,
		Visible:      fieldPtr(record.Visible),
		NewStartDate: fieldPtr(record.NewStartDate),
		NewEndDate:   fieldPtr(record.NewEndDate),
		Notes:        fieldPtr(record.Notes),
	}
}

func fieldPtr(f feedback.Field) *string {
	if !f.Set {
		return nil
	}
	value := f.Value
	return &value
}

// FromTable converts every row of a feedback table.
func FromTable(path string, table *feedback.Table) FeedbackListResponse {
	records := table.Records()
	rows := make([]FeedbackRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, FromRecord(record))
	}
	return FeedbackListResponse{Path: path, Rows: rows}
}

// FromProgress converts review progress.
func FromProgress(progress review.Progress) Progress {
	return Progress{Reviewed: progress.Reviewed, Total: progress.Total, Summary: progress.String()}
}

// FromEntries summarizes catalog entries with their feedback state. current
// marks the session's article; pass -1 for none.
func FromEntries(batch string, entries []catalog.Entry, table *feedback.Table, current int) ArticleListResponse {
	articles := make([]ArticleSummary, 0, len(entries))
	for i, entry := range entries {
		summary := ArticleSummary{
			Index:        i,
			ID:           entry.ID,
			EventType:    entry.Article.EventType,
			LocationName: entry.Article.LocationName,
			Source:       entry.Article.Source,
			Current:      i == current,
		}
		if record, ok := table.Get(entry.ID); ok {
			if visibility, reviewed := record.Visibility(); reviewed {
				summary.Visible = string(visibility)
			}
			summary.HasNotes = !record.Notes.Empty()
		}
		articles = append(articles, summary)
	}
	return ArticleListResponse{Batch: batch, Articles: articles}
}

// FromEvents converts journal events.
func FromEvents(events []journal.Event) HistoryResponse {
	out := make([]HistoryEvent, 0, len(events))
	for _, event := range events {
		out = append(out, HistoryEvent{
			ID:        event.ID,
			SessionID: event.SessionID,
			ArticleID: event.ArticleID,
			Action:    event.Action,
			Value:     event.Value,
			At:        event.At.UTC().Format(dateTimeFormat),
		})
	}
	return HistoryResponse{Events: out}
}

package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// FeedbackRow describes a feedback record in a transport-friendly format.
type FeedbackRow struct {
	ArticleID    string  `json:"articleId"`
	Visible      *string `json:"visible"`
	NewStartDate *string `json:"newStartDate"`
	NewEndDate   *string `json:"newEndDate"`
	Notes        *string `json:"notes"`
}

// FeedbackListResponse wraps all feedback rows in file order.
type FeedbackListResponse struct {
	Path string        `json:"path"`
	Rows []FeedbackRow `json:"rows"`
}

// Progress reports how many catalog articles carry a judgment.
type Progress struct {
	Reviewed int    `json:"reviewed"`
	Total    int    `json:"total"`
	Summary  string `json:"summary"`
}

// ArticleSummary describes one catalog article and its review state.
type ArticleSummary struct {
	Index        int    `json:"index"`
	ID           string `json:"id"`
	EventType    string `json:"eventType"`
	LocationName string `json:"locationName,omitempty"`
	Source       string `json:"source,omitempty"`
	Visible      string `json:"visible,omitempty"`
	HasNotes     bool   `json:"hasNotes"`
	Current      bool   `json:"current,omitempty"`
}

// ArticleListResponse wraps the catalog for API responses.
type ArticleListResponse struct {
	Batch    string           `json:"batch"`
	Articles []ArticleSummary `json:"articles"`
}

// HistoryEvent is one journaled feedback change.
type HistoryEvent struct {
	ID        int64  `json:"id"`
	SessionID string `json:"sessionId"`
	ArticleID string `json:"articleId"`
	Action    string `json:"action"`
	Value     string `json:"value,omitempty"`
	At        string `json:"at"`
}

// HistoryResponse wraps journal events, newest first.
type HistoryResponse struct {
	Events []HistoryEvent `json:"events"`
}

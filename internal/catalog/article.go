package catalog

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// NoChangeEvent is the classification that excludes an article from review.
const NoChangeEvent = "no change"

// Article is the decoded descriptor of one article directory.
type Article struct {
	ArticleContent      string           `json:"article_content" yaml:"article_content"`
	EventType           string           `json:"event_type" yaml:"event_type"`
	EventCaption        string           `json:"event_caption" yaml:"event_caption"`
	InitialCaption      string           `json:"initial_caption" yaml:"initial_caption"`
	InitialTimeline     OriginalTimeline `json:"initial_timeline" yaml:"initial_timeline"`
	SatTimeline         []TimelineEntry  `json:"sat_timeline" yaml:"sat_timeline"`
	Coordinates         string           `json:"coordinates" yaml:"coordinates"`
	LocationName        string           `json:"location_name" yaml:"location_name"`
	Source              string           `json:"source" yaml:"source"`
	StartDate           *DateParts       `json:"start_date" yaml:"start_date"`
	EndDate             *DateParts       `json:"end_date" yaml:"end_date"`
	InitialSuccess      any              `json:"initial_success" yaml:"initial_success"`
	InitialVisualReason string           `json:"initial_visual_reason" yaml:"initial_visual_reason"`
	InitialConfidence   any              `json:"initial_confidence" yaml:"initial_confidence"`
}

// Eligible reports whether the article belongs in the review set.
func (a Article) Eligible() bool {
	return a.EventType != NoChangeEvent
}

// LatLon splits the "<lat>_<lon>" coordinate string.
func (a Article) LatLon() (lat, lon string, ok bool) {
	lat, lon, ok = strings.Cut(strings.TrimSpace(a.Coordinates), "_")
	if !ok || lat == "" || lon == "" {
		return "", "", false
	}
	return lat, lon, true
}

// PredictedStart converts the predicted start date; false when absent or
// unparseable.
func (a Article) PredictedStart() (time.Time, bool) {
	if a.StartDate == nil {
		return time.Time{}, false
	}
	return a.StartDate.Date()
}

// PredictedEnd converts the predicted end date; false when absent or
// unparseable.
func (a Article) PredictedEnd() (time.Time, bool) {
	if a.EndDate == nil {
		return time.Time{}, false
	}
	return a.EndDate.Date()
}

// HasInitialAssessment reports whether any initial visual assessment field
// carries a value worth showing.
func (a Article) HasInitialAssessment() bool {
	return truthy(a.InitialSuccess) || strings.TrimSpace(a.InitialVisualReason) != "" || truthy(a.InitialConfidence)
}

// InitialSuccessText formats the success flag for display; empty when unset.
func (a Article) InitialSuccessText() string {
	return displayValue(a.InitialSuccess)
}

// InitialConfidenceText formats the confidence value for display; empty when unset.
func (a Article) InitialConfidenceText() string {
	return displayValue(a.InitialConfidence)
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return true
	}
}

func displayValue(value any) string {
	if !truthy(value) {
		return ""
	}
	switch v := value.(type) {
	case bool:
		return "True"
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}

// Entry pairs an article with its identifier and on-disk location.
type Entry struct {
	ID      string
	Dir     string
	Article Article
}

// ImageryDir returns the directory holding the article's image assets.
func (e Entry) ImageryDir() string {
	return filepath.Join(e.Dir, "imagery")
}

package review

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"skyreview/internal/catalog"
	"skyreview/internal/feedback"
	"skyreview/internal/imagery"
	"skyreview/internal/journal"
)

// NotAvailable is shown for a predicted date that is absent or unparseable.
const NotAvailable = "N/A"

const mapsSearchURL = "https://www.google.com/maps/search/?api=1&query="

// Progress counts reviewed articles against the catalog size.
type Progress struct {
	Reviewed int `json:"reviewed"`
	Total    int `json:"total"`
}

func (p Progress) String() string {
	return fmt.Sprintf("%d of %d articles fully reviewed", p.Reviewed, p.Total)
}

// Location is the article's place with external map links.
type Location struct {
	Name           string
	Lat            string
	Lon            string
	HasCoordinates bool
	CoordinatesURL string
	NameURL        string
}

// NewLocation derives map links from a "<lat>_<lon>" pair and a place name.
func NewLocation(article catalog.Article) Location {
	loc := Location{Name: article.LocationName}
	if lat, lon, ok := article.LatLon(); ok {
		loc.Lat, loc.Lon, loc.HasCoordinates = lat, lon, true
		loc.CoordinatesURL = mapsSearchURL + url.QueryEscape(lat) + "," + url.QueryEscape(lon)
	}
	if strings.TrimSpace(article.LocationName) != "" {
		loc.NameURL = mapsSearchURL + strings.ReplaceAll(url.QueryEscape(article.LocationName), "+", "%20")
	}
	return loc
}

// Assessment is the upstream initial visual assessment.
type Assessment struct {
	Show       bool
	Success    string
	Reason     string
	Confidence string
}

// ArticleView is everything the page shows for the current article.
type ArticleView struct {
	Index int
	Total int
	ID    string

	Article     catalog.Article
	ArticleHTML template.HTML
	TextSource  string

	Location         Location
	OriginalCaption  string
	OriginalTimeline []catalog.TimelineLine
	EventType        string
	EventCaption     string
	Assessment       Assessment

	SourceHeading string
	Gallery       *imagery.Gallery
	Frame         imagery.Frame
	HasFrame      bool

	PredictedStart string
	PredictedEnd   string

	Feedback    feedback.Record
	HasFeedback bool
	Visibility  string
	DraftStart  string
	DraftEnd    string
	DraftNote   string

	History  []journal.Event
	Progress Progress
	Flash    *Flash
}

// Reviewed reports whether the article has a visibility judgment.
func (v *ArticleView) Reviewed() bool {
	return v.Visibility != ""
}

// SourceHeading titles the imagery section after its source tag.
func SourceHeading(source string) string {
	source = strings.TrimSpace(source)
	if source == "" {
		return "Imagery"
	}
	return cases.Title(language.English).String(source) + " Imagery"
}

func predictedLabel(date string, ok bool) string {
	if !ok {
		return NotAvailable
	}
	return date
}

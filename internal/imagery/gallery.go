package imagery

import (
	"strings"
	"time"

	"skyreview/internal/catalog"
)

const (
	// NoCaption is shown for a dated asset without a timeline caption.
	NoCaption = "No caption available"
	// StartPrefix marks the caption on the predicted start date.
	StartPrefix = "(START) "
	// EndPrefix marks the caption on the predicted end date.
	EndPrefix = "(END) "

	obscuredCaption = "obscured by clouds"
)

// Captions maps calendar dates to timeline captions. Entries whose date does
// not convert are skipped; a later entry for the same date replaces an
// earlier one. The start prefix is applied before the end prefix, so a date
// that is both reads "(END) (START) caption".
func Captions(timeline []catalog.TimelineEntry, start, end time.Time) map[time.Time]string {
	captions := make(map[time.Time]string, len(timeline))
	for _, entry := range timeline {
		date, ok := entry.Date()
		if !ok {
			continue
		}
		caption := entry.Caption
		if !start.IsZero() && date.Equal(start) {
			caption = StartPrefix + caption
		}
		if !end.IsZero() && date.Equal(end) {
			caption = EndPrefix + caption
		}
		captions[date] = caption
	}
	return captions
}

// FilterObscured drops dated assets whose caption is "obscured by clouds"
// (case and surrounding whitespace ignored). Undated assets are kept.
func FilterObscured(assets []Asset, captions map[time.Time]string) []Asset {
	kept := make([]Asset, 0, len(assets))
	for _, asset := range assets {
		if asset.Dated {
			if caption, ok := captions[asset.Date]; ok && strings.ToLower(strings.TrimSpace(caption)) == obscuredCaption {
				continue
			}
		}
		kept = append(kept, asset)
	}
	return kept
}

// Request describes the inputs of a gallery.
type Request struct {
	Dir      string
	Timeline []catalog.TimelineEntry
	Source   string
	// Start and End mark the predicted event dates; zero means no marker.
	Start time.Time
	End   time.Time
}

// Frame is one displayable gallery item.
type Frame struct {
	Index   int
	Asset   Asset
	Caption string
}

// Gallery is the ordered, filtered set of frames for one article.
type Gallery struct {
	Source string
	frames []Frame
}

// BuildGallery lists, orders, captions and filters the assets of req.Dir.
func BuildGallery(req Request) (*Gallery, error) {
	assets, err := List(req.Dir)
	if err != nil {
		return nil, err
	}
	captions := Captions(req.Timeline, req.Start, req.End)
	assets = FilterObscured(assets, captions)

	frames := make([]Frame, 0, len(assets))
	for i, asset := range assets {
		caption := asset.Name
		if asset.Dated {
			caption = NoCaption
			if text, ok := captions[asset.Date]; ok {
				caption = text
			}
		}
		frames = append(frames, Frame{Index: i, Asset: asset, Caption: caption})
	}
	return &Gallery{Source: req.Source, frames: frames}, nil
}

// Len returns the number of frames.
func (g *Gallery) Len() int {
	if g == nil {
		return 0
	}
	return len(g.frames)
}

// Empty reports whether no imagery is available.
func (g *Gallery) Empty() bool {
	return g.Len() == 0
}

// HasSelector reports whether an index selector is needed; a single frame is
// shown on its own.
func (g *Gallery) HasSelector() bool {
	return g.Len() > 1
}

// Clamp maps any selector value into [0, Len-1]. It returns 0 for an empty
// gallery.
func (g *Gallery) Clamp(index int) int {
	switch {
	case index < 0 || g.Len() == 0:
		return 0
	case index >= g.Len():
		return g.Len() - 1
	default:
		return index
	}
}

// At returns the frame at the clamped index. It reports false only when the
// gallery is empty.
func (g *Gallery) At(index int) (Frame, bool) {
	if g.Empty() {
		return Frame{}, false
	}
	return g.frames[g.Clamp(index)], true
}

// Frames returns a copy of all frames in display order.
func (g *Gallery) Frames() []Frame {
	if g == nil {
		return nil
	}
	return append([]Frame(nil), g.frames...)
}

package imagery

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"skyreview/internal/catalog"
	"skyreview/internal/testsupport"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(t *testing.T, y int, month string, d int, caption string) catalog.TimelineEntry {
	t.Helper()
	var e catalog.TimelineEntry
	raw := fmt.Sprintf(`{"year":%d,"month":%q,"day":%d,"caption":%q}`, y, month, d, caption)
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unmarshal entry: %v", err)
	}
	return e
}

func writeImages(t *testing.T, names ...string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "imagery")
	for _, name := range names {
		testsupport.WriteFile(t, filepath.Join(dir, name), 16)
	}
	return dir
}

func TestCaptionsSkipUnparseableAndApplyMarkers(t *testing.T) {
	timeline := []catalog.TimelineEntry{
		entry(t, 2023, "January", 5, "clear"),
		entry(t, 2023, "Smarch", 6, "bad month"),
		entry(t, 2023, "January", 7, "flooding"),
		entry(t, 2023, "January", 9, "receding"),
	}
	captions := Captions(timeline, day(2023, 1, 7), day(2023, 1, 7))
	if len(captions) != 3 {
		t.Fatalf("expected 3 captions, got %d", len(captions))
	}
	if got := captions[day(2023, 1, 7)]; got != "(END) (START) flooding" {
		t.Fatalf("marker caption = %q", got)
	}
	if got := captions[day(2023, 1, 5)]; got != "clear" {
		t.Fatalf("plain caption = %q", got)
	}

	captions = Captions(timeline, day(2023, 1, 5), day(2023, 1, 9))
	if captions[day(2023, 1, 5)] != "(START) clear" || captions[day(2023, 1, 9)] != "(END) receding" {
		t.Fatalf("unexpected markers: %v", captions)
	}
}

func TestFilterObscuredIsIdempotent(t *testing.T) {
	assets := []Asset{
		{Name: "a_20230101.png", Date: day(2023, 1, 1), Dated: true},
		{Name: "a_20230102.png", Date: day(2023, 1, 2), Dated: true},
		{Name: "a_20230103.png", Date: day(2023, 1, 3), Dated: true},
		{Name: "undated.png"},
	}
	captions := map[time.Time]string{
		day(2023, 1, 1): "  Obscured By Clouds ",
		day(2023, 1, 2): "(START) obscured by clouds",
	}
	once := FilterObscured(assets, captions)
	twice := FilterObscured(once, captions)
	if len(once) != 3 || len(twice) != 3 {
		t.Fatalf("filter lengths = %d, %d; want 3, 3", len(once), len(twice))
	}
	if once[0].Name != "a_20230102.png" {
		t.Fatalf("prefixed cloud caption should be kept, got %q first", once[0].Name)
	}
}

func TestBuildGalleryAllObscuredIsEmpty(t *testing.T) {
	dir := writeImages(t, "s_20230101.png", "s_20230102.png")
	gallery, err := BuildGallery(Request{
		Dir: dir,
		Timeline: []catalog.TimelineEntry{
			entry(t, 2023, "January", 1, "obscured by clouds"),
			entry(t, 2023, "January", 2, "OBSCURED BY CLOUDS"),
		},
	})
	if err != nil {
		t.Fatalf("BuildGallery failed: %v", err)
	}
	if !gallery.Empty() || gallery.HasSelector() {
		t.Fatalf("expected empty gallery without selector, len %d", gallery.Len())
	}
	if _, ok := gallery.At(0); ok {
		t.Fatal("At on empty gallery should report false")
	}
}

func TestBuildGallerySingleFrameHasNoSelector(t *testing.T) {
	dir := writeImages(t, "s_20230101.png", "s_20230102.png")
	gallery, err := BuildGallery(Request{
		Dir:      dir,
		Timeline: []catalog.TimelineEntry{entry(t, 2023, "January", 1, "obscured by clouds")},
	})
	if err != nil {
		t.Fatalf("BuildGallery failed: %v", err)
	}
	if gallery.Len() != 1 || gallery.HasSelector() {
		t.Fatalf("expected single frame without selector, len %d", gallery.Len())
	}
	frame, _ := gallery.At(0)
	if frame.Caption != NoCaption {
		t.Fatalf("caption = %q, want %q", frame.Caption, NoCaption)
	}
}

func TestBuildGalleryCaptionsAndClamping(t *testing.T) {
	dir := writeImages(t, "s_20230103.png", "s_20230101.png", "overview.png")
	gallery, err := BuildGallery(Request{
		Dir:      dir,
		Timeline: []catalog.TimelineEntry{entry(t, 2023, "January", 3, "smoke plume")},
		Source:   "sentinel",
		Start:    day(2023, 1, 3),
	})
	if err != nil {
		t.Fatalf("BuildGallery failed: %v", err)
	}
	if !gallery.HasSelector() || gallery.Len() != 3 {
		t.Fatalf("expected selector over 3 frames, len %d", gallery.Len())
	}

	want := []string{NoCaption, "(START) smoke plume", "overview.png"}
	for i, caption := range want {
		frame, ok := gallery.At(i)
		if !ok || frame.Caption != caption {
			t.Fatalf("frame %d caption = %q, want %q", i, frame.Caption, caption)
		}
	}
	if frame, _ := gallery.At(99); frame.Index != 2 {
		t.Fatalf("high index should clamp to 2, got %d", frame.Index)
	}
	if frame, _ := gallery.At(-4); frame.Index != 0 {
		t.Fatalf("negative index should clamp to 0, got %d", frame.Index)
	}
}

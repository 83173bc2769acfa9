package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Descriptor is a loosely typed article descriptor written as metadata.json.
type Descriptor map[string]any

// TimelineEntry builds one {year, month, day, caption} timeline item.
func TimelineEntry(year int, month string, day int, caption string) map[string]any {
	return map[string]any{"year": year, "month": month, "day": day, "caption": caption}
}

// DateParts builds a {year, month, day} predicted date.
func DateParts(year int, month string, day int) map[string]any {
	return map[string]any{"year": year, "month": month, "day": day}
}

// WriteArticle creates <batchDir>/<id>/metadata.json from descriptor plus one
// small placeholder file per image name under imagery/. It returns the
// article directory.
func WriteArticle(t testing.TB, batchDir, id string, descriptor Descriptor, images ...string) string {
	t.Helper()

	articleDir := filepath.Join(batchDir, id)
	if err := os.MkdirAll(articleDir, 0o755); err != nil {
		t.Fatalf("mkdir article %s: %v", id, err)
	}
	if descriptor == nil {
		descriptor = Descriptor{"event_type": "flood"}
	}
	data, err := json.MarshalIndent(descriptor, "", "  ")
	if err != nil {
		t.Fatalf("marshal descriptor %s: %v", id, err)
	}
	if err := os.WriteFile(filepath.Join(articleDir, "metadata.json"), data, 0o644); err != nil {
		t.Fatalf("write descriptor %s: %v", id, err)
	}
	for _, name := range images {
		WriteFile(t, filepath.Join(articleDir, "imagery", name), 64)
	}
	return articleDir
}

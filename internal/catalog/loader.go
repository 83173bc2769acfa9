package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMalformedDescriptor marks a descriptor that exists but cannot be decoded.
	ErrMalformedDescriptor = errors.New("malformed article descriptor")
	// ErrMissingEventType marks a descriptor without the event_type key that
	// decides eligibility.
	ErrMissingEventType = errors.New("descriptor has no event_type")
)

// DescriptorError reports which descriptor broke the batch load.
type DescriptorError struct {
	Path string
	Err  error
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DescriptorError) Unwrap() []error {
	return []error{ErrMalformedDescriptor, e.Err}
}

// DescriptorNames lists the descriptor file names in lookup order. The first
// one present in an article directory wins.
var DescriptorNames = []string{"metadata.json", "metadata.yaml", "metadata.yml"}

// Load enumerates the eligible articles under batchDir sorted by identifier.
// A missing batch directory yields an empty result. Directories without a
// descriptor are ignored.
func Load(batchDir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(batchDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read batch directory: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		if !dirEntry.IsDir() {
			continue
		}
		articleDir := filepath.Join(batchDir, dirEntry.Name())
		descriptor, ok := findDescriptor(articleDir)
		if !ok {
			continue
		}
		article, err := ReadDescriptor(descriptor)
		if err != nil {
			return nil, err
		}
		if !article.Eligible() {
			continue
		}
		entries = append(entries, Entry{ID: dirEntry.Name(), Dir: articleDir, Article: article})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

// ReadDescriptor decodes one descriptor file, choosing JSON or YAML by
// extension. A descriptor without an event_type key is malformed; an
// explicit null or empty value is kept and counts as eligible.
func ReadDescriptor(path string) (Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Article{}, &DescriptorError{Path: path, Err: err}
	}

	var (
		article Article
		keys    map[string]any
	)
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err = yaml.Unmarshal(data, &article); err == nil {
			err = yaml.Unmarshal(data, &keys)
		}
	default:
		if err = json.Unmarshal(data, &article); err == nil {
			err = json.Unmarshal(data, &keys)
		}
	}
	if err != nil {
		return Article{}, &DescriptorError{Path: path, Err: err}
	}
	if _, ok := keys["event_type"]; !ok {
		return Article{}, &DescriptorError{Path: path, Err: ErrMissingEventType}
	}
	return article, nil
}

func findDescriptor(articleDir string) (string, bool) {
	for _, name := range DescriptorNames {
		candidate := filepath.Join(articleDir, name)
		info, err := os.Stat(candidate)
		if err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return "", false
}

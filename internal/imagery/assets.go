package imagery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// Asset is one image file of an article.
type Asset struct {
	Name string
	Path string
	// Date is the acquisition date parsed from Name; zero when Dated is false.
	Date  time.Time
	Dated bool
}

// DateLabel formats the asset date as YYYY-MM-DD, or "" when undated.
func (a Asset) DateLabel() string {
	if !a.Dated {
		return ""
	}
	return a.Date.Format(time.DateOnly)
}

// IsImage reports whether name carries a supported image extension.
func IsImage(name string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ParseFilenameDate returns the first underscore-delimited segment of name
// that parses as YYYYMMDD or YYYY-MM-DD. The extension is stripped first.
func ParseFilenameDate(name string) (time.Time, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	for _, segment := range strings.Split(stem, "_") {
		switch {
		case len(segment) == 8 && allDigits(segment):
			if date, err := time.Parse("20060102", segment); err == nil {
				return date, true
			}
		case len(segment) == 10 && strings.Contains(segment, "-"):
			if date, err := time.Parse(time.DateOnly, segment); err == nil {
				return date, true
			}
		}
	}
	return time.Time{}, false
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// List returns the image assets directly inside dir. Dated assets come first
// in chronological order, then undated ones; ties and undated assets order by
// filename. A missing directory yields no assets.
func List(dir string) ([]Asset, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read imagery directory: %w", err)
	}

	assets := make([]Asset, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if entry.IsDir() || !IsImage(entry.Name()) {
			continue
		}
		asset := Asset{Name: entry.Name(), Path: filepath.Join(dir, entry.Name())}
		asset.Date, asset.Dated = ParseFilenameDate(entry.Name())
		assets = append(assets, asset)
	}
	SortAssets(assets)
	return assets, nil
}

// SortAssets applies the gallery ordering in place.
func SortAssets(assets []Asset) {
	sort.SliceStable(assets, func(i, j int) bool {
		a, b := assets[i], assets[j]
		if a.Dated != b.Dated {
			return a.Dated
		}
		if a.Dated && !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Name < b.Name
	})
}

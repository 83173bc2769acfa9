package catalog

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DateParts is a {year, month-name, day} triple as written by the upstream
// pipeline. Month is an English month name such as "January".
type DateParts struct {
	Year  int
	Month string
	Day   int

	complete bool
}

// Date converts the parts to a calendar date (UTC midnight). It reports false
// when a part is missing, has the wrong type, or the triple is not a real
// date (for example February 30).
func (d DateParts) Date() (time.Time, bool) {
	if !d.complete || d.Year < 1 || d.Year > 9999 {
		return time.Time{}, false
	}
	monthTime, err := time.Parse("January", strings.TrimSpace(d.Month))
	if err != nil {
		return time.Time{}, false
	}
	month := monthTime.Month()
	date := time.Date(d.Year, month, d.Day, 0, 0, 0, 0, time.UTC)
	if date.Year() != d.Year || date.Month() != month || date.Day() != d.Day {
		return time.Time{}, false
	}
	return date, true
}

// UnmarshalJSON never fails: non-object values and mistyped fields leave the
// parts incomplete.
func (d *DateParts) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*d = DateParts{}
		return nil
	}
	*d = datePartsFromJSON(raw)
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML descriptors.
func (d *DateParts) UnmarshalYAML(node *yaml.Node) error {
	*d = datePartsFromYAML(yamlMapping(node))
	return nil
}

// TimelineEntry is one dated caption of a satellite timeline.
type TimelineEntry struct {
	DateParts
	Caption string
}

func (e *TimelineEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*e = TimelineEntry{}
		return nil
	}
	*e = TimelineEntry{
		DateParts: datePartsFromJSON(raw),
		Caption:   jsonText(raw["caption"]),
	}
	return nil
}

func (e *TimelineEntry) UnmarshalYAML(node *yaml.Node) error {
	fields := yamlMapping(node)
	caption := ""
	if n, ok := fields["caption"]; ok && n.Kind == yaml.ScalarNode && n.Tag != "!!null" {
		caption = n.Value
	}
	*e = TimelineEntry{DateParts: datePartsFromYAML(fields), Caption: caption}
	return nil
}

func datePartsFromJSON(raw map[string]json.RawMessage) DateParts {
	year, yearOK := jsonInt(raw["year"])
	day, dayOK := jsonInt(raw["day"])
	var month string
	monthOK := false
	if value, ok := raw["month"]; ok {
		monthOK = json.Unmarshal(value, &month) == nil && !isJSONNull(value)
	}
	return DateParts{
		Year:     year,
		Month:    month,
		Day:      day,
		complete: yearOK && dayOK && monthOK,
	}
}

// jsonInt accepts JSON integers only; strings, floats and null are rejected.
func jsonInt(value json.RawMessage) (int, bool) {
	if len(value) == 0 || isJSONNull(value) {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(value, &n); err != nil {
		return 0, false
	}
	return n, true
}

func jsonText(value json.RawMessage) string {
	if len(value) == 0 || isJSONNull(value) {
		return ""
	}
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(value))
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

func yamlMapping(node *yaml.Node) map[string]*yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	fields := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		fields[node.Content[i].Value] = node.Content[i+1]
	}
	return fields
}

func datePartsFromYAML(fields map[string]*yaml.Node) DateParts {
	year, yearOK := yamlInt(fields["year"])
	day, dayOK := yamlInt(fields["day"])
	month := ""
	monthOK := false
	if n, ok := fields["month"]; ok && n.Kind == yaml.ScalarNode && n.Tag == "!!str" {
		month = n.Value
		monthOK = true
	}
	return DateParts{Year: year, Month: month, Day: day, complete: yearOK && dayOK && monthOK}
}

func yamlInt(node *yaml.Node) (int, bool) {
	if node == nil || node.Kind != yaml.ScalarNode || node.Tag != "!!int" {
		return 0, false
	}
	var n int
	if err := node.Decode(&n); err != nil {
		return 0, false
	}
	return n, true
}

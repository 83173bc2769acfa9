package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// OriginalTimeline is the pre-rewrite timeline of an article. Upstream writes
// it either as a list of dated entries or as an object mapping a date label to
// a description; both forms are kept in source order.
type OriginalTimeline struct {
	Entries []TimelineEntry
	Labeled []LabeledEvent
}

// LabeledEvent is one pair of the object form.
type LabeledEvent struct {
	Label string
	Text  string
}

// TimelineLine is a rendered timeline row.
type TimelineLine struct {
	Date string
	Text string
}

// Empty reports whether neither form carries any row.
func (t OriginalTimeline) Empty() bool {
	return len(t.Entries) == 0 && len(t.Labeled) == 0
}

// Lines renders the timeline for display. List entries whose date does not
// convert are skipped; labeled events are shown verbatim.
func (t OriginalTimeline) Lines() []TimelineLine {
	lines := make([]TimelineLine, 0, len(t.Entries)+len(t.Labeled))
	for _, event := range t.Labeled {
		lines = append(lines, TimelineLine{Date: event.Label, Text: event.Text})
	}
	for _, entry := range t.Entries {
		date, ok := entry.Date()
		if !ok {
			continue
		}
		lines = append(lines, TimelineLine{Date: date.Format("2006-01-02"), Text: entry.Caption})
	}
	return lines
}

func (t *OriginalTimeline) UnmarshalJSON(data []byte) error {
	*t = OriginalTimeline{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || isJSONNull(trimmed) {
		return nil
	}
	switch trimmed[0] {
	case '[':
		return json.Unmarshal(trimmed, &t.Entries)
	case '{':
		labeled, err := decodeLabeledJSON(trimmed)
		if err != nil {
			return err
		}
		t.Labeled = labeled
		return nil
	default:
		return fmt.Errorf("initial_timeline: expected list or object")
	}
}

// decodeLabeledJSON walks the object token by token so key order survives.
func decodeLabeledJSON(data []byte) ([]LabeledEvent, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var events []LabeledEvent
	for dec.More() {
		keyToken, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyToken.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		events = append(events, LabeledEvent{Label: key, Text: jsonText(value)})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return events, nil
}

func (t *OriginalTimeline) UnmarshalYAML(node *yaml.Node) error {
	*t = OriginalTimeline{}
	switch node.Kind {
	case yaml.SequenceNode:
		return node.Decode(&t.Entries)
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			value := node.Content[i+1]
			text := value.Value
			if value.Kind != yaml.ScalarNode || value.Tag == "!!null" {
				text = ""
			}
			t.Labeled = append(t.Labeled, LabeledEvent{Label: node.Content[i].Value, Text: text})
		}
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil
		}
	}
	return fmt.Errorf("initial_timeline: expected list or mapping")
}

package feedback

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrPreconditionNotMet reports a write that requires an earlier
	// visibility judgment for the article.
	ErrPreconditionNotMet = errors.New("precondition not met")
	// ErrInvalidVisibility reports a visibility value outside Yes/No/Unsure.
	ErrInvalidVisibility = errors.New("invalid visibility")
	// ErrInvalidDate reports a corrected date that is neither empty nor YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
	// ErrMalformedFile reports a feedback file that cannot be parsed.
	ErrMalformedFile = errors.New("malformed feedback file")
)

// Visibility is the reviewer's judgment of whether the event shows in imagery.
type Visibility string

const (
	VisibilityYes    Visibility = "Yes"
	VisibilityNo     Visibility = "No"
	VisibilityUnsure Visibility = "Unsure"
)

// Visibilities lists the accepted judgments in display order.
var Visibilities = []Visibility{VisibilityYes, VisibilityNo, VisibilityUnsure}

// ParseVisibility accepts the canonical spellings, ignoring case and
// surrounding whitespace.
func ParseVisibility(value string) (Visibility, error) {
	trimmed := strings.TrimSpace(value)
	for _, v := range Visibilities {
		if strings.EqualFold(trimmed, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want Yes, No or Unsure)", ErrInvalidVisibility, value)
}

// Valid reports whether v is one of the accepted judgments.
func (v Visibility) Valid() bool {
	for _, candidate := range Visibilities {
		if v == candidate {
			return true
		}
	}
	return false
}

// Field is an optional text value. Set is false when the field was never
// written (or was reset to absent); Set with an empty Value means cleared.
type Field struct {
	Value string
	Set   bool
}

// Present returns a written field holding value.
func Present(value string) Field {
	return Field{Value: value, Set: true}
}

// Absent returns an unwritten field.
func Absent() Field {
	return Field{}
}

// Text returns the value, or "" when absent.
func (f Field) Text() string {
	if !f.Set {
		return ""
	}
	return f.Value
}

// Empty reports whether the field carries no text, absent or cleared.
func (f Field) Empty() bool {
	return f.Text() == ""
}

// Record is one feedback row.
type Record struct {
	ArticleID    string
	Visible      Field
	NewStartDate Field
	NewEndDate   Field
	Notes        Field
}

// Reviewed reports whether the record holds a non-empty visibility judgment.
func (r Record) Reviewed() bool {
	return !r.Visible.Empty()
}

// Visibility returns the judgment, or false when none is recorded.
func (r Record) Visibility() (Visibility, bool) {
	if !r.Reviewed() {
		return "", false
	}
	return Visibility(r.Visible.Value), true
}

// ValidateDate accepts "" or a YYYY-MM-DD calendar date.
func ValidateDate(value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, value); err != nil {
		return fmt.Errorf("%w: %q (want YYYY-MM-DD)", ErrInvalidDate, value)
	}
	return nil
}

// Table is an ordered snapshot of the store. Rows keep file order; new rows
// append.
type Table struct {
	records []Record
	index   map[string]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.records)
}

// Get returns the row for articleID.
func (t *Table) Get(articleID string) (Record, bool) {
	i, ok := t.index[articleID]
	if !ok {
		return Record{}, false
	}
	return t.records[i], true
}

// Records returns a copy of all rows in order.
func (t *Table) Records() []Record {
	return append([]Record(nil), t.records...)
}

// ReviewedCount returns the number of distinct articles with a visibility
// judgment.
func (t *Table) ReviewedCount() int {
	count := 0
	for _, record := range t.records {
		if record.Reviewed() {
			count++
		}
	}
	return count
}

// put replaces an existing row in place or appends a new one.
func (t *Table) put(record Record) {
	if i, ok := t.index[record.ArticleID]; ok {
		t.records[i] = record
		return
	}
	t.index[record.ArticleID] = len(t.records)
	t.records = append(t.records, record)
}

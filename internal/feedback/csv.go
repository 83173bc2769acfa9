package feedback

import (
	"bytes"
	"fmt"
	"strings"
)

// Columns is the header of the feedback file.
var Columns = []string{"article_id", "visible", "new_start_date", "new_end_date", "notes"}

const (
	colArticleID = iota
	colVisible
	colStartDate
	colEndDate
	colNotes
)

var utf8BOM = []byte("\ufeff")

// cell is one parsed CSV field. quoted distinguishes `""` from an empty bare
// field, which encoding/csv folds together.
type cell struct {
	value  string
	quoted bool
}

func (c cell) field() Field {
	if !c.quoted && c.value == "" {
		return Absent()
	}
	return Present(c.value)
}

// encodeTable renders the table as CSV: header, then one line per row.
func encodeTable(table *Table) []byte {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(Columns, ","))
	buf.WriteByte('\n')
	for _, record := range table.records {
		buf.WriteString(bareField(record.ArticleID))
		for _, f := range []Field{record.Visible, record.NewStartDate, record.NewEndDate, record.Notes} {
			buf.WriteByte(',')
			if f.Set {
				buf.WriteString(quoteField(f.Value))
			}
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func quoteField(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// bareField leaves value unquoted unless it would not survive a round trip.
func bareField(value string) string {
	if value == "" || strings.ContainsAny(value, ",\"\r\n") {
		return quoteField(value)
	}
	return value
}

// decodeTable parses CSV written by encodeTable or by any RFC 4180 writer.
// Columns are matched by header name so reordered files load; unknown
// columns are ignored. Blank lines and rows without an article_id are
// skipped. A repeated article_id replaces the earlier row's values. A
// leading UTF-8 byte order mark is ignored.
func decodeTable(data []byte) (*Table, error) {
	table := NewTable()
	rows, err := parseCSV(bytes.TrimPrefix(data, utf8BOM))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return table, nil
	}

	positions, err := headerPositions(rows[0])
	if err != nil {
		return nil, err
	}

	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		at := func(col int) cell {
			pos := positions[col]
			if pos < 0 || pos >= len(row) {
				return cell{}
			}
			return row[pos]
		}
		articleID := at(colArticleID).value
		if articleID == "" {
			continue
		}
		table.put(Record{
			ArticleID:    articleID,
			Visible:      at(colVisible).field(),
			NewStartDate: at(colStartDate).field(),
			NewEndDate:   at(colEndDate).field(),
			Notes:        at(colNotes).field(),
		})
	}
	return table, nil
}

func headerPositions(header []cell) ([]int, error) {
	positions := make([]int, len(Columns))
	for i := range positions {
		positions[i] = -1
	}
	for pos, c := range header {
		name := strings.TrimSpace(c.value)
		for col, want := range Columns {
			if name == want && positions[col] < 0 {
				positions[col] = pos
			}
		}
	}
	if positions[colArticleID] < 0 {
		return nil, fmt.Errorf("%w: header lacks article_id column", ErrMalformedFile)
	}
	return positions, nil
}

func isBlankRow(row []cell) bool {
	return len(row) == 1 && !row[0].quoted && row[0].value == ""
}

// parseCSV splits data into rows of cells. It accepts LF and CRLF line ends
// and quoted fields spanning lines.
func parseCSV(data []byte) ([][]cell, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var (
		rows [][]cell
		row  []cell
		i    int
		n    = len(data)
	)
	for {
		var c cell
		if i < n && data[i] == '"' {
			c.quoted = true
			start := i
			i++
			var b strings.Builder
			for {
				if i >= n {
					return nil, fmt.Errorf("%w: unterminated quoted field at line %d", ErrMalformedFile, lineAt(data, start))
				}
				if data[i] == '"' {
					if i+1 < n && data[i+1] == '"' {
						b.WriteByte('"')
						i += 2
						continue
					}
					i++
					break
				}
				b.WriteByte(data[i])
				i++
			}
			c.value = b.String()
			if i < n && data[i] != ',' && data[i] != '\n' && data[i] != '\r' {
				return nil, fmt.Errorf("%w: unexpected text after closing quote at line %d", ErrMalformedFile, lineAt(data, i))
			}
		} else {
			start := i
			for i < n && data[i] != ',' && data[i] != '\n' && data[i] != '\r' {
				if data[i] == '"' {
					return nil, fmt.Errorf("%w: bare quote in unquoted field at line %d", ErrMalformedFile, lineAt(data, i))
				}
				i++
			}
			c.value = string(data[start:i])
		}
		row = append(row, c)

		if i >= n {
			rows = append(rows, row)
			return rows, nil
		}
		switch data[i] {
		case ',':
			i++
		case '\r', '\n':
			if data[i] == '\r' {
				i++
				if i < n && data[i] == '\n' {
					i++
				}
			} else {
				i++
			}
			rows = append(rows, row)
			row = nil
			if i >= n {
				return rows, nil
			}
		}
	}
}

func lineAt(data []byte, offset int) int {
	return bytes.Count(data[:offset], []byte{'\n'}) + 1
}

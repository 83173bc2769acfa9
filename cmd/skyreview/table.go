package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// wrapWidth bounds free-text columns such as notes and history values.
const wrapWidth = 48

// column describes one table column. Numeric columns align right; wrapped
// columns soft-wrap at wrapWidth instead of stretching the table.
type column struct {
	title   string
	numeric bool
	wrap    bool
}

// renderTable draws rows under columns with a rounded border and an optional
// caption. Short rows are padded with empty cells.
func renderTable(columns []column, rows [][]string, caption string) string {
	if len(columns) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.title
		configs[i] = table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft}
		if col.numeric {
			configs[i].Align = text.AlignRight
		}
		if col.wrap {
			configs[i].WidthMax = wrapWidth
			configs[i].WidthMaxEnforcer = text.WrapSoft
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, cells := range rows {
		row := make(table.Row, len(columns))
		for i := range row {
			row[i] = ""
			if i < len(cells) {
				row[i] = cells[i]
			}
		}
		tw.AppendRow(row)
	}
	if caption != "" {
		tw.SetCaption(caption)
	}
	return tw.Render()
}

// feedbackColumns mirrors the feedback file header, wrapping the notes.
func feedbackColumns(names []string) []column {
	cols := make([]column, len(names))
	for i, name := range names {
		cols[i] = column{title: name, wrap: name == "notes"}
	}
	return cols
}

// Package static provides non-interactive terminal output components:
// indented trees with guide lines and borderless tables.
package static

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

// Column describes one table column.
type Column struct {
	Header string
	// Right aligns the column, for sizes and counts.
	Right bool
}

// columnGap separates columns.
const columnGap = 2

// RenderTable renders rows under bold headers without borders. Column
// widths follow the widest cell; lines carry no trailing blanks.
func RenderTable(cols []Column, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Header
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle()
			if col < len(cols)-1 {
				s = s.PaddingRight(columnGap)
			}
			if col < len(cols) && cols[col].Right {
				s = s.Align(lipgloss.Right)
			}
			if row == table.HeaderRow {
				s = s.Bold(true)
			}
			return s
		})

	var output strings.Builder
	for _, line := range strings.Split(t.String(), "\n") {
		output.WriteString(strings.TrimRight(line, " "))
		output.WriteString("\n")
	}
	return output.String()
}

package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// columnGap separates adjacent columns
const columnGap = 2

// TableColumn describes one column of a Table
type TableColumn struct {
	Header string
	Align  string // "left" (default), "right" or "center"
}

// Table collects rows and renders them with a header underline and
// alternating row styles.
type Table struct {
	Columns []TableColumn
	Rows    [][]string
}

// NewTable creates an empty table
func NewTable(columns []TableColumn) *Table {
	return &Table{Columns: columns}
}

// AddRow appends a row. Cells beyond the column count are dropped.
func (t *Table) AddRow(cells []string) {
	if len(cells) > len(t.Columns) {
		cells = cells[:len(t.Columns)]
	}
	t.Rows = append(t.Rows, cells)
}

// Render lays the table out for the terminal
func (t *Table) Render() string {
	if len(t.Columns) == 0 {
		return ""
	}

	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.Header
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleTableBorder).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(true).
		Headers(headers...).
		Rows(t.Rows...).
		StyleFunc(t.cellStyle)

	return tbl.Render() + "\n"
}

func (t *Table) cellStyle(row, col int) lipgloss.Style {
	var style lipgloss.Style
	switch {
	case row == table.HeaderRow:
		style = StyleTableHeader
	case row%2 == 0:
		style = StyleTableRow
	default:
		style = StyleTableRowAlt
	}

	if col < len(t.Columns) {
		style = style.Align(position(t.Columns[col].Align))
	}
	if col < len(t.Columns)-1 {
		style = style.PaddingRight(columnGap)
	}
	return style
}

// position maps a column alignment name to a lipgloss position
func position(align string) lipgloss.Position {
	switch align {
	case "right":
		return lipgloss.Right
	case "center":
		return lipgloss.Center
	default:
		return lipgloss.Left
	}
}

// RenderKeyValue renders a key-value pair
func RenderKeyValue(key, value string) string {
	return fmt.Sprintf("%s: %s",
		StyleAccent.Render(key),
		value,
	)
}

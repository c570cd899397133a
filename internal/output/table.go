package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

type Table struct {
	table *table.Table
	rows  int
}

func NewTable(headers ...string) *Table {
	t := table.New().Headers(headers...)
	t = t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return lipgloss.NewStyle().Bold(true).Align(lipgloss.Center).Padding(0, 1)
		}
		return lipgloss.NewStyle().Padding(0, 1)
	})
	return &Table{table: t}
}

func (t *Table) Row(cells ...string) {
	t.table.Row(cells...)
	t.rows++
}

func (t *Table) Len() int {
	return t.rows
}

func (t *Table) String() string {
	return t.table.String()
}

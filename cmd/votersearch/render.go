package main

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gcbaptista/go-voter-search/internal/engine"
	"github.com/gcbaptista/go-voter-search/internal/report"
	"github.com/gcbaptista/go-voter-search/model"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// styleMessage colours a message by its level.
func styleMessage(message string, level report.Level) string {
	switch level {
	case report.LevelSuccess:
		return successStyle.Render(message)
	case report.LevelWarning:
		return warningStyle.Render(message)
	default:
		return errorStyle.Render(message)
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// renderRows draws result rows with their columns in table order. Absent cells are blank.
func renderRows(columns []string, rows []model.Record) string {
	t := newTable(columns...)
	for _, rec := range rows {
		cells := make([]string, len(columns))
		for i, column := range columns {
			cells[i], _ = rec.Text(column)
		}
		t.Row(cells...)
	}
	return t.String()
}

// renderPartitions draws the partition list in display order.
func renderPartitions(partitions []engine.PartitionInfo) string {
	t := newTable("Code", "Partition", "Status")
	for _, p := range partitions {
		t.Row(strconv.Itoa(p.Code), p.Label, string(p.Status))
	}
	return t.String()
}

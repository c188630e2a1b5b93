package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vimtodo/core/internal/application/stats"
)

// levelColors index by heat-map level, 0 (no completions) to stats.MaxLevel.
var levelColors = [stats.MaxLevel + 1]lipgloss.Color{
	lipgloss.Color("#2C3A2C"),
	lipgloss.Color("#0E4429"),
	lipgloss.Color("#006D32"),
	lipgloss.Color("#26A641"),
	lipgloss.Color("#39D353"),
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#39D353"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
)

const (
	cellGlyph   = "■ "
	columnWidth = 2
)

// renderSummary writes the stats page the way the editor's :stats view lays
// it out: totals, the progress bar, the priority split and the heat-map.
func renderSummary(w io.Writer, s stats.Summary) {
	fmt.Fprintln(w, titleStyle.Render(":stats"))
	fmt.Fprintf(w, "tasks %d  done %d  rate %d%%\n", s.Total, s.Completed, s.Rate)
	fmt.Fprintf(w, "[%s]\n\n", s.ProgressBar)

	for _, b := range s.Distribution {
		fmt.Fprintf(w, "%-4s %3d  %3d%%\n", b.Label, b.Count, b.Pct)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s  %d completed", s.YearLabel, s.TotalCompletedInWindow)))
	fmt.Fprintln(w, mutedStyle.Render(monthRow(s.MonthLabels)))
	for _, row := range heatRows(s.Cells) {
		fmt.Fprintln(w, row)
	}
}

// monthRow places each label above the week column it starts in.
func monthRow(labels []stats.MonthLabel) string {
	line := []rune(strings.Repeat(" ", stats.WindowWeeks*columnWidth))
	for _, l := range labels {
		at := l.Week * columnWidth
		for i, r := range l.Label {
			if at+i < len(line) {
				line[at+i] = r
			}
		}
	}
	return strings.TrimRight(string(line), " ")
}

// heatRows lays the cells out as seven weekday rows of WindowWeeks columns,
// oldest week on the left.
func heatRows(cells []stats.Cell) []string {
	rows := make([]strings.Builder, 7)
	for i, c := range cells {
		level := c.Level
		if level < 0 || level > stats.MaxLevel {
			level = 0
		}
		style := lipgloss.NewStyle().Foreground(levelColors[level])
		rows[i%7].WriteString(style.Render(cellGlyph))
	}

	out := make([]string, len(rows))
	for i := range rows {
		out[i] = strings.TrimRight(rows[i].String(), " ")
	}
	return out
}

package display

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/smokyabdulrahman/ramadan-compass/internal/fasting"
)

// Table renders an aligned text table with optional color support.
type Table struct {
	headers []string
	rows    [][]string
	// highlightRow is the 0-based row index to highlight (the upcoming event). -1 = none.
	highlightRow int
}

// NewTable creates a new table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:      headers,
		highlightRow: -1,
	}
}

// AddRow appends a row of values. The number of values should match the number of headers.
func (t *Table) AddRow(values []string) {
	t.rows = append(t.rows, values)
}

// SetHighlightRow sets which row index (0-based) should be highlighted.
func (t *Table) SetHighlightRow(idx int) {
	t.highlightRow = idx
}

// Render produces the formatted table string with leading indent.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	// Display width, not byte length, so labels like "São Paulo" align.
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var sb strings.Builder

	sb.WriteString("  " + Bold(formatRow(t.headers, widths)) + "\n")

	sepParts := make([]string, len(widths))
	for i, w := range widths {
		sepParts[i] = strings.Repeat("─", w)
	}
	sb.WriteString(Dim("  "+strings.Join(sepParts, "  ")) + "\n")

	for i, row := range t.rows {
		line := formatRow(row, widths)
		if i == t.highlightRow {
			sb.WriteString("  " + Accent(line) + "\n")
		} else {
			sb.WriteString("  " + line + "\n")
		}
	}

	return sb.String()
}

// formatRow pads each cell to its column width and joins them.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if pad := w - lipgloss.Width(cell); pad > 0 {
			cell += strings.Repeat(" ", pad)
		}
		parts[i] = cell
	}
	return strings.Join(parts, "  ")
}

// Boundaries renders the day's two boundaries as a table, highlighting the
// one that is next and showing how long remains until it.
func Boundaries(t fasting.Timings, next *fasting.Target, now time.Time, layout string) string {
	tbl := NewTable([]string{"Event", "Prayer", "Time", "In"})

	for i, kind := range []fasting.Kind{fasting.Suhoor, fasting.Iftar} {
		raw := t.Fajr
		if kind == fasting.Iftar {
			raw = t.Maghrib
		}
		shown := raw
		if at, err := fasting.ResolveToday(raw, now); err == nil {
			shown = at.Format(layout)
		}

		in := ""
		if next != nil && next.Kind == kind {
			in = fasting.FormatRemaining(fasting.ComputeRemaining(*next, now))
			tbl.SetHighlightRow(i)
		}
		tbl.AddRow([]string{kind.Label(), kind.Prayer(), shown, in})
	}

	return tbl.Render()
}

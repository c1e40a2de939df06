package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"imgtriage/internal/triage"
	"imgtriage/internal/tui/styles"
	"imgtriage/pkg/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// FileList renders one triage list as a bordered pane
type FileList struct {
	title    string
	records  []types.FileRecord
	selected int
	active   bool
	width    int
	height   int
	empty    string
}

func NewFileList(title string) *FileList {
	return &FileList{
		title:    title,
		selected: triage.None,
		empty:    "No files",
	}
}

// SetRecords sets the rows and the selected index (triage.None for none)
func (fl *FileList) SetRecords(records []types.FileRecord, selected int) {
	fl.records = records
	fl.selected = selected
}

func (fl *FileList) SetActive(active bool) {
	fl.active = active
}

// SetSize sets the outer size of the pane including its border
func (fl *FileList) SetSize(width, height int) {
	fl.width = width
	fl.height = height
}

func (fl *FileList) SetEmptyText(text string) {
	fl.empty = text
}

func (fl *FileList) View() string {
	inner := max(fl.width-4, 10) // border and padding
	rows := max(fl.height-3, 1)  // border and title

	var s strings.Builder
	s.WriteString(styles.Theme.Title.Render(fmt.Sprintf("%s (%d)", fl.title, len(fl.records))))
	s.WriteString("\n")

	if len(fl.records) == 0 {
		s.WriteString(styles.Theme.Help.Render(fl.empty))
	}

	start, end := visibleRange(len(fl.records), fl.selected, rows)
	for i := start; i < end; i++ {
		if i > start {
			s.WriteString("\n")
		}
		s.WriteString(fl.renderRow(fl.records[i], i == fl.selected && fl.active, inner))
	}

	style := styles.Theme.Pane
	if fl.active {
		style = styles.Theme.ActivePane
	}
	if fl.width > 0 {
		style = style.Width(fl.width - 2)
	}
	if fl.height > 0 {
		style = style.Height(fl.height - 2)
	}
	return style.Render(s.String())
}

func (fl *FileList) renderRow(r types.FileRecord, selected bool, width int) string {
	cursor := "  "
	style := styles.Theme.Unselected
	if selected {
		cursor = "> "
		style = styles.Theme.Selected
	}

	badge := ""
	if r.Tagged() {
		badge = " [" + strings.ToUpper(r.Tag) + "]"
	}

	name := truncate(filepath.Base(r.Path), width-runewidth.StringWidth(cursor+badge), "…")
	return style.Render(cursor+name) + styles.Theme.Badge.Render(badge)
}

// visibleRange returns the window of rows to draw so that selected stays
// visible
func visibleRange(n, selected, rows int) (int, int) {
	if n <= rows {
		return 0, n
	}
	start := 0
	if selected != triage.None && selected >= rows {
		start = selected - rows + 1
	}
	return start, min(start+rows, n)
}

// truncate cuts s to a visual width, adding suffix when cut
func truncate(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth-suffixWidth, "") + suffix
}

// JoinPanes lays two panes out side by side
func JoinPanes(left, right string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

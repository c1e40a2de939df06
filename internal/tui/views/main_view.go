package views

import (
	"strings"

	"imgtriage/internal/tui/common"
	"imgtriage/internal/tui/components"
	"imgtriage/internal/tui/styles"
	"imgtriage/pkg/types"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth  = 100
	defaultHeight = 24
	chromeHeight  = 4 // title, filter bar, status line, command line
)

// RenderMainView draws the two triage panes with the bars around them and
// whatever overlay the current mode asks for
func RenderMainView(m common.ModelReader) string {
	width, height := m.Size()
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	var sb strings.Builder
	sb.WriteString(renderBanner())
	sb.WriteString("\n")

	session := m.Session()
	if bar := components.RenderFilterBar(session.TagUniverse(), session.SelectedTags()); bar != "" {
		sb.WriteString(bar)
	}
	sb.WriteString("\n")

	switch m.Mode() {
	case types.Help:
		sb.WriteString(m.HelpView())
	case types.SaveDialog:
		if result, ok := session.LastResult(); ok {
			sb.WriteString(lipgloss.Place(width-2, height-chromeHeight, lipgloss.Center, lipgloss.Center,
				components.RenderSaveDialog(result, m.LastTarget(), width)))
		}
	case types.Preview:
		panes := RenderPanes(m, width*2/3, height-chromeHeight)
		preview := components.RenderPreview(session.Window(), m.Preview(), width-lipgloss.Width(panes))
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panes, preview))
	default:
		sb.WriteString(RenderPanes(m, width, height-chromeHeight))
	}

	sb.WriteString("\n")
	sb.WriteString(m.StatusView())
	if m.Mode() == types.Command {
		sb.WriteString("\n")
		sb.WriteString(m.CommandBuffer())
	} else if m.Mode() == types.Normal {
		sb.WriteString("\n")
		sb.WriteString(RenderKeyCommands(m))
	}

	return styles.Theme.App.Render(sb.String())
}

// RenderPanes draws the unreviewed and accepted lists side by side
func RenderPanes(m common.ModelReader, width, height int) string {
	session := m.Session()
	focus := session.Focus()

	half := width / 2
	left := components.NewFileList("Unreviewed")
	left.SetRecords(session.Unreviewed(), focus.SelectedIndex(types.Unreviewed))
	left.SetActive(focus.IsActive(types.Unreviewed))
	left.SetSize(half, height)
	left.SetEmptyText("Import images with :import <paths>")

	right := components.NewFileList("Accepted")
	right.SetRecords(session.FilteredAccepted(), focus.SelectedIndex(types.Accepted))
	right.SetActive(focus.IsActive(types.Accepted))
	right.SetSize(width-half, height)
	if len(session.SelectedTags()) > 0 {
		right.SetEmptyText("No file matches the filter")
	}

	return components.JoinPanes(left.View(), right.View())
}

// RenderKeyCommands is the one-line key reference under the panes
func RenderKeyCommands(m common.ModelReader) string {
	return styles.Theme.Help.Render(m.HelpView())
}

func renderBanner() string {
	return styles.Theme.Title.Render("imgtriage")
}

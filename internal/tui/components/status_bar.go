package components

import (
	"imgtriage/internal/tui/styles"
	"imgtriage/pkg/types"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type StatusBar struct {
	text    string
	isError bool
	mode    types.Mode
	spinner spinner.Model
	loading bool
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Theme.Help

	return &StatusBar{
		spinner: s,
	}
}

func (s *StatusBar) SetLoading(loading bool) {
	s.loading = loading
}

func (s *StatusBar) Loading() bool {
	return s.loading
}

// SetText shows an informational message
func (s *StatusBar) SetText(text string) {
	s.text = text
	s.isError = false
}

// SetError shows an error message
func (s *StatusBar) SetError(text string) {
	s.text = text
	s.isError = true
}

func (s *StatusBar) Text() string {
	return s.text
}

func (s *StatusBar) SetMode(mode types.Mode) {
	s.mode = mode
}

// Tick starts the spinner animation
func (s *StatusBar) Tick() tea.Cmd {
	return s.spinner.Tick
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (s *StatusBar) View() string {
	mode := styles.Theme.Badge.Render("[" + s.mode.String() + "]")
	style := styles.Theme.Help
	if s.isError {
		style = styles.Theme.Error
	}

	if s.loading {
		return mode + " " + style.Render(s.spinner.View()+" "+s.text)
	}
	if s.text == "" {
		return mode
	}
	return mode + " " + style.Render(s.text)
}

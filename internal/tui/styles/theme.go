package styles

import (
	"imgtriage/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds every style the views render with
type Palette struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Pane       lipgloss.Style
	ActivePane lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Badge      lipgloss.Style
	Help       lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Dialog     lipgloss.Style
}

// Theme is the palette in use. Apply replaces it from configuration.
var Theme = New(config.GetTheme("default"))

// New builds a palette from a color map as returned by config.GetTheme
func New(colors map[string]string) Palette {
	c := func(name string) lipgloss.Color { return lipgloss.Color(colors[name]) }

	return Palette{
		App: lipgloss.NewStyle().
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(c("primary")),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c("border")).
			Padding(0, 1),
		ActivePane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c("primary")).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Foreground(c("emphasis")).
			Bold(true),
		Unselected: lipgloss.NewStyle(),
		Badge: lipgloss.NewStyle().
			Foreground(c("info")).
			Bold(true),
		Help: lipgloss.NewStyle().
			Foreground(c("info")),
		Error: lipgloss.NewStyle().
			Foreground(c("error")),
		Success: lipgloss.NewStyle().
			Foreground(c("success")),
		Warning: lipgloss.NewStyle().
			Foreground(c("warning")),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(c("primary")).
			Padding(1, 2),
	}
}

// Apply switches Theme to the colors configured in cfg
func Apply(cfg *config.Config) {
	if cfg == nil {
		return
	}
	Theme = New(map[string]string{
		"primary":  cfg.Theme.Primary,
		"success":  cfg.Theme.Success,
		"warning":  cfg.Theme.Warning,
		"error":    cfg.Theme.Error,
		"info":     cfg.Theme.Info,
		"emphasis": cfg.Theme.Emphasis,
		"border":   cfg.Theme.Border,
	})
}

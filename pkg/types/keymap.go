package types

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the triage view. Letters and digits are
// not bound here: in normal mode every single alphanumeric key is a tag key.
type KeyMap struct {
	// General
	Help key.Binding
	Quit key.Binding

	// Navigation
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	SwitchList key.Binding
	Preview    key.Binding

	// Actions
	ClearTag        key.Binding
	Save            key.Binding
	AcceptAll       key.Binding
	UnacceptAll     key.Binding
	ClearUnreviewed key.Binding
	CopyPath        key.Binding
	EnterCmdMode    key.Binding

	// Command Mode Specific
	ExecuteCmd  key.Binding
	ExitCmdMode key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),

		Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Left:       key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "reject/unaccept")),
		Right:      key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "accept")),
		SwitchList: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch list")),
		Preview:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "preview")),

		ClearTag:        key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("⌫", "clear tag")),
		Save:            key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		AcceptAll:       key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "accept all")),
		UnacceptAll:     key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "unaccept all")),
		ClearUnreviewed: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear unreviewed")),
		CopyPath:        key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy path")),
		EnterCmdMode:    key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),

		ExecuteCmd:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		ExitCmdMode: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.SwitchList, k.Save, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.SwitchList, k.Preview},
		{k.ClearTag, k.Save, k.AcceptAll, k.UnacceptAll, k.ClearUnreviewed, k.CopyPath},
		{k.EnterCmdMode, k.Help, k.Quit},
	}
}

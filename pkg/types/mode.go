package types

// Mode represents the current mode of the TUI
type Mode int

const (
	// Normal is the default mode: arrows navigate, letters tag
	Normal Mode = iota
	// Command is the mode for entering ':' commands
	Command
	// Preview shows the focus window of the selected file
	Preview
	// SaveDialog shows the outcome of the last save
	SaveDialog
	// Help shows the full key reference
	Help
)

// String returns the label shown in the status bar
func (m Mode) String() string {
	switch m {
	case Command:
		return "COMMAND"
	case Preview:
		return "PREVIEW"
	case SaveDialog:
		return "SAVED"
	case Help:
		return "HELP"
	default:
		return "NORMAL"
	}
}

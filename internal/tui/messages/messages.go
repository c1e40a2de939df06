package messages

import (
	"imgtriage/internal/tui/common"
	"imgtriage/pkg/types"
)

type ErrorMsg struct {
	Err error
}

// SaveCompleteMsg carries the outcome of a save started from the UI
type SaveCompleteMsg struct {
	Target string
	Result types.SaveImageResult
}

// TrashCompleteMsg carries the outcome of moving files to the trash
type TrashCompleteMsg struct {
	Paths  []string
	Result types.RemoveFileResult
}

// FileGoneMsg reports a tracked file that vanished from disk
type FileGoneMsg struct {
	Path string
}

// WatcherClosedMsg is sent once the watcher channel is closed
type WatcherClosedMsg struct{}

// PreviewMsg carries details of the focused file
type PreviewMsg struct {
	Info common.PreviewInfo
}

// ImportMsg reports paths expanded by the import command
type ImportMsg struct {
	Paths []string
	Error error
}

package common

import (
	"time"

	"imgtriage/internal/triage"
	"imgtriage/pkg/types"
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Mode() types.Mode
	Session() *triage.Session
	CommandBuffer() string
	StatusView() string
	HelpView() string
	Preview() PreviewInfo
	LastTarget() string
	Size() (width, height int)
}

// PreviewInfo describes the focused file for the preview pane
type PreviewInfo struct {
	Path    string
	Size    int64
	MIME    string // Detected from content, independent of the extension
	ModTime time.Time
	Format  string // Image format when it could be decoded
	Width   int
	Height  int
	Err     error
}

// Loaded reports whether the info belongs to path
func (p PreviewInfo) Loaded(path string) bool {
	return p.Path != "" && p.Path == path
}

package components

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"imgtriage/internal/triage"
	"imgtriage/internal/tui/common"
	"imgtriage/internal/tui/styles"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// Describe builds preview details from the file content. Formats the image
// package cannot decode (svg, webp) get no dimensions.
func Describe(path string, data []byte, err error) common.PreviewInfo {
	info := common.PreviewInfo{Path: path, Err: err}
	if err != nil {
		return info
	}

	info.Size = int64(len(data))
	info.MIME = mimetype.Detect(data).String()
	if st, statErr := os.Stat(path); statErr == nil {
		info.ModTime = st.ModTime()
	}
	if cfg, format, decodeErr := image.DecodeConfig(bytes.NewReader(data)); decodeErr == nil {
		info.Format = format
		info.Width = cfg.Width
		info.Height = cfg.Height
	}
	return info
}

// RenderPreview shows the focus window and details of its current record
func RenderPreview(w triage.Window, info common.PreviewInfo, width int) string {
	var s strings.Builder
	s.WriteString(styles.Theme.Title.Render("Preview"))
	s.WriteString("\n")

	if w.Empty() {
		s.WriteString(styles.Theme.Help.Render("Nothing focused"))
		return styles.Theme.Pane.Width(max(width-2, 20)).Render(s.String())
	}

	neighbour := func(label string, name string) {
		s.WriteString(styles.Theme.Help.Render(fmt.Sprintf("%-9s %s", label, name)))
		s.WriteString("\n")
	}
	if w.Previous != nil {
		neighbour("previous", filepath.Base(w.Previous.Path))
	}
	s.WriteString(styles.Theme.Selected.Render("> " + filepath.Base(w.Current.Path)))
	if w.Current.Tagged() {
		s.WriteString(styles.Theme.Badge.Render(" [" + strings.ToUpper(w.Current.Tag) + "]"))
	}
	s.WriteString("\n")
	if w.Next != nil {
		neighbour("next", filepath.Base(w.Next.Path))
	}

	s.WriteString("\n")
	s.WriteString(w.Current.Path)
	s.WriteString("\n")
	switch {
	case !info.Loaded(w.Current.Path):
		s.WriteString(styles.Theme.Help.Render("loading…"))
	case info.Err != nil:
		s.WriteString(styles.Theme.Error.Render(info.Err.Error()))
	default:
		details := []string{humanize.Bytes(uint64(info.Size))}
		if info.MIME != "" {
			details = append(details, info.MIME)
		}
		if info.Format != "" {
			details = append(details, fmt.Sprintf("%s %d×%d", strings.ToUpper(info.Format), info.Width, info.Height))
		}
		if !info.ModTime.IsZero() {
			details = append(details, "modified "+humanize.Time(info.ModTime))
		}
		s.WriteString(strings.Join(details, "  "))
	}

	return styles.Theme.Pane.Width(max(width-2, 20)).Render(s.String())
}

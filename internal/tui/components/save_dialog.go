package components

import (
	"fmt"
	"sort"
	"strings"

	"imgtriage/internal/tui/styles"
	"imgtriage/pkg/types"
)

// SaveTitle classifies a save result for the dialog heading
func SaveTitle(r types.SaveImageResult) string {
	switch {
	case len(r.GlobalErrors) > 0 || (!r.Succeeded() && len(r.Errors) > 0):
		return "save failed"
	case r.HasErrors():
		return "partially saved"
	default:
		return "saved"
	}
}

// RenderSaveDialog shows the outcome of a save and asks whether the saved
// files should leave the accepted list
func RenderSaveDialog(r types.SaveImageResult, target string, width int) string {
	var s strings.Builder

	title := SaveTitle(r)
	titleStyle := styles.Theme.Success
	switch title {
	case "save failed":
		titleStyle = styles.Theme.Error
	case "partially saved":
		titleStyle = styles.Theme.Warning
	}
	s.WriteString(titleStyle.Bold(true).Render(strings.ToUpper(title)))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%d file(s) saved to %s\n", len(r.SuccessfullySavedFiles), target))

	for _, msg := range r.GlobalErrors {
		s.WriteString(styles.Theme.Error.Render("! " + msg))
		s.WriteString("\n")
	}

	paths := make([]string, 0, len(r.Errors))
	for p := range r.Errors {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		s.WriteString(styles.Theme.Error.Render(fmt.Sprintf("✗ %s: %s", truncate(p, max(width-20, 20), "…"), r.Errors[p])))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if r.Succeeded() {
		s.WriteString(styles.Theme.Help.Render("Remove saved files from the list? [y/n]"))
	} else {
		s.WriteString(styles.Theme.Help.Render("Press any key to continue"))
	}

	return styles.Theme.Dialog.Render(s.String())
}

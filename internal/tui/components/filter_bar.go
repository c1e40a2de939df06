package components

import (
	"slices"
	"strings"

	"imgtriage/internal/triage"
	"imgtriage/internal/tui/styles"
)

// RenderFilterBar lists the tag universe, marking the selected tags. It is
// empty when no accepted file carries a tag.
func RenderFilterBar(universe, selected []string) string {
	if len(universe) == 0 {
		return ""
	}

	parts := make([]string, 0, len(universe)+1)
	for _, tag := range append(slices.Clone(universe), triage.UntaggedFilter) {
		label := strings.ToUpper(tag)
		if tag == triage.UntaggedFilter {
			label = "untagged"
		}
		if slices.Contains(selected, tag) {
			parts = append(parts, styles.Theme.Selected.Render("["+label+"]"))
		} else {
			parts = append(parts, styles.Theme.Unselected.Render(" "+label+" "))
		}
	}
	return styles.Theme.Help.Render("filter:") + " " + strings.Join(parts, " ")
}

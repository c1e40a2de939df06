package triage

import (
	"slices"
	"sort"

	"imgtriage/pkg/types"
)

// UntaggedFilter is the pseudo-tag that selects records without a tag.
// It never appears in a tag universe.
const UntaggedFilter = "__UNTAGGED"

// TagUniverse returns the distinct non-empty tags of accepted, ascending.
// Tags compare case-sensitively.
func TagUniverse(accepted []types.FileRecord) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, r := range accepted {
		if !r.Tagged() {
			continue
		}
		if _, ok := seen[r.Tag]; ok {
			continue
		}
		seen[r.Tag] = struct{}{}
		tags = append(tags, r.Tag)
	}
	sort.Strings(tags)
	return tags
}

// FilteredView returns the accepted records matching any selected tag, in
// accepted order. An empty selection matches everything.
func FilteredView(accepted []types.FileRecord, selected []string) []types.FileRecord {
	if len(selected) == 0 {
		return accepted
	}

	untagged := slices.Contains(selected, UntaggedFilter)
	view := make([]types.FileRecord, 0, len(accepted))
	for _, r := range accepted {
		if r.Tagged() && slices.Contains(selected, r.Tag) || !r.Tagged() && untagged {
			view = append(view, r)
		}
	}
	return view
}

// TranslateFilteredIndex maps an index into view onto the index of the
// record with the same path in accepted.
func TranslateFilteredIndex(view, accepted []types.FileRecord, index int) (int, bool) {
	if index < 0 || index >= len(view) {
		return None, false
	}
	i := indexOf(accepted, view[index].Path)
	if i < 0 {
		return None, false
	}
	return i, true
}

// TagFilter holds the tags selected for the accepted view
type TagFilter struct {
	selected []string
}

// NewTagFilter creates a filter with nothing selected
func NewTagFilter() *TagFilter {
	return &TagFilter{}
}

// Selected returns the selected tags, sorted
func (f *TagFilter) Selected() []string {
	return slices.Clone(f.selected)
}

// Active reports whether any tag is selected
func (f *TagFilter) Active() bool {
	return len(f.selected) > 0
}

// Contains reports whether tag is selected
func (f *TagFilter) Contains(tag string) bool {
	_, found := slices.BinarySearch(f.selected, tag)
	return found
}

// Set replaces the selection. Empty strings and duplicates are dropped.
func (f *TagFilter) Set(tags []string) {
	selected := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != "" {
			selected = append(selected, t)
		}
	}
	slices.Sort(selected)
	f.selected = slices.Compact(selected)
}

// Toggle selects tag if it is not selected and deselects it otherwise
func (f *TagFilter) Toggle(tag string) {
	if tag == "" {
		return
	}
	i, found := slices.BinarySearch(f.selected, tag)
	if found {
		f.selected = slices.Delete(f.selected, i, i+1)
		return
	}
	f.selected = slices.Insert(f.selected, i, tag)
}

// Clear deselects everything
func (f *TagFilter) Clear() {
	f.selected = nil
}

// Prune drops selected tags that are not in universe. The untagged
// pseudo-tag is kept while the universe has any tag at all, since without
// tags there is no filter UI left to deselect it. A plain membership check
// would drop it on every change to the accepted list, because the pseudo-tag
// is never part of universe. Reports whether the selection changed.
func (f *TagFilter) Prune(universe []string) bool {
	before := len(f.selected)
	f.selected = slices.DeleteFunc(f.selected, func(t string) bool {
		if t == UntaggedFilter {
			return len(universe) == 0
		}
		return !slices.Contains(universe, t)
	})
	return len(f.selected) != before
}

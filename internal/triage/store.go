package triage

import (
	"fmt"
	"slices"

	"imgtriage/internal/log"
	"imgtriage/pkg/types"
)

// Store owns the unreviewed and accepted collections and is the only place
// they are mutated. Every index taken by a Store method refers to the
// unfiltered collection; callers holding an index into the filtered accepted
// view must translate it first (see TranslateFilteredIndex).
//
// The collections are disjoint by path at all times.
type Store struct {
	unreviewed []types.FileRecord
	accepted   []types.FileRecord
	matcher    *ExtensionMatcher
	listeners  []func(types.ListID)
}

// NewStore creates an empty store. A nil matcher uses DefaultMatcher.
func NewStore(matcher *ExtensionMatcher) *Store {
	if matcher == nil {
		matcher = DefaultMatcher()
	}
	return &Store{matcher: matcher}
}

// OnChange registers fn to be called with the id of every collection that a
// mutation changed.
func (s *Store) OnChange(fn func(types.ListID)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(lists ...types.ListID) {
	for _, list := range lists {
		for _, fn := range s.listeners {
			fn(list)
		}
	}
}

// Unreviewed returns a copy of the unreviewed collection
func (s *Store) Unreviewed() []types.FileRecord {
	return slices.Clone(s.unreviewed)
}

// Accepted returns a copy of the accepted collection
func (s *Store) Accepted() []types.FileRecord {
	return slices.Clone(s.accepted)
}

// Records returns a copy of the named collection
func (s *Store) Records(list types.ListID) []types.FileRecord {
	return slices.Clone(*s.collection(list))
}

// Len returns the length of the named collection
func (s *Store) Len(list types.ListID) int {
	return len(*s.collection(list))
}

// collection panics on an unknown id: that is a wiring defect, not input.
func (s *Store) collection(list types.ListID) *[]types.FileRecord {
	switch list {
	case types.Unreviewed:
		return &s.unreviewed
	case types.Accepted:
		return &s.accepted
	default:
		panic(fmt.Sprintf("triage: unknown list %q", list))
	}
}

// Contains reports whether path is tracked in either collection
func (s *Store) Contains(path string) bool {
	return indexOf(s.unreviewed, path) >= 0 || indexOf(s.accepted, path) >= 0
}

// Import appends untagged records for every path that has an image extension
// and is not tracked yet, preserving input order. Everything else is dropped
// silently. Returns the number of records added.
func (s *Store) Import(paths []string) int {
	tracked := make(map[string]bool, len(s.unreviewed)+len(s.accepted)+len(paths))
	for _, r := range s.unreviewed {
		tracked[r.Path] = true
	}
	for _, r := range s.accepted {
		tracked[r.Path] = true
	}

	added := 0
	for _, path := range paths {
		switch {
		case !s.matcher.Match(path):
			log.Debug("import: skipping %s, not an image", path)
		case tracked[path]:
			log.Debug("import: skipping %s, already tracked", path)
		default:
			tracked[path] = true
			s.unreviewed = append(s.unreviewed, types.FileRecord{Path: path})
			added++
		}
	}

	if added > 0 {
		s.notify(types.Unreviewed)
	}
	return added
}

// AcceptAt moves the unreviewed record at index to the end of accepted
func (s *Store) AcceptAt(index int) bool {
	record, ok := s.takeAt(&s.unreviewed, index)
	if !ok {
		return false
	}
	s.accepted = append(s.accepted, record)
	s.notify(types.Unreviewed, types.Accepted)
	return true
}

// RejectAt discards the unreviewed record at index
func (s *Store) RejectAt(index int) bool {
	if _, ok := s.takeAt(&s.unreviewed, index); !ok {
		return false
	}
	s.notify(types.Unreviewed)
	return true
}

// UnacceptAt moves the accepted record at index back to the end of unreviewed
func (s *Store) UnacceptAt(index int) bool {
	record, ok := s.takeAt(&s.accepted, index)
	if !ok {
		return false
	}
	s.unreviewed = append(s.unreviewed, record)
	s.notify(types.Accepted, types.Unreviewed)
	return true
}

// AcceptAll moves every unreviewed record to accepted, preserving order
func (s *Store) AcceptAll() {
	if len(s.unreviewed) == 0 {
		return
	}
	s.accepted = append(s.accepted, s.unreviewed...)
	s.unreviewed = nil
	s.notify(types.Unreviewed, types.Accepted)
}

// UnacceptAll moves every accepted record back to unreviewed, preserving order
func (s *Store) UnacceptAll() {
	if len(s.accepted) == 0 {
		return
	}
	s.unreviewed = append(s.unreviewed, s.accepted...)
	s.accepted = nil
	s.notify(types.Accepted, types.Unreviewed)
}

// ClearUnreviewed discards the whole unreviewed collection
func (s *Store) ClearUnreviewed() {
	if len(s.unreviewed) == 0 {
		return
	}
	s.unreviewed = nil
	s.notify(types.Unreviewed)
}

// SetTag writes tag into the record at index of the named collection. The
// record keeps its path and position. An empty tag removes the tag.
func (s *Store) SetTag(list types.ListID, index int, tag string) bool {
	records := s.collection(list)
	if index < 0 || index >= len(*records) {
		return false
	}
	if (*records)[index].Tag == tag {
		return false
	}
	(*records)[index].Tag = tag
	s.notify(list)
	return true
}

// Forget drops the record with path from whichever collection holds it
func (s *Store) Forget(path string) bool {
	for _, list := range []types.ListID{types.Unreviewed, types.Accepted} {
		records := s.collection(list)
		if i := indexOf(*records, path); i >= 0 {
			s.takeAt(records, i)
			s.notify(list)
			return true
		}
	}
	return false
}

// RemoveAccepted drops every accepted record for which drop returns true
func (s *Store) RemoveAccepted(drop func(types.FileRecord) bool) int {
	before := len(s.accepted)
	s.accepted = slices.DeleteFunc(s.accepted, drop)
	removed := before - len(s.accepted)
	if removed > 0 {
		s.notify(types.Accepted)
	}
	return removed
}

func (s *Store) takeAt(records *[]types.FileRecord, index int) (types.FileRecord, bool) {
	if index < 0 || index >= len(*records) {
		return types.FileRecord{}, false
	}
	record := (*records)[index]
	*records = slices.Delete(*records, index, index+1)
	return record, true
}

func indexOf(records []types.FileRecord, path string) int {
	return slices.IndexFunc(records, func(r types.FileRecord) bool {
		return r.Path == path
	})
}

package triage

import (
	"imgtriage/internal/log"
	"imgtriage/pkg/types"
)

// ApplyRenames rewrites the path of every accepted record that appears as a
// key in renamed, keeping its tag and position. A rename onto a path that is
// already tracked elsewhere is refused and logged, so the collections stay
// disjoint. Returns the number of records renamed.
func (s *Store) ApplyRenames(renamed map[string]string) int {
	if len(renamed) == 0 {
		return 0
	}

	n := 0
	for i, r := range s.accepted {
		target, ok := renamed[r.Path]
		if !ok || target == r.Path {
			continue
		}
		if indexOf(s.unreviewed, target) >= 0 || indexOf(s.accepted, target) >= 0 {
			log.LogWithFields(log.F("from", r.Path), log.F("to", target)).
				Warn("rename target is already tracked, keeping old path")
			continue
		}
		s.accepted[i].Path = target
		n++
	}

	if n > 0 {
		s.notify(types.Accepted)
	}
	return n
}

// SavedPaths is the set of paths that confirming a save removes from the
// accepted list: every saved original plus every rename target.
func SavedPaths(result types.SaveImageResult) map[string]bool {
	saved := make(map[string]bool, len(result.SuccessfullySavedFiles)+len(result.RenamedFiles))
	for _, p := range result.SuccessfullySavedFiles {
		saved[p] = true
	}
	for _, p := range result.RenamedFiles {
		saved[p] = true
	}
	return saved
}

// RemoveSaved drops the accepted records that result reports as saved.
// Records with errors stay for another attempt.
func (s *Store) RemoveSaved(result types.SaveImageResult) int {
	saved := SavedPaths(result)
	if len(saved) == 0 {
		return 0
	}
	return s.RemoveAccepted(func(r types.FileRecord) bool {
		return saved[r.Path]
	})
}

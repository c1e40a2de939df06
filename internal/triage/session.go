package triage

import (
	"imgtriage/internal/errors"
	"imgtriage/internal/log"
	"imgtriage/pkg/types"

	"github.com/google/uuid"
)

// Session ties a Store to the tag filter and focus controller and wires the
// keyboard actions of both lists. It is owned by a single goroutine.
type Session struct {
	store  *Store
	filter *TagFilter
	focus  *Focus

	saving bool
	saveID string
	last   *types.SaveImageResult
}

// NewSession wires store into a new session
func NewSession(store *Store) *Session {
	if store == nil {
		panic("triage: NewSession called with a nil store")
	}

	s := &Session{
		store:  store,
		filter: NewTagFilter(),
		focus:  NewFocus(),
	}

	s.focus.Register(types.Unreviewed, store.Unreviewed, Keymap{
		Left:  func(i int) { store.RejectAt(i) },
		Right: func(i int) { store.AcceptAt(i) },
		TagKey: func(i int, key rune) {
			store.SetTag(types.Unreviewed, i, string(key))
			store.AcceptAt(i)
		},
	})
	s.focus.Register(types.Accepted, s.FilteredAccepted, Keymap{
		Left: func(i int) {
			if j, ok := s.translate(i); ok {
				store.UnacceptAt(j)
			}
		},
		TagKey: func(i int, key rune) {
			if j, ok := s.translate(i); ok {
				store.SetTag(types.Accepted, j, string(key))
			}
		},
	})

	store.OnChange(s.changed)
	return s
}

func (s *Session) check() {
	if s == nil || s.store == nil {
		panic("triage: Session used without NewSession")
	}
}

func (s *Session) changed(list types.ListID) {
	if list == types.Accepted {
		s.filter.Prune(TagUniverse(s.store.accepted))
	}
	s.focus.Reclamp(list)
}

func (s *Session) translate(viewIndex int) (int, bool) {
	return TranslateFilteredIndex(s.FilteredAccepted(), s.store.accepted, viewIndex)
}

// Store returns the underlying store
func (s *Session) Store() *Store {
	s.check()
	return s.store
}

// Focus returns the focus controller for read access
func (s *Session) Focus() *Focus {
	s.check()
	return s.focus
}

// Unreviewed returns the unreviewed records
func (s *Session) Unreviewed() []types.FileRecord {
	s.check()
	return s.store.Unreviewed()
}

// Accepted returns all accepted records, ignoring the tag filter
func (s *Session) Accepted() []types.FileRecord {
	s.check()
	return s.store.Accepted()
}

// FilteredAccepted returns the accepted records visible under the tag filter
func (s *Session) FilteredAccepted() []types.FileRecord {
	s.check()
	return FilteredView(s.store.Accepted(), s.filter.Selected())
}

// View returns what list shows: the unreviewed records or the filtered
// accepted ones.
func (s *Session) View(list types.ListID) []types.FileRecord {
	s.check()
	if list == types.Accepted {
		return s.FilteredAccepted()
	}
	return s.store.Records(list)
}

// TagUniverse returns the tags in use by accepted records
func (s *Session) TagUniverse() []string {
	s.check()
	return TagUniverse(s.store.accepted)
}

// SelectedTags returns the tag filter selection
func (s *Session) SelectedTags() []string {
	s.check()
	return s.filter.Selected()
}

// SetSelectedTags replaces the tag filter selection. Tags outside the current
// universe are dropped.
func (s *Session) SetSelectedTags(tags []string) {
	s.check()
	s.filter.Set(tags)
	s.filterChanged()
}

// ToggleTag flips one tag in the filter selection
func (s *Session) ToggleTag(tag string) {
	s.check()
	s.filter.Toggle(tag)
	s.filterChanged()
}

// ClearFilter shows all accepted records again
func (s *Session) ClearFilter() {
	s.check()
	s.filter.Clear()
	s.filterChanged()
}

func (s *Session) filterChanged() {
	s.filter.Prune(TagUniverse(s.store.accepted))
	s.focus.Reclamp(types.Accepted)
}

// Import adds image paths to the unreviewed list
func (s *Session) Import(paths []string) int {
	s.check()
	n := s.store.Import(paths)
	if n > 0 && s.focus.Active() == "" {
		s.focus.Activate(types.Unreviewed)
	}
	log.Debug("imported %d of %d paths", n, len(paths))
	return n
}

// HandleKey routes a key press to the active list
func (s *Session) HandleKey(k Key) bool {
	s.check()
	return s.focus.HandleKey(k)
}

// SetFocus focuses viewIndex of list
func (s *Session) SetFocus(list types.ListID, viewIndex int) {
	s.check()
	s.focus.SetFocus(list, viewIndex)
}

// SwitchList moves focus to the other list, restoring its last position
func (s *Session) SwitchList() {
	s.check()
	s.focus.Cycle()
}

// Selection returns the active list and focused view index
func (s *Session) Selection() (types.ListID, int) {
	s.check()
	return s.focus.Selection()
}

// Window returns the frozen previous/current/next snapshot
func (s *Session) Window() Window {
	s.check()
	return s.focus.Window()
}

// Focused returns the record under focus in the current view
func (s *Session) Focused() (types.FileRecord, bool) {
	s.check()
	list, i := s.focus.Selection()
	if list == "" {
		return types.FileRecord{}, false
	}
	view := s.View(list)
	if i < 0 || i >= len(view) {
		return types.FileRecord{}, false
	}
	return view[i], true
}

// ClearTag removes the tag of the record at viewIndex of list
func (s *Session) ClearTag(list types.ListID, viewIndex int) bool {
	s.check()
	i := viewIndex
	if list == types.Accepted {
		var ok bool
		if i, ok = s.translate(viewIndex); !ok {
			return false
		}
	}
	return s.store.SetTag(list, i, "")
}

// AcceptAll accepts every unreviewed record
func (s *Session) AcceptAll() {
	s.check()
	s.store.AcceptAll()
}

// UnacceptAll returns every accepted record to unreviewed
func (s *Session) UnacceptAll() {
	s.check()
	s.store.UnacceptAll()
}

// ClearUnreviewed drops every unreviewed record
func (s *Session) ClearUnreviewed() {
	s.check()
	s.store.ClearUnreviewed()
}

// Contains reports whether path is tracked
func (s *Session) Contains(path string) bool {
	s.check()
	return s.store.Contains(path)
}

// Forget drops path from whichever list holds it
func (s *Session) Forget(path string) bool {
	s.check()
	return s.store.Forget(path)
}

// Saving reports whether a save has begun and not completed
func (s *Session) Saving() bool {
	s.check()
	return s.saving
}

// BeginSave marks a save as pending and returns the records to save: the
// accepted records visible under the current tag filter. Only one save may
// be pending at a time.
func (s *Session) BeginSave() ([]types.FileRecord, error) {
	s.check()
	if s.saving {
		return nil, errors.ErrSaveInProgress
	}
	files := s.FilteredAccepted()
	if len(files) == 0 {
		return nil, errors.ErrNothingToSave
	}
	s.saving = true
	s.saveID = uuid.New().String()
	log.LogWithFields(log.F("save_id", s.saveID), log.F("files", len(files))).Debug("save started")
	return files, nil
}

// SaveID identifies the pending or last save in log lines
func (s *Session) SaveID() string {
	s.check()
	return s.saveID
}

// CompleteSave records the outcome of the pending save and applies any
// renames it reports. Saved records stay until RemoveSaved confirms them.
func (s *Session) CompleteSave(result types.SaveImageResult) {
	s.check()
	s.saving = false
	s.last = &result

	renamed := s.store.ApplyRenames(result.RenamedFiles)
	log.LogWithFields(
		log.F("save_id", s.saveID),
		log.F("saved", len(result.SuccessfullySavedFiles)),
		log.F("errors", len(result.Errors)),
		log.F("global_errors", len(result.GlobalErrors)),
		log.F("renamed", renamed),
	).Info("save completed")
}

// RemoveSaved drops the accepted records the last save reported as saved
func (s *Session) RemoveSaved() int {
	s.check()
	if s.last == nil {
		return 0
	}
	return s.store.RemoveSaved(*s.last)
}

// LastResult returns the outcome of the last completed save
func (s *Session) LastResult() (types.SaveImageResult, bool) {
	s.check()
	if s.last == nil {
		return types.SaveImageResult{}, false
	}
	return *s.last, true
}

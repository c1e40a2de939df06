package triage

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"imgtriage/pkg/types"
)

// None marks the absence of a selected index
const None = -1

// KeyCode identifies the keys the focus controller reacts to
type KeyCode int

const (
	KeyUp KeyCode = iota + 1
	KeyDown
	KeyLeft
	KeyRight
	KeyRune
)

// Key is a single key press
type Key struct {
	Code KeyCode
	Rune rune
}

// RuneKey builds a KeyRune press
func RuneKey(r rune) Key {
	return Key{Code: KeyRune, Rune: r}
}

// ParseKey maps a key name as reported by the terminal ("up", "left", "a")
// onto a Key. The second return is false for keys the controller ignores.
func ParseKey(name string) (Key, bool) {
	switch name {
	case "up":
		return Key{Code: KeyUp}, true
	case "down":
		return Key{Code: KeyDown}, true
	case "left":
		return Key{Code: KeyLeft}, true
	case "right":
		return Key{Code: KeyRight}, true
	}
	r, size := utf8.DecodeRuneInString(name)
	if size == len(name) && isTagRune(r) {
		return RuneKey(r), true
	}
	return Key{}, false
}

func isTagRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// Keymap holds the actions of one list. Each callback gets the focused view
// index, which is None when nothing is focused.
type Keymap struct {
	Left   func(index int)
	Right  func(index int)
	TagKey func(index int, key rune)
}

// Window is the previous/current/next neighbourhood of the focused record.
// It holds copies taken when focus was last set, so later edits to the
// records are not visible until focus is set again.
type Window struct {
	Previous *types.FileRecord
	Current  *types.FileRecord
	Next     *types.FileRecord
}

// Empty reports whether no record is focused
func (w Window) Empty() bool {
	return w.Current == nil
}

func (w Window) clone() Window {
	return Window{
		Previous: copyRecord(w.Previous),
		Current:  copyRecord(w.Current),
		Next:     copyRecord(w.Next),
	}
}

func copyRecord(r *types.FileRecord) *types.FileRecord {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

type boundList struct {
	view   func() []types.FileRecord
	keymap Keymap
	index  int
	length int // view length when focus was last set
}

// Focus tracks which list is active and which record in it is focused.
// At most one list is active at a time; every list remembers its last index
// so that re-activating it restores the position.
type Focus struct {
	lists  map[types.ListID]*boundList
	order  []types.ListID
	active types.ListID
	window Window
}

// NewFocus creates a controller with no lists registered
func NewFocus() *Focus {
	return &Focus{lists: make(map[types.ListID]*boundList)}
}

// Register binds a list id to its current view and its keymap
func (f *Focus) Register(id types.ListID, view func() []types.FileRecord, keymap Keymap) {
	if _, ok := f.lists[id]; !ok {
		f.order = append(f.order, id)
	}
	f.lists[id] = &boundList{view: view, keymap: keymap, index: None}
}

func (f *Focus) mustList(id types.ListID) *boundList {
	b, ok := f.lists[id]
	if !ok {
		panic(fmt.Sprintf("triage: list %q is not registered", id))
	}
	return b
}

// SetFocus focuses index of list id, clamped into its view. An empty id, a
// None index or an empty view clears the selection.
func (f *Focus) SetFocus(id types.ListID, index int) {
	if id == "" {
		f.clear()
		return
	}

	b := f.mustList(id)
	view := b.view()
	b.length = len(view)
	if index == None || len(view) == 0 {
		b.index = None
		f.clear()
		return
	}

	index = clamp(index, 0, len(view)-1)
	b.index = index
	f.active = id
	f.window = windowAt(view, index)
}

func (f *Focus) clear() {
	f.active = ""
	f.window = Window{}
}

// Reclamp re-applies focus after the view of id changed length. Only the
// active list with a selection is affected: a selection past the end moves to
// the last record, an empty view clears it, anything else refocuses the same
// index so the window picks up the new neighbours. Edits that keep the length
// leave the window as it was.
func (f *Focus) Reclamp(id types.ListID) {
	b := f.mustList(id)
	if f.active != id || b.index == None {
		return
	}
	if len(b.view()) == b.length {
		return
	}
	f.SetFocus(id, b.index)
}

// Activate makes id the active list at its remembered index, or at the first
// record if it has none.
func (f *Focus) Activate(id types.ListID) {
	b := f.mustList(id)
	index := b.index
	if index == None {
		index = 0
	}
	f.SetFocus(id, index)
}

// Cycle activates the next registered list that has records
func (f *Focus) Cycle() {
	if len(f.order) == 0 {
		return
	}
	start := 0
	for i, id := range f.order {
		if id == f.active {
			start = i + 1
			break
		}
	}
	for n := 0; n < len(f.order); n++ {
		id := f.order[(start+n)%len(f.order)]
		if len(f.lists[id].view()) > 0 {
			f.Activate(id)
			return
		}
	}
}

// HandleKey applies a key press to the active list. Reports whether the key
// was consumed.
func (f *Focus) HandleKey(k Key) bool {
	if f.active == "" {
		return false
	}
	id := f.active
	b := f.lists[id]

	switch k.Code {
	case KeyDown, KeyUp:
		n := len(b.view())
		if b.index == None || n == 0 {
			return false
		}
		step := 1
		if k.Code == KeyUp {
			step = -1
		}
		f.SetFocus(id, clamp(b.index+step, 0, n-1))
		return true
	case KeyLeft:
		if b.keymap.Left == nil {
			return false
		}
		b.keymap.Left(b.index)
		return true
	case KeyRight:
		if b.keymap.Right == nil {
			return false
		}
		b.keymap.Right(b.index)
		return true
	case KeyRune:
		if !isTagRune(k.Rune) || b.keymap.TagKey == nil {
			return false
		}
		b.keymap.TagKey(b.index, k.Rune)
		return true
	}
	return false
}

// Active returns the active list id, "" when none
func (f *Focus) Active() types.ListID {
	return f.active
}

// Selection returns the active list and its focused index
func (f *Focus) Selection() (types.ListID, int) {
	if f.active == "" {
		return "", None
	}
	return f.active, f.lists[f.active].index
}

// SelectedIndex returns the focused index of id, or None if id is not active
func (f *Focus) SelectedIndex(id types.ListID) int {
	b := f.mustList(id)
	if f.active != id {
		return None
	}
	return b.index
}

// IsActive reports whether id is the active list
func (f *Focus) IsActive(id types.ListID) bool {
	f.mustList(id)
	return f.active == id
}

// Window returns the snapshot taken at the last focus change
func (f *Focus) Window() Window {
	return f.window.clone()
}

func windowAt(view []types.FileRecord, index int) Window {
	w := Window{Current: copyRecord(&view[index])}
	if index > 0 {
		w.Previous = copyRecord(&view[index-1])
	}
	if index < len(view)-1 {
		w.Next = copyRecord(&view[index+1])
	}
	return w
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"imgtriage/internal/config"
	"imgtriage/internal/errors"
	"imgtriage/internal/organize"
	"imgtriage/internal/triage"
	"imgtriage/internal/tui/common"
	"imgtriage/internal/tui/components"
	"imgtriage/internal/tui/messages"
	"imgtriage/internal/tui/styles"
	"imgtriage/internal/tui/views"
	"imgtriage/internal/watch"
	"imgtriage/pkg/types"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Option configures a Model
type Option func(*Model)

// WithWatcher drops files from the lists when they vanish from disk
func WithWatcher(w *watch.Watcher) Option {
	return func(m *Model) { m.watcher = w }
}

// WithClipboard replaces the system clipboard writer
func WithClipboard(write func(string) error) Option {
	return func(m *Model) { m.writeClipboard = write }
}

// WithContext sets the context save and trash operations run under
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

type Model struct {
	// Core state
	session *triage.Session
	saver   organize.Saver
	cfg     *config.Config
	watcher *watch.Watcher
	ctx     context.Context

	mode    types.Mode
	keys    *types.KeyMap
	help    help.Model
	status  *components.StatusBar
	preview common.PreviewInfo
	width   int
	height  int

	// Command mode state
	commandBuffer string
	lastTarget    string

	writeClipboard func(string) error
}

// New creates the triage model. Nil arguments get defaults.
func New(cfg *config.Config, session *triage.Session, saver organize.Saver, opts ...Option) *Model {
	if cfg == nil {
		cfg = config.New()
	}
	if session == nil {
		session = triage.NewSession(triage.NewStore(nil))
	}
	if saver == nil {
		saver = organize.NewSaver(cfg)
	}
	styles.Apply(cfg)

	m := &Model{
		session:        session,
		saver:          saver,
		cfg:            cfg,
		ctx:            context.Background(),
		keys:           types.DefaultKeyMap(),
		help:           help.New(),
		status:         components.NewStatusBar(),
		writeClipboard: clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.setMode(types.Normal)
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return waitForGone(m.watcher)
}

func waitForGone(w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		gone, ok := <-w.FileChannel()
		if !ok {
			return messages.WatcherClosedMsg{}
		}
		return messages.FileGoneMsg{Path: gone.Path}
	}
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case messages.SaveCompleteMsg:
		m.handleSaveComplete(msg)
		return m, nil

	case messages.TrashCompleteMsg:
		m.handleTrashComplete(msg)
		return m, nil

	case messages.ImportMsg:
		if msg.Error != nil {
			m.status.SetError(msg.Error.Error())
			return m, nil
		}
		n := m.Import(msg.Paths)
		m.status.SetText(fmt.Sprintf("imported %d of %d file(s)", n, len(msg.Paths)))
		return m, nil

	case messages.FileGoneMsg:
		if m.session.Forget(msg.Path) {
			m.status.SetText(filepath.Base(msg.Path) + " vanished from disk")
		}
		return m, waitForGone(m.watcher)

	case messages.WatcherClosedMsg:
		return m, nil

	case messages.PreviewMsg:
		if errors.IsFileNotFound(msg.Info.Err) && m.session.Forget(msg.Info.Path) {
			m.status.SetText(filepath.Base(msg.Info.Path) + " vanished from disk")
			if m.session.Window().Empty() {
				m.setMode(types.Normal)
				return m, nil
			}
			return m, m.loadPreview()
		}
		m.preview = msg.Info
		return m, nil

	case messages.ErrorMsg:
		m.status.SetError(msg.Err.Error())
		return m, nil

	case spinner.TickMsg:
		return m, m.status.Update(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case types.Command:
		return m.handleCommandMode(msg)
	case types.Help:
		m.setMode(types.Normal)
		return m, nil
	case types.SaveDialog:
		return m.handleSaveDialogKeys(msg)
	case types.Preview:
		return m.handlePreviewKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.setMode(types.Help)
	case key.Matches(msg, m.keys.EnterCmdMode):
		m.setMode(types.Command)
		m.commandBuffer = ":"
	case key.Matches(msg, m.keys.SwitchList):
		m.session.SwitchList()
	case key.Matches(msg, m.keys.Preview):
		if m.session.Window().Empty() {
			m.status.SetText("nothing focused")
			return m, nil
		}
		m.setMode(types.Preview)
		return m, m.loadPreview()
	case key.Matches(msg, m.keys.ClearTag):
		if list, i := m.session.Selection(); list != "" {
			m.session.ClearTag(list, i)
		}
	case key.Matches(msg, m.keys.Save):
		return m, m.startSave("")
	case key.Matches(msg, m.keys.AcceptAll):
		m.session.AcceptAll()
		m.status.SetText("accepted all files")
	case key.Matches(msg, m.keys.UnacceptAll):
		m.session.UnacceptAll()
		m.status.SetText("moved all accepted files back")
	case key.Matches(msg, m.keys.ClearUnreviewed):
		m.session.ClearUnreviewed()
		m.status.SetText("cleared unreviewed files")
	case key.Matches(msg, m.keys.CopyPath):
		m.copyFocusedPath()
	default:
		m.handleTriageKey(msg)
	}
	return m, nil
}

// handleTriageKey forwards arrows and tag keys to the focused list
func (m *Model) handleTriageKey(msg tea.KeyMsg) bool {
	k, ok := triage.ParseKey(msg.String())
	if !ok {
		return false
	}
	if list, _ := m.session.Selection(); list == "" && (k.Code == triage.KeyUp || k.Code == triage.KeyDown) {
		m.session.SwitchList()
		return true
	}
	return m.session.HandleKey(k)
}

func (m *Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Preview), msg.Type == tea.KeyEsc:
		m.setMode(types.Normal)
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.setMode(types.Help)
		return m, nil
	}

	m.handleTriageKey(msg)
	if m.session.Window().Empty() {
		m.setMode(types.Normal)
		return m, nil
	}
	return m, m.loadPreview()
}

func (m *Model) handleSaveDialogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	result, _ := m.session.LastResult()
	switch msg.String() {
	case "y", "Y":
		if !result.Succeeded() {
			break
		}
		removed := m.session.RemoveSaved()
		if m.watcher != nil {
			for path := range triage.SavedPaths(result) {
				m.watcher.Untrack(path)
			}
		}
		m.status.SetText(fmt.Sprintf("removed %d saved file(s) from the list", removed))
	case "n", "N", "esc", "enter":
	default:
		if result.Succeeded() {
			return m, nil
		}
	}
	m.setMode(types.Normal)
	return m, nil
}

func (m *Model) handleCommandMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ExitCmdMode):
		m.setMode(types.Normal)
		m.commandBuffer = ""
		return m, nil
	case key.Matches(msg, m.keys.ExecuteCmd):
		cmd := strings.TrimPrefix(m.commandBuffer, ":")
		m.setMode(types.Normal)
		m.commandBuffer = ""
		return m, m.executeCommand(cmd)
	case msg.Type == tea.KeyBackspace:
		if len(m.commandBuffer) > 1 {
			runes := []rune(m.commandBuffer)
			m.commandBuffer = string(runes[:len(runes)-1])
		}
	case msg.Type == tea.KeySpace:
		m.commandBuffer += " "
	case msg.Type == tea.KeyRunes:
		m.commandBuffer += string(msg.Runes)
	}
	return m, nil
}

func (m *Model) executeCommand(cmd string) tea.Cmd {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return nil
	}
	args := fields[1:]

	switch fields[0] {
	case "q", "quit":
		return tea.Quit
	case "i", "import":
		if len(args) == 0 {
			m.status.SetError("usage: import <paths...>")
			return nil
		}
		return expandPaths(args)
	case "w", "save":
		return m.startSave(strings.Join(args, " "))
	case "f", "filter":
		m.applyFilter(args)
	case "acceptall":
		m.session.AcceptAll()
	case "unacceptall":
		m.session.UnacceptAll()
	case "clear":
		m.session.ClearUnreviewed()
	case "trash":
		return m.trashFocused()
	case "help":
		m.setMode(types.Help)
	default:
		m.status.SetError("unknown command: " + fields[0])
	}
	return nil
}

func (m *Model) applyFilter(args []string) {
	if len(args) == 0 {
		m.session.ClearFilter()
		m.status.SetText("filter cleared")
		return
	}

	tags := make([]string, len(args))
	for i, a := range args {
		if strings.EqualFold(a, "untagged") {
			a = triage.UntaggedFilter
		}
		tags[i] = a
	}
	m.session.SetSelectedTags(tags)
	if len(m.session.SelectedTags()) == 0 {
		m.status.SetError("no accepted file has these tags")
		return
	}
	m.status.SetText(fmt.Sprintf("showing %d accepted file(s)", len(m.session.FilteredAccepted())))
}

// expandPaths resolves globs and directories off the UI goroutine
func expandPaths(args []string) tea.Cmd {
	return func() tea.Msg {
		paths, err := ExpandPaths(args)
		return messages.ImportMsg{Paths: paths, Error: err}
	}
}

// ExpandPaths resolves each argument as a glob. Directories contribute
// their direct entries; arguments that match nothing are kept as given.
func ExpandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				arg = filepath.Join(home, arg[2:])
			}
		}

		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || !info.IsDir() {
				paths = append(paths, match)
				continue
			}
			entries, err := os.ReadDir(match)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", match, err)
			}
			for _, e := range entries {
				if !e.IsDir() {
					paths = append(paths, filepath.Join(match, e.Name()))
				}
			}
		}
	}
	return types.CleanPaths(paths), nil
}

// Import adds paths to the unreviewed list and watches the ones added
func (m *Model) Import(paths []string) int {
	paths = types.CleanPaths(paths)
	n := m.session.Import(paths)
	if m.watcher != nil && n > 0 {
		var added []string
		for _, p := range paths {
			if m.session.Contains(p) {
				added = append(added, p)
			}
		}
		if err := m.watcher.Track(added...); err != nil {
			m.status.SetError(err.Error())
		}
	}
	return n
}

func (m *Model) startSave(target string) tea.Cmd {
	if target == "" {
		target = m.cfg.Settings.TargetDirectory
	}
	if target == "" {
		m.status.SetError("no target directory: use :save <dir> or set settings.target_directory")
		return nil
	}

	files, err := m.session.BeginSave()
	if errors.IsSaveInProgress(err) {
		m.status.SetText("save in progress, wait for it to finish")
		return nil
	}
	if err != nil {
		m.status.SetError(err.Error())
		return nil
	}

	action := m.cfg.Settings.SaveAction
	if action == types.MoveAction && m.watcher != nil {
		// the move itself must not be reported as a disappearance
		for _, f := range files {
			m.watcher.Untrack(f.Path)
		}
	}

	m.lastTarget = target
	m.status.SetLoading(true)
	m.status.SetText(fmt.Sprintf("saving %d file(s) to %s", len(files), target))

	saver, ctx, sort := m.saver, m.ctx, m.cfg.Settings.SortVariant
	return tea.Batch(m.status.Tick(), func() tea.Msg {
		return messages.SaveCompleteMsg{
			Target: target,
			Result: saver.SaveFiles(ctx, files, target, action, sort),
		}
	})
}

func (m *Model) handleSaveComplete(msg messages.SaveCompleteMsg) {
	m.session.CompleteSave(msg.Result)
	m.status.SetLoading(false)
	if msg.Result.HasErrors() {
		m.status.SetError(msg.Result.Summary())
	} else {
		m.status.SetText(msg.Result.Summary())
	}

	if m.watcher != nil {
		var keep []string
		for _, r := range m.session.Accepted() {
			keep = append(keep, r.Path)
		}
		if err := m.watcher.Track(keep...); err != nil {
			m.status.SetError(err.Error())
		}
	}
	m.setMode(types.SaveDialog)
}

func (m *Model) trashFocused() tea.Cmd {
	record, ok := m.session.Focused()
	if !ok {
		m.status.SetError("nothing focused")
		return nil
	}
	if m.watcher != nil {
		m.watcher.Untrack(record.Path)
	}

	saver, ctx, paths := m.saver, m.ctx, []string{record.Path}
	return func() tea.Msg {
		return messages.TrashCompleteMsg{Paths: paths, Result: saver.DeleteFiles(ctx, paths)}
	}
}

func (m *Model) handleTrashComplete(msg messages.TrashCompleteMsg) {
	failed := make(map[string]bool, len(msg.Result.FailedFiles))
	for _, p := range msg.Result.FailedFiles {
		failed[p] = true
	}
	for _, p := range msg.Paths {
		if !failed[p] {
			m.session.Forget(p)
		}
	}
	if !msg.Result.Success {
		m.status.SetError(fmt.Sprintf("could not trash %s", strings.Join(msg.Result.FailedFiles, ", ")))
		return
	}
	m.status.SetText(fmt.Sprintf("moved %d file(s) to the trash", len(msg.Paths)))
}

func (m *Model) copyFocusedPath() {
	record, ok := m.session.Focused()
	if !ok {
		m.status.SetError("nothing focused")
		return
	}
	if err := m.writeClipboard(record.Path); err != nil {
		m.status.SetError(fmt.Sprintf("Clipboard error: %v", err))
		return
	}
	m.status.SetText("Copied " + record.Path)
}

func (m *Model) loadPreview() tea.Cmd {
	w := m.session.Window()
	if w.Empty() || m.preview.Loaded(w.Current.Path) {
		return nil
	}
	saver, path := m.saver, w.Current.Path
	return func() tea.Msg {
		data, err := saver.LoadFileContent(path)
		return messages.PreviewMsg{Info: components.Describe(path, data, err)}
	}
}

func (m *Model) setMode(mode types.Mode) {
	m.mode = mode
	m.status.SetMode(mode)
	m.help.ShowAll = mode == types.Help
}

// Getters

func (m *Model) Mode() types.Mode {
	return m.mode
}

func (m *Model) Session() *triage.Session {
	return m.session
}

func (m *Model) CommandBuffer() string {
	return m.commandBuffer
}

func (m *Model) StatusView() string {
	return m.status.View()
}

func (m *Model) StatusText() string {
	return m.status.Text()
}

func (m *Model) HelpView() string {
	return m.help.View(m.keys)
}

func (m *Model) Preview() common.PreviewInfo {
	return m.preview
}

func (m *Model) Size() (int, int) {
	return m.width, m.height
}

func (m *Model) LastTarget() string {
	return m.lastTarget
}

var _ common.ModelReader = (*Model)(nil)

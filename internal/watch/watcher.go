package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"imgtriage/internal/log"

	"github.com/fsnotify/fsnotify"
)

// FileGone reports that a tracked file was removed or renamed away
type FileGone struct {
	Path      string
	Timestamp time.Time
	Op        fsnotify.Op
}

// Watcher reports tracked files that disappear from disk. It watches the
// parent directory of every tracked file.
type Watcher struct {
	// Parent directories being watched, with the number of tracked files in each
	directories map[string]int

	// Files being tracked
	tracked map[string]bool

	// Channel to deliver disappearances
	goneChan chan FileGone

	// Channel to signal stop
	stopChan chan struct{}

	// Closed when the event loop has exited
	done chan struct{}

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	// Lock for running state and the tracking maps
	mutex sync.RWMutex

	// Whether the watcher is running
	running bool
}

// New creates a new watcher using fsnotify
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		directories: make(map[string]int),
		tracked:     make(map[string]bool),
		goneChan:    make(chan FileGone, 32),
		stopChan:    make(chan struct{}),
		done:        make(chan struct{}),
		fsWatcher:   fsWatcher,
	}, nil
}

// Track starts watching paths. Paths whose directory cannot be watched are
// skipped and reported in the returned error; the others are tracked.
func (w *Watcher) Track(paths ...string) error {
	var failed []string
	for _, path := range paths {
		if err := w.track(path); err != nil {
			log.LogWithError(err).Debug("not tracking %s", path)
			failed = append(failed, path)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("could not watch %d of %d files (first: %s)", len(failed), len(paths), failed[0])
	}
	return nil
}

func (w *Watcher) track(path string) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.tracked[path] {
		return nil
	}
	if w.directories[dir] == 0 {
		if err := w.addDirectory(dir); err != nil {
			return err
		}
	}
	w.tracked[path] = true
	w.directories[dir]++
	return nil
}

// Untrack stops reporting path. The parent directory is unwatched once no
// tracked file is left in it.
func (w *Watcher) Untrack(path string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.untrack(filepath.Clean(path))
}

func (w *Watcher) untrack(path string) {
	if !w.tracked[path] {
		return
	}
	delete(w.tracked, path)

	dir := filepath.Dir(path)
	w.directories[dir]--
	if w.directories[dir] > 0 {
		return
	}
	delete(w.directories, dir)
	if err := w.fsWatcher.Remove(dir); err != nil {
		log.LogWithFields(log.F("directory", dir), log.F("error", err)).Debug("Could not unwatch directory")
	}
}

// addDirectory adds a directory to the fsnotify watcher. Callers hold the lock.
func (w *Watcher) addDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}
	log.LogWithFields(log.F("directory", dir)).Debug("Watching directory")
	return nil
}

// IsTracked reports whether path is tracked
func (w *Watcher) IsTracked(path string) bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.tracked[filepath.Clean(path)]
}

// FileChannel returns the channel that delivers disappearances. It is closed
// when the watcher stops.
func (w *Watcher) FileChannel() <-chan FileGone {
	return w.goneChan
}

// Start begins the event loop
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	select {
	case <-w.done:
		return fmt.Errorf("watcher cannot be restarted")
	default:
	}
	w.running = true

	go w.loop()

	log.Debug("Watcher started.")
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.goneChan)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	path := filepath.Clean(event.Name)
	w.mutex.Lock()
	if !w.tracked[path] {
		w.mutex.Unlock()
		return
	}
	// A rename within the same name (editors saving atomically) leaves the
	// file in place.
	if _, err := os.Lstat(path); err == nil {
		w.mutex.Unlock()
		return
	}
	w.untrack(path)
	w.mutex.Unlock()

	gone := FileGone{Path: path, Timestamp: time.Now(), Op: event.Op}
	select {
	case w.goneChan <- gone:
	case <-w.stopChan:
	}
}

// Stop halts the watcher and waits for the event loop to exit
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if !w.running {
		w.mutex.Unlock()
		return
	}
	w.running = false
	close(w.stopChan)
	w.mutex.Unlock()

	<-w.done
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	log.Debug("Watcher stopped.")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// GetDirectories returns the directories being watched
func (w *Watcher) GetDirectories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirs := make([]string, 0, len(w.directories))
	for dir := range w.directories {
		dirs = append(dirs, dir)
	}
	return dirs
}

package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func expectGone(t *testing.T, ch <-chan FileGone, path string) FileGone {
	t.Helper()
	select {
	case gone, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		assert.Equal(t, path, gone.Path)
		return gone
	case <-time.After(3 * time.Second):
		t.Fatalf("timeout waiting for %s to be reported", path)
	}
	return FileGone{}
}

func TestWatcherReportsTrackedFiles(t *testing.T) {
	tempDir := t.TempDir()
	removed := filepath.Join(tempDir, "removed.png")
	renamed := filepath.Join(tempDir, "renamed.png")
	untracked := filepath.Join(tempDir, "other.png")
	for _, p := range []string{removed, renamed, untracked} {
		writeFile(t, p)
	}

	w, err := New()
	require.NoError(t, err, "New watcher creation failed")
	require.NoError(t, w.Track(removed, renamed))
	assert.Equal(t, []string{tempDir}, w.GetDirectories())

	require.NoError(t, w.Start())
	defer w.Stop()
	assert.True(t, w.IsRunning())
	assert.Error(t, w.Start(), "second start fails")

	// Allow a brief moment for fsnotify to initialize watches
	time.Sleep(100 * time.Millisecond)
	ch := w.FileChannel()

	require.NoError(t, os.Remove(untracked))
	require.NoError(t, os.Remove(removed))
	gone := expectGone(t, ch, removed)
	assert.True(t, gone.Op.Has(fsnotify.Remove))
	assert.False(t, w.IsTracked(removed))

	require.NoError(t, os.Rename(renamed, filepath.Join(tempDir, "elsewhere.png")))
	gone = expectGone(t, ch, renamed)
	assert.True(t, gone.Op.Has(fsnotify.Rename))

	assert.Empty(t, w.GetDirectories(), "directory unwatched once nothing is tracked")
}

func TestWatcherStop(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.Start())

	w.Stop()
	assert.False(t, w.IsRunning())
	w.Stop() // no-op

	select {
	case _, ok := <-w.FileChannel():
		assert.False(t, ok, "Event channel should be closed after stop")
	case <-time.After(time.Second):
		t.Error("Timeout waiting for event channel to close after stop")
	}
	assert.Error(t, w.Start(), "a stopped watcher cannot restart")
}

func TestWatcherTrack(t *testing.T) {
	tempDir := t.TempDir()
	a := filepath.Join(tempDir, "a.png")
	b := filepath.Join(tempDir, "b.png")
	writeFile(t, a)
	writeFile(t, b)

	w, err := New()
	require.NoError(t, err)
	defer w.fsWatcher.Close()

	require.NoError(t, w.Track(a, b, a))
	assert.Equal(t, 2, w.directories[tempDir])

	err = w.Track(filepath.Join(tempDir, "missing", "c.png"))
	assert.Error(t, err)

	w.Untrack(a)
	assert.True(t, w.IsTracked(b))
	assert.Equal(t, []string{tempDir}, w.GetDirectories())
	w.Untrack(b)
	w.Untrack(b)
	assert.Empty(t, w.GetDirectories())
}

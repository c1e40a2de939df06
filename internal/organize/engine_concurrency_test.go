package organize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"imgtriage/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentClaims checks that parallel claims on one destination never
// hand out the same path twice
func TestConcurrentClaims(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "a.png")
	engine := New()
	taken := make(claims)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		got = make(map[string]int)
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			final, err := engine.claim(dest, "rename", taken)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			got[final]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, got, 50)
	for path, n := range got {
		assert.Equal(t, 1, n, path)
	}
}

// TestConcurrentSave saves many files sharing few names with a small worker
// limit and checks every file lands exactly once
func TestConcurrentSave(t *testing.T) {
	srcRoot := t.TempDir()
	target := t.TempDir()

	var files []types.FileRecord
	for i := 0; i < 40; i++ {
		dir := filepath.Join(srcRoot, fmt.Sprintf("d%d", i))
		require.NoError(t, os.MkdirAll(dir, 0755))
		path := filepath.Join(dir, fmt.Sprintf("img%d.png", i%4))
		require.NoError(t, os.WriteFile(path, []byte(path), 0644))
		files = append(files, types.FileRecord{Path: path})
	}

	engine := New()
	engine.collision = "rename"
	engine.concurrency = 3

	result := engine.SaveFiles(context.Background(), files, target, types.CopyAction, nil)
	require.Empty(t, result.Errors)
	assert.Len(t, result.SuccessfullySavedFiles, 40)
	for i, f := range files {
		assert.Equal(t, f.Path, result.SuccessfullySavedFiles[i], "results keep input order")
	}

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Len(t, entries, 40)
}

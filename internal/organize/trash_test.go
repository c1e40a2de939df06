package organize_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"imgtriage/internal/config"
	"imgtriage/internal/organize"
	"imgtriage/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteFiles(t *testing.T) {
	t.Run("moves files into the configured trash", func(t *testing.T) {
		trash := filepath.Join(t.TempDir(), "bin")
		cfg := config.New()
		cfg.Settings.TrashDir = trash
		e := organize.NewWithConfig(cfg)

		paths := testutils.CreateImages(t, t.TempDir(), "a.png")
		again := testutils.CreateImages(t, t.TempDir(), "a.png")
		missing := filepath.Join(t.TempDir(), "gone.png")

		result := e.DeleteFiles(context.Background(), append(paths, again[0], missing))
		assert.False(t, result.Success)
		assert.Equal(t, []string{missing}, result.FailedFiles)

		for _, p := range append(paths, again...) {
			_, err := os.Stat(p)
			assert.ErrorIs(t, err, os.ErrNotExist)
		}
		entries, err := os.ReadDir(trash)
		require.NoError(t, err)
		assert.Len(t, entries, 2, "namesakes get numbered")
	})

	t.Run("failed move leaves nothing in the trash", func(t *testing.T) {
		src := filepath.Join(t.TempDir(), "src")
		require.NoError(t, os.Mkdir(src, 0755))
		trash := filepath.Join(src, "bin")

		cfg := config.New()
		cfg.Settings.TrashDir = trash
		result := organize.NewWithConfig(cfg).DeleteFiles(context.Background(), []string{src})

		assert.False(t, result.Success)
		assert.Equal(t, []string{src}, result.FailedFiles)
		assert.DirExists(t, src)
		entries, err := os.ReadDir(trash)
		require.NoError(t, err)
		assert.Empty(t, entries)
		_, err = os.Stat(filepath.Join(filepath.Dir(trash), "info"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("platform trash without a configured directory", func(t *testing.T) {
		var trashed []string
		defer organize.SetTrashFunc(func(paths ...string) error {
			for _, p := range paths {
				if filepath.Base(p) == "locked.png" {
					return errors.New("permission denied")
				}
			}
			trashed = append(trashed, paths...)
			return nil
		})()

		paths := testutils.CreateImages(t, t.TempDir(), "b.png", "locked.png")
		result := organize.New().DeleteFiles(context.Background(), paths)

		assert.False(t, result.Success)
		assert.Equal(t, []string{paths[1]}, result.FailedFiles)
		assert.Equal(t, []string{paths[0]}, trashed)
	})

	t.Run("dry run leaves files in place", func(t *testing.T) {
		defer organize.SetTrashFunc(func(...string) error {
			t.Fatal("dry run must not trash")
			return nil
		})()

		for _, trash := range []string{"", filepath.Join(t.TempDir(), "bin")} {
			cfg := config.New()
			cfg.Settings.TrashDir = trash
			cfg.Settings.DryRun = true

			paths := testutils.CreateImages(t, t.TempDir(), "c.png")
			result := organize.NewWithConfig(cfg).DeleteFiles(context.Background(), paths)
			assert.True(t, result.Success)
			assert.FileExists(t, paths[0])
			if trash != "" {
				assert.NoDirExists(t, trash)
			}
		}
	})
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"imgtriage/internal/config"
	"imgtriage/internal/errors"
	"imgtriage/internal/organize"
	"imgtriage/pkg/testutils"
	"imgtriage/pkg/types"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with a config file in a temp dir
func run(t *testing.T, configYAML string, args ...string) (string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if configYAML != "" {
		require.NoError(t, os.WriteFile(cfgPath, []byte(configYAML), 0644))
	}

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := cmd.Execute()
	return stdout.String(), err
}

func decodeResult(t *testing.T, out string) types.SaveImageResult {
	t.Helper()
	var result types.SaveImageResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	return result
}

func TestSaveCommand(t *testing.T) {
	t.Run("copies files and prints json", func(t *testing.T) {
		src, dst := t.TempDir(), t.TempDir()
		files := testutils.CreateImages(t, src, "a.png", "b.jpg")

		out, err := run(t, "", "save", "--target", dst, "--json", files[0], files[1])
		require.NoError(t, err)

		result := decodeResult(t, out)
		assert.ElementsMatch(t, files, result.SuccessfullySavedFiles)
		assert.Empty(t, result.Errors)
		assert.FileExists(t, filepath.Join(dst, "a.png"))
		assert.FileExists(t, filepath.Join(dst, "b.jpg"))
		assert.FileExists(t, files[0], "copy keeps the original")
	})

	t.Run("move removes the originals", func(t *testing.T) {
		src, dst := t.TempDir(), t.TempDir()
		files := testutils.CreateImages(t, src, "a.png")

		out, err := run(t, "", "save", "-t", dst, "--action", "move", files[0])
		require.NoError(t, err)
		assert.Contains(t, out, "1 saved, 0 failed")
		assert.NoFileExists(t, files[0])
		assert.FileExists(t, filepath.Join(dst, "a.png"))
	})

	t.Run("tag filter over records", func(t *testing.T) {
		src, dst := t.TempDir(), t.TempDir()
		files := testutils.CreateImages(t, src, "a.png", "b.png", "c.png")

		records := []types.FileRecord{
			{Path: files[0], Tag: "x"},
			{Path: files[1], Tag: "y"},
			{Path: files[2]},
		}
		data, err := json.Marshal(records)
		require.NoError(t, err)
		from := filepath.Join(t.TempDir(), "records.json")
		require.NoError(t, os.WriteFile(from, data, 0644))

		out, err := run(t, "", "save", "-t", dst, "--from", from, "--tag", "x,untagged", "--json")
		require.NoError(t, err)

		result := decodeResult(t, out)
		assert.ElementsMatch(t, []string{files[0], files[2]}, result.SuccessfullySavedFiles)
		assert.NoFileExists(t, filepath.Join(dst, "b.png"))

		_, err = run(t, "", "save", "-t", dst, "--from", from, "--tag", "zz")
		assert.ErrorContains(t, err, "no file has any of the tags zz")
	})

	t.Run("untagged without any tags saves everything", func(t *testing.T) {
		src, dst := t.TempDir(), t.TempDir()
		files := testutils.CreateImages(t, src, "a.png", "b.png")

		out, err := run(t, "", "save", "-t", dst, "--tag", "untagged", "--json", files[0], files[1])
		require.NoError(t, err)
		assert.Len(t, decodeResult(t, out).SuccessfullySavedFiles, 2)
	})

	t.Run("sort format buckets by date", func(t *testing.T) {
		src, dst := t.TempDir(), t.TempDir()
		files := testutils.CreateImages(t, src, "a.png")

		_, err := run(t, "", "save", "-t", dst, "--sort-format", "%Y", files[0])
		require.NoError(t, err)

		info, err := os.Stat(files[0])
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dst, info.ModTime().Format("2006"), "a.png"))
	})

	t.Run("existing file is reported", func(t *testing.T) {
		src, dst := t.TempDir(), t.TempDir()
		files := testutils.CreateImages(t, src, "a.png")
		testutils.CreateImages(t, dst, "a.png")

		out, err := run(t, "", "save", "-t", dst, files[0])
		assert.ErrorContains(t, err, "save finished with errors")
		assert.Contains(t, out, "file already exists")
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		src, dst := t.TempDir(), t.TempDir()
		files := testutils.CreateImages(t, src, "a.png")

		out, err := run(t, "", "save", "-t", dst, "--dry-run", "--json", files[0])
		require.NoError(t, err)
		assert.Equal(t, []string{files[0]}, decodeResult(t, out).SuccessfullySavedFiles)
		assert.NoFileExists(t, filepath.Join(dst, "a.png"))
	})

	t.Run("target from config", func(t *testing.T) {
		src, dst := t.TempDir(), t.TempDir()
		files := testutils.CreateImages(t, src, "a.png")

		_, err := run(t, "settings:\n  target_directory: "+dst+"\n", "save", files[0])
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dst, "a.png"))
	})

	t.Run("argument errors", func(t *testing.T) {
		_, err := run(t, "", "save", "/tmp/a.png")
		assert.ErrorContains(t, err, "no target directory")

		_, err = run(t, "", "save", "-t", t.TempDir(), "--action", "link", "/tmp/a.png")
		assert.ErrorContains(t, err, "invalid action")

		_, err = run(t, "", "save", "-t", t.TempDir())
		assert.ErrorContains(t, err, "no files given")

		_, err = run(t, "", "save", "-t", t.TempDir(), "/tmp/notes.txt")
		assert.ErrorContains(t, err, "no accepted files to save")
	})
}

func TestDeleteCommand(t *testing.T) {
	src, trash := t.TempDir(), t.TempDir()
	files := testutils.CreateImages(t, src, "a.png", "b.png")
	missing := filepath.Join(src, "gone.png")

	out, err := run(t, "settings:\n  trash_dir: "+trash+"\n", "delete", "--json", files[0], missing)
	assert.ErrorContains(t, err, "1 of 2 file(s) could not be trashed")

	var result types.RemoveFileResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.Success)
	assert.Equal(t, []string{missing}, result.FailedFiles)

	assert.NoFileExists(t, files[0])
	assert.FileExists(t, filepath.Join(trash, "a.png"))
	assert.FileExists(t, files[1])
}

// trashRecorder reports every trashed path without touching the disk
type trashRecorder struct {
	*organize.Engine
	trashed []string
}

func (r *trashRecorder) DeleteFiles(_ context.Context, files []string) types.RemoveFileResult {
	r.trashed = append(r.trashed, files...)
	return types.RemoveFileResult{Success: true, FailedFiles: []string{}}
}

func TestDeleteCommandUsesSaver(t *testing.T) {
	rec := &trashRecorder{Engine: organize.New()}
	defer organize.SetSaverFactory(func(*config.Config) organize.Saver { return rec })()

	out, err := run(t, "", "delete", "./a.png", "b.png")
	require.NoError(t, err)
	assert.Equal(t, []string{"./a.png", "b.png"}, rec.trashed)
	assert.Contains(t, out, "trashed b.png")
}

func TestSaveCommandCleansPaths(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	testutils.CreateImages(t, src, "a.png")

	out, err := run(t, "", "save", "-t", dst, "--json", src+"//./a.png")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(src, "a.png")}, decodeResult(t, out).SuccessfullySavedFiles)
}

func TestConfigCommands(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.yaml")
	runWith := func(args ...string) (string, error) {
		var stdout bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&stdout)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
		err := cmd.Execute()
		return stdout.String(), err
	}

	_, err := runWith("config", "init")
	require.NoError(t, err)
	assert.FileExists(t, cfgPath)

	_, err = runWith("config", "init")
	assert.ErrorContains(t, err, "already exists")
	_, err = runWith("config", "init", "--force")
	assert.NoError(t, err)

	out, err := runWith("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "save_action: copy")
	assert.Contains(t, out, "collision: skip")

	out, err = runWith("config", "themes")
	require.NoError(t, err)
	assert.Contains(t, out, "* default")
}

func TestInvalidConfig(t *testing.T) {
	_, err := run(t, "settings:\n  save_action: link\n", "config", "show")
	assert.ErrorContains(t, err, "loading config")
	assert.True(t, errors.IsInvalidConfig(err))
}

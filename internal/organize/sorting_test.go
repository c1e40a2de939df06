package organize_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"imgtriage/internal/organize"
	"imgtriage/pkg/testutils"
	"imgtriage/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func TestInterpolateDateFormat(t *testing.T) {
	tests := []struct {
		date   time.Time
		format string
		want   string
	}{
		{date(2024, 12, 1), "%Y", "2024"},
		{date(2024, 12, 30), "Hello: %Y", "Hello: 2024"},
		{date(2024, 12, 30), "Hello: %y", "Hello: 24"},
		{date(2024, 12, 30), "Year %Y Month %m", "Year 2024 Month 12"},
		{date(2024, 3, 30), "Year %Y Month %m", "Year 2024 Month 03"},
		{date(2024, 12, 30), "Year %Y Month %B", "Year 2024 Month Dezember"},
		{date(2024, 3, 30), "Year %Y Month %B", "Year 2024 Month März"},
		{date(2024, 3, 30), "plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, organize.InterpolateDateFormat(tt.date, tt.format))
		})
	}
}

func TestCreationDate(t *testing.T) {
	dir := t.TempDir()

	t.Run("from EXIF", func(t *testing.T) {
		path := filepath.Join(dir, "photo.jpg")
		taken := time.Date(2023, 5, 22, 10, 11, 12, 0, time.Local)
		require.NoError(t, os.WriteFile(path, testutils.ExifJPEG(taken), 0644))
		testutils.SetModTime(t, path, date(2020, 1, 1))

		got, err := organize.CreationDate(path)
		require.NoError(t, err)
		assert.True(t, taken.Equal(got), "got %v", got)
	})

	t.Run("falls back to modification time", func(t *testing.T) {
		paths := testutils.CreateImages(t, dir, "plain.png")
		testutils.SetModTime(t, paths[0], date(2024, 12, 22))

		got, err := organize.CreationDate(paths[0])
		require.NoError(t, err)
		assert.Equal(t, "2024-12-22", got.Format("2006-01-02"))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := organize.CreationDate(filepath.Join(dir, "missing.png"))
		assert.Error(t, err)
	})
}

func TestSaveFilesSortedByCreationDate(t *testing.T) {
	srcDir := t.TempDir()
	target := t.TempDir()

	photo := filepath.Join(srcDir, "image-created-2023-05.jpg")
	require.NoError(t, os.WriteFile(photo, testutils.ExifJPEG(date(2023, 5, 22)), 0644))
	plain := testutils.CreateImages(t, srcDir, "file1.png")[0]
	testutils.SetModTime(t, plain, date(2024, 12, 22))
	missing := filepath.Join(srcDir, "gone.png")

	spec := &types.SortSpec{CreationDate: &types.CreationDateParams{Format: "%Y_%m"}}
	result := organize.New().SaveFiles(context.Background(), records(photo, plain, missing), target, types.MoveAction, spec)

	assert.Equal(t, []string{photo, plain}, result.SuccessfullySavedFiles)
	assert.Equal(t, filepath.Join(target, "2023_05", "image-created-2023-05.jpg"), result.RenamedFiles[photo])
	assert.Equal(t, filepath.Join(target, "2024_12", "file1.png"), result.RenamedFiles[plain])
	assert.Contains(t, result.Errors, missing)
}

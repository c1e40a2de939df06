package organize

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"imgtriage/internal/errors"
	"imgtriage/pkg/types"

	"github.com/rwcarlsen/goexif/exif"
)

// exifLayout is how EXIF stores date and time
const exifLayout = "2006:01:02 15:04:05"

var monthNames = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

var errNoExifDate = errors.New("no EXIF creation date")

// InterpolateDateFormat expands %Y, %y, %m and %B in format. %B is the
// German month name.
func InterpolateDateFormat(t time.Time, format string) string {
	return strings.NewReplacer(
		"%Y", t.Format("2006"),
		"%y", t.Format("06"),
		"%m", t.Format("01"),
		"%B", monthNames[t.Month()-1],
	).Replace(format)
}

// CreationDate returns when an image was taken: EXIF DateTimeOriginal, then
// DateTimeDigitized, then the file's modification time.
func CreationDate(path string) (time.Time, error) {
	if t, err := exifDate(path); err == nil {
		return t, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, errors.NewFileError("source file not found", path, errors.FileNotFound, err)
		}
		return time.Time{}, errors.NewFileError("cannot stat source file", path, errors.FileAccessDenied, err)
	}
	return info.ModTime(), nil
}

func exifDate(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, err
	}

	for _, field := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTimeDigitized} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		value, err := tag.StringVal()
		if err != nil {
			continue
		}
		t, err := time.ParseInLocation(exifLayout, strings.TrimRight(strings.TrimSpace(value), "\x00"), time.Local)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, errNoExifDate
}

// destinations computes the target path of every file. Files that cannot be
// placed get an empty destination and an entry in failed. The returned error
// is set only when a directory could not be created; no file should be
// touched then.
func destinations(files []types.FileRecord, targetDir string, spec *types.SortSpec, dryRun bool) ([]string, map[string]string, error) {
	dests := make([]string, len(files))
	failed := make(map[string]string)
	dirs := make(map[string]bool)

	for i, f := range files {
		name := fileName(f.Path)
		if name == "" {
			failed[f.Path] = "file has no name"
			continue
		}

		dir := targetDir
		if spec != nil && spec.CreationDate != nil {
			date, err := CreationDate(f.Path)
			if err != nil {
				failed[f.Path] = err.Error()
				continue
			}
			dir = filepath.Join(targetDir, InterpolateDateFormat(date, spec.CreationDate.Format))
		}

		dests[i] = filepath.Join(dir, name)
		dirs[dir] = true
	}

	if !dryRun {
		for dir := range dirs {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, nil, errors.NewFileError("failed to create directory", dir, errors.FileCreateFailed, err)
			}
		}
	}

	return dests, failed, nil
}

// fileName returns the last element of path, or "" when there is none
func fileName(path string) string {
	if path == "" || strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return ""
	}
	switch name := filepath.Base(path); name {
	case ".", "..", string(filepath.Separator):
		return ""
	default:
		return name
	}
}

package organize

import (
	"context"
	"os"
	"path/filepath"

	"imgtriage/internal/errors"
	"imgtriage/internal/log"
	"imgtriage/pkg/types"

	"github.com/Bios-Marcel/wastebasket/v2"
)

// trashFunc sends files to the system trash
var trashFunc = wastebasket.Trash

// DeleteFiles moves files into the trash. Without settings.trash_dir that is
// the platform trash, which keeps restore information for file managers.
// A configured trash_dir is a plain directory: a file that already has a
// namesake there gets a numbered name.
func (e *Engine) DeleteFiles(ctx context.Context, files []string) types.RemoveFileResult {
	result := types.RemoveFileResult{Success: true, FailedFiles: []string{}}
	fail := func(path string, err error) {
		log.LogWithError(err).Warn("could not trash %s", path)
		result.Success = false
		result.FailedFiles = append(result.FailedFiles, path)
	}

	if e.trashDir != "" && !e.dryRun {
		if err := os.MkdirAll(e.trashDir, 0700); err != nil {
			err = errors.NewConfigError("cannot create trash directory", "trash_dir", errors.InvalidConfig, err)
			for _, path := range files {
				fail(path, err)
			}
			return result
		}
	}

	taken := make(claims)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			fail(path, err)
			continue
		}
		if err := e.trashOne(path, taken); err != nil {
			fail(path, err)
		}
	}
	return result
}

func (e *Engine) trashOne(path string, taken claims) error {
	info, err := os.Lstat(path)
	if err != nil {
		return errors.NewFileError("file not found", path, errors.FileNotFound, err)
	}

	name := fileName(path)
	if name == "" {
		return errors.NewFileError("file has no name", path, errors.InvalidPath, nil)
	}

	if e.trashDir == "" {
		if e.dryRun {
			log.Info("Would trash %s", path)
			return nil
		}
		if err := trashFunc(path); err != nil {
			return errors.NewFileError("failed to trash file", path, errors.FileOperationFailed, err)
		}
		log.Debug("trashed %s", path)
		return nil
	}

	dest, err := e.claim(filepath.Join(e.trashDir, name), "rename", taken)
	if err != nil {
		return err
	}
	if e.dryRun {
		log.Info("Would trash %s -> %s", path, dest)
		return nil
	}
	if err := moveFile(path, dest, info.Mode().Perm()); err != nil {
		return err
	}
	log.Debug("trashed %s -> %s", path, dest)
	return nil
}

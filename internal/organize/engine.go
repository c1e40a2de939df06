package organize

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"imgtriage/internal/config"
	"imgtriage/internal/errors"
	"imgtriage/internal/log"
	"imgtriage/pkg/types"

	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// Engine saves accepted images to disk
type Engine struct {
	dryRun      bool
	mu          sync.Mutex // Protects destination claims
	collision   string
	concurrency int
	trashDir    string
	config      *config.Config
}

// New creates a new Engine with default settings
func New() *Engine {
	return &Engine{
		collision:   "skip",
		concurrency: defaultConcurrency,
	}
}

// NewWithConfig creates a new Engine instance with configuration
func NewWithConfig(cfg *config.Config) *Engine {
	e := New()
	e.SetConfig(cfg)
	return e
}

// SetConfig applies the settings section of cfg
func (e *Engine) SetConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.Settings.Collision != "" {
		e.collision = cfg.Settings.Collision
	}
	if cfg.Settings.Concurrency > 0 {
		e.concurrency = cfg.Settings.Concurrency
	}
	e.trashDir = cfg.Settings.TrashDir
	e.dryRun = cfg.Settings.DryRun
	e.config = cfg
}

// SetDryRun sets whether operations should be performed or just simulated
func (e *Engine) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// IsDryRun returns whether the engine is in dry run mode
func (e *Engine) IsDryRun() bool {
	return e.dryRun
}

// claims tracks destinations handed out during one call so two sources with
// the same name never race onto the same path.
type claims map[string]bool

// SaveFiles copies or moves every file into targetDir. With a sort spec the
// files are bucketed into date directories below targetDir first. Files are
// processed in parallel; results are reported in input order.
func (e *Engine) SaveFiles(ctx context.Context, files []types.FileRecord, targetDir string, action types.SaveAction, sort *types.SortSpec) types.SaveImageResult {
	result := types.NewSaveImageResult()

	if !action.Valid() {
		result.GlobalErrors = append(result.GlobalErrors, fmt.Sprintf("unknown save action %q", action))
		return result
	}
	if strings.TrimSpace(targetDir) == "" {
		result.GlobalErrors = append(result.GlobalErrors, errors.ErrNoTargetDefined.Error())
		return result
	}

	dests, failed, err := destinations(files, targetDir, sort, e.dryRun)
	if err != nil {
		log.LogWithError(err).Error("could not prepare target directories")
		result.GlobalErrors = append(result.GlobalErrors, "the directories to sort into could not be created")
		return result
	}
	for path, msg := range failed {
		result.Errors[path] = msg
	}

	type outcome struct {
		final string
		err   error
	}
	outcomes := make([]outcome, len(files))
	taken := make(claims)

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, f := range files {
		if dests[i] == "" {
			continue
		}
		g.Go(func() error {
			final, err := e.saveOne(ctx, f.Path, dests[i], action, taken)
			outcomes[i] = outcome{final: final, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for i, f := range files {
		if dests[i] == "" {
			continue
		}
		o := outcomes[i]
		if o.err != nil {
			result.Errors[f.Path] = errorMessage(o.err)
			log.LogWithError(o.err).Debug("save failed")
			continue
		}
		result.SuccessfullySavedFiles = append(result.SuccessfullySavedFiles, f.Path)
		if action == types.MoveAction && !e.dryRun {
			result.RenamedFiles[f.Path] = o.final
		}
	}

	log.LogWithFields(
		log.F("target", targetDir),
		log.F("action", string(action)),
		log.F("dry_run", e.dryRun),
	).Info("%s", result.Summary())
	return result
}

func (e *Engine) saveOne(ctx context.Context, src, dest string, action types.SaveAction, taken claims) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewFileError("source file not found", src, errors.FileNotFound, err)
		}
		return "", errors.NewFileError("cannot read source file", src, errors.FileAccessDenied, err)
	}
	if info.IsDir() {
		return "", errors.NewFileError("cannot save a directory", src, errors.InvalidPath, nil)
	}

	final, err := e.claim(dest, e.collision, taken)
	if err != nil {
		return "", err
	}

	if e.dryRun {
		log.Info("Would %s %s -> %s", action, src, final)
		return final, nil
	}

	switch action {
	case types.MoveAction:
		err = moveFile(src, final, info.Mode().Perm())
	default:
		err = copyFile(src, final, info.Mode().Perm())
	}
	if err != nil {
		return "", err
	}

	log.Debug("%s %s -> %s", action, src, final)
	return final, nil
}

// claim reserves dest, resolving collisions with existing files and with
// other claims according to strategy.
func (e *Engine) claim(dest, strategy string, taken claims) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !taken[dest] && !exists(dest) {
		taken[dest] = true
		return dest, nil
	}

	switch strategy {
	case "rename":
		final, err := findUniqueDestName(dest, taken)
		if err != nil {
			return "", err
		}
		log.Info("Renaming destination to %s due to collision (strategy: rename)", final)
		taken[final] = true
		return final, nil
	case "skip":
		return "", errors.NewFileError("file already exists", dest, errors.FileExists, nil)
	default:
		return "", errors.NewConfigError("unknown collision strategy", strategy, errors.InvalidConfig, nil)
	}
}

// findUniqueDestName finds a free filename by adding a counter to the basename
func findUniqueDestName(originalPath string, taken claims) (string, error) {
	ext := filepath.Ext(originalPath)
	base := strings.TrimSuffix(originalPath, ext)

	for counter := 1; counter <= 1000; counter++ {
		newName := fmt.Sprintf("%s_(%d)%s", base, counter, ext)
		if !taken[newName] && !exists(newName) {
			return newName, nil
		}
	}

	return "", errors.NewFileError("failed to find unique name after 1000 attempts", originalPath, errors.FileExists, nil)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// copyFile copies src to a new file at dest. dest must not exist.
func copyFile(src, dest string, perm os.FileMode) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return errors.NewFileError("failed to open source", src, errors.FileAccessDenied, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		if os.IsExist(err) {
			return errors.NewFileError("file already exists", dest, errors.FileExists, err)
		}
		return errors.NewFileError("failed to create destination", dest, errors.FileCreateFailed, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = errors.NewFileError("failed to write destination", dest, errors.FileOperationFailed, cerr)
		}
		if err != nil {
			os.Remove(dest)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return errors.NewFileError("failed to copy file", dest, errors.FileOperationFailed, err)
	}
	return nil
}

// moveFile renames src to dest, copying across filesystems when a rename is
// not possible.
func moveFile(src, dest string, perm os.FileMode) error {
	err := os.Rename(src, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return errors.NewFileError("failed to move file", src, errors.FileOperationFailed, err)
	}

	log.Debug("cross-device move %s -> %s, copying", src, dest)
	if err := copyFile(src, dest, perm); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		if rmErr := os.Remove(dest); rmErr != nil {
			log.LogWithError(rmErr).Warn("could not remove copy %s", dest)
		}
		return errors.NewFileError("copied but could not remove source", src, errors.FileOperationFailed, err)
	}
	return nil
}

// errorMessage is the short per-file text shown to the user
func errorMessage(err error) string {
	var fe *errors.FileError
	if !errors.As(err, &fe) {
		return err.Error()
	}
	switch fe.Kind() {
	case errors.FileCreateFailed, errors.FileOperationFailed:
		if cause := errors.Unwrap(fe); cause != nil {
			return fmt.Sprintf("%s: %v", fe.Message(), cause)
		}
	}
	return fe.Message()
}

// LoadFileContent returns the raw bytes of path
func (e *Engine) LoadFileContent(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileError("file not found", path, errors.FileNotFound, err)
		}
		return nil, errors.NewFileError("failed to read file", path, errors.FileAccessDenied, err)
	}
	return data, nil
}

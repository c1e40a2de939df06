package organize

import (
	"context"

	"imgtriage/internal/config"
	"imgtriage/pkg/types"
)

// Saver defines the persistence operations the triage UI and CLI depend on.
// This allows for dependency injection in tests and other parts of the application
type Saver interface {
	// SetConfig applies collision, concurrency, trash and dry-run settings
	SetConfig(cfg *config.Config)

	// SetDryRun sets whether operations should be performed or just simulated
	SetDryRun(dryRun bool)

	// SaveFiles copies or moves files into targetDir, optionally bucketed by
	// sort. Per-file failures are reported in the result, never returned.
	SaveFiles(ctx context.Context, files []types.FileRecord, targetDir string, action types.SaveAction, sort *types.SortSpec) types.SaveImageResult

	// DeleteFiles moves files to the trash
	DeleteFiles(ctx context.Context, files []string) types.RemoveFileResult

	// LoadFileContent returns the raw bytes of a file for previewing
	LoadFileContent(path string) ([]byte, error)
}

// Ensure Engine implements the Saver interface
var _ Saver = (*Engine)(nil)

package types

import "fmt"

// SaveAction selects how accepted files reach the target directory
type SaveAction string

const (
	CopyAction SaveAction = "copy"
	MoveAction SaveAction = "move"
)

// Valid reports whether the action is one of the supported values
func (a SaveAction) Valid() bool {
	return a == CopyAction || a == MoveAction
}

// CreationDateParams carries the directory format for the creationdate sort
// variant. Supported placeholders: %Y, %y, %m, %B.
type CreationDateParams struct {
	Format string `json:"format" yaml:"format"`
}

// SortSpec describes how saved files are bucketed into sub-directories.
// Exactly one variant is set; currently only creationdate exists.
type SortSpec struct {
	CreationDate *CreationDateParams `json:"creationdate,omitempty" yaml:"creationdate,omitempty"`
}

// SaveImageResult is the outcome of one save call.
type SaveImageResult struct {
	SuccessfullySavedFiles []string          `json:"successfully_saved_files"`
	Errors                 map[string]string `json:"errors"`
	GlobalErrors           []string          `json:"global_errors"`
	RenamedFiles           map[string]string `json:"renamed_files"`
}

// NewSaveImageResult returns an empty result with initialized maps
func NewSaveImageResult() SaveImageResult {
	return SaveImageResult{
		SuccessfullySavedFiles: []string{},
		Errors:                 map[string]string{},
		GlobalErrors:           []string{},
		RenamedFiles:           map[string]string{},
	}
}

// HasErrors reports whether any per-file or global error was recorded
func (r SaveImageResult) HasErrors() bool {
	return len(r.Errors) > 0 || len(r.GlobalErrors) > 0
}

// Succeeded reports whether at least one file was saved
func (r SaveImageResult) Succeeded() bool {
	return len(r.SuccessfullySavedFiles) > 0
}

// Summary returns a one-line description of the result
func (r SaveImageResult) Summary() string {
	return fmt.Sprintf("%d saved, %d failed, %d global errors",
		len(r.SuccessfullySavedFiles), len(r.Errors), len(r.GlobalErrors))
}

// RemoveFileResult is the outcome of a delete call
type RemoveFileResult struct {
	Success     bool     `json:"success"`
	FailedFiles []string `json:"failed_files"`
}

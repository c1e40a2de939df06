package types

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// ListID identifies one of the two triage collections.
type ListID string

const (
	// Unreviewed holds imported files that have not been triaged yet
	Unreviewed ListID = "unreviewedFiles"
	// Accepted holds files the user kept
	Accepted ListID = "acceptedFiles"
)

// FileRecord is one tracked image. Path is the identity key; two records are
// the same file iff their paths are equal. An empty Tag means untagged.
type FileRecord struct {
	Path string `json:"path" yaml:"path"`
	Tag  string `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// Name returns the base name of the file
func (f FileRecord) Name() string {
	return filepath.Base(f.Path)
}

// Tagged reports whether the record carries a tag
func (f FileRecord) Tagged() bool {
	return f.Tag != ""
}

// ToJSON converts the record to a JSON string
func (f FileRecord) ToJSON() string {
	jsonBytes, _ := json.Marshal(f)
	return string(jsonBytes)
}

// String returns a human-readable representation
func (f FileRecord) String() string {
	var sb strings.Builder
	sb.WriteString(f.Path)
	if f.Tagged() {
		sb.WriteString(fmt.Sprintf(" [%s]", strings.ToUpper(f.Tag)))
	}
	return sb.String()
}

// Paths extracts the paths of the given records, preserving order.
func Paths(records []FileRecord) []string {
	paths := make([]string, len(records))
	for i, r := range records {
		paths[i] = r.Path
	}
	return paths
}

// CleanPaths returns the lexically cleaned form of each path, the form the
// watcher reports. Empty paths stay empty.
func CleanPaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if p != "" {
			p = filepath.Clean(p)
		}
		out[i] = p
	}
	return out
}

// ImageExtensions is the default import allow-list, without dots
var ImageExtensions = []string{"svg", "png", "jpeg", "jpg", "webp", "gif"}

package triage

import (
	"strings"

	"imgtriage/internal/errors"
	"imgtriage/pkg/types"

	"github.com/gobwas/glob"
)

// ExtensionMatcher decides which paths count as images on import.
// Matching is case-insensitive and only looks at the base name.
type ExtensionMatcher struct {
	pattern    glob.Glob
	extensions []string
}

// NewExtensionMatcher compiles an allow-list such as ["png", "jpg"] into a
// single "*.{png,jpg}" glob.
func NewExtensionMatcher(extensions []string) (*ExtensionMatcher, error) {
	if len(extensions) == 0 {
		return nil, errors.NewConfigError("no image extensions configured", "extensions", errors.InvalidConfig, nil)
	}

	lower := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" {
			continue
		}
		lower = append(lower, ext)
	}
	if len(lower) == 0 {
		return nil, errors.NewConfigError("no image extensions configured", "extensions", errors.InvalidConfig, nil)
	}

	pattern, err := glob.Compile("*.{"+strings.Join(lower, ",")+"}", '/', '\\')
	if err != nil {
		return nil, errors.NewConfigError("invalid extension list", strings.Join(lower, ","), errors.InvalidConfig, err)
	}

	return &ExtensionMatcher{pattern: pattern, extensions: lower}, nil
}

// DefaultMatcher matches types.ImageExtensions
func DefaultMatcher() *ExtensionMatcher {
	m, err := NewExtensionMatcher(types.ImageExtensions)
	if err != nil {
		panic(err)
	}
	return m
}

// Match reports whether path has an allowed extension
func (m *ExtensionMatcher) Match(path string) bool {
	return m.pattern.Match(strings.ToLower(basename(path)))
}

// Extensions returns the normalized allow-list
func (m *ExtensionMatcher) Extensions() []string {
	return append([]string(nil), m.extensions...)
}

// basename splits on both separators so Windows paths behave on any OS
func basename(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

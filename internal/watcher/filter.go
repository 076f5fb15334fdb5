package watcher

import (
	"path/filepath"
	"strings"

	"colorder/internal/artifact"
	"colorder/internal/scanner"
)

// DefaultIgnorePatterns returns the patterns for partial downloads and
// editor lock files.
func DefaultIgnorePatterns() []string {
	return []string{
		"*.tmp",
		"*.part",
		"*.download",
		"*.crdownload", // Chrome partial downloads
		"~$*",          // Excel owner files
		".~lock.*",     // LibreOffice lock files
	}
}

// FileFilter decides which changed paths are worth reformatting.
type FileFilter struct {
	patterns []string
	naming   artifact.Naming
}

// NewFileFilter creates a filter from ignore patterns and artifact naming.
// If patterns is empty, default patterns are used.
func NewFileFilter(patterns []string, naming artifact.Naming) *FileFilter {
	if len(patterns) == 0 {
		patterns = DefaultIgnorePatterns()
	}
	return &FileFilter{
		patterns: patterns,
		naming:   naming,
	}
}

// ShouldIgnore reports whether the base name of path matches an ignore pattern.
// A pattern without wildcards that starts with "." also matches as a
// case-insensitive extension, so ".tmp" ignores "Export.TMP".
func (f *FileFilter) ShouldIgnore(path string) bool {
	filename := filepath.Base(path)

	for _, pattern := range f.patterns {
		if matched, err := filepath.Match(pattern, filename); err == nil && matched {
			return true
		}
		if strings.HasPrefix(pattern, ".") && !strings.ContainsAny(pattern, "*?[") {
			if strings.HasSuffix(strings.ToLower(filename), strings.ToLower(pattern)) {
				return true
			}
		}
	}
	return false
}

// Accept reports whether path is an export the watcher should hand off:
// tabular, not ignored, and not one of our own artifacts.
func (f *FileFilter) Accept(path string) bool {
	return !f.ShouldIgnore(path) && scanner.IsCandidate(path, f.naming)
}

// Patterns returns a copy of the ignore patterns.
func (f *FileFilter) Patterns() []string {
	result := make([]string, len(f.patterns))
	copy(result, f.patterns)
	return result
}

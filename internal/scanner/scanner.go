// Package scanner finds spreadsheet exports to reformat, expanding directory
// arguments into the tabular files they contain.
package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"colorder/internal/artifact"
	"colorder/internal/sheet"
)

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// NotFound indicates the path does not exist.
	NotFound ScanErrorType = "NOT_FOUND"
	// PermissionDenied indicates insufficient permissions to read the path.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
	// SymlinkError indicates a symlink was encountered with "error" policy.
	SymlinkError ScanErrorType = "SYMLINK_ERROR"
	// Unsupported indicates an explicit file argument that is not a tabular export.
	Unsupported ScanErrorType = "UNSUPPORTED"
)

// Symlink policy constants
const (
	SymlinkPolicyFollow = "follow"
	SymlinkPolicySkip   = "skip"
	SymlinkPolicyError  = "error"
)

// ScanError represents an error that occurred during scanning.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	if e.Err != nil {
		return string(e.Type) + ": " + e.Path + ": " + e.Err.Error()
	}
	return string(e.Type) + ": " + e.Path
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// ScanOptions configures scanning behavior.
type ScanOptions struct {
	MaxDepth      int    // Maximum depth to scan (0 = immediate only, -1 = unlimited)
	SymlinkPolicy string // "follow", "skip", or "error"
	// Naming identifies previous run artifacts, which are never rescanned.
	Naming artifact.Naming
}

// DefaultScanOptions returns the default scan options.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		MaxDepth:      0,
		SymlinkPolicy: SymlinkPolicySkip,
		Naming:        artifact.DefaultNaming(),
	}
}

// FileEntry represents an export found during scanning.
type FileEntry struct {
	Name     string // Filename only
	FullPath string // Absolute path
}

// Scan lists the exports directly inside directory.
func Scan(directory string) ([]FileEntry, error) {
	return ScanWithOptions(directory, DefaultScanOptions())
}

// ScanWithOptions lists the tabular exports in directory, skipping
// non-tabular files and run artifacts. Entries are sorted by path.
func ScanWithOptions(directory string, opts ScanOptions) ([]FileEntry, error) {
	info, err := os.Lstat(directory)
	if err != nil {
		return nil, classify(directory, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		switch opts.SymlinkPolicy {
		case SymlinkPolicyError:
			return nil, &ScanError{
				Type: SymlinkError,
				Path: directory,
				Err:  errors.New("symlink encountered with error policy"),
			}
		case SymlinkPolicySkip:
			return []FileEntry{}, nil
		case SymlinkPolicyFollow:
			info, err = os.Stat(directory)
			if err != nil {
				return nil, classify(directory, err)
			}
		}
	}

	if !info.IsDir() {
		return nil, &ScanError{
			Type: NotFound,
			Path: directory,
			Err:  errors.New("path is not a directory"),
		}
	}

	files, err := scanDirectory(directory, opts, 0)
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].FullPath < files[j].FullPath })
	return files, nil
}

// Expand resolves command-line arguments into input files. Directories are
// scanned; files are taken as given, in argument order, and must be tabular.
// A path that does not exist is passed through so the reformatter reports it
// as a missing input. A path named twice is returned once.
func Expand(args []string, opts ScanOptions) ([]string, error) {
	var inputs []string
	seen := make(map[string]bool)
	add := func(p string) {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if !seen[abs] {
			seen[abs] = true
			inputs = append(inputs, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if os.IsNotExist(err) {
			add(arg)
			continue
		}
		if err != nil {
			return nil, classify(arg, err)
		}
		if info.IsDir() {
			entries, err := ScanWithOptions(arg, opts)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				add(e.FullPath)
			}
			continue
		}
		if !sheet.IsTabular(arg) {
			return nil, &ScanError{
				Type: Unsupported,
				Path: arg,
				Err:  errors.New("not a csv, txt, or xlsx file"),
			}
		}
		add(arg)
	}

	return inputs, nil
}

// IsCandidate reports whether path is an export a run should pick up.
func IsCandidate(path string, naming artifact.Naming) bool {
	return sheet.IsTabular(path) && !naming.IsArtifact(path)
}

func scanDirectory(directory string, opts ScanOptions, currentDepth int) ([]FileEntry, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, classify(directory, err)
	}

	var files []FileEntry
	for _, entry := range entries {
		fullPath := filepath.Join(directory, entry.Name())
		absPath, err := filepath.Abs(fullPath)
		if err != nil {
			absPath = fullPath
		}

		info, err := os.Lstat(fullPath)
		if err != nil {
			continue
		}

		if info.Mode()&os.ModeSymlink != 0 {
			switch opts.SymlinkPolicy {
			case SymlinkPolicyError:
				return nil, &ScanError{
					Type: SymlinkError,
					Path: fullPath,
					Err:  errors.New("symlink encountered with error policy"),
				}
			case SymlinkPolicySkip:
				continue
			case SymlinkPolicyFollow:
				info, err = os.Stat(fullPath)
				if err != nil {
					continue // broken link
				}
			}
		}

		if info.IsDir() {
			if opts.MaxDepth == -1 || currentDepth < opts.MaxDepth {
				subFiles, err := scanDirectory(fullPath, opts, currentDepth+1)
				if err != nil {
					return nil, err
				}
				files = append(files, subFiles...)
			}
			continue
		}

		if !IsCandidate(entry.Name(), opts.Naming) {
			continue
		}

		files = append(files, FileEntry{
			Name:     entry.Name(),
			FullPath: absPath,
		})
	}

	return files, nil
}

func classify(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return &ScanError{Type: NotFound, Path: path, Err: err}
	case os.IsPermission(err):
		return &ScanError{Type: PermissionDenied, Path: path, Err: err}
	default:
		return err
	}
}

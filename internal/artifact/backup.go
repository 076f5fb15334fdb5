package artifact

import (
	"fmt"
	"io"
	"os"
)

// CopyErrorType represents the type of backup copy error.
type CopyErrorType string

const (
	// SourceNotFound indicates the input file does not exist.
	SourceNotFound CopyErrorType = "SOURCE_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions for the operation.
	PermissionDenied CopyErrorType = "PERMISSION_DENIED"
	// WriteFailed indicates the backup could not be fully written.
	WriteFailed CopyErrorType = "WRITE_FAILED"
)

// CopyError represents an error that occurred while writing a backup.
type CopyError struct {
	Type CopyErrorType
	Path string
	Err  error
}

func (e *CopyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}

// Backup copies src to dst byte for byte, keeping the source's permissions.
// The source is only read.
func Backup(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return classify(src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return classify(src, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		if os.IsPermission(err) {
			return &CopyError{Type: PermissionDenied, Path: dst, Err: err}
		}
		return &CopyError{Type: WriteFailed, Path: dst, Err: err}
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return &CopyError{Type: WriteFailed, Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		return &CopyError{Type: WriteFailed, Path: dst, Err: err}
	}
	return nil
}

func classify(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return &CopyError{Type: SourceNotFound, Path: path, Err: err}
	case os.IsPermission(err):
		return &CopyError{Type: PermissionDenied, Path: path, Err: err}
	default:
		return &CopyError{Type: WriteFailed, Path: path, Err: err}
	}
}

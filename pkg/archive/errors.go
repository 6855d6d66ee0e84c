package archive

import "errors"

// Error kinds reported by Build and Restore. Call sites wrap them with the
// offending path or name, so match with errors.Is.
var (
	// ErrNotFound is returned when a source directory or the archive does not exist.
	ErrNotFound = errors.New("path does not exist")

	// ErrNotADirectory is returned when a source path exists but is not a directory.
	ErrNotADirectory = errors.New("path is not a directory")

	// ErrSelfContainment is returned when the archive would be written inside a
	// directory being archived, or would be deleted by clearing a restore destination.
	ErrSelfContainment = errors.New("archive is located inside the directory")

	// ErrDuplicateRootName is returned when two source directories share a last path segment.
	ErrDuplicateRootName = errors.New("duplicate directory name, last path segments must be unique")

	// ErrUnnameableRoot is returned when no directory name can be derived from a source path.
	ErrUnnameableRoot = errors.New("cannot determine directory name")

	// ErrInvalidSelector is returned for empty restore names or names containing "..".
	ErrInvalidSelector = errors.New("invalid restore name")

	// ErrRootNotFound is returned when no archive entry matched the restore name.
	ErrRootNotFound = errors.New("directory not found in archive")

	// ErrInvalidDestination is returned for an empty restore destination or a filesystem root.
	ErrInvalidDestination = errors.New("invalid restore destination")
)

// Package archive snapshots directory trees into a single zip archive and
// restores named subtrees from it.
//
// Every source directory is stored under its base name (its root name), so an
// archive built from /data/projA and /data/projB holds projA/... and projB/...
// Restoring "projA" into a destination replaces the destination with the
// contents of projA/. Symbolic links are never archived, and entries whose
// names are absolute or contain ".." are never extracted.
package archive

import (
	"TreeSnap/interfaces"
	"TreeSnap/logger"
)

// Archiver builds and restores archives. It holds no per-call state, so one
// value can serve any number of sequential Build and Restore calls.
type Archiver struct {
	Logger *logger.Logger
	FS     interfaces.FileSystem
	// Level is the deflate level for file entries.
	Level int
}

// NewArchiver creates an Archiver using the default compression level.
func NewArchiver(logger *logger.Logger, fs interfaces.FileSystem) *Archiver {
	return &Archiver{
		Logger: logger,
		FS:     fs,
		Level:  DefaultLevel,
	}
}

func (a *Archiver) debugf(format string, args ...interface{}) {
	if a.Logger != nil {
		a.Logger.Debugf(format, args...)
	}
}

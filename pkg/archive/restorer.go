package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// RestoreStats summarises one Restore call.
type RestoreStats struct {
	Directories   int
	Files         int
	Bytes         int64
	SkippedUnsafe int
}

// Restore replaces destination with the archive subtree named by selector.
//
// The selector is validated and the archive checked to be a regular file before
// anything is touched. Then destination (file or directory) is removed and
// recreated empty, and every entry below the selector is written into it with
// the selector prefix stripped. Entries that are absolute or contain ".." are
// skipped. When no entry matches, ErrRootNotFound is returned after the scan
// and destination is left empty.
func (a *Archiver) Restore(archivePath, selector, destination string) (RestoreStats, error) {
	var stats RestoreStats

	prefix, err := NormalizeSelector(selector)
	if err != nil {
		return stats, err
	}

	info, err := a.FS.Stat(archivePath)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, fmt.Errorf("%w: %s", ErrNotFound, archivePath)
		}
		return stats, fmt.Errorf("failed to access archive '%s': %w", archivePath, err)
	}
	if !info.Mode().IsRegular() {
		return stats, fmt.Errorf("%w: %s is not an archive file", ErrNotFound, archivePath)
	}

	if err := a.checkDestination(archivePath, destination); err != nil {
		return stats, err
	}

	a.debugf("Restoring '%s' to '%s'", prefix, destination)

	if err := a.resetDestination(destination); err != nil {
		return stats, err
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return stats, fmt.Errorf("failed to open archive '%s': %w", archivePath, err)
	}
	defer func() {
		if err := r.Close(); err != nil {
			a.debugf("Error closing archive %s: %v", archivePath, err)
		}
	}()

	prefixSegments := strings.Split(prefix, "/")
	matched := false

	for _, f := range r.File {
		segments, ok := EnclosedName(f.Name)
		if !ok {
			a.debugf("Skipping unsafe entry: %q", f.Name)
			stats.SkippedUnsafe++
			continue
		}
		if !hasSegmentPrefix(segments, prefixSegments) {
			continue
		}
		matched = true

		rest := segments[len(prefixSegments):]
		if len(rest) == 0 {
			// The selected directory's own marker.
			continue
		}
		target := a.FS.Join(append([]string{destination}, rest...)...)

		if isDirectoryEntry(f) {
			if err := a.FS.MkdirAll(target, 0755); err != nil {
				return stats, fmt.Errorf("failed to create directory '%s': %w", target, err)
			}
			a.debugf("  Created directory: %s", target)
			stats.Directories++
			continue
		}

		n, err := a.extractFile(f, target)
		if err != nil {
			return stats, err
		}
		a.debugf("  Restored file: %s", target)
		stats.Files++
		stats.Bytes += n
	}

	// Membership is only known once every entry has been seen.
	if !matched {
		return stats, fmt.Errorf("%w: %s", ErrRootNotFound, prefix)
	}
	return stats, nil
}

func isDirectoryEntry(f *zip.File) bool {
	return strings.HasSuffix(f.Name, "/") || strings.HasSuffix(f.Name, `\`) || f.FileInfo().IsDir()
}

// checkDestination refuses destinations whose removal would be catastrophic
// or would delete the archive being restored from.
func (a *Archiver) checkDestination(archivePath, destination string) error {
	if strings.TrimSpace(destination) == "" {
		return fmt.Errorf("%w: destination must not be empty", ErrInvalidDestination)
	}
	destAbs, err := a.FS.Abs(destination)
	if err != nil {
		return fmt.Errorf("failed to resolve destination '%s': %w", destination, err)
	}
	if a.FS.Dir(destAbs) == destAbs {
		return fmt.Errorf("%w: %s is a filesystem root", ErrInvalidDestination, destination)
	}

	archiveAbs, err := a.FS.Abs(archivePath)
	if err != nil {
		return fmt.Errorf("failed to resolve archive path '%s': %w", archivePath, err)
	}
	if resolved, err := a.FS.EvalSymlinks(archiveAbs); err == nil {
		archiveAbs = resolved
	}
	// Only the parent is resolved: a link at destination is removed, not followed.
	if parent, err := a.FS.EvalSymlinks(a.FS.Dir(destAbs)); err == nil {
		destAbs = a.FS.Join(parent, a.FS.Base(destAbs))
	}
	if isWithin(filepath.Clean(archiveAbs), filepath.Clean(destAbs)) {
		return fmt.Errorf("%w: %s contains %s", ErrSelfContainment, destination, archivePath)
	}
	return nil
}

// resetDestination removes whatever is at destination and recreates it as an
// empty directory. A symlink is removed itself, never its target.
func (a *Archiver) resetDestination(destination string) error {
	info, err := a.FS.Lstat(destination)
	switch {
	case err == nil && info.IsDir():
		if err := a.FS.RemoveAll(destination); err != nil {
			return fmt.Errorf("failed to remove directory '%s': %w", destination, err)
		}
	case err == nil:
		if err := a.FS.Remove(destination); err != nil {
			return fmt.Errorf("failed to remove file '%s': %w", destination, err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to access destination '%s': %w", destination, err)
	}

	if err := a.FS.MkdirAll(destination, 0755); err != nil {
		return fmt.Errorf("failed to create destination '%s': %w", destination, err)
	}
	return nil
}

func (a *Archiver) extractFile(f *zip.File, target string) (int64, error) {
	if err := a.FS.MkdirAll(a.FS.Dir(target), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory for file '%s': %w", target, err)
	}

	rc, err := f.Open()
	if err != nil {
		return 0, fmt.Errorf("failed to open entry '%s' in archive: %w", f.Name, err)
	}
	defer func() {
		if err := rc.Close(); err != nil {
			a.debugf("Error closing archive entry %s: %v", f.Name, err)
		}
	}()

	dst, err := a.FS.Create(target)
	if err != nil {
		return 0, fmt.Errorf("failed to create file '%s': %w", target, err)
	}

	n, err := io.Copy(dst, rc)
	closeErr := dst.Close()
	if err != nil {
		return n, fmt.Errorf("failed to copy content to '%s': %w", target, err)
	}
	if closeErr != nil {
		return n, fmt.Errorf("error closing file '%s': %w", target, closeErr)
	}
	return n, nil
}

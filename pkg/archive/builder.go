package archive

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zip"
)

// BuildStats summarises one Build call.
type BuildStats struct {
	Roots           int
	Directories     int
	Files           int
	Bytes           int64
	SkippedSymlinks int
}

// sourceRoot is a validated source directory and the name it is archived under.
type sourceRoot struct {
	input string
	path  string
	name  string
}

// pendingDir is a directory waiting on the walk's work list.
type pendingDir struct {
	path     string
	segments []string
	info     os.FileInfo
}

// Build writes every directory in sourceDirectories into a new archive at
// archivePath, each rooted under its base name. An existing file at
// archivePath is replaced; missing parent directories are created.
//
// All source directories are validated before the archive is opened. A
// failure while writing aborts the call and leaves an unfinalized archive
// behind for the caller to inspect or remove.
func (a *Archiver) Build(sourceDirectories []string, archivePath string) (BuildStats, error) {
	var stats BuildStats

	if len(sourceDirectories) == 0 {
		return stats, errors.New("at least one source directory is required")
	}

	archiveAbs, err := a.resolveArchivePath(archivePath)
	if err != nil {
		return stats, err
	}

	roots, err := a.planRoots(sourceDirectories, archiveAbs)
	if err != nil {
		return stats, err
	}

	file, err := a.FS.Create(archiveAbs)
	if err != nil {
		return stats, fmt.Errorf("failed to create archive '%s': %w", archivePath, err)
	}
	zw := newZipWriter(file, a.Level)

	finalized := false
	defer func() {
		if !finalized {
			// Leave the central directory out so a broken archive never reads as complete.
			if err := file.Close(); err != nil {
				a.debugf("Error closing archive %s: %v", archiveAbs, err)
			}
		}
	}()

	for _, root := range roots {
		a.debugf("Archiving directory: %s as %s/", root.path, root.name)
		if err := a.addTree(zw, root, &stats); err != nil {
			return stats, err
		}
		stats.Roots++
	}

	finalized = true
	if err := zw.Close(); err != nil {
		_ = file.Close()
		return stats, fmt.Errorf("failed to finalize archive '%s': %w", archivePath, err)
	}
	if err := file.Close(); err != nil {
		return stats, fmt.Errorf("failed to close archive '%s': %w", archivePath, err)
	}
	return stats, nil
}

// resolveArchivePath creates the archive's parent directory if needed and
// returns the archive path with every symlink in it resolved.
func (a *Archiver) resolveArchivePath(archivePath string) (string, error) {
	abs, err := a.FS.Abs(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve archive path '%s': %w", archivePath, err)
	}

	parent := a.FS.Dir(abs)
	if err := a.FS.MkdirAll(parent, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory '%s': %w", parent, err)
	}
	realParent, err := a.FS.EvalSymlinks(parent)
	if err != nil {
		return "", fmt.Errorf("failed to resolve archive directory '%s': %w", parent, err)
	}

	resolved := a.FS.Join(realParent, a.FS.Base(abs))
	// A link at the archive path would be followed when the file is created.
	if info, err := a.FS.Lstat(resolved); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if target, err := a.FS.EvalSymlinks(resolved); err == nil {
			resolved = target
		}
	}
	return resolved, nil
}

// planRoots validates every source directory and derives its root name.
func (a *Archiver) planRoots(sourceDirectories []string, archiveAbs string) ([]sourceRoot, error) {
	roots := make([]sourceRoot, 0, len(sourceDirectories))
	seen := make(map[string]string, len(sourceDirectories))

	for _, dir := range sourceDirectories {
		info, err := a.FS.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
			}
			return nil, fmt.Errorf("failed to access source directory '%s': %w", dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrNotADirectory, dir)
		}

		resolved, err := a.FS.EvalSymlinks(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve source directory '%s': %w", dir, err)
		}
		if resolved, err = a.FS.Abs(resolved); err != nil {
			return nil, fmt.Errorf("failed to resolve source directory '%s': %w", dir, err)
		}

		if isWithin(archiveAbs, resolved) {
			return nil, fmt.Errorf("%w: %s contains %s", ErrSelfContainment, dir, archiveAbs)
		}

		name, err := DeriveRootName(resolved)
		if err != nil {
			return nil, err
		}
		if previous, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: %q is used by both %s and %s", ErrDuplicateRootName, name, previous, dir)
		}
		seen[name] = dir

		roots = append(roots, sourceRoot{input: dir, path: resolved, name: name})
	}
	return roots, nil
}

// addTree walks root with an explicit work list, writing a marker for every
// directory (empty ones included) and the content of every regular file.
// Symbolic links are skipped, never followed.
func (a *Archiver) addTree(zw *zip.Writer, root sourceRoot, stats *BuildStats) error {
	rootInfo, err := a.FS.Stat(root.path)
	if err != nil {
		return fmt.Errorf("failed to access source directory '%s': %w", root.input, err)
	}

	stack := []pendingDir{{path: root.path, segments: []string{root.name}, info: rootInfo}}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := a.addDirectoryMarker(zw, dir); err != nil {
			return err
		}
		stats.Directories++

		entries, err := a.FS.ReadDir(dir.path)
		if err != nil {
			return fmt.Errorf("failed to read directory '%s': %w", dir.path, err)
		}

		var subdirs []pendingDir
		for _, entry := range entries {
			path := a.FS.Join(dir.path, entry.Name())
			segments := append(append(make([]string, 0, len(dir.segments)+1), dir.segments...), entry.Name())
			mode := entry.Type()

			switch {
			case mode&os.ModeSymlink != 0:
				a.debugf("Skipping symlink: %s", path)
				stats.SkippedSymlinks++
			case entry.IsDir():
				info, err := entry.Info()
				if err != nil {
					return fmt.Errorf("failed to stat directory '%s': %w", path, err)
				}
				subdirs = append(subdirs, pendingDir{path: path, segments: segments, info: info})
			case mode.IsRegular():
				if err := a.addFile(zw, entry, path, segments, stats); err != nil {
					return err
				}
			default:
				a.debugf("Skipping special file: %s", path)
			}
		}

		// Reverse push keeps the walk in directory listing order.
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}
	return nil
}

func (a *Archiver) addDirectoryMarker(zw *zip.Writer, dir pendingDir) error {
	header, err := zip.FileInfoHeader(dir.info)
	if err != nil {
		return fmt.Errorf("failed to create zip header for '%s': %w", dir.path, err)
	}
	header.Name = joinArchivePath(dir.segments) + "/"
	header.Method = zip.Store

	if _, err := zw.CreateHeader(header); err != nil {
		return fmt.Errorf("failed to add directory '%s' to archive: %w", header.Name, err)
	}
	return nil
}

func (a *Archiver) addFile(zw *zip.Writer, entry os.DirEntry, path string, segments []string, stats *BuildStats) error {
	info, err := entry.Info()
	if err != nil {
		return fmt.Errorf("failed to stat file '%s': %w", path, err)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to create zip header for '%s': %w", path, err)
	}
	header.Name = joinArchivePath(segments)
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to add file '%s' to archive: %w", header.Name, err)
	}

	src, err := a.FS.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file '%s' for archiving: %w", path, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			a.debugf("Error closing file %s: %v", path, err)
		}
	}()

	n, err := io.Copy(w, src)
	if err != nil {
		return fmt.Errorf("failed to copy file content for '%s' to archive: %w", path, err)
	}

	a.debugf("  Added file: %s", header.Name)
	stats.Files++
	stats.Bytes += n
	return nil
}

package archive

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ToArchivePath converts a relative filesystem path into an archive entry
// name. Only normal components survive: volume names, roots, "." and ".."
// are dropped, and the result always uses forward slashes.
func ToArchivePath(path string) string {
	path = strings.TrimPrefix(path, filepath.VolumeName(path))
	var kept []string
	for _, segment := range normalSegments(filepath.ToSlash(path), "/") {
		if segment != ".." {
			kept = append(kept, segment)
		}
	}
	return strings.Join(kept, "/")
}

// joinArchivePath builds an entry name from a root name and the path
// segments walked below it.
func joinArchivePath(segments []string) string {
	return ToArchivePath(filepath.Join(segments...))
}

// NormalizeSelector turns a user supplied restore name into the archive
// prefix it selects. Both slash styles are accepted; empty and "." segments
// are dropped. The result is rejected when it is empty or walks upwards.
func NormalizeSelector(selector string) (string, error) {
	segments := normalSegments(selector, `/\`)
	if len(segments) == 0 {
		return "", fmt.Errorf("%w: name must not be empty", ErrInvalidSelector)
	}
	for _, segment := range segments {
		if segment == ".." {
			return "", fmt.Errorf("%w: %q must not contain ..", ErrInvalidSelector, selector)
		}
	}
	return strings.Join(segments, "/"), nil
}

// normalSegments splits value on any of seps and drops empty and "."
// segments. ".." is kept so callers can decide how to treat it.
func normalSegments(value, seps string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
	segments := fields[:0]
	for _, field := range fields {
		if field == "." {
			continue
		}
		segments = append(segments, field)
	}
	return segments
}

// entrySeparators are the characters that split an entry name on this
// platform. A backslash is an ordinary file name character on Unix, so Build
// stores it verbatim and EnclosedName must read it back the same way.
var entrySeparators = "/" + string(filepath.Separator)

// EnclosedName is the only gate between an archive entry name and the
// filesystem. It returns the entry's path segments when the name is
// relative and never walks upwards; anything else is rejected, never repaired.
// On Windows backslashes and drive letters are honoured too, so names written
// by Windows tools cannot smuggle a traversal past the check.
func EnclosedName(name string) ([]string, bool) {
	if name == "" || strings.ContainsRune(name, 0) {
		return nil, false
	}
	if strings.ContainsRune(entrySeparators, rune(name[0])) {
		return nil, false
	}
	if filepath.Separator == '\\' && hasDriveLetter(name) {
		return nil, false
	}
	segments := normalSegments(name, entrySeparators)
	if len(segments) == 0 {
		return nil, false
	}
	for _, segment := range segments {
		if segment == ".." {
			return nil, false
		}
	}
	return segments, true
}

// hasSegmentPrefix reports whether prefix matches the leading segments of
// segments. "projA" selects "projA/x" but not "projAB/x".
func hasSegmentPrefix(segments, prefix []string) bool {
	if len(prefix) > len(segments) {
		return false
	}
	for i := range prefix {
		if segments[i] != prefix[i] {
			return false
		}
	}
	return true
}

// DeriveRootName returns the name a source directory is archived under: its
// base name, or for paths without one the last normal component.
func DeriveRootName(path string) (string, error) {
	if base := filepath.Base(path); isNormalSegment(base) {
		return base, nil
	}
	trimmed := strings.TrimPrefix(path, filepath.VolumeName(path))
	segments := normalSegments(filepath.ToSlash(trimmed), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if isNormalSegment(segments[i]) {
			return segments[i], nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnnameableRoot, path)
}

func isNormalSegment(segment string) bool {
	switch segment {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(segment, entrySeparators)
}

// isWithin reports whether path equals dir or lies below it. Both must be
// absolute and cleaned.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

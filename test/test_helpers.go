package test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteTree creates the layout described by tree below root. Keys are
// slash-separated relative paths; a key ending in "/" is an empty
// directory, anything else a file with the mapped content.
func WriteTree(t *testing.T, root string, tree map[string]string) {
	t.Helper()
	for rel, content := range tree {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			if err := os.MkdirAll(path, 0755); err != nil {
				t.Fatalf("Failed to create test directory %s: %v", rel, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write test file %s: %v", rel, err)
		}
	}
}

// ReadTree is the inverse of WriteTree: every directory below root maps to
// "name/" with an empty value, every regular file to its content, and every
// symlink to "-> target".
func ReadTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		switch {
		case d.Type()&os.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			tree[rel] = "-> " + target
		case d.IsDir():
			tree[rel+"/"] = ""
		default:
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			tree[rel] = string(content)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to read tree %s: %v", root, err)
	}
	return tree
}

// CanSymlink reports whether the current platform lets tests create links.
func CanSymlink(t *testing.T) bool {
	t.Helper()
	dir := t.TempDir()
	return os.Symlink(dir, filepath.Join(dir, "probe")) == nil
}

// AssertFileContent checks if a file has the expected content
func AssertFileContent(t *testing.T, path, expectedContent string) {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("Failed to read file %s: %v", path, err)
		return
	}
	if string(content) != expectedContent {
		t.Errorf("File %s content does not match. Expected '%s', got '%s'",
			path, expectedContent, string(content))
	}
}

// WithEnvVar temporarily sets an environment variable for the duration of the test
func WithEnvVar(t *testing.T, key, value string, testFunc func()) {
	original, exists := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("WithEnvVar: Failed to set env var %s: %v", key, err)
	}
	defer func() {
		if exists {
			if err := os.Setenv(key, original); err != nil {
				t.Logf("WithEnvVar cleanup: Failed to restore env var %s: %v", key, err)
			}
		} else {
			if err := os.Unsetenv(key); err != nil {
				t.Logf("WithEnvVar cleanup: Failed to unset env var %s: %v", key, err)
			}
		}
	}()
	testFunc()
}

package main

import (
	"TreeSnap/interfaces"
	"TreeSnap/test"
	"TreeSnap/test/mocks"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runForTest(t *testing.T, args ...string) int {
	t.Helper()
	return run(args, interfaces.NewOsFileSystem(), mocks.NewMockCommandExecutor())
}

func TestRun_ExitCodes(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "projA")
	test.WriteTree(t, src, map[string]string{"a.txt": "alpha"})
	archivePath := filepath.Join(tempDir, "out", "b.zip")

	assert.Equal(t, 0, runForTest(t))
	assert.Equal(t, 0, runForTest(t, "--help"))
	assert.Equal(t, 0, runForTest(t, "backup", "-h"))
	assert.Equal(t, 1, runForTest(t, "explode"))
	assert.Equal(t, 1, runForTest(t, "backup", "-archive", archivePath))

	assert.Equal(t, 0, runForTest(t, "backup", "-archive", archivePath, "-folder", src))
	assert.Equal(t, 1, runForTest(t, "backup", "-archive", archivePath, "-folder", src, "-folder", src))

	target := filepath.Join(tempDir, "restored")
	assert.Equal(t, 0, runForTest(t, "restore", "-archive", archivePath, "-source", "projA", "-target", target))
	test.AssertFileContent(t, filepath.Join(target, "a.txt"), "alpha")

	assert.Equal(t, 1, runForTest(t, "restore", "-archive", archivePath, "-source", "../etc", "-target", target))
	assert.Equal(t, 1, runForTest(t, "restore", "-archive", archivePath, "-source", "nope", "-target", target))
}

func TestRun_LogFile(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "projA")
	test.WriteTree(t, src, map[string]string{"a.txt": "alpha"})
	logPath := filepath.Join(tempDir, "logs", "treesnap.log")

	code := runForTest(t, "backup", "-archive", filepath.Join(tempDir, "b.zip"), "-folder", src, "-logfile", logPath)
	require.Equal(t, 0, code)

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), "Backup complete"), string(content))
}

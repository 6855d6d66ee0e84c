package command_test

import (
	"TreeSnap/pkg/command"
	"TreeSnap/pkg/testutil"
	"TreeSnap/test/mocks"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDependencies(t *testing.T) (*mocks.MockFileSystem, *mocks.MockCommandExecutor, func() string) {
	t.Helper()
	fs := mocks.NewMockFileSystem()
	cmdExec := mocks.NewMockCommandExecutor()
	_, out := testutil.SetupTestGlobals(t, fs, cmdExec)
	return fs, cmdExec, out.String
}

func TestSafeExecute(t *testing.T) {
	_, _, output := setupTestDependencies(t)

	err := command.SafeExecute("successful operation", func() error {
		return nil
	})
	assert.NoError(t, err)

	expectedErr := errors.New("test error")
	err = command.SafeExecute("error operation", func() error {
		return expectedErr
	})
	assert.Equal(t, expectedErr, err)

	err = command.SafeExecute("panic operation", func() error {
		panic("test panic")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in panic operation: test panic")
	assert.Contains(t, output(), "Panic recovered in panic operation")
	assert.Contains(t, output(), "Stack trace:")
}

func TestDeletePath(t *testing.T) {
	fs, _, output := setupTestDependencies(t)
	fs.AddFile("/cache/tmp/a.log", []byte("a"), 0644)
	fs.AddFile("/cache/tmp/nested/b.log", []byte("b"), 0644)
	fs.AddFile("/cache/single.txt", []byte("s"), 0644)

	require.NoError(t, command.DeletePath("/cache/tmp"))
	assert.False(t, fs.Exists("/cache/tmp"))
	assert.False(t, fs.Exists("/cache/tmp/nested/b.log"))

	require.NoError(t, command.DeletePath("/cache/single.txt"))
	assert.False(t, fs.Exists("/cache/single.txt"))
	assert.True(t, fs.Exists("/cache"))

	require.NoError(t, command.DeletePath("/cache/never-existed"))
	assert.Contains(t, output(), "Nothing to delete at /cache/never-existed")

	assert.Error(t, command.DeletePath("  "))
}

func TestDeletePath_Failure(t *testing.T) {
	fs, _, _ := setupTestDependencies(t)
	fs.AddFile("/locked/file", []byte("x"), 0644)
	fs.SetError("Remove", "/locked/file", errors.New("permission denied"))

	err := command.DeletePath("/locked/file")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.True(t, fs.Exists("/locked/file"))
}

func TestCreateFile(t *testing.T) {
	fs, _, output := setupTestDependencies(t)

	require.NoError(t, command.CreateFile("/markers/deep/done.txt", "restored"))
	content, err := fs.ReadFile("/markers/deep/done.txt")
	require.NoError(t, err)
	assert.Equal(t, "restored", string(content))
	assert.Contains(t, output(), "Created file /markers/deep/done.txt (8 bytes)")

	require.NoError(t, command.CreateFile("/markers/deep/done.txt", ""))
	content, err = fs.ReadFile("/markers/deep/done.txt")
	require.NoError(t, err)
	assert.Empty(t, content, "existing content is truncated")

	assert.Error(t, command.CreateFile("", "x"))
}

func TestLaunchProgram(t *testing.T) {
	fs, cmdExec, _ := setupTestDependencies(t)
	fs.AddFile("/opt/app/run", []byte("#!/bin/sh"), 0755)

	require.NoError(t, command.LaunchProgram("/opt/app/run", "--quiet"))
	assert.Equal(t, []string{"/opt/app/run --quiet"}, cmdExec.GetStartedCommands())

	err := command.LaunchProgram("/opt/missing")
	require.Error(t, err)
	assert.Equal(t, "program path does not exist: /opt/missing", err.Error())

	cmdExec.SetStartError(errors.New("exec format error"))
	err = command.LaunchProgram("/opt/app/run")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to launch '/opt/app/run'"))
}

func TestPostActionsRequireGlobals(t *testing.T) {
	testutil.SetupTestGlobals(t, nil, nil)

	assert.Error(t, command.DeletePath("/x"))
	assert.Error(t, command.CreateFile("/x", ""))
	assert.Error(t, command.LaunchProgram("/x"))
}

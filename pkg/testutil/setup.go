package testutil

import (
	"TreeSnap/interfaces"
	"TreeSnap/logger"
	"TreeSnap/pkg/util"
	"bytes"
	"testing"
)

// SetupTestGlobals initializes common global dependencies for testing.
// It accepts specific FileSystem and CommandExecutor implementations
// needed for the test context and returns the initialized logger, whose
// console output is captured in the returned buffer.
//
// util wires the command and cron packages, so their tests must live in
// external _test packages to use this.
func SetupTestGlobals(t *testing.T, fs interfaces.FileSystem, cmdExec interfaces.CommandExecutor) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	testLogger, out := NewTestLogger(t)
	util.InitGlobals(testLogger, fs, cmdExec, "")
	return testLogger, out
}

// NewTestLogger returns a verbose console-only logger writing into a buffer.
func NewTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	testLogger, err := logger.NewLogger("")
	if err != nil {
		t.Fatalf("Failed to create test logger: %v", err)
	}
	t.Cleanup(testLogger.Close)

	var out bytes.Buffer
	testLogger.SetCliLoggerOutput(&out)
	testLogger.SetVerbose(true)
	return testLogger, &out
}

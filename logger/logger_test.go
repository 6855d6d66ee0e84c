package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	// Without a log file only the console is used
	logger, err := NewLogger("")
	if err != nil {
		t.Errorf("NewLogger() with empty path returned an error: %v", err)
	}
	if logger.logFile != nil {
		t.Errorf("Expected logFile to be nil, got %v", logger.logFile)
	}
	if logger.enabled {
		t.Errorf("Expected enabled to be false, got true")
	}
	logger.Close()

	tempDir := t.TempDir()

	logFilePath := filepath.Join(tempDir, "test.log")
	logger, err = NewLogger(logFilePath)
	if err != nil {
		t.Errorf("NewLogger() with valid path returned an error: %v", err)
	}
	if logger.logFile == nil {
		t.Errorf("Expected logFile to not be nil")
	}
	if !logger.enabled {
		t.Errorf("Expected enabled to be true, got false")
	}
	logger.Close()

	// Missing log directories are created
	nonExistentDir := filepath.Join(tempDir, "non-existent", "nested")
	logFilePath = filepath.Join(nonExistentDir, "test.log")
	logger, err = NewLogger(logFilePath)
	if err != nil {
		t.Errorf("NewLogger() with non-existent directory returned an error: %v", err)
	}
	if _, err := os.Stat(nonExistentDir); os.IsNotExist(err) {
		t.Errorf("Expected directory %s to be created", nonExistentDir)
	}
	logger.Close()

	// A regular file where the directory should be
	blocker := filepath.Join(tempDir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create blocker file: %v", err)
	}
	if _, err := NewLogger(filepath.Join(blocker, "test.log")); err == nil {
		t.Errorf("Expected an error when the log directory is a file, got nil")
	}
}

func newBufferedLogger(t *testing.T) (*Logger, *bytes.Buffer, string) {
	t.Helper()
	logFilePath := filepath.Join(t.TempDir(), "test.log")
	logger, err := NewLogger(logFilePath)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	t.Cleanup(logger.Close)

	var buf bytes.Buffer
	logger.SetCliLoggerOutput(&buf)
	return logger, &buf, logFilePath
}

func TestLoggerLogf(t *testing.T) {
	logger, buf, logFilePath := newBufferedLogger(t)

	logger.Logf("Test log message %d", 123)

	content, err := os.ReadFile(logFilePath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "Test log message 123") {
		t.Errorf("Expected log file to contain 'Test log message 123', got %s", string(content))
	}
	if buf.String() != "Test log message 123\n" {
		t.Errorf("Unexpected console output %q", buf.String())
	}
}

func TestLoggerLog(t *testing.T) {
	logger, buf, logFilePath := newBufferedLogger(t)

	logger.Log("Test", "log", "message")

	content, err := os.ReadFile(logFilePath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "Test log message") {
		t.Errorf("Expected log file to contain 'Test log message', got %s", string(content))
	}
	if !strings.Contains(buf.String(), "Test log message") {
		t.Errorf("Expected console output to contain 'Test log message', got %q", buf.String())
	}
}

func TestLoggerDebugf(t *testing.T) {
	logger, buf, _ := newBufferedLogger(t)

	logger.Debugf("hidden %s", "line")
	if buf.Len() != 0 {
		t.Errorf("Expected no output with verbose off, got %q", buf.String())
	}

	logger.SetVerbose(true)
	if !logger.Verbose() {
		t.Errorf("Expected Verbose() to be true")
	}
	logger.Debugf("shown %s", "line")
	if buf.String() != "shown line\n" {
		t.Errorf("Unexpected verbose output %q", buf.String())
	}
}

func TestLoggerWarnf(t *testing.T) {
	logger, buf, logFilePath := newBufferedLogger(t)

	logger.Warnf("skipping %s", "link")

	// Buffers are not terminals, so no escape codes are expected
	if buf.String() != "Warning: skipping link\n" {
		t.Errorf("Unexpected warning output %q", buf.String())
	}
	content, err := os.ReadFile(logFilePath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "Warning: skipping link") {
		t.Errorf("Expected warning in log file, got %s", string(content))
	}
}

func TestLoggerLogErrorf(t *testing.T) {
	logger, buf, logFilePath := newBufferedLogger(t)

	cause := errors.New("disk full")
	err := logger.LogErrorf("failed to write %s: %w", "out.zip", cause)
	if err == nil {
		t.Fatal("Expected a non-nil error")
	}
	if !errors.Is(err, cause) {
		t.Errorf("Expected returned error to wrap the cause")
	}
	if err.Error() != "failed to write out.zip: disk full" {
		t.Errorf("Unexpected error text %q", err.Error())
	}
	if buf.String() != "Error: failed to write out.zip: disk full\n" {
		t.Errorf("Unexpected console output %q", buf.String())
	}

	content, err := os.ReadFile(logFilePath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "Error: failed to write out.zip: disk full") {
		t.Errorf("Expected error in log file, got %s", string(content))
	}
}

func TestLoggerClose(t *testing.T) {
	logFilePath := filepath.Join(t.TempDir(), "test.log")
	logger, err := NewLogger(logFilePath)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Close()

	_, err = logger.logFile.Write([]byte("Test"))
	if err == nil {
		t.Errorf("Expected an error when writing to a closed file, got nil")
	}
}

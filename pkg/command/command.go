package command

import (
	"TreeSnap/interfaces"
	"TreeSnap/logger"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
)

var (
	AppLogger   *logger.Logger
	Fs          interfaces.FileSystem
	CmdExecutor interfaces.CommandExecutor
)

// SafeExecute runs fn and turns a panic inside it into an error.
func SafeExecute(operation string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if AppLogger != nil {
				AppLogger.Logf("Panic recovered in %s: %v\nStack trace: %s", operation, r, string(debug.Stack()))
			}
			err = fmt.Errorf("panic in %s: %v", operation, r)
		}
	}()
	return fn()
}

// DeletePath removes a file or a whole directory tree. A path that does not
// exist is not an error.
func DeletePath(path string) error {
	if Fs == nil {
		return fmt.Errorf("file system is not initialized")
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("delete path must not be empty")
	}

	info, err := Fs.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			logf("Nothing to delete at %s", path)
			return nil
		}
		return fmt.Errorf("failed to access '%s': %w", path, err)
	}

	if info.IsDir() {
		if err := Fs.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to delete directory '%s': %w", path, err)
		}
		logf("Deleted directory %s", path)
		return nil
	}

	if err := Fs.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file '%s': %w", path, err)
	}
	logf("Deleted file %s", path)
	return nil
}

// CreateFile writes content to path, creating missing parent directories and
// truncating any existing file.
func CreateFile(path, content string) error {
	if Fs == nil {
		return fmt.Errorf("file system is not initialized")
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("file path must not be empty")
	}

	if err := Fs.MkdirAll(Fs.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for '%s': %w", path, err)
	}
	if err := Fs.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file '%s': %w", path, err)
	}
	logf("Created file %s (%d bytes)", path, len(content))
	return nil
}

// LaunchProgram starts the program at path without waiting for it to exit.
func LaunchProgram(path string, args ...string) error {
	if CmdExecutor == nil {
		return fmt.Errorf("command executor is not initialized")
	}
	if Fs == nil {
		return fmt.Errorf("file system is not initialized")
	}

	if _, err := Fs.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("program path does not exist: %s", path)
		}
		return fmt.Errorf("failed to access program '%s': %w", path, err)
	}

	if err := CmdExecutor.Start(path, args...); err != nil {
		return fmt.Errorf("failed to launch '%s': %w", path, err)
	}
	logf("Launched %s", path)
	return nil
}

func logf(format string, v ...interface{}) {
	if AppLogger != nil {
		AppLogger.Logf(format, v...)
	}
}

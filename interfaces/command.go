package interfaces

import (
	"errors"
	"io"
	"os/exec"
)

// CommandExecutor runs external programs.
type CommandExecutor interface {
	// Run executes name with args and waits for it to exit.
	Run(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
	// Start launches name with args and returns without waiting.
	Start(name string, args ...string) error
}

type OsCommandExecutor struct{}

func (e *OsCommandExecutor) Run(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

func (e *OsCommandExecutor) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// The child outlives us; release it instead of waiting.
	return cmd.Process.Release()
}

// ExitCode extracts the exit status carried by err, if any.
func ExitCode(err error) (int, bool) {
	var coder interface{ ExitCode() int }
	if !errors.As(err, &coder) {
		return 0, false
	}
	return coder.ExitCode(), true
}

func NewOsCommandExecutor() *OsCommandExecutor {
	return &OsCommandExecutor{}
}

package mocks

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// ExitError mimics *exec.ExitError for callers that inspect exit codes.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) ExitCode() int {
	return e.Code
}

// MockCommandExecutor implements interfaces.CommandExecutor for testing
type MockCommandExecutor struct {
	mu               sync.RWMutex
	executedCommands []string
	startedCommands  []string
	stdinByCommand   map[string]string
	commandErrors    map[string]error
	commandOutputs   map[string]string
	defaultErr       error
	startErr         error
}

// NewMockCommandExecutor creates a new MockCommandExecutor
func NewMockCommandExecutor() *MockCommandExecutor {
	return &MockCommandExecutor{
		executedCommands: make([]string, 0),
		startedCommands:  make([]string, 0),
		stdinByCommand:   make(map[string]string),
		commandErrors:    make(map[string]error),
		commandOutputs:   make(map[string]string),
	}
}

func commandLine(name string, args []string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

// SetCommandError sets the error returned for a specific command line
func (e *MockCommandExecutor) SetCommandError(command string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commandErrors[command] = err
}

// SetCommandOutput sets the stdout written for a specific command line
func (e *MockCommandExecutor) SetCommandOutput(command string, output string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commandOutputs[command] = output
}

// SetDefaultError sets the error for commands without a specific result
func (e *MockCommandExecutor) SetDefaultError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.defaultErr = err
}

// SetStartError makes every Start call fail with err
func (e *MockCommandExecutor) SetStartError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startErr = err
}

// GetExecutedCommands returns the command lines passed to Run
func (e *MockCommandExecutor) GetExecutedCommands() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string{}, e.executedCommands...)
}

// GetStartedCommands returns the command lines passed to Start
func (e *MockCommandExecutor) GetStartedCommands() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string{}, e.startedCommands...)
}

// GetStdin returns what the last Run of command read from stdin
func (e *MockCommandExecutor) GetStdin(command string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stdinByCommand[command]
}

// Run records the command, drains stdin and writes the configured output
func (e *MockCommandExecutor) Run(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	line := commandLine(name, args)
	e.executedCommands = append(e.executedCommands, line)

	if stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return err
		}
		e.stdinByCommand[line] = string(data)
	}

	if output, exists := e.commandOutputs[line]; exists && stdout != nil {
		if _, err := io.WriteString(stdout, output); err != nil {
			return err
		}
	}

	err, exists := e.commandErrors[line]
	if !exists {
		err = e.defaultErr
	}
	if err != nil && stderr != nil {
		_, _ = io.WriteString(stderr, err.Error())
	}
	return err
}

// Start records the command and returns the configured start error
func (e *MockCommandExecutor) Start(name string, args ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startedCommands = append(e.startedCommands, commandLine(name, args))
	return e.startErr
}

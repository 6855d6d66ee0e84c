package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Logger struct
type Logger struct {
	logFile   *os.File
	logger    *log.Logger
	cliLogger *log.Logger
	enabled   bool
	verbose   bool
	errColor  *color.Color
	warnColor *color.Color
	colored   bool
}

// NewLogger creates a new logger instance
func NewLogger(logFilePath string) (*Logger, error) {
	var file *os.File
	var err error

	if logFilePath != "" {
		logDir := filepath.Dir(logFilePath)
		if _, err := os.Stat(logDir); os.IsNotExist(err) {
			err := os.MkdirAll(logDir, 0755)
			if err != nil {
				return nil, fmt.Errorf("error creating log directory: %w", err)
			}
		}

		file, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("error creating log file: %w", err)
		}
	}

	// File output carries timestamps, CLI output does not
	var fileLogger *log.Logger
	if file != nil {
		fileLogger = log.New(file, "", log.LstdFlags)
	}

	cliLogger := log.New(os.Stdout, "", 0)

	l := &Logger{
		logFile:   file,
		logger:    fileLogger,
		cliLogger: cliLogger,
		enabled:   logFilePath != "",
		errColor:  color.New(color.FgRed),
		warnColor: color.New(color.FgYellow),
	}
	l.setColor(isTerminal(os.Stdout) && os.Getenv("NO_COLOR") == "")
	return l, nil
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (l *Logger) setColor(enabled bool) {
	l.colored = enabled
	if enabled {
		l.errColor.EnableColor()
		l.warnColor.EnableColor()
		return
	}
	l.errColor.DisableColor()
	l.warnColor.DisableColor()
}

// GetCliLoggerWriter returns the cliLogger's writer.
func (l *Logger) GetCliLoggerWriter() io.Writer {
	return l.cliLogger.Writer()
}

// SetCliLoggerOutput sets the output writer for the CLI logger.
// Colors are turned off unless the new writer is a terminal.
func (l *Logger) SetCliLoggerOutput(writer io.Writer) {
	l.cliLogger.SetOutput(writer)
	f, ok := writer.(*os.File)
	l.setColor(ok && isTerminal(f) && os.Getenv("NO_COLOR") == "")
}

// ColorEnabled reports whether console output is colored.
func (l *Logger) ColorEnabled() bool {
	return l.colored
}

// SetVerbose toggles Debugf output.
func (l *Logger) SetVerbose(verbose bool) {
	l.verbose = verbose
}

// Verbose reports whether Debugf output is enabled.
func (l *Logger) Verbose() bool {
	return l.verbose
}

// Logf logs a formatted message
func (l *Logger) Logf(format string, v ...interface{}) {
	l.cliLogger.Printf(format, v...)

	if l.enabled && l.logger != nil {
		l.logger.Printf(format, v...)
	}
}

// Log logs a message
func (l *Logger) Log(v ...interface{}) {
	l.cliLogger.Println(v...)

	if l.enabled && l.logger != nil {
		l.logger.Println(v...)
	}
}

// Debugf logs a formatted message only in verbose mode.
func (l *Logger) Debugf(format string, v ...interface{}) {
	if !l.verbose {
		return
	}
	l.Logf(format, v...)
}

// Warnf logs a formatted warning, yellow on terminals.
func (l *Logger) Warnf(format string, v ...interface{}) {
	message := fmt.Sprintf("Warning: "+format, v...)
	l.cliLogger.Print(l.warnColor.Sprint(message))

	if l.enabled && l.logger != nil {
		l.logger.Print(message)
	}
}

// LogErrorf logs a formatted error message and returns the error
func (l *Logger) LogErrorf(format string, v ...interface{}) error {
	err := fmt.Errorf(format, v...)

	l.cliLogger.Print(l.errColor.Sprint("Error: " + err.Error()))

	if l.enabled && l.logger != nil {
		l.logger.Print("Error: " + err.Error())
	}

	return err
}

// Close closes the log file
func (l *Logger) Close() {
	if l.logFile != nil {
		l.logFile.Close()
	}
}

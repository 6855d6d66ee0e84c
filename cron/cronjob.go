package cronjob

import (
	"TreeSnap/interfaces"
	"TreeSnap/logger"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron"
)

const comment = "# TreeSnap cron job"

var (
	AppLogger   *logger.Logger
	CmdExecutor interfaces.CommandExecutor

	// ExecutablePath locates the binary the installed job runs.
	ExecutablePath = os.Executable
)

// ValidateSchedule accepts standard five-field expressions, the predefined
// descriptors (@daily, @every 1h, ...) and @reboot.
func ValidateSchedule(schedule string) error {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		return fmt.Errorf("cron schedule must not be empty")
	}
	if schedule == "@reboot" {
		return nil
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron job schedule: %w", err)
	}
	return nil
}

// JobLine renders the crontab line that runs a backup with params.
func JobLine(schedule, execPath string, params []string) string {
	fields := []string{strings.TrimSpace(schedule), quoteArg(execPath), "backup"}
	for _, p := range params {
		fields = append(fields, quoteArg(p))
	}
	return strings.Join(append(fields, comment), " ")
}

func quoteArg(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t'\"\\$`%;&|<>()*?#~") {
		return arg
	}
	// cron treats an unescaped % as a newline.
	escaped := strings.ReplaceAll(arg, "'", `'\''`)
	escaped = strings.ReplaceAll(escaped, "%", `\%`)
	return "'" + escaped + "'"
}

// AddCronJob appends a backup job for the current executable to the user
// crontab.
func AddCronJob(schedule string, params []string) error {
	if CmdExecutor == nil {
		return fmt.Errorf("command executor is not initialized")
	}
	if err := ValidateSchedule(schedule); err != nil {
		return err
	}

	execPath, err := ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	execPath, err = filepath.Abs(execPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	job := JobLine(schedule, execPath, params)

	existing, found, err := readCrontab()
	if err != nil {
		return err
	}

	var crontab string
	if !found {
		logf("No existing crontab. Creating a new one.")
		crontab = job + "\n"
	} else {
		if existing != "" && !strings.HasSuffix(existing, "\n") {
			existing += "\n"
		}
		crontab = existing + job + "\n"
	}

	if err := writeCrontab(crontab); err != nil {
		return err
	}
	logf("Cron job added successfully: %s", job)
	return nil
}

// RemoveCronJob removes every line carrying the TreeSnap marker.
func RemoveCronJob() error {
	if CmdExecutor == nil {
		return fmt.Errorf("command executor is not initialized")
	}
	existing, found, err := readCrontab()
	if err != nil {
		return err
	}
	if !found {
		logf("No existing crontab to modify.")
		return nil
	}

	lines := strings.Split(existing, "\n")
	var updatedLines []string
	for _, line := range lines {
		if !strings.Contains(line, comment) {
			updatedLines = append(updatedLines, line)
		}
	}

	if len(lines) == len(updatedLines) {
		logf("No matching cron job found.")
		return nil
	}

	if err := writeCrontab(strings.Join(updatedLines, "\n")); err != nil {
		return err
	}
	logf("Cron job removed successfully.")
	return nil
}

// IsCronJobInstalled reports whether the user crontab has a TreeSnap line.
func IsCronJobInstalled() (bool, error) {
	if CmdExecutor == nil {
		return false, fmt.Errorf("command executor is not initialized")
	}
	existing, found, err := readCrontab()
	if err != nil || !found {
		return false, err
	}
	for _, line := range strings.Split(existing, "\n") {
		if strings.Contains(line, comment) {
			return true, nil
		}
	}
	return false, nil
}

// readCrontab lists the user crontab; found is false when the user has none,
// which crontab signals with exit status 1.
func readCrontab() (content string, found bool, err error) {
	var out, stderr bytes.Buffer
	if err := CmdExecutor.Run("crontab", []string{"-l"}, nil, &out, &stderr); err != nil {
		if code, ok := interfaces.ExitCode(err); ok && code == 1 {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to list crontab: %w", err)
	}
	return out.String(), true, nil
}

func writeCrontab(content string) error {
	var stderr bytes.Buffer
	if err := CmdExecutor.Run("crontab", []string{"-"}, strings.NewReader(content), nil, &stderr); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("failed to update crontab: %w (%s)", err, msg)
		}
		return fmt.Errorf("failed to update crontab: %w", err)
	}
	return nil
}

func logf(format string, v ...interface{}) {
	if AppLogger != nil {
		AppLogger.Logf(format, v...)
	}
}

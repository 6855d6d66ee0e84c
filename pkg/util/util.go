package util

import (
	cronjob "TreeSnap/cron"
	"TreeSnap/interfaces"
	"TreeSnap/logger"
	"TreeSnap/pkg/command"
	"os"
	"strconv"
	"strings"
)

var (
	Version string = "1.0.0" // Default version, can be overridden by build flags
)

func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvBool treats "true", "1" and "yes" (any case) as true.
func GetEnvBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// GetEnvInt returns defaultValue when the variable is unset or not a number.
func GetEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// InitGlobals wires the shared logger, file system and command executor into
// the packages that keep them as package state.
func InitGlobals(logger *logger.Logger, fs interfaces.FileSystem, cmdExec interfaces.CommandExecutor, version string) {
	command.AppLogger = logger
	command.Fs = fs
	command.CmdExecutor = cmdExec
	cronjob.AppLogger = logger
	cronjob.CmdExecutor = cmdExec
	if version != "" {
		Version = version
	}
}

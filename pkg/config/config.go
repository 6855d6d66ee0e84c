package config

import (
	"TreeSnap/pkg/archive"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	ModeBackup  = "backup"
	ModeRestore = "restore"
)

var GetHomeDirectory = func() (string, error) {
	homeDir := os.Getenv("HOME")
	if homeDir == "" {
		return "", errors.New("unable to find home directory. HOME environment variable may not be set")
	}
	return homeDir, nil
}

// Binding pairs an archive selector with the directory it is restored into.
type Binding struct {
	Selector string
	Target   string
}

// Config is one backup or restore invocation.
type Config struct {
	Mode         string
	ArchivePath  string
	Folders      []string
	Bindings     []Binding
	DeletePaths  []string
	DelaySeconds int
	LaunchPath   string
	CreateFile   string
	FileContent  string
	Level        int
}

// PairBindings zips sources and targets by position.
func PairBindings(sources, targets []string) ([]Binding, error) {
	if len(sources) != len(targets) {
		return nil, fmt.Errorf("-source and -target counts must match, got %d and %d", len(sources), len(targets))
	}
	bindings := make([]Binding, 0, len(sources))
	for i := range sources {
		bindings = append(bindings, Binding{Selector: sources[i], Target: targets[i]})
	}
	return bindings, nil
}

func ExpandEnvVars(value string) string {
	return os.Expand(value, func(key string) string {
		return os.Getenv(key)
	})
}

// ExpandPath expands environment variables and a leading "~".
func ExpandPath(path string) (string, error) {
	expanded := ExpandEnvVars(path)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") || strings.HasPrefix(expanded, `~\`) {
		homeDir, err := GetHomeDirectory()
		if err != nil {
			return "", fmt.Errorf("failed to expand ~ in path %s: %w", path, err)
		}
		expanded = homeDir + expanded[1:]
	}
	return expanded, nil
}

func expandAll(paths []string) ([]string, error) {
	if paths == nil {
		return nil, nil
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		expanded, err := ExpandPath(p)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded)
	}
	return out, nil
}

// ExpandPaths returns a copy of cfg with every filesystem path expanded.
// Selectors name archive entries and are left alone.
func ExpandPaths(cfg Config) (Config, error) {
	var err error
	if cfg.ArchivePath, err = ExpandPath(cfg.ArchivePath); err != nil {
		return cfg, err
	}
	if cfg.Folders, err = expandAll(cfg.Folders); err != nil {
		return cfg, err
	}
	if cfg.DeletePaths, err = expandAll(cfg.DeletePaths); err != nil {
		return cfg, err
	}
	if cfg.LaunchPath, err = ExpandPath(cfg.LaunchPath); err != nil {
		return cfg, err
	}
	if cfg.CreateFile, err = ExpandPath(cfg.CreateFile); err != nil {
		return cfg, err
	}

	bindings := make([]Binding, 0, len(cfg.Bindings))
	for _, b := range cfg.Bindings {
		target, err := ExpandPath(b.Target)
		if err != nil {
			return cfg, err
		}
		bindings = append(bindings, Binding{Selector: b.Selector, Target: target})
	}
	cfg.Bindings = bindings
	return cfg, nil
}

func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.ArchivePath) == "" {
		return errors.New("archive path is required (-archive)")
	}
	if cfg.DelaySeconds < 0 {
		return fmt.Errorf("delay must not be negative, got %d", cfg.DelaySeconds)
	}
	if err := archive.ValidateLevel(cfg.Level); err != nil {
		return err
	}

	switch cfg.Mode {
	case ModeBackup:
		if len(cfg.Folders) == 0 {
			return errors.New("at least one folder must be specified (-folder)")
		}
		for _, folder := range cfg.Folders {
			if strings.TrimSpace(folder) == "" {
				return errors.New("empty folder path specified")
			}
		}
	case ModeRestore:
		if len(cfg.Bindings) == 0 {
			return errors.New("at least one -source and -target pair must be specified")
		}
		for _, b := range cfg.Bindings {
			if strings.TrimSpace(b.Target) == "" {
				return fmt.Errorf("empty target for source %q", b.Selector)
			}
		}
	default:
		return fmt.Errorf("unknown mode %q", cfg.Mode)
	}

	for _, p := range cfg.DeletePaths {
		if strings.TrimSpace(p) == "" {
			return errors.New("empty delete path specified")
		}
	}
	if strings.TrimSpace(cfg.CreateFile) == "" && cfg.FileContent != "" {
		return errors.New("-file-content requires -create-file")
	}
	return nil
}

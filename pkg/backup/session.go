package backup

import (
	"TreeSnap/interfaces"
	"TreeSnap/logger"
	"TreeSnap/pkg/archive"
	"TreeSnap/pkg/command"
	"TreeSnap/pkg/config"
	"TreeSnap/pkg/printer"
	"fmt"
	"strings"
	"time"
)

// Session holds one backup or restore invocation and its post actions.
type Session struct {
	Config   config.Config
	Archiver *archive.Archiver
	Logger   *logger.Logger
	Printer  interfaces.Printer

	// Sleep waits out the configured delay.
	Sleep func(time.Duration)
}

// NewSession validates cfg and prepares a session around a copy of archiver
// set to the configured compression level.
func NewSession(cfg config.Config, archiver *archive.Archiver) (*Session, error) {
	if archiver == nil || archiver.Logger == nil {
		return nil, fmt.Errorf("archiver with a logger is required")
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	configured := *archiver
	configured.Level = cfg.Level

	return &Session{
		Config:   cfg,
		Archiver: &configured,
		Logger:   archiver.Logger,
		Printer:  printer.NewPrinter(cfg.Mode, archiver.Logger),
		Sleep:    time.Sleep,
	}, nil
}

// Run waits the configured delay, performs the backup or every restore in
// order, then runs the post actions. The first failure stops the session;
// destinations restored before it are left in place.
func (s *Session) Run() error {
	if s.Config.DelaySeconds > 0 {
		s.Logger.Logf("Waiting %d seconds before %s", s.Config.DelaySeconds, s.Config.Mode)
		s.Sleep(time.Duration(s.Config.DelaySeconds) * time.Second)
	}

	switch s.Config.Mode {
	case config.ModeBackup:
		if err := s.runBackup(); err != nil {
			return err
		}
	case config.ModeRestore:
		if err := s.runRestores(); err != nil {
			return err
		}
		for _, path := range s.Config.DeletePaths {
			if err := s.postAction("delete "+path, func() error {
				return command.DeletePath(path)
			}); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown mode %q", s.Config.Mode)
	}

	if strings.TrimSpace(s.Config.CreateFile) != "" {
		if err := s.postAction("create file "+s.Config.CreateFile, func() error {
			return command.CreateFile(s.Config.CreateFile, s.Config.FileContent)
		}); err != nil {
			return err
		}
	}

	if strings.TrimSpace(s.Config.LaunchPath) != "" {
		if err := s.postAction("launch "+s.Config.LaunchPath, func() error {
			return command.LaunchProgram(s.Config.LaunchPath)
		}); err != nil {
			return err
		}
	}

	return nil
}

func (s *Session) runBackup() error {
	s.Printer.Section("backup")
	s.Printer.Print("Archiving %d folder(s) into %s", len(s.Config.Folders), s.Config.ArchivePath)

	stats, err := s.Archiver.Build(s.Config.Folders, s.Config.ArchivePath)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	s.Printer.Print("%d root(s), %d directories, %d files, %d bytes", stats.Roots, stats.Directories, stats.Files, stats.Bytes)
	if stats.SkippedSymlinks > 0 {
		s.Logger.Warnf("Skipped %d symbolic link(s)", stats.SkippedSymlinks)
	}
	s.Logger.Logf("Backup complete: %s", s.Config.ArchivePath)
	return nil
}

func (s *Session) runRestores() error {
	for _, b := range s.Config.Bindings {
		s.Printer.Section(fmt.Sprintf("restore %s → %s", b.Selector, b.Target))

		stats, err := s.Archiver.Restore(s.Config.ArchivePath, b.Selector, b.Target)
		if err != nil {
			return fmt.Errorf("restore of %q failed: %w", b.Selector, err)
		}

		s.Printer.Print("%d directories, %d files, %d bytes", stats.Directories, stats.Files, stats.Bytes)
		if stats.SkippedUnsafe > 0 {
			s.Logger.Warnf("Skipped %d unsafe archive entries", stats.SkippedUnsafe)
		}
		s.Logger.Logf("Restore complete: %s → %s", b.Selector, b.Target)
	}
	return nil
}

func (s *Session) postAction(name string, fn func() error) error {
	if err := command.SafeExecute(name, fn); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

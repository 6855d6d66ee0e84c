package main

import (
	cronjob "TreeSnap/cron"
	"TreeSnap/interfaces"
	"TreeSnap/logger"
	"TreeSnap/pkg/archive"
	"TreeSnap/pkg/backup"
	"TreeSnap/pkg/config"
	"TreeSnap/pkg/util"
	"errors"
	"flag"
	"fmt"
	"strings"
)

// CLI handles command-line interface operations
type CLI struct {
	logger      *logger.Logger
	fs          interfaces.FileSystem
	cmdExecutor interfaces.CommandExecutor
	version     string
	envArchive  string
	envDelay    int
	envLaunch   string
	envLevel    int
	envVerbose  bool
	envLogFile  string
}

// Options is everything parsed from the command line for one action.
type Options struct {
	Config   config.Config
	Verbose  bool
	LogFile  string
	Schedule string
	// ExtraArgs are the backup flags an installed cron job passes on.
	ExtraArgs []string
}

// stringList collects every occurrence of a repeatable flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// NewCLI creates a new CLI instance
func NewCLI(logger *logger.Logger, fs interfaces.FileSystem, cmdExecutor interfaces.CommandExecutor, version string) *CLI {
	return &CLI{
		logger:      logger,
		fs:          fs,
		cmdExecutor: cmdExecutor,
		version:     version,
	}
}

// SetLogger swaps the logger, e.g. once -logfile is known.
func (c *CLI) SetLogger(l *logger.Logger) {
	c.logger = l
}

func (c *CLI) loadEnvDefaults() {
	c.envArchive = util.GetEnvWithDefault("TREESNAP_ARCHIVE", "")
	c.envDelay = util.GetEnvInt("TREESNAP_DELAY", 0)
	c.envLaunch = util.GetEnvWithDefault("TREESNAP_LAUNCH", "")
	c.envLevel = util.GetEnvInt("TREESNAP_LEVEL", archive.DefaultLevel)
	c.envVerbose = util.GetEnvBool("TREESNAP_VERBOSE")
	c.envLogFile = util.GetEnvWithDefault("TREESNAP_LOGFILE", "")
}

// ParseFlags parses command-line arguments and environment variables
func (c *CLI) ParseFlags(args []string) (action string, opts *Options, err error) {
	if len(args) < 1 {
		return "", nil, errors.New("no action specified")
	}
	c.loadEnvDefaults()

	action = args[0]
	if !isValidAction(action) {
		return "", nil, fmt.Errorf("invalid action: %s", action)
	}

	opts = &Options{}
	rest := args[1:]
	if action == "install" {
		opts.Schedule = "@reboot"
		if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
			opts.Schedule = rest[0]
			rest = rest[1:]
		}
		opts.ExtraArgs = append([]string{}, rest...)
	}

	var folders, sources, targets, deletes stringList
	actionFlags := flag.NewFlagSet(action, flag.ContinueOnError)
	actionFlags.SetOutput(c.logger.GetCliLoggerWriter())
	archivePath := actionFlags.String("archive", c.envArchive, "Path to the archive file (env: TREESNAP_ARCHIVE)")
	actionFlags.Var(&folders, "folder", "Directory to back up; repeat for several")
	actionFlags.Var(&sources, "source", "Archive path to restore, e.g. projA or projA/sub; pairs with -target by position")
	actionFlags.Var(&targets, "target", "Destination directory for the matching -source; replaced entirely")
	actionFlags.Var(&deletes, "delete", "Optional: Path removed after a successful restore; repeat for several")
	delay := actionFlags.Int("delay", c.envDelay, "Optional: Seconds to wait before starting (env: TREESNAP_DELAY)")
	launch := actionFlags.String("launch", c.envLaunch, "Optional: Program started after the operation (env: TREESNAP_LAUNCH)")
	createFile := actionFlags.String("create-file", "", "Optional: File written after the operation")
	fileContent := actionFlags.String("file-content", "", "Optional: Content for -create-file")
	level := actionFlags.Int("level", c.envLevel, "Optional: Deflate level 0-9, -1 for the default (env: TREESNAP_LEVEL)")
	verbose := actionFlags.Bool("verbose", c.envVerbose, "Optional: Log every archived and restored entry (env: TREESNAP_VERBOSE)")
	logFilePath := actionFlags.String("logfile", c.envLogFile, "Optional: Path to log file (env: TREESNAP_LOGFILE)")

	if err := actionFlags.Parse(rest); err != nil {
		return "", nil, fmt.Errorf("error parsing flags: %w", err)
	}
	if actionFlags.NArg() > 0 {
		return "", nil, fmt.Errorf("unexpected arguments: %s", strings.Join(actionFlags.Args(), " "))
	}

	opts.Verbose = *verbose
	opts.LogFile = *logFilePath
	opts.Config = config.Config{
		ArchivePath:  *archivePath,
		Folders:      folders,
		DeletePaths:  deletes,
		DelaySeconds: *delay,
		LaunchPath:   *launch,
		CreateFile:   *createFile,
		FileContent:  *fileContent,
		Level:        *level,
	}

	switch action {
	case "backup":
		opts.Config.Mode = config.ModeBackup
	case "restore":
		opts.Config.Mode = config.ModeRestore
		bindings, err := config.PairBindings(sources, targets)
		if err != nil {
			return "", nil, err
		}
		opts.Config.Bindings = bindings
	case "install":
		if err := cronjob.ValidateSchedule(opts.Schedule); err != nil {
			return "", nil, err
		}
		// The job runs a backup, so its flags must make a valid one.
		opts.Config.Mode = config.ModeBackup
		if err := config.ValidateConfig(opts.Config); err != nil {
			return "", nil, fmt.Errorf("invalid backup flags for cron job: %w", err)
		}
	}

	return action, opts, nil
}

// ExecuteAction executes the specified action with the given options
func (c *CLI) ExecuteAction(action string, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	c.logger.SetVerbose(opts.Verbose)

	switch action {
	case "backup", "restore":
		return c.executeBackupRestore(opts)
	case "install":
		return c.executeInstall(opts)
	case "remove":
		return c.executeRemove()
	case "help":
		c.ShowHelp()
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// executeBackupRestore handles backup and restore actions
func (c *CLI) executeBackupRestore(opts *Options) error {
	cfg, err := config.ExpandPaths(opts.Config)
	if err != nil {
		return err
	}

	session, err := backup.NewSession(cfg, archive.NewArchiver(c.logger, c.fs))
	if err != nil {
		return err
	}
	return session.Run()
}

// executeInstall handles install action
func (c *CLI) executeInstall(opts *Options) error {
	err := cronjob.AddCronJob(opts.Schedule, opts.ExtraArgs)
	if err != nil {
		return fmt.Errorf("failed to install cron job: %w", err)
	}
	c.logger.Logf("CRON job installed successfully")
	return nil
}

// executeRemove handles remove action
func (c *CLI) executeRemove() error {
	err := cronjob.RemoveCronJob()
	if err != nil {
		return fmt.Errorf("failed to remove cron job: %w", err)
	}
	c.logger.Logf("CRON job removed successfully")
	return nil
}

// ShowHelp displays help information
func (c *CLI) ShowHelp() {
	c.logger.Logf("Usage: TreeSnap <action> [flags]")
	c.logger.Logf("")
	c.logger.Logf("Actions:")
	c.logger.Logf("  backup   - Archive every -folder into -archive")
	c.logger.Logf("  restore  - Replace each -target with the archived -source subtree")
	c.logger.Logf("  install  - Install a CRON job running backup with the given flags (schedule defaults to @reboot)")
	c.logger.Logf("  remove   - Remove the previously installed CRON job")
	c.logger.Logf("  help     - Show this help")
	c.logger.Logf("")
	c.logger.Logf("Examples:")
	c.logger.Logf("  TreeSnap backup -archive ~/backups/work.zip -folder ~/projA -folder ~/projB")
	c.logger.Logf("  TreeSnap restore -archive ~/backups/work.zip -source projA -target /tmp/projA")
	c.logger.Logf("  TreeSnap install \"0 3 * * *\" -archive ~/backups/work.zip -folder ~/projA")
	c.logger.Logf("")
	c.logger.Logf("Flags:")
	c.logger.Logf("  -archive <path>       archive file (env: TREESNAP_ARCHIVE)")
	c.logger.Logf("  -folder <dir>         source directory for backup, repeatable")
	c.logger.Logf("  -source <selector>    archive subtree to restore, repeatable")
	c.logger.Logf("  -target <dir>         destination for the matching -source, repeatable")
	c.logger.Logf("  -delete <path>        removed after a successful restore, repeatable")
	c.logger.Logf("  -delay <seconds>      wait before starting (env: TREESNAP_DELAY)")
	c.logger.Logf("  -launch <program>     started after the operation (env: TREESNAP_LAUNCH)")
	c.logger.Logf("  -create-file <path>   written after the operation, with -file-content")
	c.logger.Logf("  -level <n>            deflate level 0-9, -1 default (env: TREESNAP_LEVEL)")
	c.logger.Logf("  -verbose              log every entry (env: TREESNAP_VERBOSE)")
	c.logger.Logf("  -logfile <path>       also log to this file (env: TREESNAP_LOGFILE)")
	c.logger.Logf("")
	c.logger.Logf("TreeSnap v%s", c.version)

	if c.cmdExecutor == nil {
		return
	}
	installed, err := cronjob.IsCronJobInstalled()
	if err != nil {
		c.logger.Logf("Error checking CRON job installation: %v", err)
		return
	}

	if installed {
		c.logger.Logf("CRON job is currently installed")
	}
}

// Helper functions

// isValidAction checks if the action is valid
func isValidAction(action string) bool {
	validActions := []string{"backup", "restore", "install", "remove", "help"}
	for _, valid := range validActions {
		if action == valid {
			return true
		}
	}
	return false
}

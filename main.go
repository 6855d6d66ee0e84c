package main

import (
	"TreeSnap/interfaces"
	"TreeSnap/logger"
	"TreeSnap/pkg/util"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/debug"
)

var (
	Version = "1.0.0"
)

func main() {
	os.Exit(run(os.Args[1:], interfaces.NewOsFileSystem(), interfaces.NewOsCommandExecutor()))
}

// run executes one invocation and returns the process exit code.
func run(args []string, fs interfaces.FileSystem, cmdExec interfaces.CommandExecutor) (exitCode int) {
	appLogger, err := logger.NewLogger("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return 1
	}
	defer func() {
		appLogger.Close()
	}()

	defer func() {
		if r := recover(); r != nil {
			appLogger.Logf("Panic recovered in main: %v\nStack trace: %s", r, string(debug.Stack()))
			exitCode = 1
		}
	}()

	appLogger.Logf("TreeSnap v%s", Version)
	util.InitGlobals(appLogger, fs, cmdExec, Version)
	cli := NewCLI(appLogger, fs, cmdExec, Version)

	if len(args) < 1 || args[0] == "-h" || args[0] == "--help" {
		cli.ShowHelp()
		return 0
	}

	action, opts, err := cli.ParseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			cli.ShowHelp()
			return 0
		}
		_ = appLogger.LogErrorf("%v", err)
		appLogger.Logf("Run 'TreeSnap help' for usage.")
		return 1
	}

	if opts.LogFile != "" {
		fileLogger, err := logger.NewLogger(opts.LogFile)
		if err != nil {
			_ = appLogger.LogErrorf("%v", err)
			return 1
		}
		appLogger.Close()
		appLogger = fileLogger
		util.InitGlobals(appLogger, fs, cmdExec, Version)
		cli.SetLogger(appLogger)
	}

	if err := cli.ExecuteAction(action, opts); err != nil {
		_ = appLogger.LogErrorf("%v", err)
		return 1
	}
	return 0
}

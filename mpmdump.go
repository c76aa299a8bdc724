package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/phil-mansfield/mpmdump/lib"
)

func main() {
	// Parse arguments.
	mode, configFile, cmdArgs, err := lib.ParseCommandLine(os.Args[1:])
	if err != nil {
		lib.ExternalErrorf("%s", err.Error())
	}

	switch mode {
	case lib.HelpMode:
		lib.PrintHelp(os.Stdout)
		return
	case lib.ExampleMode:
		io.WriteString(os.Stdout, lib.ExampleConfigFile)
		return
	}

	rawArgs, err := lib.ParseConfigFile(configFile)
	if err != nil {
		lib.ExternalErrorf("%s", err.Error())
	}
	rawArgs.Overwrite(cmdArgs)

	// Do processing that doesn't need external validation.
	args, err := rawArgs.Process()
	if err != nil {
		lib.ExternalErrorf("%s", err.Error())
	}

	logFile, err := lib.OpenLogFile(args.LogFile)
	if err != nil {
		lib.ExternalErrorf("%s", err.Error())
	}
	defer logFile.Close()

	if args.Threads, err = lib.SetThreads(args.Threads); err != nil {
		lib.ExternalErrorf("%s", err.Error())
	}

	ctx := context.Background()

	// Run the chosen mode.
	switch mode {
	case lib.CheckMode:
		if lib.Check(args, lib.WarnOnError) {
			fmt.Println("No errors detected.")
		} else {
			logFile.Close()
			os.Exit(1)
		}
	case lib.GridMode:
		err = lib.RunGrid(args, os.Stdout)
	case lib.ParticlesMode:
		err = lib.RunParticles(args)
	case lib.StatsMode:
		err = lib.RunStats(args, os.Stdout)
	case lib.CompressMode:
		lib.Check(args, lib.CrashOnError)
		err = lib.RunCompress(ctx, args)
	case lib.ConfirmMode:
		lib.Check(args, lib.CrashOnError)
		if err = lib.RunConfirm(ctx, args); err == nil {
			fmt.Println("No errors detected.")
		}
	default:
		lib.InternalErrorf("Mode %s has no implementation.", mode)
	}

	if err != nil {
		lib.ExternalErrorf("%s", err.Error())
	}
}

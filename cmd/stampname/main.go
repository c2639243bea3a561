// Package main provides the CLI entry point for stampname.
package main

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"stampname/internal/config"
	"stampname/internal/orchestrator"
	"stampname/internal/output"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1 // at least one path or entry failed
	exitUsage = 2 // bad command line
)

func main() {
	os.Exit(run(os.Args, output.DefaultConfig()))
}

// run executes one invocation and returns the process exit code.
func run(argv []string, outCfg output.Config) int {
	program := "stampname"
	if len(argv) > 0 {
		program = filepath.Base(argv[0])
		argv = argv[1:]
	}

	cmd, err := config.Parse(program, argv)
	if err != nil {
		return handleConfigError(err, outCfg)
	}

	outCfg.Verbose = cmd.Verbose
	out := output.New(outCfg)

	validation := config.Validate(cmd)
	for _, w := range validation.Warnings {
		out.Warn("%s: %s", w.Field, w.Message)
	}
	if !validation.Valid {
		for _, e := range validation.Errors {
			out.Error("Error: %s: %s", e.Field, e.Message)
		}
		return exitUsage
	}

	switch cmd.Name {
	case config.CommandTest:
		return runTest(cmd, out)
	default:
		return runRename(cmd, out)
	}
}

func runRename(cmd *config.Command, out *output.Output) int {
	out.Banner(cmd.Modes())

	req := orchestrator.RenameRequest{
		Roots:     cmd.Paths,
		Recursive: cmd.Recursive,
		DryRun:    cmd.DryRun,
		Verbose:   cmd.Verbose,
	}
	summary := orchestrator.Run(req, orchestrator.Options{
		Reporter:      out,
		SymlinkPolicy: cmd.SymlinkPolicy,
	})

	out.Info("%s", summary.PrintSummary())
	out.Verbose("Finished in %s", summary.Duration.Round(time.Millisecond))
	if summary.HasErrors() {
		return exitError
	}
	return exitOK
}

func runTest(cmd *config.Command, out *output.Output) int {
	if cmd.List {
		out.Info("Listing test values...")
	}
	out.Banner(cmd.Modes())
	return exitOK
}

func handleConfigError(err error, outCfg output.Config) int {
	out := output.New(outCfg)

	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) {
		out.Error("Error: %v", err)
		return exitUsage
	}

	if cfgErr.IsUserRequest() {
		out.Info("%s", cfgErr.Usage)
		return exitOK
	}

	if cfgErr.Usage != "" {
		out.Error("%s", cfgErr.Usage)
	}
	out.Error("Error: %v", cfgErr)
	return exitUsage
}

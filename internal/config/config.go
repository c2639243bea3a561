// Package config handles command-line configuration for stampname.
//
// stampname has no configuration file and reads no environment variables;
// the parsed command line is the whole configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/alexflint/go-arg"

	"stampname/internal/scanner"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	NoCommand        ConfigErrorType = "NO_COMMAND"
	InvalidArguments ConfigErrorType = "INVALID_ARGUMENTS"
	HelpRequested    ConfigErrorType = "HELP_REQUESTED"
	VersionRequested ConfigErrorType = "VERSION_REQUESTED"
	ValidationError  ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred while reading the command line.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Usage   string // Help or usage text to show alongside the error
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case NoCommand:
		return "no command given, use --help for more information"
	case InvalidArguments:
		return fmt.Sprintf("invalid arguments: %s", e.Message)
	case HelpRequested:
		return "help requested"
	case VersionRequested:
		return "version requested"
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// IsUserRequest returns true for --help and --version, which are not failures.
func (e *ConfigError) IsUserRequest() bool {
	return e.Type == HelpRequested || e.Type == VersionRequested
}

// CommandName identifies a subcommand.
type CommandName string

const (
	CommandRename CommandName = "rename"
	CommandTest   CommandName = "test"
)

// CommonArgs are the flags shared by every subcommand.
type CommonArgs struct {
	Verbose bool `arg:"-v,--verbose" help:"print one line per processed file"`
	DryRun  bool `arg:"-d,--dry-run" help:"show what would be renamed without touching any file"`
}

// RenameArgs are the flags of the rename subcommand.
type RenameArgs struct {
	Recursive bool     `arg:"-r,--recursive" help:"descend into subdirectories"`
	Symlinks  string   `arg:"--symlinks" default:"follow" help:"symlink handling: follow, skip or error"`
	Paths     []string `arg:"positional" help:"files or directories to process [default: current directory]"`
	CommonArgs
}

// TestArgs are the flags of the test subcommand.
type TestArgs struct {
	List bool `arg:"-l,--list" help:"list test values"`
	CommonArgs
}

// Args is the top-level command line.
type Args struct {
	Rename *RenameArgs `arg:"subcommand:rename" help:"prefix file names with their creation time (YYYYMMDD_HHMMSS_)"`
	Test   *TestArgs   `arg:"subcommand:test" help:"perform test operations"`
}

// Description is shown at the top of --help.
func (Args) Description() string {
	return "stampname renames files by prefixing them with their creation timestamp.\n" +
		"File names are normalized to Unicode NFKC first, and names that already\n" +
		"start with a YYYYMMDD_HHMMSS_ stamp are left alone.\n"
}

// Version is shown by --version.
func (Args) Version() string {
	return Version()
}

// Command is the validated result of parsing the command line.
type Command struct {
	Name          CommandName
	Paths         []string
	Recursive     bool
	Verbose       bool
	DryRun        bool
	List          bool
	SymlinkPolicy string
}

// Modes returns the human-readable list of enabled modes.
func (c *Command) Modes() []string {
	var modes []string
	if c.DryRun {
		modes = append(modes, "Dry-run mode enabled.")
	}
	if c.Recursive {
		modes = append(modes, "Recursive mode enabled.")
	}
	if c.Verbose {
		modes = append(modes, "Verbose mode enabled.")
	}
	return modes
}

// version is overridden at build time with -ldflags "-X stampname/internal/config.version=...".
var version = "dev"

// Version returns the program version with the VCS revision when known.
func Version() string {
	revision := ""
	modified := false
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				revision = setting.Value
				if len(revision) > 7 {
					revision = revision[:7]
				}
			case "vcs.modified":
				modified = setting.Value == "true"
			}
		}
	}
	if revision == "" {
		return "stampname " + version
	}
	if modified {
		revision += "+dirty"
	}
	return fmt.Sprintf("stampname %s (%s)", version, revision)
}

// Parse reads argv (without the program name) into a Command.
// An empty path list defaults to the current working directory.
func Parse(program string, argv []string) (*Command, error) {
	var args Args
	parser, err := arg.NewParser(arg.Config{Program: program}, &args)
	if err != nil {
		return nil, &ConfigError{Type: InvalidArguments, Message: err.Error()}
	}

	if err := parser.Parse(argv); err != nil {
		var help bytes.Buffer
		switch {
		case errors.Is(err, arg.ErrHelp):
			parser.WriteHelp(&help)
			return nil, &ConfigError{Type: HelpRequested, Usage: help.String()}
		case errors.Is(err, arg.ErrVersion):
			return nil, &ConfigError{Type: VersionRequested, Usage: Version() + "\n"}
		default:
			parser.WriteUsage(&help)
			return nil, &ConfigError{Type: InvalidArguments, Message: err.Error(), Usage: help.String()}
		}
	}

	var cmd *Command
	switch {
	case args.Rename != nil:
		cmd = &Command{
			Name:          CommandRename,
			Paths:         args.Rename.Paths,
			Recursive:     args.Rename.Recursive,
			Verbose:       args.Rename.Verbose,
			DryRun:        args.Rename.DryRun,
			SymlinkPolicy: args.Rename.Symlinks,
		}
	case args.Test != nil:
		cmd = &Command{
			Name:    CommandTest,
			List:    args.Test.List,
			Verbose: args.Test.Verbose,
			DryRun:  args.Test.DryRun,
		}
	default:
		var help bytes.Buffer
		parser.WriteHelp(&help)
		return nil, &ConfigError{Type: NoCommand, Usage: help.String()}
	}

	if err := cmd.ApplyDefaults(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// ApplyDefaults fills in the working directory when no paths were given
// and the default symlink policy when none was set.
func (c *Command) ApplyDefaults() error {
	if c.Name == CommandRename && len(c.Paths) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return &ConfigError{
				Type:    ValidationError,
				Message: fmt.Sprintf("cannot determine current directory: %v", err),
			}
		}
		c.Paths = []string{wd}
	}
	if c.SymlinkPolicy == "" {
		c.SymlinkPolicy = scanner.SymlinkPolicyFollow
	}
	return nil
}

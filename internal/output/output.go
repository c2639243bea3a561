// Package output handles CLI output formatting including verbose mode and progress indicators.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"stampname/internal/planner"
	"stampname/internal/renamer"
	"stampname/internal/scanner"
)

// Config holds output configuration.
type Config struct {
	Verbose   bool      // Enable verbose output
	Writer    io.Writer // Output destination (default: os.Stdout)
	ErrWriter io.Writer // Error output destination (default: os.Stderr)
	IsTTY     bool      // Whether output is a terminal
	Color     bool      // Emit ANSI colors
}

// palette holds ANSI sequences; all empty when colors are off.
type palette struct {
	blue, green, yellow, red, reset string
}

func newPalette(enabled bool) palette {
	if !enabled {
		return palette{}
	}
	return palette{
		blue:   "\033[1;94m",
		green:  "\033[1;92m",
		yellow: "\033[1;93m",
		red:    "\033[1;91m",
		reset:  "\033[0m",
	}
}

// Output handles formatted output with verbose and progress support.
// It implements renamer.ReportSink.
type Output struct {
	config     Config
	colors     palette
	bar        *progressbar.ProgressBar
	progressMu sync.Mutex
}

// New creates a new Output instance with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{
		config: config,
		colors: newPalette(config.Color),
	}
}

// DefaultConfig returns a Config with sensible defaults and TTY detection.
// Colors follow the terminal unless NO_COLOR is set or TERM is "dumb".
func DefaultConfig() Config {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	return Config{
		Verbose:   false,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		IsTTY:     isTTY,
		Color: isTTY &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb",
	}
}

// Verbose prints a message only when verbose mode is enabled.
func (o *Output) Verbose(format string, args ...interface{}) {
	if !o.config.Verbose {
		return
	}
	o.write(o.config.Writer, fmt.Sprintf(format, args...))
}

// Info prints an informational message (always shown).
func (o *Output) Info(format string, args ...interface{}) {
	o.write(o.config.Writer, fmt.Sprintf(format, args...))
}

// Warn prints a warning to stderr.
func (o *Output) Warn(format string, args ...interface{}) {
	o.write(o.config.ErrWriter, o.colors.yellow+"Warning:"+o.colors.reset+" "+fmt.Sprintf(format, args...))
}

// Error prints an error message to stderr.
func (o *Output) Error(format string, args ...interface{}) {
	o.write(o.config.ErrWriter, fmt.Sprintf(format, args...))
}

func (o *Output) write(w io.Writer, msg string) {
	o.clearProgressLine()
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(w, msg)
}

// Banner prints the enabled run modes between two rules.
// Nothing is printed when modes is empty.
func (o *Output) Banner(modes []string) {
	if len(modes) == 0 {
		return
	}
	rule := o.colors.yellow + strings.Repeat("-", 100) + o.colors.reset
	o.Info("%s", rule)
	for _, mode := range modes {
		o.Info("%s%s%s", o.colors.yellow, mode, o.colors.reset)
	}
	o.Info("%s", rule)
}

// Report prints one outcome. Renames and skips appear only in verbose mode;
// failures are always shown.
func (o *Output) Report(outcome renamer.Outcome) {
	c := o.colors
	switch outcome.State {
	case renamer.StateRenamed, renamer.StateSimulated:
		marker := ""
		if outcome.State == renamer.StateSimulated {
			marker = " " + c.yellow + "Dry-run mode enabled." + c.reset
		}
		o.Verbose("%-10s: %s%s%s -> %s%s%s%s", "File",
			c.blue, outcome.SourcePath, c.reset,
			c.green, filepath.Base(outcome.TargetPath), c.reset,
			marker)

	case renamer.StateSkipped:
		if outcome.Plan == nil {
			return
		}
		switch outcome.Plan.Reason {
		case planner.SkipDirectory:
			o.Verbose("%-10s: %s%s%s", "Directory", c.blue, outcome.SourcePath, c.reset)
		case planner.SkipAlreadyStamped:
			detail := "already stamped"
			if !outcome.Plan.StampedAt.IsZero() {
				detail = "stamped " + outcome.Plan.StampedAt.Format("2006-01-02 15:04:05")
			}
			o.Verbose("%-10s: %s (%s)", "Skip", outcome.SourcePath, detail)
		}

	case renamer.StateNotFound:
		o.Error("%s%-10s%s: %s", c.red, "Not found", c.reset, outcome.SourcePath)

	case renamer.StateFailed:
		o.Error("%s%-10s%s: %s: %v", c.red, "Failed", c.reset, outcome.SourcePath, outcome.Err)
	}
}

// Problem prints a path that could not be processed at all.
func (o *Output) Problem(path string, err error) {
	c := o.colors
	var scanErr *scanner.ScanError
	if errors.As(err, &scanErr) && scanErr.Type == scanner.DirectoryNotFound {
		o.Error("%sFile not found%s: %s", c.red, c.reset, path)
		return
	}
	o.Error("%s%-10s%s: %s: %v", c.red, "Error", c.reset, path, err)
}

// clearProgressLine clears the current progress line if active.
func (o *Output) clearProgressLine() {
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	if o.bar != nil {
		_ = o.bar.Clear()
	}
}

// StartProgress begins a progress indicator session.
func (o *Output) StartProgress(total int, description string) {
	// Suppress progress when not TTY or when verbose mode is enabled
	if !o.config.IsTTY || o.config.Verbose {
		return
	}
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	o.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(o.config.Writer),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// Advance moves the progress indicator forward by one entry.
func (o *Output) Advance() {
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	if o.bar == nil {
		return
	}
	_ = o.bar.Add(1)
}

// EndProgress clears the progress indicator.
func (o *Output) EndProgress() {
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	if o.bar == nil {
		return
	}
	_ = o.bar.Finish()
	_ = o.bar.Clear()
	o.bar = nil
}

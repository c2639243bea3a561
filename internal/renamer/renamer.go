// Package renamer applies rename plans for stampname.
package renamer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"stampname/internal/planner"
)

// RenameErrorType represents the type of rename error.
type RenameErrorType string

const (
	// SourceNotFound indicates the source file disappeared before the rename.
	SourceNotFound RenameErrorType = "SOURCE_NOT_FOUND"
	// DestinationExists indicates a file already exists at the target path.
	DestinationExists RenameErrorType = "DESTINATION_EXISTS"
	// PermissionDenied indicates insufficient permissions for the rename.
	PermissionDenied RenameErrorType = "PERMISSION_DENIED"
	// RenameFailed covers every other rename failure, cross-device included.
	RenameFailed RenameErrorType = "RENAME_FAILED"
)

// RenameError represents an error that occurred while renaming a file.
type RenameError struct {
	Type RenameErrorType
	Path string
	Err  error
}

func (e *RenameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *RenameError) Unwrap() error {
	return e.Err
}

// State is the terminal state of one entry.
type State string

const (
	StateSkipped   State = "SKIPPED"
	StateSimulated State = "SIMULATED"
	StateRenamed   State = "RENAMED"
	StateFailed    State = "FAILED"
	StateNotFound  State = "NOT_FOUND"
)

// Outcome records what happened to one entry.
type Outcome struct {
	SourcePath string
	TargetPath string
	State      State
	Plan       *planner.RenamePlan // nil when planning itself failed
	Err        error
}

// IsError returns true if the entry ended in a failure state.
func (o Outcome) IsError() bool {
	return o.State == StateFailed || o.State == StateNotFound
}

// ReportSink receives every outcome as soon as it is known.
type ReportSink interface {
	Report(outcome Outcome)
}

// Execute applies plan, or only simulates it when dryRun is set, and
// reports the outcome to sink. A nil sink discards reports.
//
// Failures never panic or abort; they come back as FAILED or NOT_FOUND
// outcomes with a *RenameError.
func Execute(plan *planner.RenamePlan, dryRun bool, sink ReportSink) Outcome {
	outcome := execute(plan, dryRun)
	if sink != nil {
		sink.Report(outcome)
	}
	return outcome
}

// Failed builds the outcome for an entry whose plan could not be made,
// reports it to sink and returns it.
func Failed(sourcePath string, err error, sink ReportSink) Outcome {
	outcome := Outcome{
		SourcePath: sourcePath,
		State:      StateFailed,
		Err:        err,
	}
	if sink != nil {
		sink.Report(outcome)
	}
	return outcome
}

// NotFound builds the NOT_FOUND outcome for an entry that vanished before
// it could be renamed, reports it to sink and returns it.
func NotFound(sourcePath string, err error, sink ReportSink) Outcome {
	outcome := Outcome{
		SourcePath: sourcePath,
		State:      StateNotFound,
		Err:        &RenameError{Type: SourceNotFound, Path: sourcePath, Err: err},
	}
	if sink != nil {
		sink.Report(outcome)
	}
	return outcome
}

func execute(plan *planner.RenamePlan, dryRun bool) Outcome {
	outcome := Outcome{
		SourcePath: plan.SourcePath,
		TargetPath: plan.TargetPath,
		Plan:       plan,
	}

	if plan.IsSkip() {
		outcome.State = StateSkipped
		return outcome
	}

	if dryRun {
		outcome.State = StateSimulated
		return outcome
	}

	// Check the source is still there
	if _, err := os.Lstat(plan.SourcePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			outcome.State = StateNotFound
			outcome.Err = &RenameError{Type: SourceNotFound, Path: plan.SourcePath, Err: err}
			return outcome
		}
		outcome.State = StateFailed
		outcome.Err = classifyError(plan.SourcePath, err)
		return outcome
	}

	// os.Rename replaces an existing target on POSIX, so refuse up front.
	if _, err := os.Lstat(plan.TargetPath); err == nil {
		outcome.State = StateFailed
		outcome.Err = &RenameError{Type: DestinationExists, Path: plan.TargetPath, Err: fs.ErrExist}
		return outcome
	}

	if err := os.Rename(plan.SourcePath, plan.TargetPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			outcome.State = StateNotFound
			outcome.Err = &RenameError{Type: SourceNotFound, Path: plan.SourcePath, Err: err}
			return outcome
		}
		outcome.State = StateFailed
		outcome.Err = classifyError(plan.SourcePath, err)
		return outcome
	}

	outcome.State = StateRenamed
	return outcome
}

func classifyError(path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return &RenameError{Type: PermissionDenied, Path: path, Err: err}
	}
	return &RenameError{Type: RenameFailed, Path: path, Err: err}
}

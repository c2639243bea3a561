// Package planner decides how each scanned entry should be renamed.
package planner

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"stampname/internal/birthtime"
	"stampname/internal/scanner"
	"stampname/internal/stamp"
)

// PlanErrorType represents the type of planning error.
type PlanErrorType string

const (
	// MetadataReadError indicates the creation time could not be read.
	MetadataReadError PlanErrorType = "METADATA_READ_ERROR"
	// InvalidName indicates the normalized name is not a usable file name.
	InvalidName PlanErrorType = "INVALID_NAME"
)

// PlanError represents an error that occurred while planning a rename.
type PlanError struct {
	Type PlanErrorType
	Path string
	Err  error
}

func (e *PlanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *PlanError) Unwrap() error {
	return e.Err
}

// SkipReason explains why a plan has no target.
type SkipReason string

const (
	SkipDirectory      SkipReason = "DIRECTORY"
	SkipAlreadyStamped SkipReason = "ALREADY_STAMPED"
)

// RenamePlan describes what should happen to one entry.
// An empty TargetPath means the entry is left alone.
type RenamePlan struct {
	SourcePath string
	TargetPath string
	Reason     SkipReason
	StampedAt  time.Time // Parsed existing stamp; zero if absent or not a real date
}

// IsSkip returns true if the plan performs no rename.
func (p *RenamePlan) IsSkip() bool {
	return p.TargetPath == ""
}

// TimeSource provides file creation times.
type TimeSource interface {
	CreationTime(path string) (time.Time, error)
}

// TimeSourceFunc adapts a function to TimeSource.
type TimeSourceFunc func(path string) (time.Time, error)

// CreationTime calls f(path).
func (f TimeSourceFunc) CreationTime(path string) (time.Time, error) {
	return f(path)
}

// Planner turns candidate entries into rename plans.
type Planner struct {
	times    TimeSource
	location *time.Location
}

// New creates a Planner reading creation times from times and formatting
// them in local time. A nil times uses the filesystem.
func New(times TimeSource) *Planner {
	if times == nil {
		times = birthtime.NewReader()
	}
	return &Planner{
		times:    times,
		location: time.Local,
	}
}

// WithLocation returns a copy of p that formats stamps in loc.
func (p *Planner) WithLocation(loc *time.Location) *Planner {
	cp := *p
	cp.location = loc
	return &cp
}

// Plan decides the rename for a single entry.
//
// Directories and names that already carry a stamp prefix (after NFKC
// normalization) are skipped. Anything else gets its creation time as a
// prefix on the normalized name, in the same parent directory.
func (p *Planner) Plan(entry scanner.CandidateEntry) (*RenamePlan, error) {
	plan := &RenamePlan{SourcePath: entry.OriginalPath}

	if entry.IsDirectory {
		plan.Reason = SkipDirectory
		return plan, nil
	}

	name := entry.NormalizedName
	if stamp.HasPrefix(name) {
		plan.Reason = SkipAlreadyStamped
		if at, err := stamp.Parse(name, p.location); err == nil {
			plan.StampedAt = at
		}
		return plan, nil
	}

	// NFKC can fold characters such as U+FF0F into a separator.
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/`+string(filepath.Separator)) {
		return nil, &PlanError{
			Type: InvalidName,
			Path: entry.OriginalPath,
			Err:  fmt.Errorf("normalized name %q is not a valid file name", name),
		}
	}

	created, err := p.times.CreationTime(entry.OriginalPath)
	if err != nil {
		return nil, &PlanError{
			Type: MetadataReadError,
			Path: entry.OriginalPath,
			Err:  err,
		}
	}

	plan.TargetPath = filepath.Join(filepath.Dir(entry.OriginalPath), stamp.Apply(created.In(p.location), name))
	return plan, nil
}

package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"stampname/internal/renamer"
)

// Problem is a path that could not be processed at all: a missing root or
// a directory that could not be listed.
type Problem struct {
	Path string
	Err  error
}

// Summary contains statistics and per-entry outcomes of a run.
type Summary struct {
	DryRun    bool
	Total     int // Entries visited, directories included
	Renamed   int
	Simulated int
	Skipped   int
	Failed    int
	NotFound  int
	Results   []renamer.Outcome
	Problems  []Problem
	Duration  time.Duration
}

func newSummary(dryRun bool) *Summary {
	return &Summary{
		DryRun:   dryRun,
		Results:  make([]renamer.Outcome, 0),
		Problems: make([]Problem, 0),
	}
}

func (s *Summary) record(outcome renamer.Outcome) {
	s.Results = append(s.Results, outcome)
	s.Total++
	switch outcome.State {
	case renamer.StateRenamed:
		s.Renamed++
	case renamer.StateSimulated:
		s.Simulated++
	case renamer.StateSkipped:
		s.Skipped++
	case renamer.StateNotFound:
		s.NotFound++
	default:
		s.Failed++
	}
}

func (s *Summary) addProblem(path string, err error) {
	s.Problems = append(s.Problems, Problem{Path: path, Err: err})
}

// HasErrors returns true if any entry failed or any path could not be read.
func (s *Summary) HasErrors() bool {
	return s.Failed > 0 || s.NotFound > 0 || len(s.Problems) > 0
}

// PrintSummary returns a formatted summary string.
func (s *Summary) PrintSummary() string {
	var b strings.Builder
	if s.DryRun {
		fmt.Fprintf(&b, "Processed %d entries: %d would be renamed, %d skipped, %d errors",
			s.Total, s.Simulated, s.Skipped, s.Failed+s.NotFound)
	} else {
		fmt.Fprintf(&b, "Processed %d entries: %d renamed, %d skipped, %d errors",
			s.Total, s.Renamed, s.Skipped, s.Failed+s.NotFound)
	}
	if len(s.Problems) > 0 {
		fmt.Fprintf(&b, " (%d paths could not be read)", len(s.Problems))
	}
	return b.String()
}

// Package orchestrator coordinates the rename workflow for stampname.
package orchestrator

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"stampname/internal/planner"
	"stampname/internal/renamer"
	"stampname/internal/scanner"
)

// RenameRequest is the validated input of one run. It is not modified
// while the run is in progress.
type RenameRequest struct {
	Roots     []string
	Recursive bool
	DryRun    bool
	Verbose   bool // Run does not read it; the Reporter owns verbosity
}

// Reporter receives everything a run has to say while it runs.
type Reporter interface {
	renamer.ReportSink
	Problem(path string, err error)
	StartProgress(total int, description string)
	Advance()
	EndProgress()
}

// Options holds the collaborators of a run. Zero values are usable.
type Options struct {
	Planner       *planner.Planner // nil reads real creation times in local time
	Reporter      Reporter         // nil discards all reports
	SymlinkPolicy string           // empty means scanner.SymlinkPolicyFollow
}

// Run processes every root in order and returns the summary.
//
// A missing or unreadable root is recorded as a problem and the next root
// is processed. Within a root, each entry is planned and executed before
// the next one is looked at, and a failing entry never stops the batch.
func Run(req RenameRequest, opts Options) *Summary {
	start := time.Now()

	p := opts.Planner
	if p == nil {
		p = planner.New(nil)
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = discard{}
	}

	scanOpts := scanner.DefaultScanOptions()
	scanOpts.Recursive = req.Recursive
	if opts.SymlinkPolicy != "" {
		scanOpts.SymlinkPolicy = opts.SymlinkPolicy
	}

	summary := newSummary(req.DryRun)
	for _, root := range req.Roots {
		processRoot(root, req, scanOpts, p, reporter, summary)
	}

	summary.Duration = time.Since(start)
	return summary
}

func processRoot(root string, req RenameRequest, scanOpts scanner.ScanOptions, p *planner.Planner, reporter Reporter, summary *Summary) {
	result, err := scanner.Walk(root, scanOpts)
	if err != nil {
		summary.addProblem(root, err)
		reporter.Problem(root, err)
		return
	}

	for _, scanErr := range result.Errors {
		path := root
		var se *scanner.ScanError
		if errors.As(scanErr, &se) {
			path = se.Path
		}
		summary.addProblem(path, scanErr)
		reporter.Problem(path, scanErr)
	}

	reporter.StartProgress(len(result.Entries), fmt.Sprintf("Stamping %s", root))
	defer reporter.EndProgress()

	for _, entry := range result.Entries {
		summary.record(processEntry(entry, req.DryRun, p, reporter))
		reporter.Advance()
	}
}

// processEntry plans and executes a single entry.
func processEntry(entry scanner.CandidateEntry, dryRun bool, p *planner.Planner, sink renamer.ReportSink) renamer.Outcome {
	plan, err := p.Plan(entry)
	if err != nil {
		// The entry was deleted after the walk listed it.
		var planErr *planner.PlanError
		if errors.As(err, &planErr) && planErr.Type == planner.MetadataReadError && errors.Is(err, fs.ErrNotExist) {
			return renamer.NotFound(entry.OriginalPath, err, sink)
		}
		return renamer.Failed(entry.OriginalPath, err, sink)
	}
	return renamer.Execute(plan, dryRun, sink)
}

type discard struct{}

func (discard) Report(renamer.Outcome)    {}
func (discard) Problem(string, error)     {}
func (discard) StartProgress(int, string) {}
func (discard) Advance()                  {}
func (discard) EndProgress()              {}

// Package aggregator drives one complete reporting pass: it iterates the
// analysis units sequentially, feeds per-unit writers and statistics,
// collects issues globally, deduplicates them, applies the filter chain
// per issue and streams the survivors to every issue writer. The lint
// side-channel is processed as an independent stream with the same chain
// but no deduplication.
package aggregator

import (
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/sieve-report/sieve/internal/dedup"
	"github.com/sieve-report/sieve/internal/filter"
	"github.com/sieve-report/sieve/internal/format"
	"github.com/sieve-report/sieve/internal/hash"
	"github.com/sieve-report/sieve/internal/lint"
	"github.com/sieve-report/sieve/internal/model"
	"github.com/sieve-report/sieve/internal/store"
)

// Runner holds the collaborators of one run. Statistics and the issue
// list are freshly constructed per run and discarded after the output is
// flushed.
type Runner struct {
	store      *store.Store
	lint       lint.Results
	chain      *filter.Chain
	dispatcher *format.Dispatcher
	stats      *model.RunStatistics
	logger     hclog.Logger
}

// New assembles a Runner. SourceDir is used only for run metadata.
func New(st *store.Store, lintResults lint.Results, chain *filter.Chain, disp *format.Dispatcher, sourceDir string, logger hclog.Logger) *Runner {
	stats := &model.RunStatistics{}
	StampRunMeta(stats, sourceDir)
	return &Runner{
		store:      st,
		lint:       lintResults,
		chain:      chain,
		dispatcher: disp,
		stats:      stats,
		logger:     logger,
	}
}

// Stats exposes the run statistics, fully populated only after Run.
func (r *Runner) Stats() *model.RunStatistics { return r.stats }

// Run executes the whole pass. Any load failure aborts the run; opened
// streams are still finalized best-effort so no header or array is left
// unterminated.
func (r *Runner) Run() error {
	names, err := r.store.List()
	if err != nil {
		r.dispatcher.Abort(r.stats)
		return err
	}

	var collected []model.Issue
	for _, name := range names {
		unit, err := r.store.Load(name)
		if err != nil {
			r.dispatcher.Abort(r.stats)
			return err
		}

		status := r.classify(unit)
		r.accumulate(unit, status)

		if err := r.dispatcher.WriteUnit(unit, status); err != nil {
			r.dispatcher.Abort(r.stats)
			return err
		}

		collected = append(collected, model.Extract(unit)...)
	}

	// Per-unit formats finalize only after the last unit.
	if err := r.dispatcher.FinalizeUnits(); err != nil {
		r.dispatcher.Abort(r.stats)
		return err
	}

	kept, pruned := dedup.Reduce(collected)
	if pruned > 0 {
		r.logger.Debug("pruned duplicate issues", "count", pruned, "kept", len(kept))
	}

	for i := range kept {
		if err := r.emit(&kept[i]); err != nil {
			r.dispatcher.Abort(r.stats)
			return err
		}
	}

	// Lint issues are already procedure-unique, so they bypass global
	// deduplication and stream straight to the issue writers.
	procNames := r.lint.ProcNames()
	sort.Strings(procNames)
	for _, proc := range procNames {
		issues := r.lint.Issues(proc)
		for i := range issues {
			if err := r.emit(&issues[i]); err != nil {
				r.dispatcher.Abort(r.stats)
				return err
			}
		}
	}

	if err := r.dispatcher.FinalizeIssues(); err != nil {
		r.dispatcher.Abort(r.stats)
		return err
	}

	// Stats finalize last: their footers need the full accumulation.
	if err := r.dispatcher.FinalizeStats(r.stats); err != nil {
		return err
	}

	r.logger.Info("run completed",
		"procedures", r.stats.TotalProcs,
		"verified", r.stats.Verified,
		"checked", r.stats.Checked,
		"defective", r.stats.Defective,
		"timeouts", r.stats.Timeouts)
	return nil
}

// classify computes the unit's verdict. A unit is defective iff the
// filter chain accepts at least one ERROR-kind footprint finding from it;
// verified iff it has specs and is not defective; checked otherwise.
// Timeout is an independent flag: any failure marker except a crash.
func (r *Runner) classify(unit *model.AnalysisUnit) format.UnitStatus {
	pf := r.chain.ForProcedure(unit.ProcName)

	status := format.UnitStatus{
		Timeout:    unit.Failure != "" && unit.Failure != model.FailureCrash,
		LintErrors: len(r.lint[unit.ProcName]),
	}

	for _, f := range unit.Findings {
		if f.Key.InFootprint && f.Key.Kind == model.KindError {
			status.FootprintErrors++
			iss := model.Issue{
				ProcName:     unit.ProcName,
				ProcID:       unit.ProcID,
				ProcLocation: unit.Location,
				Key:          f.Key,
				Data:         f.Data,
			}
			if r.chain.Accept(pf, &iss) {
				status.Defective = true
			}
		}
	}

	status.Verified = unit.SpecCount > 0 && !status.Defective
	status.Checked = !status.Verified
	return status
}

// accumulate folds one unit into the run statistics.
func (r *Runner) accumulate(unit *model.AnalysisUnit, status format.UnitStatus) {
	r.stats.TotalProcs++
	r.stats.TotalSpecs += unit.SpecCount
	if status.Verified {
		r.stats.Verified++
	} else {
		r.stats.Checked++
	}
	if status.Defective {
		r.stats.Defective++
	}
	if status.Timeout {
		r.stats.Timeouts++
	}
	for _, f := range unit.Findings {
		r.stats.CountFinding(f.Key)
	}
}

// emit applies the per-procedure filter chain to one issue and hands the
// resolved record to every issue writer that accepts it. The censorship
// reason is computed regardless of the other gates so JSON output carries
// it; text output drops censored findings while filtering is enabled.
func (r *Runner) emit(iss *model.Issue) error {
	pf := r.chain.ForProcedure(iss.ProcName)
	if !r.chain.Eligible(pf, iss) {
		return nil
	}

	reason := r.chain.CensorReason(iss.Key.Type.ID, iss.Data.Location.File)
	rec := Resolve(iss, reason)

	for _, target := range r.dispatcher.IssueTargets() {
		if target.Format == format.FormatText && !r.chain.TextEligible(reason) {
			continue
		}
		if err := target.Writer.WriteIssue(rec); err != nil {
			return err
		}
	}
	return nil
}

// Resolve derives the serializable record for one issue: the stable hash,
// the resolved qualifier and the flattened trace.
func Resolve(iss *model.Issue, censoredReason string) *model.BugRecord {
	qualifier := iss.Qualifier()
	return &model.BugRecord{
		BugClass:           iss.Data.BugClass,
		Kind:               iss.Key.Kind,
		BugType:            iss.Key.Type.ID,
		Qualifier:          qualifier,
		Severity:           iss.Key.Severity,
		Visibility:         iss.Data.Visibility,
		Line:               iss.Data.Location.Line,
		Column:             iss.Data.Location.Column,
		Procedure:          iss.ProcName,
		ProcedureID:        iss.ProcID,
		ProcedureStartLine: iss.ProcLocation.Line,
		File:               iss.Data.Location.File,
		BugTrace:           model.FlattenTrace(iss.Data.Trace),
		Key:                iss.Data.NodeKey,
		Hash: hash.Compute(
			iss.Key.Kind,
			iss.Key.Type.ID,
			iss.ProcName,
			iss.Data.Location.File,
			qualifier,
		),
		Dotty:          iss.Data.Dotty,
		BugTypeHum:     iss.Key.Type.Human,
		LintersDefFile: iss.Data.LintersDefFile,
		DocURL:         iss.Data.DocURL,
		CensoredReason: censoredReason,
		Access:         iss.Data.Access,
	}
}

// Package format owns the output side of a run: the capability table
// routing (report kind, format kind) pairs to writers, and the writers
// themselves. Every writer follows the same lifecycle: the stream is
// opened and its header written before the run, items are written
// incrementally, and Close writes the footer and releases the stream.
package format

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/sieve-report/sieve/internal/model"
	"github.com/sieve-report/sieve/pkg/shared/errors"
)

// ReportKind selects what is being reported.
type ReportKind string

const (
	ReportIssues  ReportKind = "issues"
	ReportProcs   ReportKind = "procs"
	ReportStats   ReportKind = "stats"
	ReportSummary ReportKind = "summary"
)

// FormatKind selects the encoding of a report.
type FormatKind string

const (
	FormatJSON  FormatKind = "json"
	FormatCSV   FormatKind = "csv"
	FormatLogs  FormatKind = "logs"
	FormatTests FormatKind = "tests"
	FormatText  FormatKind = "text"
	FormatSarif FormatKind = "sarif"
)

// Target is one requested output: a report kind rendered in a format kind
// to a destination path.
type Target struct {
	Report ReportKind
	Format FormatKind
}

// UnitStatus is the classification of one analysis unit, computed by the
// aggregator and rendered by per-unit writers.
type UnitStatus struct {
	Verified        bool
	Checked         bool
	Defective       bool
	Timeout         bool
	FootprintErrors int
	LintErrors      int
}

// IssueWriter emits one stream of bug records.
type IssueWriter interface {
	WriteHeader() error
	WriteIssue(rec *model.BugRecord) error
	Close() error
}

// UnitWriter emits one item per analysis unit.
type UnitWriter interface {
	WriteHeader() error
	WriteUnit(unit *model.AnalysisUnit, status UnitStatus) error
	Close() error
}

// StatsWriter emits the run-wide aggregate once, at the end of the run.
type StatsWriter interface {
	WriteHeader() error
	WriteStats(stats *model.RunStatistics) error
	Close() error
}

// IssueTarget pairs an open issue writer with its format so callers can
// apply format-specific gating (text output suppresses censored findings).
type IssueTarget struct {
	Format FormatKind
	Writer IssueWriter
}

// Dispatcher validates requested targets against the capability table,
// owns the opened streams for the run's duration, and enforces the
// finalization order: per-unit writers, then issue writers, then stats.
type Dispatcher struct {
	logger hclog.Logger

	issues []IssueTarget
	units  []UnitWriter
	stats  []StatsWriter

	unitsClosed  bool
	issuesClosed bool
	statsClosed  bool
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger hclog.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// openFunc constructs a writer over an opened file and registers it.
type openFunc func(d *Dispatcher, f *os.File) error

// capabilities is the full dispatch table. A pair absent from this map is
// unimplemented by policy; requesting it is a fatal internal error, never
// a silent no-op. Issues×Tests is deliberately absent: the tests format
// consumes an already-flattened report via the replay pathway only.
var capabilities = map[Target]openFunc{
	{ReportIssues, FormatJSON}: func(d *Dispatcher, f *os.File) error {
		return d.addIssueWriter(FormatJSON, newJSONIssueWriter(f))
	},
	{ReportIssues, FormatText}: func(d *Dispatcher, f *os.File) error {
		return d.addIssueWriter(FormatText, newTextIssueWriter(f))
	},
	{ReportIssues, FormatSarif}: func(d *Dispatcher, f *os.File) error {
		return d.addIssueWriter(FormatSarif, newSarifIssueWriter(f))
	},
	{ReportProcs, FormatCSV}: func(d *Dispatcher, f *os.File) error {
		return d.addUnitWriter(newProcsCSVWriter(f))
	},
	{ReportSummary, FormatText}: func(d *Dispatcher, f *os.File) error {
		return d.addUnitWriter(newSummaryWriter(f))
	},
	{ReportStats, FormatCSV}: func(d *Dispatcher, f *os.File) error {
		return d.addStatsWriter(newStatsCSVWriter(f))
	},
	{ReportStats, FormatLogs}: func(d *Dispatcher, f *os.File) error {
		return d.addStatsWriter(newStatsLogsWriter(f))
	},
}

// Supported reports whether a writer exists for the pair.
func Supported(target Target) bool {
	_, ok := capabilities[target]
	return ok
}

// Open validates the target against the capability table, opens the
// destination file and registers the writer with its header written.
func (d *Dispatcher) Open(target Target, path string) error {
	open, ok := capabilities[target]
	if !ok {
		return errors.NewInternalError("no writer implemented for report %q in format %q", target.Report, target.Format)
	}
	if path == "" {
		return fmt.Errorf("report %q in format %q requested without a destination", target.Report, target.Format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open output %q: %w", path, err)
	}
	if err := open(d, f); err != nil {
		f.Close()
		return fmt.Errorf("initialize output %q: %w", path, err)
	}
	d.logger.Debug("output stream opened", "report", target.Report, "format", target.Format, "path", path)
	return nil
}

func (d *Dispatcher) addIssueWriter(kind FormatKind, w IssueWriter) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	d.issues = append(d.issues, IssueTarget{Format: kind, Writer: w})
	return nil
}

func (d *Dispatcher) addUnitWriter(w UnitWriter) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	d.units = append(d.units, w)
	return nil
}

func (d *Dispatcher) addStatsWriter(w StatsWriter) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	d.stats = append(d.stats, w)
	return nil
}

// IssueTargets returns the open issue streams.
func (d *Dispatcher) IssueTargets() []IssueTarget { return d.issues }

// WriteUnit hands one analysis unit to every per-unit writer.
func (d *Dispatcher) WriteUnit(unit *model.AnalysisUnit, status UnitStatus) error {
	for _, w := range d.units {
		if err := w.WriteUnit(unit, status); err != nil {
			return err
		}
	}
	return nil
}

// FinalizeUnits closes the per-unit writers. Called once after the last
// unit has been processed.
func (d *Dispatcher) FinalizeUnits() error {
	if d.unitsClosed {
		return nil
	}
	d.unitsClosed = true
	for _, w := range d.units {
		if err := w.Close(); err != nil {
			return err
		}
	}
	return nil
}

// FinalizeIssues closes the issue writers. Called after global
// deduplication and the lint pass have streamed all records.
func (d *Dispatcher) FinalizeIssues() error {
	if d.issuesClosed {
		return nil
	}
	d.issuesClosed = true
	for _, t := range d.issues {
		if err := t.Writer.Close(); err != nil {
			return err
		}
	}
	return nil
}

// FinalizeStats writes the fully accumulated statistics and closes the
// stats writers. Must run last.
func (d *Dispatcher) FinalizeStats(stats *model.RunStatistics) error {
	if d.statsClosed {
		return nil
	}
	d.statsClosed = true
	for _, w := range d.stats {
		if err := w.WriteStats(stats); err != nil {
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
	}
	return nil
}

// Abort closes every stream that is still open, best-effort, so that
// partially-written arrays and headers are terminated even when the run
// fails midway. Errors are logged, not returned.
func (d *Dispatcher) Abort(stats *model.RunStatistics) {
	if err := d.FinalizeUnits(); err != nil {
		d.logger.Error("failed to finalize per-unit outputs", "error", err)
	}
	if err := d.FinalizeIssues(); err != nil {
		d.logger.Error("failed to finalize issue outputs", "error", err)
	}
	if err := d.FinalizeStats(stats); err != nil {
		d.logger.Error("failed to finalize stats outputs", "error", err)
	}
}

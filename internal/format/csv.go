package format

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/sieve-report/sieve/internal/model"
)

// procsHeader is the fixed column set of the per-procedure CSV report.
var procsHeader = []string{
	"name",
	"name_id",
	"specs",
	"termination",
	"sym_ops",
	"footprint_errors",
	"verified",
	"checked",
	"defective",
	"timeout",
	"file",
	"line",
	"start_line",
	"signature",
	"visibility",
	"lint_errors",
	"flags",
	"proof_trace",
}

// procsCSVWriter emits the header once, then one row per analyzed
// procedure. encoding/csv handles quoting and comma escaping.
type procsCSVWriter struct {
	closer io.Closer
	cw     *csv.Writer
}

func newProcsCSVWriter(w io.WriteCloser) *procsCSVWriter {
	return &procsCSVWriter{closer: w, cw: csv.NewWriter(w)}
}

func (pw *procsCSVWriter) WriteHeader() error {
	return pw.cw.Write(procsHeader)
}

func (pw *procsCSVWriter) WriteUnit(unit *model.AnalysisUnit, status UnitStatus) error {
	termination := "completed"
	if unit.Failure != "" {
		termination = unit.Failure
	}

	row := []string{
		unit.ProcName,
		unit.ProcID,
		strconv.Itoa(unit.SpecCount),
		termination,
		strconv.Itoa(unit.SymOps),
		strconv.Itoa(status.FootprintErrors),
		boolColumn(status.Verified),
		boolColumn(status.Checked),
		boolColumn(status.Defective),
		boolColumn(status.Timeout),
		unit.Location.File,
		strconv.Itoa(unit.Location.Line),
		strconv.Itoa(unit.Location.Line),
		unit.Signature,
		visibilityColumn(unit),
		strconv.Itoa(status.LintErrors),
		flagsColumn(status),
		proofTrace(unit.VisitedLines),
	}
	return pw.cw.Write(row)
}

func (pw *procsCSVWriter) Close() error {
	pw.cw.Flush()
	if err := pw.cw.Error(); err != nil {
		pw.closer.Close()
		return err
	}
	return pw.closer.Close()
}

func boolColumn(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// visibilityColumn picks the visibility of the unit's first finding; the
// column is informational and empty when the unit is clean.
func visibilityColumn(unit *model.AnalysisUnit) string {
	if len(unit.Findings) == 0 {
		return ""
	}
	return unit.Findings[0].Data.Visibility
}

func flagsColumn(status UnitStatus) string {
	var flags []string
	if status.Defective {
		flags = append(flags, "defective")
	}
	if status.Timeout {
		flags = append(flags, "timeout")
	}
	return strings.Join(flags, " ")
}

// proofTrace renders the visited line set as space-joined sorted numbers.
func proofTrace(lines []int) string {
	sorted := make([]int, len(lines))
	copy(sorted, lines)
	sort.Ints(sorted)

	parts := make([]string, 0, len(sorted))
	for _, l := range sorted {
		parts = append(parts, strconv.Itoa(l))
	}
	return strings.Join(parts, " ")
}

// statsHeader is the column set of the aggregate statistics CSV.
var statsHeader = []string{
	"run_id",
	"commit",
	"branch",
	"total_procs",
	"total_specs",
	"verified",
	"checked",
	"defective",
	"timeouts",
	"errors",
	"warnings",
	"infos",
}

// statsCSVWriter reports the run aggregate as a single row, written at
// finalization once the statistics are complete.
type statsCSVWriter struct {
	closer io.Closer
	cw     *csv.Writer
}

func newStatsCSVWriter(w io.WriteCloser) *statsCSVWriter {
	return &statsCSVWriter{closer: w, cw: csv.NewWriter(w)}
}

func (sw *statsCSVWriter) WriteHeader() error {
	return sw.cw.Write(statsHeader)
}

func (sw *statsCSVWriter) WriteStats(stats *model.RunStatistics) error {
	row := []string{
		stats.RunID,
		stats.Commit,
		stats.Branch,
		strconv.Itoa(stats.TotalProcs),
		strconv.Itoa(stats.TotalSpecs),
		strconv.Itoa(stats.Verified),
		strconv.Itoa(stats.Checked),
		strconv.Itoa(stats.Defective),
		strconv.Itoa(stats.Timeouts),
		strconv.Itoa(stats.Errors),
		strconv.Itoa(stats.Warnings),
		strconv.Itoa(stats.Infos),
	}
	return sw.cw.Write(row)
}

func (sw *statsCSVWriter) Close() error {
	sw.cw.Flush()
	if err := sw.cw.Error(); err != nil {
		sw.closer.Close()
		return err
	}
	return sw.closer.Close()
}

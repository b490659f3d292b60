package format

import (
	"fmt"
	"io"

	"github.com/sieve-report/sieve/internal/model"
)

// summaryWriter dumps a short textual block per analyzed procedure.
type summaryWriter struct {
	w io.WriteCloser
}

func newSummaryWriter(w io.WriteCloser) *summaryWriter {
	return &summaryWriter{w: w}
}

func (sw *summaryWriter) WriteHeader() error { return nil }

func (sw *summaryWriter) WriteUnit(unit *model.AnalysisUnit, status UnitStatus) error {
	verdict := "checked"
	switch {
	case status.Defective:
		verdict = "defective"
	case status.Verified:
		verdict = "verified"
	}
	if status.Timeout {
		verdict += " (timeout)"
	}

	_, err := fmt.Fprintf(sw.w, "procedure %s (%s:%d)\n  specs: %d, sym ops: %d, findings: %d, verdict: %s\n",
		unit.ProcName, unit.Location.File, unit.Location.Line,
		unit.SpecCount, unit.SymOps, len(unit.Findings), verdict)
	return err
}

func (sw *summaryWriter) Close() error {
	return sw.w.Close()
}

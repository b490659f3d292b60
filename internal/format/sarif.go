package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/sieve-report/sieve/internal/model"
)

// sarifIssueWriter renders bug records as a SARIF 2.1.0 run. SARIF needs
// the rule table assembled before results can be serialized, so records
// are buffered and the document is written at Close.
type sarifIssueWriter struct {
	w       io.WriteCloser
	records []*model.BugRecord
}

func newSarifIssueWriter(w io.WriteCloser) *sarifIssueWriter {
	return &sarifIssueWriter{w: w}
}

func (sw *sarifIssueWriter) WriteHeader() error { return nil }

func (sw *sarifIssueWriter) WriteIssue(rec *model.BugRecord) error {
	sw.records = append(sw.records, rec)
	return nil
}

func (sw *sarifIssueWriter) Close() error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		sw.w.Close()
		return fmt.Errorf("create sarif report: %w", err)
	}

	run := sarif.NewRunWithInformationURI("sieve", "https://github.com/sieve-report/sieve")

	seenRules := map[string]bool{}
	for _, rec := range sw.records {
		if !seenRules[rec.BugType] {
			rule := run.AddRule(rec.BugType)
			if rec.BugTypeHum != "" {
				rule.WithDescription(rec.BugTypeHum)
			}
			if rec.DocURL != "" {
				rule.WithHelpURI(rec.DocURL)
			}
			seenRules[rec.BugType] = true
		}

		result := run.CreateResultForRule(rec.BugType).
			WithLevel(sarifLevel(rec.Kind)).
			WithMessage(sarif.NewTextMessage(rec.Qualifier))
		result.AddLocation(
			sarif.NewLocationWithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewSimpleArtifactLocation(rec.File)).
					WithRegion(sarif.NewSimpleRegion(rec.Line, rec.Line)),
			),
		)
		result.PartialFingerprints = map[string]interface{}{"sieveHash": rec.Hash}
		if rec.CensoredReason != "" {
			result.Properties = sarif.Properties{"censoredReason": rec.CensoredReason}
		}
	}

	report.AddRun(run)
	if err := report.Write(sw.w); err != nil {
		sw.w.Close()
		return fmt.Errorf("write sarif report: %w", err)
	}
	return sw.w.Close()
}

// sarifLevel maps finding kinds onto SARIF result levels.
func sarifLevel(kind string) string {
	switch strings.ToUpper(kind) {
	case model.KindError:
		return "error"
	case model.KindWarning:
		return "warning"
	case model.KindInfo, model.KindAdvice, model.KindLike:
		return "note"
	default:
		return "none"
	}
}

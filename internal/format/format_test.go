package format

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	goerrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/sieve-report/sieve/internal/model"
	sieveerrors "github.com/sieve-report/sieve/pkg/shared/errors"
)

type closeBuffer struct {
	bytes.Buffer
	closed bool
}

func (b *closeBuffer) Close() error {
	b.closed = true
	return nil
}

func sampleRecord(typeID, file string, line int) *model.BugRecord {
	return &model.BugRecord{
		BugClass:   "PROVER",
		Kind:       model.KindError,
		BugType:    typeID,
		BugTypeHum: strings.ReplaceAll(strings.ToLower(typeID), "_", " "),
		Qualifier:  "pointer p may be null",
		Severity:   "HIGH",
		Visibility: "user",
		Line:       line,
		Column:     2,
		Procedure:  "handler",
		File:       file,
		BugTrace:   []model.FlatTraceStep{},
		Hash:       "deadbeef",
	}
}

func TestJSONWriterEmptyArray(t *testing.T) {
	buf := &closeBuffer{}
	w := newJSONIssueWriter(buf)

	if err := w.WriteHeader(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	var records []model.BugRecord
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("zero-item output is not valid JSON: %v\noutput: %s", err, buf.String())
	}
	if len(records) != 0 {
		t.Fatalf("expected empty array, got %d records", len(records))
	}
	if !buf.closed {
		t.Fatal("expected Close to close the underlying stream")
	}
}

func TestJSONWriterCommaPlacement(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		buf := &closeBuffer{}
		w := newJSONIssueWriter(buf)
		if err := w.WriteHeader(); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < n; i++ {
			if err := w.WriteIssue(sampleRecord("NULL_DEREFERENCE", "a.c", 10+i)); err != nil {
				t.Fatal(err)
			}
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}

		var records []model.BugRecord
		if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
			t.Fatalf("%d-item output is not valid JSON: %v", n, err)
		}
		if len(records) != n {
			t.Fatalf("expected %d records, got %d", n, len(records))
		}
	}
}

func TestTextWriterLineShape(t *testing.T) {
	buf := &closeBuffer{}
	w := newTextIssueWriter(buf)

	if err := w.WriteIssue(sampleRecord("NULL_DEREFERENCE", "src/a.c", 12)); err != nil {
		t.Fatal(err)
	}
	w.Close()

	want := "src/a.c:12: ERROR: NULL_DEREFERENCE pointer p may be null\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

func TestTestsWriterProjection(t *testing.T) {
	buf := &closeBuffer{}
	w, err := NewTestsWriter(buf, []string{"bug_type", "file", "hash"})
	if err != nil {
		t.Fatal(err)
	}

	rec := sampleRecord("NULL_DEREFERENCE", "src/a.c", 12)
	if err := w.WriteIssue(rec); err != nil {
		t.Fatal(err)
	}
	w.Close()

	want := "NULL_DEREFERENCE, src/a.c, deadbeef\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

func TestTestsWriterEscapesValues(t *testing.T) {
	buf := &closeBuffer{}
	w, err := NewTestsWriter(buf, []string{"qualifier"})
	if err != nil {
		t.Fatal(err)
	}

	rec := sampleRecord("NULL_DEREFERENCE", "a.c", 1)
	rec.Qualifier = `value "p", read at offset, may be null`
	if err := w.WriteIssue(rec); err != nil {
		t.Fatal(err)
	}
	w.Close()

	want := `"value ""p"", read at offset, may be null"` + "\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

func TestTestsWriterRejectsUnknownField(t *testing.T) {
	if _, err := NewTestsWriter(&closeBuffer{}, []string{"no_such_field"}); err == nil {
		t.Fatal("expected an error for an unknown projection field")
	}
	if _, err := NewTestsWriter(&closeBuffer{}, nil); err == nil {
		t.Fatal("expected an error for an empty projection")
	}
}

func TestProcsCSVHeaderAndEscaping(t *testing.T) {
	buf := &closeBuffer{}
	w := newProcsCSVWriter(buf)

	if err := w.WriteHeader(); err != nil {
		t.Fatal(err)
	}
	unit := &model.AnalysisUnit{
		ProcName:     "handler",
		ProcID:       "handler.1",
		Signature:    `void handler(struct req *r, int flags)`,
		Location:     model.Location{File: "src/a.c", Line: 40},
		SpecCount:    2,
		SymOps:       512,
		VisitedLines: []int{44, 41, 42},
	}
	if err := w.WriteUnit(unit, UnitStatus{Verified: true, FootprintErrors: 0}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(rows))
	}
	if len(rows[0]) != 18 {
		t.Fatalf("expected 18 header columns, got %d", len(rows[0]))
	}
	if rows[0][0] != "name" || rows[0][17] != "proof_trace" {
		t.Fatalf("unexpected header boundaries: %q ... %q", rows[0][0], rows[0][17])
	}
	if rows[1][17] != "41 42 44" {
		t.Fatalf("expected sorted space-joined proof trace, got %q", rows[1][17])
	}
}

func TestStatsCSVSingleAggregateRow(t *testing.T) {
	buf := &closeBuffer{}
	w := newStatsCSVWriter(buf)

	if err := w.WriteHeader(); err != nil {
		t.Fatal(err)
	}
	stats := &model.RunStatistics{
		RunID:      "run-1",
		TotalProcs: 10,
		TotalSpecs: 14,
		Verified:   6,
		Checked:    4,
		Defective:  2,
		Timeouts:   1,
	}
	if err := w.WriteStats(stats); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus a single aggregate row, got %d rows", len(rows))
	}
	if rows[1][3] != "10" || rows[1][5] != "6" {
		t.Fatalf("unexpected aggregate row: %v", rows[1])
	}
}

func TestStatsLogsSingleEvent(t *testing.T) {
	buf := &closeBuffer{}
	w := newStatsLogsWriter(buf)

	stats := &model.RunStatistics{RunID: "run-1", TotalProcs: 3, Verified: 2, Checked: 1}
	if err := w.WriteStats(stats); err != nil {
		t.Fatal(err)
	}
	w.Close()

	out := buf.String()
	if !strings.HasPrefix(out, "event=run_stats run_id=run-1 ") {
		t.Fatalf("unexpected event line: %q", out)
	}
	if !strings.Contains(out, "total_procs=3") || !strings.Contains(out, "verified=2") {
		t.Fatalf("event line is missing counters: %q", out)
	}
}

func TestSarifWriterProducesValidRun(t *testing.T) {
	buf := &closeBuffer{}
	w := newSarifIssueWriter(buf)

	if err := w.WriteHeader(); err != nil {
		t.Fatal(err)
	}
	first := sampleRecord("NULL_DEREFERENCE", "src/a.c", 12)
	first.CensoredReason = "flaky"
	if err := w.WriteIssue(first); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteIssue(sampleRecord("NULL_DEREFERENCE", "src/b.c", 7)); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteIssue(sampleRecord("MEMORY_LEAK", "src/a.c", 30)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID              string            `json:"ruleId"`
				Level               string            `json:"level"`
				PartialFingerprints map[string]string `json:"partialFingerprints"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid SARIF JSON: %v", err)
	}
	if doc.Version != "2.1.0" {
		t.Fatalf("expected SARIF 2.1.0, got %q", doc.Version)
	}
	if len(doc.Runs) != 1 || doc.Runs[0].Tool.Driver.Name != "sieve" {
		t.Fatalf("unexpected run structure: %+v", doc.Runs)
	}
	if len(doc.Runs[0].Tool.Driver.Rules) != 2 {
		t.Fatalf("expected one rule per distinct bug type, got %d", len(doc.Runs[0].Tool.Driver.Rules))
	}
	if len(doc.Runs[0].Results) != 3 {
		t.Fatalf("expected one result per record, got %d", len(doc.Runs[0].Results))
	}
	if doc.Runs[0].Results[0].Level != "error" {
		t.Fatalf("expected ERROR kind to map to level error, got %q", doc.Runs[0].Results[0].Level)
	}
	if doc.Runs[0].Results[0].PartialFingerprints["sieveHash"] != "deadbeef" {
		t.Fatalf("expected the stable hash as a partial fingerprint, got %v", doc.Runs[0].Results[0].PartialFingerprints)
	}
	if !buf.closed {
		t.Fatal("expected Close to close the underlying stream")
	}
}

func TestDispatcherRejectsUnsupportedPairing(t *testing.T) {
	d := NewDispatcher(hclog.NewNullLogger())
	path := filepath.Join(t.TempDir(), "out.csv")

	err := d.Open(Target{Report: ReportIssues, Format: FormatCSV}, path)
	var internal *sieveerrors.InternalError
	if !goerrors.As(err, &internal) {
		t.Fatalf("expected an internal error for issues×csv, got %v", err)
	}

	// The tests format only exists on the replay pathway.
	err = d.Open(Target{Report: ReportIssues, Format: FormatTests}, path)
	if !goerrors.As(err, &internal) {
		t.Fatalf("expected an internal error for live issues×tests, got %v", err)
	}

	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatal("rejected target must not leave a file behind")
	}
}

func TestDispatcherLifecycle(t *testing.T) {
	dir := t.TempDir()
	d := NewDispatcher(hclog.NewNullLogger())

	jsonPath := filepath.Join(dir, "report.json")
	if err := d.Open(Target{Report: ReportIssues, Format: FormatJSON}, jsonPath); err != nil {
		t.Fatal(err)
	}
	statsPath := filepath.Join(dir, "stats.csv")
	if err := d.Open(Target{Report: ReportStats, Format: FormatCSV}, statsPath); err != nil {
		t.Fatal(err)
	}

	if err := d.FinalizeUnits(); err != nil {
		t.Fatal(err)
	}
	if err := d.FinalizeIssues(); err != nil {
		t.Fatal(err)
	}
	if err := d.FinalizeStats(&model.RunStatistics{RunID: "run-1"}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var records []model.BugRecord
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("issue stream with zero items must still be a valid array: %v", err)
	}
}

func TestParseKinds(t *testing.T) {
	if _, err := ParseReportKind("issues"); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseReportKind("bugs"); err == nil {
		t.Fatal("expected unknown report kind to fail")
	}
	if _, err := ParseFormatKind("sarif"); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseFormatKind("xml"); err == nil {
		t.Fatal("expected unknown format kind to fail")
	}
}

package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sieve-report/sieve/internal/model"
)

// testFields names every field a tests-format projection may select,
// keyed by the serialized report's field names.
var testFields = map[string]func(rec *model.BugRecord) string{
	"bug_class":            func(r *model.BugRecord) string { return r.BugClass },
	"kind":                 func(r *model.BugRecord) string { return r.Kind },
	"bug_type":             func(r *model.BugRecord) string { return r.BugType },
	"bug_type_hum":         func(r *model.BugRecord) string { return r.BugTypeHum },
	"qualifier":            func(r *model.BugRecord) string { return r.Qualifier },
	"severity":             func(r *model.BugRecord) string { return r.Severity },
	"visibility":           func(r *model.BugRecord) string { return r.Visibility },
	"line":                 func(r *model.BugRecord) string { return strconv.Itoa(r.Line) },
	"column":               func(r *model.BugRecord) string { return strconv.Itoa(r.Column) },
	"procedure":            func(r *model.BugRecord) string { return r.Procedure },
	"procedure_id":         func(r *model.BugRecord) string { return r.ProcedureID },
	"procedure_start_line": func(r *model.BugRecord) string { return strconv.Itoa(r.ProcedureStartLine) },
	"file":                 func(r *model.BugRecord) string { return r.File },
	"key":                  func(r *model.BugRecord) string { return strconv.Itoa(r.Key) },
	"hash":                 func(r *model.BugRecord) string { return r.Hash },
	"linters_def_file":     func(r *model.BugRecord) string { return r.LintersDefFile },
	"doc_url":              func(r *model.BugRecord) string { return r.DocURL },
	"censored_reason":      func(r *model.BugRecord) string { return r.CensoredReason },
	"access":               func(r *model.BugRecord) string { return r.Access },
}

// TestsWriter renders a columnar projection of bug records: the declared
// fields, in declared order, joined with ", ". It consumes already
// flattened records only, so it is driven by the replay pathway rather
// than a live error log.
type TestsWriter struct {
	w      io.WriteCloser
	fields []string
}

// NewTestsWriter validates the declared field names and returns a writer.
func NewTestsWriter(w io.WriteCloser, fields []string) (*TestsWriter, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("tests format requires at least one field")
	}
	for _, f := range fields {
		if _, ok := testFields[f]; !ok {
			return nil, fmt.Errorf("unknown report field %q", f)
		}
	}
	return &TestsWriter{w: w, fields: fields}, nil
}

func (tw *TestsWriter) WriteHeader() error { return nil }

func (tw *TestsWriter) WriteIssue(rec *model.BugRecord) error {
	values := make([]string, 0, len(tw.fields))
	for _, f := range tw.fields {
		values = append(values, csvEscape(testFields[f](rec)))
	}
	_, err := fmt.Fprintln(tw.w, strings.Join(values, ", "))
	return err
}

func (tw *TestsWriter) Close() error {
	return tw.w.Close()
}

// csvEscape quotes a value when it contains a comma, quote or newline,
// doubling embedded quotes.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

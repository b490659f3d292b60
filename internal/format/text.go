package format

import (
	"fmt"
	"io"

	"github.com/sieve-report/sieve/internal/model"
)

// textIssueWriter emits one line per issue:
// file:line: kind: type qualifier
type textIssueWriter struct {
	w io.WriteCloser
}

func newTextIssueWriter(w io.WriteCloser) *textIssueWriter {
	return &textIssueWriter{w: w}
}

// NewTextWriter exposes the text issue writer to the replay pathway.
func NewTextWriter(w io.WriteCloser) IssueWriter {
	return newTextIssueWriter(w)
}

func (tw *textIssueWriter) WriteHeader() error { return nil }

func (tw *textIssueWriter) WriteIssue(rec *model.BugRecord) error {
	_, err := fmt.Fprintf(tw.w, "%s:%d: %s: %s %s\n",
		rec.File, rec.Line, rec.Kind, rec.BugType, rec.Qualifier)
	return err
}

func (tw *textIssueWriter) Close() error {
	return tw.w.Close()
}

package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sieve-report/sieve/internal/model"
)

// jsonIssueWriter streams bug records as a single JSON array. The comma
// placement state is owned per writer instance: the first item is
// unmarked, every later item is preceded by a comma, and Close always
// terminates the array even when nothing was written.
type jsonIssueWriter struct {
	w     io.WriteCloser
	count int
}

func newJSONIssueWriter(w io.WriteCloser) *jsonIssueWriter {
	return &jsonIssueWriter{w: w}
}

func (jw *jsonIssueWriter) WriteHeader() error {
	_, err := io.WriteString(jw.w, "[")
	return err
}

func (jw *jsonIssueWriter) WriteIssue(rec *model.BugRecord) error {
	if jw.count > 0 {
		if _, err := io.WriteString(jw.w, ","); err != nil {
			return err
		}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal bug record: %w", err)
	}
	if _, err := jw.w.Write(data); err != nil {
		return err
	}
	jw.count++
	return nil
}

func (jw *jsonIssueWriter) Close() error {
	if _, err := io.WriteString(jw.w, "]\n"); err != nil {
		jw.w.Close()
		return err
	}
	return jw.w.Close()
}

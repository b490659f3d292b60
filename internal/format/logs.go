package format

import (
	"fmt"
	"io"

	"github.com/sieve-report/sieve/internal/model"
)

// statsLogsWriter reports the run aggregate as a single event-log line of
// key=value pairs, suitable for ingestion into log pipelines.
type statsLogsWriter struct {
	w io.WriteCloser
}

func newStatsLogsWriter(w io.WriteCloser) *statsLogsWriter {
	return &statsLogsWriter{w: w}
}

func (lw *statsLogsWriter) WriteHeader() error { return nil }

func (lw *statsLogsWriter) WriteStats(stats *model.RunStatistics) error {
	_, err := fmt.Fprintf(lw.w,
		"event=run_stats run_id=%s commit=%q branch=%q total_procs=%d total_specs=%d verified=%d checked=%d defective=%d timeouts=%d errors=%d warnings=%d infos=%d\n",
		stats.RunID, stats.Commit, stats.Branch,
		stats.TotalProcs, stats.TotalSpecs,
		stats.Verified, stats.Checked, stats.Defective, stats.Timeouts,
		stats.Errors, stats.Warnings, stats.Infos)
	return err
}

func (lw *statsLogsWriter) Close() error {
	return lw.w.Close()
}

package report

import (
	"testing"

	"github.com/sieve-report/sieve/internal/format"
)

func TestValidateReportArgs(t *testing.T) {
	t.Run("missing results dir", func(t *testing.T) {
		opts := &RunOptions{Outputs: []string{"issues:json:out.json"}}
		_, err := validateReportArgs(opts)
		if err == nil || err.Error() != "the 'results-dir' argument is required" {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing outputs", func(t *testing.T) {
		opts := &RunOptions{ResultsDir: "results"}
		_, err := validateReportArgs(opts)
		if err == nil || err.Error() != "at least one 'output' argument is required" {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("duplicate output target", func(t *testing.T) {
		opts := &RunOptions{
			ResultsDir: "results",
			Outputs:    []string{"issues:json:a.json", "issues:json:b.json"},
		}
		if _, err := validateReportArgs(opts); err == nil {
			t.Fatal("expected error for a target requested twice")
		}
	})

	t.Run("valid options", func(t *testing.T) {
		opts := &RunOptions{
			ResultsDir: "results",
			Outputs:    []string{"issues:json:report.json", "stats:csv:stats.csv"},
		}
		targets, err := validateReportArgs(opts)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(targets) != 2 {
			t.Fatalf("expected 2 targets, got %d", len(targets))
		}
	})
}

func TestParseOutputSpec(t *testing.T) {
	t.Run("malformed spec", func(t *testing.T) {
		_, err := parseOutputSpec("issues:json")
		if err == nil || err.Error() != `malformed output "issues:json" (expected REPORT:FORMAT:PATH)` {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("unknown report kind", func(t *testing.T) {
		if _, err := parseOutputSpec("bugs:json:out.json"); err == nil {
			t.Fatal("expected error for unknown report kind")
		}
	})

	t.Run("unknown format kind", func(t *testing.T) {
		if _, err := parseOutputSpec("issues:xml:out.xml"); err == nil {
			t.Fatal("expected error for unknown format kind")
		}
	})

	t.Run("empty destination path", func(t *testing.T) {
		if _, err := parseOutputSpec("issues:json:"); err == nil {
			t.Fatal("expected error for missing destination")
		}
	})

	t.Run("path with colons", func(t *testing.T) {
		target, err := parseOutputSpec("issues:json:C:/reports/out.json")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if target.Path != "C:/reports/out.json" {
			t.Fatalf("unexpected path %q", target.Path)
		}
		if target.Target != (format.Target{Report: format.ReportIssues, Format: format.FormatJSON}) {
			t.Fatalf("unexpected target %+v", target.Target)
		}
	})

	t.Run("unimplemented pairing parses", func(t *testing.T) {
		// Structurally valid pairings are the dispatcher's concern.
		target, err := parseOutputSpec("issues:csv:out.csv")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if format.Supported(target.Target) {
			t.Fatal("issues:csv must not be in the capability table")
		}
	})
}

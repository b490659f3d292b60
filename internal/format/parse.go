package format

import "fmt"

// ParseReportKind maps a CLI/config token onto a ReportKind.
func ParseReportKind(s string) (ReportKind, error) {
	switch ReportKind(s) {
	case ReportIssues, ReportProcs, ReportStats, ReportSummary:
		return ReportKind(s), nil
	default:
		return "", fmt.Errorf("unknown report kind %q (expected issues, procs, stats or summary)", s)
	}
}

// ParseFormatKind maps a CLI/config token onto a FormatKind.
func ParseFormatKind(s string) (FormatKind, error) {
	switch FormatKind(s) {
	case FormatJSON, FormatCSV, FormatLogs, FormatTests, FormatText, FormatSarif:
		return FormatKind(s), nil
	default:
		return "", fmt.Errorf("unknown format kind %q (expected json, csv, logs, tests, text or sarif)", s)
	}
}

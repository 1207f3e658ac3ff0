package regression

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"perfgate/internal/baseline"
)

// glyph maps a status to its table marker.
func glyph(s Status) string {
	switch s {
	case StatusFail:
		return "✗ FAIL"
	case StatusWarn:
		return "⚠ WARN"
	default:
		return "✓ OK"
	}
}

// FormatTable renders the full comparison table for terminal output.
func FormatTable(result Result, b baseline.Baseline) string {
	var sb strings.Builder
	sb.WriteString("\nPerformance Comparison:\n")
	sb.WriteString(strings.Repeat("=", 78) + "\n")
	sb.WriteString(fmt.Sprintf("%-20s %12s %12s %12s  %s\n", "Metric", "Current", "Baseline", "Change", "Status"))
	sb.WriteString(strings.Repeat("-", 78) + "\n")

	for _, e := range result.Entries {
		change := fmt.Sprintf("%+.1f%%", e.Change)
		if e.Comparison == AbsolutePoints {
			change = fmt.Sprintf("%+.1fpt", e.Change)
		}
		if e.Comparison == RelativePercent && e.Baseline == 0 {
			change = "n/a"
		}
		sb.WriteString(fmt.Sprintf("%-20s %12.1f %12.1f %12s  %s\n",
			e.Label, e.Current, e.Baseline, change, glyph(e.Status)))
	}

	sb.WriteString(strings.Repeat("=", 78) + "\n")
	commit := b.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	sb.WriteString(fmt.Sprintf("\nBaseline from: %s (commit: %s)\n",
		b.Timestamp.Format(time.RFC3339), commit))
	return sb.String()
}

// FormatFindings lists the breached rules, failures first.
func FormatFindings(result Result) string {
	var sb strings.Builder

	if len(result.Failures) > 0 {
		sb.WriteString(fmt.Sprintf("\n✗ Performance regression detected (%d failure(s)):\n", len(result.Failures)))
		for _, e := range result.Failures {
			sb.WriteString("  - " + e.Reason + "\n")
		}
	}
	if len(result.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠ Performance warnings (%d warning(s)):\n", len(result.Warnings)))
		for _, e := range result.Warnings {
			sb.WriteString("  - " + e.Reason + "\n")
		}
	}
	if len(result.Failures) == 0 && len(result.Warnings) == 0 {
		sb.WriteString("\n✓ Performance check PASSED - no regressions detected\n")
	}
	return sb.String()
}

// FormatCI emits GitHub Actions annotations for breached rules.
func FormatCI(result Result) string {
	var sb strings.Builder
	for _, e := range result.Failures {
		sb.WriteString(fmt.Sprintf("::error title=Performance regression::%s\n", e.Reason))
	}
	for _, e := range result.Warnings {
		sb.WriteString(fmt.Sprintf("::warning title=Performance warning::%s\n", e.Reason))
	}
	return sb.String()
}

// Report is the machine-readable evaluation output.
type Report struct {
	ReportID       string    `json:"reportId"`
	GeneratedAt    time.Time `json:"generatedAt"`
	BaselineTime   time.Time `json:"baselineTime"`
	BaselineCommit string    `json:"baselineCommit"`
	Overall        Status    `json:"overall"`
	Entries        []Entry   `json:"entries"`
	Failures       []Entry   `json:"failures,omitempty"`
	Warnings       []Entry   `json:"warnings,omitempty"`
}

// FormatJSON renders the result as an indented JSON report.
func FormatJSON(result Result, b baseline.Baseline) (string, error) {
	report := Report{
		ReportID:       uuid.NewString(),
		GeneratedAt:    time.Now().UTC(),
		BaselineTime:   b.Timestamp,
		BaselineCommit: b.Commit,
		Overall:        result.Overall,
		Entries:        result.Entries,
		Failures:       result.Failures,
		Warnings:       result.Warnings,
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ExitCode maps an evaluation outcome to the process exit code: FAIL is
// always 1, WARN is 1 only in strict mode, PASS is 0.
func ExitCode(result Result, strict bool) int {
	switch result.Overall {
	case StatusFail:
		return 1
	case StatusWarn:
		if strict {
			return 1
		}
	}
	return 0
}

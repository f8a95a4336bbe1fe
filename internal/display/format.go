// Package display formats analysis results for the terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/hzhou/blast/internal/report"
	"github.com/hzhou/blast/internal/risk"
)

// SeverityIcon returns the terminal marker for a severity label.
func SeverityIcon(s risk.Severity) string {
	switch s {
	case risk.SeverityHigh:
		return "🔴"
	case risk.SeverityMedium:
		return "🟡"
	default:
		return "🟢"
	}
}

// FormatRun renders the run summary the analyze command prints.
func FormatRun(run *report.Run) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Impact analysis: %s\n", titleOrDash(run.Title))
	fmt.Fprintf(&sb, "Changed files: %d | Impacted: %d | Severity: %s %s\n\n",
		len(run.ChangedFiles), len(run.Impacted),
		SeverityIcon(run.MaxSeverity()), run.MaxSeverity())

	if run.LowConfidence {
		sb.WriteString("⚠️  no changed file mapped to a known service (low confidence result)\n\n")
	}
	if run.Degraded {
		sb.WriteString("⚠️  embedding provider unavailable, evidence ranked lexically\n\n")
	}
	if len(run.Impacted) == 0 {
		sb.WriteString("No impacted services.\n")
		return sb.String()
	}

	// Align the service column.
	width := 0
	for _, rec := range run.Impacted {
		if len(rec.NodeID) > width {
			width = len(rec.NodeID)
		}
	}
	for _, rec := range run.Impacted {
		fmt.Fprintf(&sb, "%s %-6s  %-*s  risk %3d  dist %d\n",
			SeverityIcon(rec.Severity), rec.Severity, width, rec.NodeID,
			rec.RiskEstimate, rec.Distance)
	}
	return sb.String()
}

// FormatEvidence renders the evidence list for one record.
func FormatEvidence(rec *risk.ImpactRecord) string {
	if len(rec.Evidence) == 0 {
		return "(no evidence)\n"
	}
	var sb strings.Builder
	for i, ev := range rec.Evidence {
		fmt.Fprintf(&sb, "[%d] %s:%d-%d  score %.3f\n", i+1, ev.File, ev.StartLine, ev.EndLine, ev.Score)
		snippet := strings.TrimRight(ev.Snippet, "\n")
		if len(snippet) > 400 {
			snippet = snippet[:400] + "…"
		}
		for _, line := range strings.Split(snippet, "\n") {
			fmt.Fprintf(&sb, "    %s\n", line)
		}
	}
	return sb.String()
}

func titleOrDash(title string) string {
	if title == "" {
		return "-"
	}
	return title
}

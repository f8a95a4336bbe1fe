package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/hzhou/blast/internal/risk"
)

// WriteMarkdown renders the run as a PR-comment style markdown report:
// a dashboard header, a mermaid diagram of the impacted subgraph and one
// section per impacted node with its evidence.
func (r *Run) WriteMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "# Impact Analysis: %s\n\n", orUntitled(r.Title))
	fmt.Fprintf(w, "> Generated: %s\n", r.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(w, "> Severity: **%s** | Impacted: %d | Changed files: %d\n\n",
		strings.ToUpper(string(r.MaxSeverity())), len(r.Impacted), len(r.ChangedFiles))

	if r.LowConfidence {
		fmt.Fprintf(w, "> No changed file mapped to a known service; results are low confidence.\n\n")
	}
	if r.Degraded {
		fmt.Fprintf(w, "> Evidence ranked by lexical overlap (embedding provider unavailable).\n\n")
	}

	if len(r.ChangedFiles) > 0 {
		fmt.Fprintf(w, "## Changed Files\n\n")
		for _, f := range r.ChangedFiles {
			fmt.Fprintf(w, "- `%s`\n", f)
		}
		fmt.Fprintln(w)
	}

	if len(r.Edges) > 0 {
		r.writeMermaid(w)
	}

	if len(r.Impacted) > 0 {
		fmt.Fprintf(w, "## Impacted Services\n\n")
		fmt.Fprintf(w, "| Service | Severity | Risk | Distance | Rank | Betweenness |\n")
		fmt.Fprintf(w, "|---------|----------|------|----------|------|-------------|\n")
		for _, rec := range r.Impacted {
			fmt.Fprintf(w, "| %s | %s %s | %d | %d | %.4f | %.4f |\n",
				rec.NodeID, severityIcon(rec.Severity), rec.Severity,
				rec.RiskEstimate, rec.Distance, rec.Rank, rec.Betweenness)
		}
		fmt.Fprintln(w)

		for _, rec := range r.Impacted {
			if len(rec.Evidence) == 0 {
				continue
			}
			fmt.Fprintf(w, "### %s\n\n", rec.NodeID)
			for _, ev := range rec.Evidence {
				fmt.Fprintf(w, "**%s:%d-%d** (score %.3f)\n\n```\n%s\n```\n\n",
					ev.File, ev.StartLine, ev.EndLine, ev.Score, strings.TrimRight(ev.Snippet, "\n"))
			}
		}
	}
	return nil
}

// writeMermaid draws the impacted subgraph. Node IDs are sanitized since
// mermaid identifiers cannot carry dashes followed by digits reliably.
func (r *Run) writeMermaid(w io.Writer) {
	fmt.Fprintf(w, "## Blast Radius\n\n```mermaid\nflowchart LR\n")
	for _, rec := range r.Impacted {
		fmt.Fprintf(w, "    %s[\"%s (%d)\"]\n", mermaidID(rec.NodeID), rec.NodeID, rec.RiskEstimate)
	}
	for _, e := range r.Edges {
		fmt.Fprintf(w, "    %s --> %s\n", mermaidID(e.Source), mermaidID(e.Target))
	}
	fmt.Fprintf(w, "```\n\n")
}

func mermaidID(id string) string {
	return strings.NewReplacer("-", "_", ".", "_", "/", "_").Replace(id)
}

func severityIcon(s risk.Severity) string {
	switch s {
	case risk.SeverityHigh:
		return "🔴"
	case risk.SeverityMedium:
		return "🟡"
	default:
		return "🟢"
	}
}

func orUntitled(title string) string {
	if title == "" {
		return "(untitled change)"
	}
	return title
}

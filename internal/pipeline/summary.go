package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/hzhou/blast/internal/report"
	"github.com/hzhou/blast/internal/retrieval"
)

// Summarize asks the provider for a short reviewer-facing narrative of
// the run. It is strictly additive: callers that skip it lose nothing
// but the prose.
func Summarize(ctx context.Context, provider retrieval.Provider, run *report.Run) (string, error) {
	if provider == nil {
		return "", retrieval.ErrNoProvider
	}
	return provider.Complete(ctx, summaryPrompt(run))
}

// summaryPrompt renders the run compactly: the top records with their
// strongest evidence, capped so the prompt stays small regardless of
// landscape size.
func summaryPrompt(run *report.Run) string {
	var sb strings.Builder
	sb.WriteString("Summarize the change impact below in at most three sentences for a code reviewer.\n")
	fmt.Fprintf(&sb, "Change: %s\n", run.Title)
	fmt.Fprintf(&sb, "Changed files: %s\n", strings.Join(run.ChangedFiles, ", "))

	const maxRecords = 10
	for i, rec := range run.Impacted {
		if i == maxRecords {
			fmt.Fprintf(&sb, "... and %d more\n", len(run.Impacted)-maxRecords)
			break
		}
		fmt.Fprintf(&sb, "- %s: severity %s, risk %d, distance %d\n",
			rec.NodeID, rec.Severity, rec.RiskEstimate, rec.Distance)
		if len(rec.Evidence) > 0 {
			ev := rec.Evidence[0]
			fmt.Fprintf(&sb, "  evidence %s:%d-%d: %s\n",
				ev.File, ev.StartLine, ev.EndLine, firstLine(ev.Snippet))
		}
	}
	return sb.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

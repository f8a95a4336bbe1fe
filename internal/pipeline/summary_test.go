package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hzhou/blast/internal/report"
	"github.com/hzhou/blast/internal/retrieval"
	"github.com/hzhou/blast/internal/risk"
)

func summaryRun() *report.Run {
	return &report.Run{
		Title:        "bump charge timeout",
		ChangedFiles: []string{"payments/app.conf"},
		Impacted: []risk.ImpactRecord{
			{NodeID: "payments", Severity: risk.SeverityHigh, RiskEstimate: 80, Distance: 0,
				Evidence: []risk.EvidenceRef{{File: "payments/app.conf", StartLine: 1, EndLine: 2, Snippet: "charge timeout 5s\nretries 3\n"}}},
			{NodeID: "orders", Severity: risk.SeverityMedium, RiskEstimate: 40, Distance: 1},
		},
	}
}

func TestSummarize(t *testing.T) {
	out, err := Summarize(context.Background(), retrieval.StaticProvider{}, summaryRun())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "static completion:"))
}

func TestSummarizeWithoutProvider(t *testing.T) {
	_, err := Summarize(context.Background(), nil, summaryRun())
	assert.ErrorIs(t, err, retrieval.ErrNoProvider)
}

func TestSummaryPromptContent(t *testing.T) {
	prompt := summaryPrompt(summaryRun())

	assert.Contains(t, prompt, "bump charge timeout")
	assert.Contains(t, prompt, "payments/app.conf")
	assert.Contains(t, prompt, "payments: severity high, risk 80, distance 0")
	assert.Contains(t, prompt, "charge timeout 5s")
	assert.NotContains(t, prompt, "retries 3", "only the first snippet line rides on the prompt")
}

func TestSummaryPromptCapsRecords(t *testing.T) {
	run := &report.Run{}
	for i := 0; i < 15; i++ {
		run.Impacted = append(run.Impacted, risk.ImpactRecord{
			NodeID: "svc-" + string(rune('a'+i)), Severity: risk.SeverityLow,
		})
	}
	prompt := summaryPrompt(run)
	assert.Contains(t, prompt, "... and 5 more")
	assert.NotContains(t, prompt, "svc-"+string(rune('a'+12)))
}

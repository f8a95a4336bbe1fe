package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hzhou/blast/internal/risk"
)

func sampleRun() *Run {
	return &Run{
		ID:           "run-1",
		Timestamp:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Title:        "raise order timeout",
		ChangedFiles: []string{"orders/config.yaml"},
		Impacted: []risk.ImpactRecord{
			{NodeID: "orders", Kind: "service", Distance: 0, Rank: 0.3, RiskEstimate: 78, Severity: risk.SeverityHigh,
				Evidence: []risk.EvidenceRef{{File: "orders/config.yaml", StartLine: 1, EndLine: 3, Score: 0.91, Snippet: "timeout: 10s\n"}}},
			{NodeID: "shipping", Kind: "service", Distance: 1, Rank: 0.1, RiskEstimate: 41, Severity: risk.SeverityMedium},
			{NodeID: "audit-log", Kind: "service", Distance: 2, Rank: 0.05, RiskEstimate: 12, Severity: risk.SeverityLow},
		},
		Edges: []EdgeRef{{Source: "orders", Target: "shipping", Weight: 2}},
	}
}

func TestMaxSeverity(t *testing.T) {
	run := sampleRun()
	assert.Equal(t, risk.SeverityHigh, run.MaxSeverity())

	run.Impacted = run.Impacted[1:]
	assert.Equal(t, risk.SeverityMedium, run.MaxSeverity())

	run.Impacted = run.Impacted[1:]
	assert.Equal(t, risk.SeverityLow, run.MaxSeverity())

	run.Impacted = nil
	assert.Equal(t, risk.SeverityLow, run.MaxSeverity())
}

func TestWriteJSONDeterministic(t *testing.T) {
	run := sampleRun()
	var a, b bytes.Buffer
	require.NoError(t, run.WriteJSON(&a))
	require.NoError(t, run.WriteJSON(&b))
	assert.Equal(t, a.String(), b.String())

	out := a.String()
	assert.Contains(t, out, `"id": "run-1"`)
	assert.Contains(t, out, `"risk_estimate": 78`)
	assert.Contains(t, out, `"degraded_retrieval": false`)
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleRun().WriteMarkdown(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Impact Analysis: raise order timeout"))
	assert.Contains(t, out, "Severity: **HIGH**")
	assert.Contains(t, out, "- `orders/config.yaml`")
	assert.Contains(t, out, "```mermaid")
	assert.Contains(t, out, "orders --> shipping")
	assert.Contains(t, out, `audit_log["audit-log (12)"]`)
	assert.Contains(t, out, "| orders | 🔴 high | 78 | 0 |")
	assert.Contains(t, out, "**orders/config.yaml:1-3** (score 0.910)")
	assert.Contains(t, out, "timeout: 10s")
	assert.NotContains(t, out, "low confidence")
}

func TestWriteMarkdownDegradedNotes(t *testing.T) {
	run := &Run{Degraded: true, LowConfidence: true}
	var buf bytes.Buffer
	require.NoError(t, run.WriteMarkdown(&buf))
	out := buf.String()

	assert.Contains(t, out, "(untitled change)")
	assert.Contains(t, out, "low confidence")
	assert.Contains(t, out, "lexical overlap")
	assert.NotContains(t, out, "## Impacted Services")
}

package display

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hzhou/blast/internal/report"
	"github.com/hzhou/blast/internal/risk"
)

func TestSeverityIcon(t *testing.T) {
	assert.Equal(t, "🔴", SeverityIcon(risk.SeverityHigh))
	assert.Equal(t, "🟡", SeverityIcon(risk.SeverityMedium))
	assert.Equal(t, "🟢", SeverityIcon(risk.SeverityLow))
	assert.Equal(t, "🟢", SeverityIcon("unknown"))
}

func TestFormatRun(t *testing.T) {
	run := &report.Run{
		Title:        "raise timeout",
		ChangedFiles: []string{"payments/app.conf"},
		Impacted: []risk.ImpactRecord{
			{NodeID: "payments", Distance: 0, RiskEstimate: 82, Severity: risk.SeverityHigh},
			{NodeID: "orders", Distance: 1, RiskEstimate: 30, Severity: risk.SeverityLow},
		},
	}
	out := FormatRun(run)

	assert.Contains(t, out, "Impact analysis: raise timeout")
	assert.Contains(t, out, "Severity: 🔴 high")
	assert.Contains(t, out, "payments")
	assert.Contains(t, out, "risk  82")
	assert.Contains(t, out, "dist 1")
	assert.NotContains(t, out, "⚠️")
}

func TestFormatRunEmpty(t *testing.T) {
	out := FormatRun(&report.Run{LowConfidence: true})
	assert.Contains(t, out, "Impact analysis: -")
	assert.Contains(t, out, "low confidence")
	assert.Contains(t, out, "No impacted services.")
}

func TestFormatEvidence(t *testing.T) {
	rec := &risk.ImpactRecord{
		NodeID: "payments",
		Evidence: []risk.EvidenceRef{
			{File: "payments/app.conf", StartLine: 1, EndLine: 2, Score: 0.93, Snippet: "timeout 5s\nretries 3\n"},
		},
	}
	out := FormatEvidence(rec)
	assert.Contains(t, out, "[1] payments/app.conf:1-2  score 0.930")
	assert.Contains(t, out, "    timeout 5s")
	assert.Contains(t, out, "    retries 3")
}

func TestFormatEvidenceTruncatesLongSnippets(t *testing.T) {
	rec := &risk.ImpactRecord{
		Evidence: []risk.EvidenceRef{{File: "f", Snippet: strings.Repeat("x", 600)}},
	}
	out := FormatEvidence(rec)
	assert.Contains(t, out, "…")
	assert.Less(t, len(out), 600)
}

func TestFormatEvidenceEmpty(t *testing.T) {
	assert.Equal(t, "(no evidence)\n", FormatEvidence(&risk.ImpactRecord{}))
}

package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hzhou/blast/internal/impact"
	"github.com/hzhou/blast/internal/retrieval"
)

func defaultScorer() *Scorer {
	return NewScorer(DefaultWeights, DefaultThresholds)
}

func TestScoreBounds(t *testing.T) {
	s := defaultScorer()
	tests := []struct {
		name                        string
		distance                    int
		rank, rankMax, betw, content float64
	}{
		{"all max", 0, 1, 1, 1, 1},
		{"all zero", 100, 0, 0, 0, 0},
		{"out of range inputs", -5, 10, 1, 7, 3},
		{"zero rank max", 1, 0.5, 0, 0.2, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.distance, tt.rank, tt.rankMax, tt.betw, tt.content)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}

	assert.Equal(t, 100, s.Score(0, 1, 1, 1, 1))
}

func TestScoreMonotonicInEachSignal(t *testing.T) {
	s := defaultScorer()
	base := s.Score(2, 0.5, 1, 0.5, 0.5)

	assert.GreaterOrEqual(t, s.Score(1, 0.5, 1, 0.5, 0.5), base, "closer distance")
	assert.GreaterOrEqual(t, s.Score(2, 0.8, 1, 0.5, 0.5), base, "higher rank")
	assert.GreaterOrEqual(t, s.Score(2, 0.5, 1, 0.9, 0.5), base, "higher betweenness")
	assert.GreaterOrEqual(t, s.Score(2, 0.5, 1, 0.5, 0.9), base, "higher content relevance")

	assert.LessOrEqual(t, s.Score(5, 0.5, 1, 0.5, 0.5), base, "farther distance")
}

func TestSeverityThresholds(t *testing.T) {
	s := NewScorer(DefaultWeights, Thresholds{High: 70, Medium: 35})
	tests := []struct {
		estimate int
		want     Severity
	}{
		{0, SeverityLow},
		{34, SeverityLow},
		{35, SeverityMedium},
		{69, SeverityMedium},
		{70, SeverityHigh},
		{100, SeverityHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Severity(tt.estimate), "estimate %d", tt.estimate)
	}
}

func TestNewScorerFallsBackOnInvalidInput(t *testing.T) {
	s := NewScorer(Weights{}, Thresholds{High: 10, Medium: 50})
	assert.Equal(t, DefaultWeights, s.weights)
	assert.Equal(t, DefaultThresholds, s.thresholds)
}

func TestAggregate(t *testing.T) {
	s := defaultScorer()
	records := []*impact.Record{
		{NodeID: "gateway", Distance: 0, Rank: 0.4, Betweenness: 0.8, ComponentID: -1},
		{NodeID: "billing", Distance: 1, Rank: 0.2, Betweenness: 0.1, ComponentID: 0},
		{NodeID: "audit", Distance: 3, Rank: 0.05, Betweenness: 0, ComponentID: -1},
	}
	evidence := map[string]*retrieval.NodeEvidence{
		"gateway": {
			NodeID: "gateway",
			Evidence: []retrieval.Evidence{
				{File: "gw/routes.conf", StartLine: 3, EndLine: 9, Score: 0.9, Snippet: "route /v1/charge"},
				{File: "gw/routes.conf", StartLine: 20, EndLine: 24, Score: 0.4, Snippet: "route /v1/refund"},
			},
		},
		"billing": {NodeID: "billing", Degraded: true, DegradedReason: "no embedding provider configured"},
	}

	out := s.Aggregate(records, evidence)
	require.Len(t, out, 3)

	// Traversal order survives: distance, then node ID.
	assert.Equal(t, "gateway", out[0].NodeID)
	assert.Equal(t, "billing", out[1].NodeID)
	assert.Equal(t, "audit", out[2].NodeID)

	// Nearest, most central, best-supported node scores highest.
	assert.Greater(t, out[0].RiskEstimate, out[1].RiskEstimate)
	assert.Greater(t, out[1].RiskEstimate, out[2].RiskEstimate)

	assert.Len(t, out[0].Evidence, 2)
	assert.False(t, out[0].Degraded)
	assert.True(t, out[1].Degraded)
	assert.Empty(t, out[1].Evidence)
	assert.Equal(t, s.Severity(out[0].RiskEstimate), out[0].Severity)
	assert.Equal(t, 0, out[1].ComponentID)
}

func TestAggregateEmpty(t *testing.T) {
	out := defaultScorer().Aggregate(nil, nil)
	assert.Empty(t, out)
}

func TestAggregateEvidenceCarriesSnippets(t *testing.T) {
	s := defaultScorer()
	records := []*impact.Record{{NodeID: "svc", Distance: 1}}
	evidence := map[string]*retrieval.NodeEvidence{
		"svc": {NodeID: "svc", Evidence: []retrieval.Evidence{
			{File: "svc/cfg", StartLine: 1, EndLine: 4, Score: 0.7, Snippet: "timeout 5s"},
		}},
	}

	out := s.Aggregate(records, evidence)
	require.Len(t, out, 1)
	require.Len(t, out[0].Evidence, 1)
	assert.Equal(t, EvidenceRef{File: "svc/cfg", StartLine: 1, EndLine: 4, Score: 0.7, Snippet: "timeout 5s"}, out[0].Evidence[0])
}

// Package risk folds structural position, traversal distance and
// content relevance into one normalized 0-100 estimate per impacted
// node, plus a discrete severity label. The combination is monotonic in
// every input signal: raising centrality or content relevance, or
// lowering distance, never lowers the estimate.
package risk

import (
	"math"
	"sort"

	"github.com/hzhou/blast/internal/impact"
	"github.com/hzhou/blast/internal/retrieval"
)

// Severity is the discrete label derived from the risk estimate.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Weights balances the three signal families. They need not sum to one;
// scores are normalized by the weight total.
type Weights struct {
	Distance   float64 `yaml:"distance" json:"distance"`
	Centrality float64 `yaml:"centrality" json:"centrality"`
	Content    float64 `yaml:"content" json:"content"`
}

// Thresholds are the severity cut points: estimate >= High is high,
// >= Medium is medium, anything below is low.
type Thresholds struct {
	High   int `yaml:"high" json:"high"`
	Medium int `yaml:"medium" json:"medium"`
}

// Defaults. Operators retune these through configuration; nothing in the
// scoring path hard-codes them.
var (
	DefaultWeights    = Weights{Distance: 0.4, Centrality: 0.35, Content: 0.25}
	DefaultThresholds = Thresholds{High: 70, Medium: 35}
)

// EvidenceRef is one evidence snippet carried on the final record.
type EvidenceRef struct {
	File      string  `json:"file"`
	StartLine int     `json:"start_line"`
	EndLine   int     `json:"end_line"`
	Score     float64 `json:"score"`
	Snippet   string  `json:"snippet"`
}

// ImpactRecord is the per-node hand-off artifact for the reporting
// stage. Field names and ordering are stable; the struct serializes
// directly into the persisted run record.
type ImpactRecord struct {
	NodeID       string        `json:"node_id"`
	Label        string        `json:"label,omitempty"`
	Kind         string        `json:"kind"`
	Distance     int           `json:"distance"`
	Rank         float64       `json:"rank"`
	Betweenness  float64       `json:"betweenness"`
	ComponentID  int           `json:"component_id"`
	RiskEstimate int           `json:"risk_estimate"`
	Severity     Severity      `json:"severity"`
	Degraded     bool          `json:"degraded_retrieval"`
	Evidence     []EvidenceRef `json:"evidence"`
}

// Scorer computes estimates under one weight/threshold configuration.
type Scorer struct {
	weights    Weights
	thresholds Thresholds
}

// NewScorer builds a scorer; zero-valued weights or thresholds fall back
// to the defaults.
func NewScorer(w Weights, t Thresholds) *Scorer {
	if w.Distance <= 0 && w.Centrality <= 0 && w.Content <= 0 {
		w = DefaultWeights
	}
	if t.High <= 0 || t.Medium <= 0 || t.Medium >= t.High {
		t = DefaultThresholds
	}
	return &Scorer{weights: w, thresholds: t}
}

// Score combines the three signals into [0,100].
//
//   - distance: BFS hops from the nearest entry node; contributes as
//     1/(1+d), so closer means higher.
//   - rank is normalized against rankMax (the graph's largest rank) and
//     averaged with betweenness, both already in [0,1].
//   - content: top retrieval similarity, cosine or lexical fraction.
func (s *Scorer) Score(distance int, rank, rankMax, betweenness, content float64) int {
	if distance < 0 {
		distance = 0
	}
	distSignal := 1.0 / float64(1+distance)

	rankNorm := 0.0
	if rankMax > 0 {
		rankNorm = rank / rankMax
	}
	centrality := 0.5*clamp01(rankNorm) + 0.5*clamp01(betweenness)
	contentSignal := clamp01(content)

	w := s.weights
	total := w.Distance + w.Centrality + w.Content
	raw := (w.Distance*distSignal + w.Centrality*centrality + w.Content*contentSignal) / total * 100

	scaled := int(math.Round(raw))
	if scaled < 0 {
		scaled = 0
	}
	if scaled > 100 {
		scaled = 100
	}
	return scaled
}

// Severity maps an estimate to its label under the configured cut points.
func (s *Scorer) Severity(estimate int) Severity {
	switch {
	case estimate >= s.thresholds.High:
		return SeverityHigh
	case estimate >= s.thresholds.Medium:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Aggregate produces the final record set from the traversal skeletons
// and the per-node retrieval results. Output order mirrors the traversal
// order (distance, then node ID), which is already deterministic.
func (s *Scorer) Aggregate(records []*impact.Record, evidence map[string]*retrieval.NodeEvidence) []ImpactRecord {
	rankMax := 0.0
	for _, r := range records {
		if r.Rank > rankMax {
			rankMax = r.Rank
		}
	}

	out := make([]ImpactRecord, 0, len(records))
	for _, r := range records {
		rec := ImpactRecord{
			NodeID:      r.NodeID,
			Label:       r.Label,
			Kind:        string(r.Kind),
			Distance:    r.Distance,
			Rank:        r.Rank,
			Betweenness: r.Betweenness,
			ComponentID: r.ComponentID,
		}

		content := 0.0
		if ev, ok := evidence[r.NodeID]; ok && ev != nil {
			rec.Degraded = ev.Degraded
			for _, e := range ev.Evidence {
				rec.Evidence = append(rec.Evidence, EvidenceRef(e))
			}
			if len(ev.Evidence) > 0 {
				content = ev.Evidence[0].Score
			}
		}

		rec.RiskEstimate = s.Score(r.Distance, r.Rank, rankMax, r.Betweenness, content)
		rec.Severity = s.Severity(rec.RiskEstimate)
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].NodeID < out[j].NodeID
	})
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

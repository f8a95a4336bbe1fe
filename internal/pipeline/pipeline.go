// Package pipeline runs one full analysis: build and enrich the graph,
// traverse downstream impact, retrieve evidence and aggregate risk.
// Each run owns its own graph instance, so nothing here needs locking.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hzhou/blast/internal/changeset"
	"github.com/hzhou/blast/internal/config"
	"github.com/hzhou/blast/internal/graph"
	"github.com/hzhou/blast/internal/impact"
	"github.com/hzhou/blast/internal/report"
	"github.com/hzhou/blast/internal/retrieval"
	"github.com/hzhou/blast/internal/risk"
	"github.com/hzhou/blast/internal/topology"
)

// Inputs collects everything one run consumes. Provider may be nil to
// force lexical retrieval; Cache may be nil for an uncached run.
type Inputs struct {
	Topology *topology.Document
	Changes  *changeset.ChangeSet
	Provider retrieval.Provider
	Cache    retrieval.VectorCache
}

// Run executes the full analysis and returns the serializable run
// record. Configuration and structural errors abort; retrieval
// degradation and an empty impacted set are recorded on the result.
func Run(ctx context.Context, cfg config.Config, in Inputs) (*report.Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if in.Topology == nil {
		return nil, fmt.Errorf("pipeline: topology input is required")
	}
	if in.Changes == nil {
		in.Changes = changeset.FromFiles("", nil)
	}

	g, err := in.Topology.BuildGraph()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	enrich := g.Enrich(cfg.EnrichOptions())
	slog.Debug("graph enriched",
		"nodes", g.NodeCount(), "edges", g.EdgeCount(),
		"iterations", enrich.Iterations, "converged", enrich.Converged,
		"took", time.Since(start))

	traversal := impact.Traverse(g, in.Changes.Files, in.Topology.FileOwners, impact.Options{MaxHops: cfg.MaxHops})

	engine := retrieval.NewEngine(in.Provider, in.Cache, retrieval.Options{
		TopK:             cfg.TopK,
		ChunkSize:        cfg.ChunkSize,
		ChunkOverlap:     cfg.ChunkOverlap,
		EmbeddingEnabled: cfg.EmbeddingEnabled,
		EmbedModel:       cfg.EmbedModel,
		EmbedTimeout:     cfg.EmbedTimeout(),
		Concurrency:      cfg.Concurrency,
	})
	evidence := engine.RetrieveAll(ctx, traversal.Records, in.Topology.Artifacts, in.Changes)

	scorer := risk.NewScorer(cfg.Weights, cfg.Thresholds)
	records := scorer.Aggregate(traversal.Records, evidence)

	run := &report.Run{
		ID:            uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		Title:         in.Changes.Title,
		ChangedFiles:  in.Changes.Files,
		Impacted:      records,
		Edges:         impactedEdges(g, traversal),
		LowConfidence: traversal.LowConfidence,
	}
	for _, ev := range evidence {
		if ev.Degraded {
			run.Degraded = true
			break
		}
	}
	return run, nil
}

// impactedEdges collects the edges whose endpoints are both impacted, in
// the graph's deterministic edge order.
func impactedEdges(g *graph.Graph, traversal *impact.Result) []report.EdgeRef {
	impacted := make(map[string]bool, len(traversal.Records))
	for _, r := range traversal.Records {
		impacted[r.NodeID] = true
	}
	var out []report.EdgeRef
	for _, e := range g.Edges() {
		if e.Source != e.Target && impacted[e.Source] && impacted[e.Target] {
			out = append(out, report.EdgeRef{Source: e.Source, Target: e.Target, Weight: e.Weight})
		}
	}
	return out
}

package graph

import "math"

// Defaults for the rank computation. Damping and tolerance are a
// configuration surface (see internal/config); these are the fallbacks.
const (
	DefaultDamping       = 0.85
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 100
)

// NormMode selects how betweenness scores are normalized.
type NormMode string

const (
	// NormPairs divides by the number of ordered node pairs that can have
	// a path through a third node, (n-1)(n-2). The default.
	NormPairs NormMode = "pairs"
	// NormMax divides by the largest observed raw betweenness, so the
	// most central node always scores 1.
	NormMax NormMode = "max"
)

// EnrichOptions configures the structural metric computation.
type EnrichOptions struct {
	Damping         float64
	Tolerance       float64
	MaxIterations   int
	BetweennessNorm NormMode
}

// DefaultEnrichOptions returns the standard option set.
func DefaultEnrichOptions() EnrichOptions {
	return EnrichOptions{
		Damping:         DefaultDamping,
		Tolerance:       DefaultTolerance,
		MaxIterations:   DefaultMaxIterations,
		BetweennessNorm: NormPairs,
	}
}

func (o *EnrichOptions) applyDefaults() {
	if o.Damping <= 0 || o.Damping >= 1 {
		o.Damping = DefaultDamping
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.BetweennessNorm == "" {
		o.BetweennessNorm = NormPairs
	}
}

// EnrichResult reports how the rank iteration went.
type EnrichResult struct {
	Iterations int
	Converged  bool
	MaxDiff    float64
}

// Enrich populates every node's Rank, Betweenness and ComponentID.
// It is a pure function of graph topology: same graph in, same metrics
// out, regardless of edge insertion order. An empty graph enriches to an
// empty graph without error. After Enrich returns, node attributes are
// treated as immutable for the rest of the run.
func (g *Graph) Enrich(opts EnrichOptions) EnrichResult {
	opts.applyDefaults()
	res := g.computeRank(opts)
	g.computeBetweenness(opts.BetweennessNorm)
	g.computeComponents()
	return res
}

// computeRank runs weighted power iteration with the random-surfer model.
// Sink mass is redistributed evenly so rank does not leak, and iteration
// stops at the convergence tolerance or the iteration cap, whichever
// comes first. Unreachable nodes end up at the damping floor (1-d)/N.
// Self-loops are ignored, matching traversal semantics.
func (g *Graph) computeRank(opts EnrichOptions) EnrichResult {
	n := float64(len(g.order))
	if n == 0 {
		return EnrichResult{Converged: true}
	}

	d := opts.Damping
	scores := make(map[string]float64, len(g.order))
	next := make(map[string]float64, len(g.order))
	for _, id := range g.order {
		scores[id] = 1.0 / n
	}

	// Out-weight per node, self-loops excluded. Nodes with zero out-weight
	// are sinks.
	outWeight := make(map[string]float64, len(g.order))
	var sinks []string
	for _, id := range g.order {
		var w float64
		for _, e := range g.out[id] {
			if e.Target == e.Source {
				continue
			}
			w += e.Weight
		}
		outWeight[id] = w
		if w == 0 {
			sinks = append(sinks, id)
		}
	}

	var iterations int
	var converged bool
	var maxDiff float64

	for iter := 0; iter < opts.MaxIterations; iter++ {
		maxDiff = 0

		sinkMass := 0.0
		for _, id := range sinks {
			sinkMass += scores[id]
		}
		sinkMass = d * sinkMass / n

		for _, id := range g.order {
			score := (1-d)/n + sinkMass
			for _, e := range g.in[id] {
				if e.Source == e.Target {
					continue
				}
				if w := outWeight[e.Source]; w > 0 {
					score += d * scores[e.Source] * e.Weight / w
				}
			}
			next[id] = score
			if diff := math.Abs(score - scores[id]); diff > maxDiff {
				maxDiff = diff
			}
		}

		scores, next = next, scores
		iterations = iter + 1
		if maxDiff < opts.Tolerance {
			converged = true
			break
		}
	}

	for _, id := range g.order {
		g.nodes[id].Rank = scores[id]
	}
	return EnrichResult{Iterations: iterations, Converged: converged, MaxDiff: maxDiff}
}

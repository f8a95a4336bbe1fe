// Package retrieval selects the evidence snippets that justify an
// impact finding. Artifacts are chunked into overlapping windows,
// embedded through a Provider and ranked by cosine similarity against
// the change's diff content; when the provider is unavailable or slow
// the engine degrades to a lexical bag-of-tokens overlap with the same
// bounded, ranked, top-k contract. Retrieval never fails the analysis:
// degradation is recorded on the result, not raised.
package retrieval

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hzhou/blast/internal/changeset"
	"github.com/hzhou/blast/internal/impact"
	"github.com/hzhou/blast/internal/topology"
)

// DefaultTopK bounds evidence per node unless configured otherwise.
const DefaultTopK = 5

// DefaultEmbedTimeout bounds one embedding round trip. On expiry the
// engine falls back to lexical scoring instead of failing the run.
const DefaultEmbedTimeout = 30 * time.Second

// Options configures the engine.
type Options struct {
	TopK             int
	ChunkSize        int
	ChunkOverlap     int
	EmbeddingEnabled bool
	EmbedModel       string // cache key namespace
	EmbedTimeout     time.Duration
	Concurrency      int // parallel node fan-out; 1 disables
}

func (o *Options) applyDefaults() {
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.ChunkOverlap <= 0 {
		o.ChunkOverlap = DefaultChunkOverlap
	}
	if o.EmbedTimeout <= 0 {
		o.EmbedTimeout = DefaultEmbedTimeout
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
}

// Evidence is one ranked snippet with its similarity score in [0,1]
// (cosine in embedding mode, overlap fraction in lexical mode).
type Evidence struct {
	File      string  `json:"file"`
	StartLine int     `json:"start_line"`
	EndLine   int     `json:"end_line"`
	Score     float64 `json:"score"`
	Snippet   string  `json:"snippet"`
}

// NodeEvidence is the retrieval result for one impacted node.
type NodeEvidence struct {
	NodeID         string
	Distance       int
	Degraded       bool
	DegradedReason string
	Evidence       []Evidence
}

// Engine answers top-k evidence queries. Safe for concurrent use as long
// as the VectorCache is.
type Engine struct {
	provider Provider
	cache    VectorCache
	opts     Options
	log      *slog.Logger
}

// NewEngine builds an engine. provider may be nil, which forces the
// lexical path; cache may be nil for an uncached run.
func NewEngine(provider Provider, cache VectorCache, opts Options) *Engine {
	opts.applyDefaults()
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Engine{provider: provider, cache: cache, opts: opts, log: slog.Default()}
}

// RetrieveNode returns up to top-k evidence chunks for one impacted
// node, best effort. distance is the node's path distance from the entry
// set; it participates in the deterministic tie-break.
func (e *Engine) RetrieveNode(ctx context.Context, nodeID string, distance int, artifacts []topology.Artifact, cs *changeset.ChangeSet) *NodeEvidence {
	res := &NodeEvidence{NodeID: nodeID, Distance: distance}

	var chunks []*Chunk
	for _, a := range artifacts {
		chunks = append(chunks, SplitArtifact(nodeID, a.Path, a.Text, e.opts.ChunkSize, e.opts.ChunkOverlap)...)
	}
	if len(chunks) == 0 {
		return res
	}
	query := cs.QueryText()

	var queryVec []float32
	switch {
	case !e.opts.EmbeddingEnabled:
		res.Degraded = true
		res.DegradedReason = "embedding disabled"
	case e.provider == nil:
		res.Degraded = true
		res.DegradedReason = ErrNoProvider.Error()
	default:
		vec, err := e.embedChunks(ctx, query, chunks)
		if err != nil {
			res.Degraded = true
			res.DegradedReason = err.Error()
			e.log.Warn("retrieval degraded to lexical scoring",
				"node", nodeID, "reason", err)
		} else {
			queryVec = vec
		}
	}

	scored := make([]Evidence, 0, len(chunks))
	if res.Degraded {
		queryTokens := Tokenize(query)
		for _, c := range chunks {
			scored = append(scored, Evidence{
				File:      c.File,
				StartLine: c.StartLine,
				EndLine:   c.EndLine,
				Score:     lexicalOverlap(queryTokens, c.Text),
				Snippet:   c.Text,
			})
		}
	} else {
		for _, c := range chunks {
			if c.Vector == nil {
				continue
			}
			scored = append(scored, Evidence{
				File:      c.File,
				StartLine: c.StartLine,
				EndLine:   c.EndLine,
				Score:     clamp01(cosine(queryVec, c.Vector)),
				Snippet:   c.Text,
			})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].File != scored[j].File {
			return scored[i].File < scored[j].File
		}
		return scored[i].StartLine < scored[j].StartLine
	})
	if len(scored) > e.opts.TopK {
		scored = scored[:e.opts.TopK]
	}
	res.Evidence = scored
	return res
}

// RetrieveAll fans retrieval out over the impacted nodes. Per-node work
// is independent, so it may run concurrently; results are collected into
// their record's slot and returned keyed by node ID, so concurrency
// never affects ordering or values. Ties across nodes resolve by the
// node's path distance first, which is why Distance rides on the result.
func (e *Engine) RetrieveAll(ctx context.Context, records []*impact.Record, artifacts map[string][]topology.Artifact, cs *changeset.ChangeSet) map[string]*NodeEvidence {
	results := make([]*NodeEvidence, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			results[i] = e.RetrieveNode(gctx, rec.NodeID, rec.Distance, artifacts[rec.NodeID], cs)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; degradation lives on results

	byNode := make(map[string]*NodeEvidence, len(results))
	for _, r := range results {
		byNode[r.NodeID] = r
	}
	return byNode
}

// embedChunks embeds the query and every chunk, consulting the vector
// cache first. The whole round trip is bounded by the configured
// timeout; any failure reports degradation to the caller.
func (e *Engine) embedChunks(ctx context.Context, query string, chunks []*Chunk) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.EmbedTimeout)
	defer cancel()

	var missing []string
	var missingIdx []int // -1 marks the query
	queryKey := CacheKey(e.opts.EmbedModel, query)
	queryVec, ok := e.cache.Get(queryKey)
	if !ok {
		missing = append(missing, query)
		missingIdx = append(missingIdx, -1)
	}
	for i, c := range chunks {
		if vec, ok := e.cache.Get(CacheKey(e.opts.EmbedModel, c.Text)); ok {
			c.Vector = vec
			continue
		}
		missing = append(missing, c.Text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) > 0 {
		vecs, err := e.provider.Embed(ctx, missing)
		if err != nil {
			return nil, err
		}
		for j, idx := range missingIdx {
			if idx == -1 {
				queryVec = vecs[j]
				e.cache.Put(queryKey, queryVec)
				continue
			}
			chunks[idx].Vector = vecs[j]
			e.cache.Put(CacheKey(e.opts.EmbedModel, chunks[idx].Text), vecs[j])
		}
	}
	return queryVec, nil
}

// lexicalOverlap is the degraded-mode score: the fraction of distinct
// query tokens that appear in the chunk.
func lexicalOverlap(queryTokens []string, text string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	distinct := make(map[string]bool, len(queryTokens))
	for _, t := range queryTokens {
		distinct[t] = true
	}
	chunkTokens := make(map[string]bool)
	for _, t := range Tokenize(text) {
		chunkTokens[t] = true
	}
	var hits int
	for t := range distinct {
		if chunkTokens[t] {
			hits++
		}
	}
	return float64(hits) / float64(len(distinct))
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
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

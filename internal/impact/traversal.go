// Package impact computes the downstream reachable set of a change.
//
// Entry nodes are the units whose files intersect the change set; from
// their union a breadth-first walk follows edge direction and records
// the first (shortest) distance at which each node is reached. The walk
// is cycle safe and deterministic: for a fixed graph and entry set the
// impacted set and every distance are identical across runs and
// independent of edge insertion order.
package impact

import (
	"sort"

	"github.com/hzhou/blast/internal/graph"
)

// Options configures a traversal.
type Options struct {
	// MaxHops bounds traversal depth. 0 means unbounded. Nodes beyond the
	// bound are excluded but do not affect distances of nodes within it.
	MaxHops int
}

// Record is one impacted node with its path distance and the structural
// metrics copied from the enriched graph. It is the skeleton the risk
// aggregator fills in.
type Record struct {
	NodeID      string
	Label       string
	Kind        graph.NodeKind
	Distance    int
	Rank        float64
	Betweenness float64
	ComponentID int
}

// Result is the outcome of one traversal.
type Result struct {
	// Entries holds the entry node IDs, sorted. Empty when no changed
	// file mapped to a known node.
	Entries []string
	// Records holds impacted nodes sorted by distance, then node ID.
	Records []*Record
	// LowConfidence is set when the change set mapped to no known node:
	// the empty impacted set is a recoverable state, not an error.
	LowConfidence bool
}

// Traverse maps changed files to entry nodes and walks downstream.
//
// fileOwners is the discovery collaborator's path -> node-ID mapping;
// node file hints on the graph itself are honored as well. Changed paths
// must already be in canonical form (see internal/changeset). A node
// whose own files changed always appears at distance 0, even with no
// outgoing edges. Self-loops contribute nothing.
func Traverse(g *graph.Graph, changed []string, fileOwners map[string]string, opts Options) *Result {
	entries := entryNodes(g, changed, fileOwners)
	res := &Result{Entries: entries}
	if len(entries) == 0 {
		res.LowConfidence = true
		return res
	}

	dist := make(map[string]int, g.NodeCount())
	queue := make([]string, 0, len(entries))
	for _, id := range entries {
		dist[id] = 0
		queue = append(queue, id)
	}

	// Standard BFS: the first discovered distance is final, later longer
	// paths never overwrite it. Out-lists are sorted at build time, and
	// the queue is seeded in sorted order, so visit order is stable.
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		if opts.MaxHops > 0 && dist[v] >= opts.MaxHops {
			continue
		}
		for _, e := range g.Outgoing(v) {
			if e.Target == v {
				continue
			}
			if _, seen := dist[e.Target]; seen {
				continue
			}
			dist[e.Target] = dist[v] + 1
			queue = append(queue, e.Target)
		}
	}

	for id, d := range dist {
		n := g.Node(id)
		res.Records = append(res.Records, &Record{
			NodeID:      id,
			Label:       n.Label,
			Kind:        n.Kind,
			Distance:    d,
			Rank:        n.Rank,
			Betweenness: n.Betweenness,
			ComponentID: n.ComponentID,
		})
	}
	sort.Slice(res.Records, func(i, j int) bool {
		if res.Records[i].Distance != res.Records[j].Distance {
			return res.Records[i].Distance < res.Records[j].Distance
		}
		return res.Records[i].NodeID < res.Records[j].NodeID
	})
	return res
}

// entryNodes resolves the change set to node IDs via the owner mapping
// and node file hints. The result is sorted and deduplicated.
func entryNodes(g *graph.Graph, changed []string, fileOwners map[string]string) []string {
	set := make(map[string]bool)
	for _, path := range changed {
		if owner, ok := fileOwners[path]; ok {
			if g.Node(owner) != nil {
				set[owner] = true
			}
			continue
		}
		for _, id := range g.NodeIDs() {
			for _, f := range g.Node(id).Files {
				if f == path {
					set[id] = true
				}
			}
		}
	}
	entries := make([]string, 0, len(set))
	for id := range set {
		entries = append(entries, id)
	}
	sort.Strings(entries)
	return entries
}

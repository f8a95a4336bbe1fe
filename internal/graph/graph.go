package graph

import "sort"

// Graph is the directed, attributed dependency graph one analysis run
// operates on. It is an index-based adjacency structure: nodes are
// looked up by ID and edges live in per-node out/in lists, so cycles
// never create ownership cycles between node values.
//
// A Graph is built once per run by Build and not mutated afterwards
// except by Enrich, which only fills in node metrics. No locking is
// needed within one run.
type Graph struct {
	nodes map[string]*Node
	order []string // node IDs in sorted order, fixed at build time
	out   map[string][]*Edge
	in    map[string][]*Edge
	edges []*Edge
}

// Build validates the node and edge lists and assembles the adjacency
// structure. Duplicate node IDs and edges with unknown endpoints fail
// with a *StructuralError. Edge insertion order does not matter: parallel
// edges are coalesced and all adjacency lists are sorted by neighbor ID.
func Build(nodes []Node, edges []Edge) (*Graph, error) {
	g := &Graph{
		nodes: make(map[string]*Node, len(nodes)),
		out:   make(map[string][]*Edge, len(nodes)),
		in:    make(map[string][]*Edge, len(nodes)),
	}

	for i := range nodes {
		n := nodes[i] // copy, callers keep their slice
		if _, ok := g.nodes[n.ID]; ok {
			return nil, errDuplicateNode(n.ID)
		}
		n.ComponentID = NoComponent
		g.nodes[n.ID] = &n
		g.order = append(g.order, n.ID)
	}
	sort.Strings(g.order)

	// Coalesce parallel edges: weights accumulate, relation kinds merge.
	coalesced := make(map[[2]string]*Edge, len(edges))
	for _, e := range edges {
		if _, ok := g.nodes[e.Source]; !ok {
			return nil, errUnknownEndpoint(e, e.Source)
		}
		if _, ok := g.nodes[e.Target]; !ok {
			return nil, errUnknownEndpoint(e, e.Target)
		}
		w := e.Weight
		if w <= 0 {
			w = DefaultEdgeWeight
		}
		key := [2]string{e.Source, e.Target}
		if existing, ok := coalesced[key]; ok {
			existing.Weight += w
			existing.Kinds = mergeKinds(existing.Kinds, e.Kinds)
			continue
		}
		merged := &Edge{
			Source: e.Source,
			Target: e.Target,
			Kinds:  mergeKinds(nil, e.Kinds),
			Weight: w,
		}
		coalesced[key] = merged
	}

	for _, e := range coalesced {
		g.edges = append(g.edges, e)
		g.out[e.Source] = append(g.out[e.Source], e)
		g.in[e.Target] = append(g.in[e.Target], e)
	}
	sort.Slice(g.edges, func(i, j int) bool {
		if g.edges[i].Source != g.edges[j].Source {
			return g.edges[i].Source < g.edges[j].Source
		}
		return g.edges[i].Target < g.edges[j].Target
	})
	for id := range g.out {
		es := g.out[id]
		sort.Slice(es, func(i, j int) bool { return es[i].Target < es[j].Target })
	}
	for id := range g.in {
		es := g.in[id]
		sort.Slice(es, func(i, j int) bool { return es[i].Source < es[j].Source })
	}

	return g, nil
}

func mergeKinds(dst, src []EdgeKind) []EdgeKind {
	seen := make(map[EdgeKind]bool, len(dst)+len(src))
	for _, k := range dst {
		seen[k] = true
	}
	merged := append([]EdgeKind(nil), dst...)
	for _, k := range src {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		merged = append(merged, k)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i] < merged[j] })
	return merged
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// NodeIDs returns all node IDs in sorted order. Callers must not modify
// the returned slice.
func (g *Graph) NodeIDs() []string {
	return g.order
}

// Outgoing returns the coalesced out-edges of a node, sorted by target ID.
func (g *Graph) Outgoing(id string) []*Edge {
	return g.out[id]
}

// Incoming returns the coalesced in-edges of a node, sorted by source ID.
func (g *Graph) Incoming(id string) []*Edge {
	return g.in[id]
}

// Edges returns all coalesced edges sorted by (source, target).
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of coalesced edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

package graph

// EdgeKind classifies how the source unit depends on the target
type EdgeKind string

const (
	EdgeKindImport   EdgeKind = "import"
	EdgeKindHTTPCall EdgeKind = "http-call"
	EdgeKindContract EdgeKind = "contract-reference"
)

// Edge is a directed relation source -> target meaning "source's behavior
// may affect target". Parallel edges between the same ordered pair are
// coalesced at build time: weights accumulate and relation kinds merge
// into Kinds, so the graph stays simple for traversal.
type Edge struct {
	Source string     `json:"source"`
	Target string     `json:"target"`
	Kinds  []EdgeKind `json:"kinds"`
	Weight float64    `json:"weight"`
}

// DefaultEdgeWeight is used when the discovery input leaves the weight unset.
const DefaultEdgeWeight = 1.0

package graph

// NodeKind classifies the unit a node stands for in the service landscape
type NodeKind string

const (
	NodeKindService    NodeKind = "service"
	NodeKindAPIGateway NodeKind = "api-gateway"
	NodeKindContract   NodeKind = "contract"
	NodeKindInfra      NodeKind = "infra-config"
)

// NoComponent marks a node that is not part of any non-trivial
// strongly-connected component.
const NoComponent = -1

// Node represents one service, API or infrastructure unit in the
// dependency graph. Identity is the ID string; nodes are value types and
// never compared by address.
type Node struct {
	ID    string   `json:"id"`
	Kind  NodeKind `json:"kind"`
	Label string   `json:"label,omitempty"`
	Files []string `json:"files,omitempty"` // source paths owned by this unit

	// Structural metrics, populated by Enrich. Zero until then.
	Rank        float64 `json:"rank"`
	Betweenness float64 `json:"betweenness"`
	ComponentID int     `json:"component_id"`
}

package graph

import "fmt"

// StructuralError reports malformed graph input: a duplicate node ID or
// an edge referencing an unknown node. Structural errors are fatal for
// the graph build and are never silently repaired.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return "structural error: " + e.Reason
}

func errDuplicateNode(id string) error {
	return &StructuralError{Reason: fmt.Sprintf("duplicate node id %q", id)}
}

func errUnknownEndpoint(edge Edge, endpoint string) error {
	return &StructuralError{Reason: fmt.Sprintf("edge %s -> %s references unknown node %q", edge.Source, edge.Target, endpoint)}
}

// Package topology decodes the artifact the discovery stage hands over:
// the raw node/edge list, the file -> owning-node mapping and the source
// text per node. The core performs no file-system scanning of its own;
// this document is its only view of the landscape.
package topology

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/hzhou/blast/internal/changeset"
	"github.com/hzhou/blast/internal/graph"
)

// Artifact is one textual source artifact owned by a node, offered to
// the retrieval engine for chunking.
type Artifact struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

// Document is the discovery collaborator's output for one scanned
// landscape.
type Document struct {
	Nodes      []graph.Node          `json:"nodes"`
	Edges      []graph.Edge          `json:"edges"`
	FileOwners map[string]string     `json:"file_owners"`
	Artifacts  map[string][]Artifact `json:"artifacts"`
}

// Load reads and decodes a topology document from disk.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topology: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a topology document and normalizes its file paths so
// they compare equal to change set paths.
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode topology: %w", err)
	}

	for i := range doc.Nodes {
		for j, f := range doc.Nodes[i].Files {
			doc.Nodes[i].Files[j] = changeset.NormalizePath(f)
		}
		sort.Strings(doc.Nodes[i].Files)
	}
	owners := make(map[string]string, len(doc.FileOwners))
	for f, id := range doc.FileOwners {
		owners[changeset.NormalizePath(f)] = id
	}
	doc.FileOwners = owners
	for id, arts := range doc.Artifacts {
		for i := range arts {
			arts[i].Path = changeset.NormalizePath(arts[i].Path)
		}
		sort.Slice(arts, func(i, j int) bool { return arts[i].Path < arts[j].Path })
		doc.Artifacts[id] = arts
	}
	return &doc, nil
}

// BuildGraph assembles the validated dependency graph from the document.
// Malformed input (duplicate IDs, dangling edges) fails here with a
// *graph.StructuralError.
func (d *Document) BuildGraph() (*graph.Graph, error) {
	return graph.Build(d.Nodes, d.Edges)
}

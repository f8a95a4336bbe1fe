// topogen generates a synthetic topology document for load testing and
// demos: a layered service landscape with gateways on top, a contract
// and infra layer at the bottom, and random call edges in between.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/hzhou/blast/internal/graph"
	"github.com/hzhou/blast/internal/topology"
)

type genConfig struct {
	OutPath     string
	NumServices int
	NumGateways int
	NumContract int
	EdgeDensity float64 // average outgoing call edges per service
	Seed        int64
}

func main() {
	cfg := genConfig{}
	flag.StringVar(&cfg.OutPath, "o", "topology.json", "output path")
	flag.IntVar(&cfg.NumServices, "services", 30, "number of services")
	flag.IntVar(&cfg.NumGateways, "gateways", 2, "number of api gateways")
	flag.IntVar(&cfg.NumContract, "contracts", 5, "number of shared contracts")
	flag.Float64Var(&cfg.EdgeDensity, "density", 2.5, "average outgoing call edges per service")
	flag.Int64Var(&cfg.Seed, "seed", 1, "random seed (fixed for reproducible fixtures)")
	flag.Parse()

	doc := generate(&cfg)

	f, err := os.Create(cfg.OutPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s: %d nodes, %d edges\n", cfg.OutPath, len(doc.Nodes), len(doc.Edges))
	if len(doc.Nodes) > 0 {
		fmt.Printf("\nnext:\n  blast analyze -t %s --files %s\n", cfg.OutPath, doc.Nodes[0].Files[0])
	}
}

func generate(cfg *genConfig) *topology.Document {
	rng := rand.New(rand.NewSource(cfg.Seed))

	doc := &topology.Document{
		FileOwners: make(map[string]string),
		Artifacts:  make(map[string][]topology.Artifact),
	}

	addNode := func(id string, kind graph.NodeKind, label string) {
		file := fmt.Sprintf("%s/main.conf", id)
		doc.Nodes = append(doc.Nodes, graph.Node{
			ID:    id,
			Kind:  kind,
			Label: label,
			Files: []string{file},
		})
		doc.FileOwners[file] = id
		doc.Artifacts[id] = []topology.Artifact{{
			Path: file,
			Text: fmt.Sprintf("service %s\nkind %s\nendpoint http://%s:8080/v1\ntimeout 5s\nretries 3\n", id, kind, id),
		}}
	}

	services := make([]string, 0, cfg.NumServices)
	for i := 0; i < cfg.NumServices; i++ {
		id := fmt.Sprintf("svc-%02d", i)
		services = append(services, id)
		addNode(id, graph.NodeKindService, fmt.Sprintf("Service %02d", i))
	}
	for i := 0; i < cfg.NumGateways; i++ {
		addNode(fmt.Sprintf("gw-%02d", i), graph.NodeKindAPIGateway, fmt.Sprintf("Gateway %02d", i))
	}
	contracts := make([]string, 0, cfg.NumContract)
	for i := 0; i < cfg.NumContract; i++ {
		id := fmt.Sprintf("contract-%02d", i)
		contracts = append(contracts, id)
		addNode(id, graph.NodeKindContract, fmt.Sprintf("Contract %02d", i))
	}

	seen := make(map[[2]string]bool)
	addEdge := func(src, dst string, kind graph.EdgeKind) {
		if src == dst || seen[[2]string{src, dst}] {
			return
		}
		seen[[2]string{src, dst}] = true
		doc.Edges = append(doc.Edges, graph.Edge{
			Source: src,
			Target: dst,
			Kinds:  []graph.EdgeKind{kind},
			Weight: graph.DefaultEdgeWeight,
		})
	}

	// Gateways fan out over the first third of the services.
	entry := cfg.NumServices / 3
	if entry == 0 {
		entry = cfg.NumServices
	}
	for i := 0; i < cfg.NumGateways; i++ {
		gw := fmt.Sprintf("gw-%02d", i)
		for j := 0; j < entry; j++ {
			addEdge(gw, services[j], graph.EdgeKindHTTPCall)
		}
	}

	// Random service-to-service calls, biased downstream so the layers
	// roughly form a DAG with the occasional back edge.
	for i, src := range services {
		n := int(cfg.EdgeDensity + rng.NormFloat64())
		for k := 0; k < n; k++ {
			j := rng.Intn(cfg.NumServices)
			if rng.Float64() < 0.9 && j <= i {
				j = i + 1 + rng.Intn(maxInt(cfg.NumServices-i-1, 1))
				if j >= cfg.NumServices {
					continue
				}
			}
			addEdge(src, services[j], graph.EdgeKindHTTPCall)
		}
		if len(contracts) > 0 && rng.Float64() < 0.5 {
			addEdge(src, contracts[rng.Intn(len(contracts))], graph.EdgeKindContract)
		}
	}

	return doc
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hzhou/blast/internal/topology"
)

func rankCmd() *cobra.Command {
	var (
		topoPath string
		limit    int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank services by structural centrality",
		Long: `Enriches the dependency graph and lists the services most central
to the landscape. A change near the top of this list tends to have the
widest blast radius regardless of the concrete change set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			doc, err := topology.Load(topoPath)
			if err != nil {
				return err
			}
			g, err := doc.BuildGraph()
			if err != nil {
				return err
			}
			res := g.Enrich(cfg.EnrichOptions())

			type row struct {
				ID          string  `json:"id"`
				Rank        float64 `json:"rank"`
				Betweenness float64 `json:"betweenness"`
				ComponentID int     `json:"component_id"`
			}
			rows := make([]row, 0, g.NodeCount())
			for _, id := range g.NodeIDs() {
				n := g.Node(id)
				rows = append(rows, row{ID: id, Rank: n.Rank, Betweenness: n.Betweenness, ComponentID: n.ComponentID})
			}
			sort.SliceStable(rows, func(i, j int) bool {
				if rows[i].Rank != rows[j].Rank {
					return rows[i].Rank > rows[j].Rank
				}
				return rows[i].ID < rows[j].ID
			})
			if limit > 0 && len(rows) > limit {
				rows = rows[:limit]
			}

			if asJSON {
				return outputJSON(rows)
			}
			fmt.Printf("Top %d services by rank (%d nodes, %d edges, %d iterations)\n\n",
				len(rows), g.NodeCount(), g.EdgeCount(), res.Iterations)
			for i, r := range rows {
				cycle := ""
				if r.ComponentID >= 0 {
					cycle = fmt.Sprintf("  cycle #%d", r.ComponentID)
				}
				fmt.Printf("%2d. %-30s rank %.4f  betweenness %.4f%s\n", i+1, r.ID, r.Rank, r.Betweenness, cycle)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&topoPath, "topology", "t", "topology.json", "topology document from the discovery stage")
	cmd.Flags().IntVar(&limit, "limit", 20, "number of services to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "JSON output")

	return cmd
}

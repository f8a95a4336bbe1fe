package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hzhou/blast/internal/impact"
	"github.com/hzhou/blast/internal/topology"
)

func impactCmd() *cobra.Command {
	var (
		topoPath string
		files    []string
		maxHops  int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "impact <changed-file> [changed-file...]",
		Short: "Show the downstream impacted set for changed files",
		Long: `Maps the given files to their owning services and walks the
dependency graph downstream, printing each impacted service with its
hop distance. No retrieval or scoring, just reachability.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if maxHops >= 0 {
				cfg.MaxHops = maxHops
			}

			doc, err := topology.Load(topoPath)
			if err != nil {
				return err
			}
			g, err := doc.BuildGraph()
			if err != nil {
				return err
			}
			g.Enrich(cfg.EnrichOptions())

			changed := append(files, args...)
			if len(changed) == 0 {
				return fmt.Errorf("no changed files given")
			}
			res := impact.Traverse(g, normalizeAll(changed), doc.FileOwners, impact.Options{MaxHops: cfg.MaxHops})

			if asJSON {
				return outputJSON(res.Records)
			}
			if res.LowConfidence {
				fmt.Println("No changed file mapped to a known service.")
				return nil
			}
			fmt.Printf("Impacted services (%d):\n\n", len(res.Records))
			for _, r := range res.Records {
				marker := " "
				if r.Distance == 0 {
					marker = "*" // entry node, its own files changed
				}
				fmt.Printf("%s dist %d  %-30s rank %.4f  betweenness %.4f\n",
					marker, r.Distance, r.NodeID, r.Rank, r.Betweenness)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&topoPath, "topology", "t", "topology.json", "topology document from the discovery stage")
	cmd.Flags().StringSliceVar(&files, "files", nil, "changed file paths")
	cmd.Flags().IntVar(&maxHops, "max-hops", -1, "traversal depth bound (overrides config, -1 keeps config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "JSON output")

	return cmd
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hzhou/blast/internal/display"
	"github.com/hzhou/blast/internal/pipeline"
	"github.com/hzhou/blast/internal/retrieval"
	"github.com/hzhou/blast/internal/topology"
)

func analyzeCmd() *cobra.Command {
	var (
		topoPath  string
		diffPath  string
		files     []string
		gitDir    string
		gitBase   string
		gitRemote bool
		title     string
		outPath   string
		format    string
		noSave    bool
		summarize bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full impact analysis for a change set",
		Long: `Runs the full pipeline against a scanned topology: enrich the
dependency graph, traverse downstream impact, retrieve evidence and
aggregate per-service risk. The run record is printed, persisted to the
run database and written as impact-summary JSON for the reporting stage.

The change set comes from --diff (a unified diff), --files, or the git
working tree of --dir.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			doc, err := topology.Load(topoPath)
			if err != nil {
				return err
			}
			cs, err := resolveChangeSet(title, diffPath, files, gitDir, gitBase, gitRemote)
			if err != nil {
				return err
			}

			store, err := openStore()
			if err != nil {
				return fmt.Errorf("open run database: %w", err)
			}
			if store != nil {
				defer store.Close()
			}

			var cache retrieval.VectorCache
			if store != nil {
				cache = store.EmbeddingCache(cfg.EmbedModel)
			}

			provider := buildProvider(cfg)
			run, err := pipeline.Run(cmd.Context(), cfg, pipeline.Inputs{
				Topology: doc,
				Changes:  cs,
				Provider: provider,
				Cache:    cache,
			})
			if err != nil {
				return err
			}

			if store != nil && !noSave {
				if err := store.InsertRun(run); err != nil {
					fmt.Fprintf(os.Stderr, "warning: could not persist run: %v\n", err)
				}
			}
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create summary: %w", err)
				}
				defer f.Close()
				if err := run.WriteJSON(f); err != nil {
					return err
				}
			}

			switch format {
			case "json":
				if err := run.WriteJSON(os.Stdout); err != nil {
					return err
				}
			case "markdown":
				if err := run.WriteMarkdown(os.Stdout); err != nil {
					return err
				}
			default:
				fmt.Print(display.FormatRun(run))
			}

			if summarize {
				narrative, err := pipeline.Summarize(cmd.Context(), provider, run)
				if err != nil {
					fmt.Fprintf(os.Stderr, "warning: summary unavailable: %v\n", err)
					return nil
				}
				fmt.Printf("\nSummary: %s\n", narrative)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&topoPath, "topology", "t", "topology.json", "topology document from the discovery stage")
	cmd.Flags().StringVar(&diffPath, "diff", "", "unified diff file describing the change")
	cmd.Flags().StringSliceVar(&files, "files", nil, "changed file paths (alternative to --diff)")
	cmd.Flags().StringVar(&gitDir, "dir", ".", "git repository for change detection")
	cmd.Flags().StringVar(&gitBase, "base", "HEAD", "git comparison base")
	cmd.Flags().BoolVarP(&gitRemote, "remote", "r", false, "compare against the remote tracking branch")
	cmd.Flags().StringVar(&title, "title", "", "change/PR title for the report")
	cmd.Flags().StringVarP(&outPath, "out", "o", "impact-summary.json", "summary artifact path (empty to skip)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, markdown")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the run")
	cmd.Flags().BoolVar(&summarize, "summarize", false, "append a model-written narrative summary")

	return cmd
}

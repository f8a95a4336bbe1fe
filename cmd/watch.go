package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hzhou/blast/internal/display"
	"github.com/hzhou/blast/internal/pipeline"
	"github.com/hzhou/blast/internal/retrieval"
	"github.com/hzhou/blast/internal/topology"
	"github.com/hzhou/blast/internal/watcher"
)

func watchCmd() *cobra.Command {
	var (
		topoPath string
		diffPath string
		files    []string
		title    string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the analysis whenever its inputs change",
		Long: `Watches the topology document (and the diff file, when given) and
re-runs the full analysis on every change. Useful while iterating on a
change set or while the discovery stage keeps refreshing the topology.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if diffPath == "" && len(files) == 0 {
				return fmt.Errorf("watch needs --diff or --files; git change detection is not re-triggerable")
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

			runOnce := func() {
				doc, err := topology.Load(topoPath)
				if err != nil {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
					return
				}
				cs, err := resolveChangeSet(title, diffPath, files, "", "", false)
				if err != nil {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
					return
				}
				run, err := pipeline.Run(cmd.Context(), cfg, pipeline.Inputs{
					Topology: doc,
					Changes:  cs,
					Provider: provider,
					Cache:    cache,
				})
				if err != nil {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
					return
				}
				fmt.Printf("\n=== %s ===\n", time.Now().Format("15:04:05"))
				fmt.Print(display.FormatRun(run))
			}

			watched := []string{topoPath}
			if diffPath != "" {
				watched = append(watched, diffPath)
			}
			w, err := watcher.New(watched, runOnce,
				watcher.WithDebounceDelay(debounce),
				watcher.WithOnError(func(err error) {
					fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
				}))
			if err != nil {
				return err
			}

			runOnce()
			fmt.Printf("\nWatching %v, Ctrl-C to stop.\n", watched)

			go w.Start()
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			w.Stop()
			return nil
		},
	}

	cmd.Flags().StringVarP(&topoPath, "topology", "t", "topology.json", "topology document from the discovery stage")
	cmd.Flags().StringVar(&diffPath, "diff", "", "unified diff file describing the change")
	cmd.Flags().StringSliceVar(&files, "files", nil, "changed file paths (alternative to --diff)")
	cmd.Flags().StringVar(&title, "title", "", "change/PR title for the report")
	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "settle delay after the last file event")

	return cmd
}

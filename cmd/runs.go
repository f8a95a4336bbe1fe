package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hzhou/blast/internal/display"
	"github.com/hzhou/blast/internal/risk"
)

func runsCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted analysis runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return fmt.Errorf("open run database: %w", err)
			}
			if store == nil {
				return fmt.Errorf("run persistence is disabled (--db \"\")")
			}
			defer store.Close()

			summaries, err := store.ListRuns(limit)
			if err != nil {
				return err
			}
			if asJSON {
				return outputJSON(summaries)
			}
			if len(summaries) == 0 {
				fmt.Println("No runs recorded yet.")
				return nil
			}
			for _, s := range summaries {
				degraded := ""
				if s.Degraded {
					degraded = "  (degraded)"
				}
				fmt.Printf("%s %s  %s  files %d  impacted %d  %s%s\n",
					display.SeverityIcon(risk.Severity(s.MaxSeverity)),
					s.CreatedAt.Format("2006-01-02 15:04"),
					s.ID, s.ChangedFiles, s.Impacted, s.MaxSeverity, degraded)
				if s.Title != "" {
					fmt.Printf("   %s\n", s.Title)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "JSON output")

	return cmd
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var (
		format  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Re-render a persisted run as JSON or markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return fmt.Errorf("open run database: %w", err)
			}
			if store == nil {
				return fmt.Errorf("run persistence is disabled (--db \"\")")
			}
			defer store.Close()

			run, err := store.GetRun(args[0])
			if err != nil {
				return fmt.Errorf("load run %s: %w", args[0], err)
			}

			out := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			switch format {
			case "markdown":
				return run.WriteMarkdown(out)
			default:
				return run.WriteJSON(out)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, markdown")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	return cmd
}

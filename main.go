package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hzhou/blast/cmd"
)

var rootCmd = &cobra.Command{
	Use:   "blast",
	Short: "Change impact analysis for service landscapes",
	Long: `blast estimates the blast radius of a change set: it maps changed
files to their owning services, walks the dependency topology downstream,
retrieves the most relevant evidence snippets and ranks every impacted
service by risk.`,
}

func main() {
	cmd.RegisterCommands(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package cmd wires the CLI commands. Orchestration lives here: the
// commands load inputs, run the core pipeline and own every artifact
// write, so the core stays free of I/O policy.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hzhou/blast/internal/config"
	"github.com/hzhou/blast/internal/retrieval"
	"github.com/hzhou/blast/internal/storage"
)

var (
	// ConfigPath is the optional YAML config file.
	ConfigPath string
	// DbPath is the run-history database. Empty disables persistence.
	DbPath string
	// Verbose enables debug logging.
	Verbose bool
)

// RegisterCommands adds all subcommands and global flags to the root.
func RegisterCommands(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&ConfigPath, "config", "c", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVarP(&DbPath, "db", "d", ".blast.db", "run history database path (empty to disable)")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "debug logging")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if Verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(impactCmd())
	rootCmd.AddCommand(rankCmd())
	rootCmd.AddCommand(runsCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(watchCmd())
}

// loadConfig merges the config file over defaults and validates it.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(ConfigPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildProvider picks the embedding provider by configuration. Without a
// credential the pipeline runs in the lexical fallback.
func buildProvider(cfg config.Config) retrieval.Provider {
	if !cfg.EmbeddingEnabled {
		return nil
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		slog.Warn("OPENAI_API_KEY not set, retrieval will use the lexical fallback")
		return nil
	}
	return retrieval.NewOpenAIProvider(apiKey, cfg.EmbedModel, "")
}

// openStore opens the run database, or returns nil when persistence is
// disabled.
func openStore() (*storage.DB, error) {
	if DbPath == "" {
		return nil, nil
	}
	return storage.Open(DbPath)
}

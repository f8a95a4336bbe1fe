// Package config holds the analysis configuration surface. Values come
// from an optional YAML file plus flag overrides; the core never reads
// the environment directly except for the provider credential.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hzhou/blast/internal/graph"
	"github.com/hzhou/blast/internal/risk"
)

// ConfigurationError reports an invalid configuration value. It is fatal
// at the boundary, before any graph work begins.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Config is the full configuration surface consumed by the core.
type Config struct {
	// Traversal
	MaxHops int `yaml:"max_hops"` // 0 = unbounded

	// Retrieval
	TopK             int     `yaml:"top_k"`
	ChunkSize        int     `yaml:"chunk_size"`
	ChunkOverlap     int     `yaml:"chunk_overlap"`
	EmbeddingEnabled bool    `yaml:"embedding_enabled"`
	EmbedModel       string  `yaml:"embed_model"`
	EmbedTimeoutSecs float64 `yaml:"embed_timeout_secs"`
	Concurrency      int     `yaml:"concurrency"`

	// Enrichment
	Damping         float64        `yaml:"damping"`
	Tolerance       float64        `yaml:"tolerance"`
	MaxIterations   int            `yaml:"max_iterations"`
	BetweennessNorm graph.NormMode `yaml:"betweenness_norm"`

	// Scoring
	Weights    risk.Weights    `yaml:"weights"`
	Thresholds risk.Thresholds `yaml:"thresholds"`
}

// Default returns the working default configuration.
func Default() Config {
	return Config{
		MaxHops:          0,
		TopK:             5,
		ChunkSize:        1200,
		ChunkOverlap:     200,
		EmbeddingEnabled: true,
		EmbedTimeoutSecs: 30,
		Concurrency:      4,
		Damping:          graph.DefaultDamping,
		Tolerance:        graph.DefaultTolerance,
		MaxIterations:    graph.DefaultMaxIterations,
		BetweennessNorm:  graph.NormPairs,
		Weights:          risk.DefaultWeights,
		Thresholds:       risk.DefaultThresholds,
	}
}

// Load merges a YAML file over the defaults. A missing path is fine; a
// present but unreadable or invalid file is not.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate rejects out-of-range values with a *ConfigurationError.
func (c Config) Validate() error {
	if c.MaxHops < 0 {
		return &ConfigurationError{Field: "max_hops", Reason: "must be >= 0"}
	}
	if c.TopK <= 0 {
		return &ConfigurationError{Field: "top_k", Reason: "must be > 0"}
	}
	if c.ChunkSize <= 0 {
		return &ConfigurationError{Field: "chunk_size", Reason: "must be > 0"}
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return &ConfigurationError{Field: "chunk_overlap", Reason: "must be in [0, chunk_size)"}
	}
	if c.EmbedTimeoutSecs <= 0 {
		return &ConfigurationError{Field: "embed_timeout_secs", Reason: "must be > 0"}
	}
	if c.Concurrency <= 0 {
		return &ConfigurationError{Field: "concurrency", Reason: "must be > 0"}
	}
	if c.Damping <= 0 || c.Damping >= 1 {
		return &ConfigurationError{Field: "damping", Reason: "must be in (0, 1)"}
	}
	if c.Tolerance <= 0 {
		return &ConfigurationError{Field: "tolerance", Reason: "must be > 0"}
	}
	if c.MaxIterations <= 0 {
		return &ConfigurationError{Field: "max_iterations", Reason: "must be > 0"}
	}
	if c.BetweennessNorm != graph.NormPairs && c.BetweennessNorm != graph.NormMax {
		return &ConfigurationError{Field: "betweenness_norm", Reason: `must be "pairs" or "max"`}
	}
	if c.Weights.Distance < 0 || c.Weights.Centrality < 0 || c.Weights.Content < 0 {
		return &ConfigurationError{Field: "weights", Reason: "must be >= 0"}
	}
	if c.Weights.Distance+c.Weights.Centrality+c.Weights.Content == 0 {
		return &ConfigurationError{Field: "weights", Reason: "must not all be zero"}
	}
	if c.Thresholds.High <= 0 || c.Thresholds.High > 100 {
		return &ConfigurationError{Field: "thresholds.high", Reason: "must be in (0, 100]"}
	}
	if c.Thresholds.Medium <= 0 || c.Thresholds.Medium >= c.Thresholds.High {
		return &ConfigurationError{Field: "thresholds.medium", Reason: "must be in (0, high)"}
	}
	return nil
}

// EnrichOptions projects the enrichment slice of the configuration.
func (c Config) EnrichOptions() graph.EnrichOptions {
	return graph.EnrichOptions{
		Damping:         c.Damping,
		Tolerance:       c.Tolerance,
		MaxIterations:   c.MaxIterations,
		BetweennessNorm: c.BetweennessNorm,
	}
}

// EmbedTimeout returns the embed timeout as a duration.
func (c Config) EmbedTimeout() time.Duration {
	return time.Duration(c.EmbedTimeoutSecs * float64(time.Second))
}

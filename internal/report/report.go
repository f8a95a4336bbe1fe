// Package report defines the per-run hand-off record. The orchestrating
// caller (the CLI) writes it to disk or the run store; the core only
// guarantees the shape: stable field names, deterministic field and
// record ordering, directly serializable.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/hzhou/blast/internal/risk"
)

// EdgeRef is one dependency edge between impacted nodes, kept on the run
// so the reporting stage can draw the blast radius without re-loading
// the topology.
type EdgeRef struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// Run is the structured record of one analysis run.
type Run struct {
	ID            string              `json:"id"`
	Timestamp     time.Time           `json:"timestamp"`
	Title         string              `json:"title"`
	ChangedFiles  []string            `json:"changed_files"`
	Impacted      []risk.ImpactRecord `json:"impacted"`
	Edges         []EdgeRef           `json:"edges,omitempty"`
	Degraded      bool                `json:"degraded_retrieval"`
	LowConfidence bool                `json:"low_confidence"`
}

// MaxSeverity returns the highest severity among the impacted records,
// or low for an empty set.
func (r *Run) MaxSeverity() risk.Severity {
	max := risk.SeverityLow
	for _, rec := range r.Impacted {
		switch rec.Severity {
		case risk.SeverityHigh:
			return risk.SeverityHigh
		case risk.SeverityMedium:
			max = risk.SeverityMedium
		}
	}
	return max
}

// WriteJSON writes the run as indented JSON. Struct field order is the
// serialization order, so two identical runs produce identical bytes.
func (r *Run) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

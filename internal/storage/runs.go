package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hzhou/blast/internal/report"
)

// RunSummary is one row of the run history listing.
type RunSummary struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Title        string    `json:"title"`
	ChangedFiles int       `json:"changed_files"`
	Impacted     int       `json:"impacted"`
	MaxSeverity  string    `json:"max_severity"`
	Degraded     bool      `json:"degraded"`
}

// InsertRun persists a completed run, payload included.
func (db *DB) InsertRun(run *report.Run) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	degraded := 0
	if run.Degraded {
		degraded = 1
	}
	_, err = db.conn.Exec(
		`INSERT INTO runs (id, created_at, title, changed_files, impacted, max_severity, degraded, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Timestamp.UTC().Format(time.RFC3339Nano), run.Title,
		len(run.ChangedFiles), len(run.Impacted), string(run.MaxSeverity()), degraded, string(payload),
	)
	return err
}

// GetRun loads one persisted run by ID.
func (db *DB) GetRun(id string) (*report.Run, error) {
	var payload string
	err := db.conn.QueryRow(`SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		return nil, err
	}
	var run report.Run
	if err := json.Unmarshal([]byte(payload), &run); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", id, err)
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]*RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(
		`SELECT id, created_at, title, changed_files, impacted, max_severity, degraded
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*RunSummary
	for rows.Next() {
		var s RunSummary
		var createdAt string
		var degraded int
		if err := rows.Scan(&s.ID, &createdAt, &s.Title, &s.ChangedFiles, &s.Impacted, &s.MaxSeverity, &degraded); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			s.CreatedAt = t
		}
		s.Degraded = degraded != 0
		out = append(out, &s)
	}
	return out, rows.Err()
}

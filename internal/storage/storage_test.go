package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hzhou/blast/internal/report"
	"github.com/hzhou/blast/internal/risk"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "blast.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRun(id string, ts time.Time) *report.Run {
	return &report.Run{
		ID:           id,
		Timestamp:    ts,
		Title:        "bump payment timeout",
		ChangedFiles: []string{"payments/config.yaml"},
		Impacted: []risk.ImpactRecord{
			{NodeID: "payments", Kind: "service", Distance: 0, RiskEstimate: 81, Severity: risk.SeverityHigh},
			{NodeID: "orders", Kind: "service", Distance: 1, RiskEstimate: 40, Severity: risk.SeverityMedium,
				Evidence: []risk.EvidenceRef{{File: "orders/client.conf", StartLine: 2, EndLine: 6, Score: 0.7, Snippet: "timeout 5s"}}},
		},
		Edges:    []report.EdgeRef{{Source: "payments", Target: "orders", Weight: 1}},
		Degraded: true,
	}
}

func TestRunRoundtrip(t *testing.T) {
	db := openTestDB(t)
	run := sampleRun("run-1", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, db.InsertRun(run))

	got, err := db.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, run, got)
}

func TestGetRunUnknownID(t *testing.T) {
	db := openTestDB(t)
	_, err := db.GetRun("missing")
	assert.Error(t, err)
}

func TestInsertRunDuplicateID(t *testing.T) {
	db := openTestDB(t)
	run := sampleRun("run-1", time.Now().UTC())
	require.NoError(t, db.InsertRun(run))
	assert.Error(t, db.InsertRun(run))
}

func TestListRunsNewestFirst(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.InsertRun(sampleRun("run-old", base)))
	require.NoError(t, db.InsertRun(sampleRun("run-new", base.Add(time.Hour))))

	got, err := db.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "run-new", got[0].ID)
	assert.Equal(t, "run-old", got[1].ID)

	assert.Equal(t, "bump payment timeout", got[0].Title)
	assert.Equal(t, 1, got[0].ChangedFiles)
	assert.Equal(t, 2, got[0].Impacted)
	assert.Equal(t, "high", got[0].MaxSeverity)
	assert.True(t, got[0].Degraded)
	assert.True(t, got[0].CreatedAt.Equal(base.Add(time.Hour)))
}

func TestListRunsLimit(t *testing.T) {
	db := openTestDB(t)
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, db.InsertRun(sampleRun(
			string(rune('a'+i))+"-run", base.Add(time.Duration(i)*time.Minute))))
	}
	got, err := db.ListRuns(2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestEmbeddingCacheRoundtrip(t *testing.T) {
	db := openTestDB(t)
	c := db.EmbeddingCache("test-model")

	_, ok := c.Get(42)
	assert.False(t, ok)

	vec := []float32{0.25, -1.5, 3.75}
	c.Put(42, vec)
	got, ok := c.Get(42)
	require.True(t, ok)
	assert.Equal(t, vec, got)

	// Replacement is in place.
	c.Put(42, []float32{9})
	got, ok = c.Get(42)
	require.True(t, ok)
	assert.Equal(t, []float32{9}, got)
}

func TestEmbeddingCacheModelScoping(t *testing.T) {
	db := openTestDB(t)
	a := db.EmbeddingCache("model-a")
	b := db.EmbeddingCache("model-b")

	a.Put(7, []float32{1})
	_, ok := b.Get(7)
	assert.False(t, ok, "caches for different models must not share entries")
}

func TestEmbeddingCacheInvalidate(t *testing.T) {
	db := openTestDB(t)
	a := db.EmbeddingCache("model-a")
	b := db.EmbeddingCache("model-b")
	a.Put(1, []float32{1})
	a.Put(2, []float32{2})
	b.Put(3, []float32{3})

	n, err := a.Invalidate()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, ok := a.Get(1)
	assert.False(t, ok)
	_, ok = b.Get(3)
	assert.True(t, ok, "other models keep their entries")
}

func TestVectorEncodingRoundtrip(t *testing.T) {
	vec := []float32{0, 1, -1, 3.14159, -2.5e10}
	assert.Equal(t, vec, decodeVector(encodeVector(vec), len(vec)))
}

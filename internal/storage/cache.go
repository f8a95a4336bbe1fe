package storage

import (
	"encoding/binary"
	"math"
	"time"
)

// EmbeddingCache is the persistent retrieval.VectorCache backed by the
// embeddings table. Invalidation is explicit: callers call Invalidate
// when the embedding model changes; nothing expires implicitly.
type EmbeddingCache struct {
	db    *DB
	model string
}

// EmbeddingCache scopes a vector cache to one embedding model.
func (db *DB) EmbeddingCache(model string) *EmbeddingCache {
	return &EmbeddingCache{db: db, model: model}
}

// Get looks up a cached vector. Lookup misses and storage errors are
// both reported as a miss; the engine re-embeds either way.
func (c *EmbeddingCache) Get(key uint64) ([]float32, bool) {
	var dim int
	var blob []byte
	err := c.db.conn.QueryRow(
		`SELECT dim, vector FROM embeddings WHERE key = ? AND model = ?`,
		int64(key), c.model,
	).Scan(&dim, &blob)
	if err != nil || dim <= 0 || len(blob) != dim*4 {
		return nil, false
	}
	return decodeVector(blob, dim), true
}

// Put stores a vector, replacing any previous entry for the key.
func (c *EmbeddingCache) Put(key uint64, vec []float32) {
	_, _ = c.db.conn.Exec(
		`INSERT OR REPLACE INTO embeddings (key, model, dim, vector, created_at) VALUES (?, ?, ?, ?, ?)`,
		int64(key), c.model, len(vec), encodeVector(vec), time.Now().UTC().Format(time.RFC3339Nano),
	)
}

// Invalidate drops every cached vector for this cache's model. Pass the
// result up so callers know the cache is cold.
func (c *EmbeddingCache) Invalidate() (int64, error) {
	res, err := c.db.conn.Exec(`DELETE FROM embeddings WHERE model = ?`, c.model)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func encodeVector(vec []float32) []byte {
	blob := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

func decodeVector(blob []byte, dim int) []float32 {
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec
}

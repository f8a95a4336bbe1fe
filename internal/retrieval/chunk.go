package retrieval

import "strings"

// Chunking defaults. Window and overlap are measured in bytes of source
// text; the overlap exists so evidence spanning a window boundary is not
// silently dropped.
const (
	DefaultChunkSize    = 1200
	DefaultChunkOverlap = 200
)

// Chunk is a bounded span of text from one source artifact. Vector is
// nil unless the embedding step succeeded for this run. Chunks are
// produced fresh per analysis run and never persisted.
type Chunk struct {
	NodeID    string
	File      string
	StartLine int
	EndLine   int
	Text      string
	Vector    []float32
}

// SplitArtifact cuts one artifact into overlapping windows and tracks
// the line range each window covers. Chunk boundaries snap back to the
// nearest newline when one exists inside the window, so lines are not
// split mid-way unless a single line exceeds the budget.
func SplitArtifact(nodeID, path, text string, size, overlap int) []*Chunk {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
		if overlap >= size {
			overlap = size / 4
		}
	}
	if text == "" {
		return nil
	}

	var chunks []*Chunk
	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			end = len(text)
		} else if cut := strings.LastIndexByte(text[start:end], '\n'); cut > 0 {
			end = start + cut + 1
		}

		chunks = append(chunks, &Chunk{
			NodeID:    nodeID,
			File:      path,
			StartLine: 1 + strings.Count(text[:start], "\n"),
			EndLine:   1 + strings.Count(text[:end-1], "\n"),
			Text:      text[start:end],
		})
		if end == len(text) {
			break
		}
		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}

// Tokenize lowercases and splits text into bag-of-tokens terms, dropping
// one-character fragments. Shared by the lexical fallback scorer and the
// static embedding provider.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '_')
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitArtifactSingleChunk(t *testing.T) {
	chunks := SplitArtifact("svc", "svc/cfg", "line one\nline two\n", 100, 20)
	require.Len(t, chunks, 1)
	assert.Equal(t, "svc", chunks[0].NodeID)
	assert.Equal(t, "svc/cfg", chunks[0].File)
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, 2, chunks[0].EndLine)
	assert.Equal(t, "line one\nline two\n", chunks[0].Text)
}

func TestSplitArtifactEmpty(t *testing.T) {
	assert.Nil(t, SplitArtifact("svc", "f", "", 100, 20))
}

func TestSplitArtifactOverlapAndCoverage(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("retry timeout circuit breaker settings for the worker\n")
	}
	text := sb.String()

	chunks := SplitArtifact("svc", "f", text, 200, 60)
	require.Greater(t, len(chunks), 1)

	// Windows snap to newlines and stay within the size budget.
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), 200)
		assert.True(t, strings.HasSuffix(c.Text, "\n"))
		assert.LessOrEqual(t, c.StartLine, c.EndLine)
	}
	// Consecutive windows overlap, so no content gap can open up.
	for i := 1; i < len(chunks); i++ {
		assert.LessOrEqual(t, chunks[i].StartLine, chunks[i-1].EndLine)
	}
	// The final window reaches the end of the artifact.
	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(text, last.Text))
}

func TestSplitArtifactOversizedLine(t *testing.T) {
	// One line longer than the window must be split rather than looping.
	text := strings.Repeat("x", 500)
	chunks := SplitArtifact("svc", "f", text, 100, 20)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), 100)
		assert.Equal(t, 1, c.StartLine)
	}
	assert.True(t, strings.HasSuffix(text, chunks[len(chunks)-1].Text))
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Retry-Timeout: 500ms", []string{"retry", "timeout", "500ms"}},
		{"snake_case_name stays", []string{"snake_case_name", "stays"}},
		{"a b c", nil}, // one-char fragments are dropped
		{"", nil},
	}
	for _, tt := range tests {
		got := Tokenize(tt.in)
		if tt.want == nil {
			assert.Empty(t, got, "input %q", tt.in)
		} else {
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		}
	}
}

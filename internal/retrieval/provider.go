package retrieval

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"
	openai "github.com/sashabaranov/go-openai"
)

// ErrNoProvider is returned by Engine paths that need an embedding
// provider when none is configured. Callers treat it as a degradation
// signal, not a failure.
var ErrNoProvider = errors.New("no embedding provider configured")

// Provider is the capability contract for the external model service:
// embeddings for retrieval and completions for the downstream narrative
// stage. Implementations are selected by configuration, never by runtime
// type inspection.
type Provider interface {
	// Embed converts texts into fixed-dimension vectors, one per input,
	// in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Complete returns the model's text completion for a prompt.
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIProvider talks to the OpenAI API.
type OpenAIProvider struct {
	client     *openai.Client
	embedModel openai.EmbeddingModel
	chatModel  string
}

// NewOpenAIProvider builds a provider for the given API key. Model names
// fall back to small, cheap defaults.
func NewOpenAIProvider(apiKey, embedModel, chatModel string) *OpenAIProvider {
	if embedModel == "" {
		embedModel = string(openai.SmallEmbedding3)
	}
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}
	return &OpenAIProvider{
		client:     openai.NewClient(apiKey),
		embedModel: openai.EmbeddingModel(embedModel),
		chatModel:  chatModel,
	}
}

func (p *OpenAIProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: p.embedModel,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response size %d does not match input %d", len(resp.Data), len(texts))
	}
	vecs := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vecs) {
			return nil, fmt.Errorf("embedding response index %d out of range", d.Index)
		}
		vecs[d.Index] = d.Embedding
	}
	return vecs, nil
}

func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// StaticDim is the vector dimension of the StaticProvider.
const StaticDim = 64

// StaticProvider is the deterministic no-network implementation: each
// token is hashed into a fixed-dimension bucket and the vector is
// L2-normalized. Same text, same vector, on every machine. Used in tests
// and in runs without credentials.
type StaticProvider struct{}

func (StaticProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, StaticDim)
		for _, tok := range Tokenize(t) {
			v[xxhash.Sum64String(tok)%StaticDim]++
		}
		var norm float64
		for _, x := range v {
			norm += float64(x) * float64(x)
		}
		if norm > 0 {
			inv := float32(1 / math.Sqrt(norm))
			for j := range v {
				v[j] *= inv
			}
		}
		vecs[i] = v
	}
	return vecs, nil
}

func (StaticProvider) Complete(_ context.Context, prompt string) (string, error) {
	first := prompt
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	return "static completion: " + first, nil
}

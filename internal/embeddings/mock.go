package embeddings

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/Snickdx/project-graph/pkg/vecmath"
)

// MockClient implements the Client interface without any external calls.
// It generates deterministic embeddings based on the input text hash, so
// identical texts always embed to identical (unit-length) vectors. Useful in
// tests and in demo deployments with the in-memory graph store.
type MockClient struct {
	dimensions int
}

// NewMockClient creates a new mock embedding client.
// Default dimensions is 1536 to match OpenAI's text-embedding-3-small.
func NewMockClient() *MockClient {
	return &MockClient{dimensions: 1536}
}

// NewMockClientWithDimensions creates a mock client with custom dimensions.
func NewMockClientWithDimensions(dimensions int) *MockClient {
	return &MockClient{dimensions: dimensions}
}

// GetEmbedding generates a deterministic embedding based on the text hash.
func (c *MockClient) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	return c.deterministicEmbedding(text), nil
}

// GetEmbeddings generates embeddings for multiple texts.
// Returns an error if any text is empty.
func (c *MockClient) GetEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("texts cannot be empty")
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		if text == "" {
			return nil, fmt.Errorf("text at index %d cannot be empty", i)
		}

		embeddings[i] = c.deterministicEmbedding(text)
	}

	return embeddings, nil
}

// deterministicEmbedding creates a normalized embedding vector from the text hash.
func (c *MockClient) deterministicEmbedding(text string) []float32 {
	hash := sha256.Sum256([]byte(text))
	embedding := make([]float32, c.dimensions)

	for i := range embedding {
		// Use hash bytes cyclically, mapped to [-1, 1].
		byteIdx := i % len(hash)
		embedding[i] = (float32(hash[byteIdx]) / 127.5) - 1.0
	}

	vecmath.NormalizeL2(embedding)

	return embedding
}

// Ensure MockClient implements Client interface
var _ Client = (*MockClient)(nil)

package embeddings

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const googleDefaultModel = "gemini-embedding-001"

// GoogleClient implements the Client interface using the Gemini embeddings API
// via the Google Gen AI SDK.
type GoogleClient struct {
	client *genai.Client
	model  string
}

// Ensure GoogleClient implements Client interface
var _ Client = (*GoogleClient)(nil)

// NewGoogleClient creates a Gemini embedding client. Empty model uses the default.
func NewGoogleClient(ctx context.Context, apiKey, model string) (*GoogleClient, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("googleai client: %w", err)
	}

	if model == "" {
		model = googleDefaultModel
	}

	return &GoogleClient{client: genaiClient, model: model}, nil
}

// GetEmbedding generates an embedding vector for the given text.
func (c *GoogleClient) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.GetEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return vecs[0], nil
}

// GetEmbeddings generates embedding vectors for multiple texts in a batch.
// Returns an error if any text in the input is empty.
func (c *GoogleClient) GetEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("texts cannot be empty")
	}

	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		if t == "" {
			return nil, fmt.Errorf("text at index %d cannot be empty", i)
		}

		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	resp, err := c.client.Models.EmbedContent(ctx, c.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embedding: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("unexpected number of embeddings returned: got %d, expected %d", len(resp.Embeddings), len(texts))
	}

	embeddings := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		out := make([]float32, len(emb.Values))
		copy(out, emb.Values)
		embeddings[i] = out
	}

	return embeddings, nil
}

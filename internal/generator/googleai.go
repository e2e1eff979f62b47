package generator

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/Snickdx/project-graph/internal/ragerrors"
)

const googleDefaultModel = "gemini-2.0-flash"

// GoogleGenerator generates Cypher via the Gemini API at temperature zero.
type GoogleGenerator struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
}

var _ Generator = (*GoogleGenerator)(nil)

// NewGoogleGenerator creates a Gemini-backed generator. Empty model uses the
// default; limiter may be nil (no rate limiting).
func NewGoogleGenerator(ctx context.Context, apiKey, model string, limiter *rate.Limiter) (*GoogleGenerator, error) {
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

	return &GoogleGenerator{client: genaiClient, model: model, limiter: limiter}, nil
}

// GenerateQuery produces a Cypher query for the question, constrained by the
// schema hint. Returns a GenerationError on any failure.
func (g *GoogleGenerator) GenerateQuery(ctx context.Context, question, schemaHint string) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", ragerrors.NewGenerationError(fmt.Sprintf("rate limit wait: %v", err))
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(buildPrompt(question, schemaHint)),
		&genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0)},
	)
	if err != nil {
		return "", ragerrors.NewGenerationError(err.Error())
	}

	query := cleanResponse(resp.Text())
	if query == "" {
		return "", ragerrors.NewGenerationError("model returned an empty query")
	}

	return query, nil
}

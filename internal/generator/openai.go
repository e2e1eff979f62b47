package generator

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/Snickdx/project-graph/internal/ragerrors"
)

const openaiDefaultModel = openai.GPT4oMini

// OpenAIGenerator generates Cypher via OpenAI chat completions at temperature
// zero. Calls pass through a rate limiter shared by all requests.
type OpenAIGenerator struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
}

var _ Generator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator creates an OpenAI-backed generator. Empty model uses the
// default; limiter may be nil (no rate limiting).
func NewOpenAIGenerator(apiKey, model string, limiter *rate.Limiter) *OpenAIGenerator {
	if apiKey == "" {
		panic("generator: OpenAI API key cannot be empty")
	}

	if model == "" {
		model = openaiDefaultModel
	}

	return &OpenAIGenerator{
		client:  openai.NewClient(apiKey),
		model:   model,
		limiter: limiter,
	}
}

// GenerateQuery produces a Cypher query for the question, constrained by the
// schema hint. Returns a GenerationError on any failure.
func (g *OpenAIGenerator) GenerateQuery(ctx context.Context, question, schemaHint string) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", ragerrors.NewGenerationError(fmt.Sprintf("rate limit wait: %v", err))
		}
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(question, schemaHint),
			},
		},
	})
	if err != nil {
		return "", ragerrors.NewGenerationError(err.Error())
	}

	if len(resp.Choices) == 0 {
		return "", ragerrors.NewGenerationError("no completion returned")
	}

	query := cleanResponse(resp.Choices[0].Message.Content)
	if query == "" {
		return "", ragerrors.NewGenerationError("model returned an empty query")
	}

	return query, nil
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Snickdx/project-graph/internal/router"
)

// mockRouter implements QuestionRouter with function fields.
type mockRouter struct {
	routeFunc              func(ctx context.Context, question string) router.RoutingResponse
	routeWithThresholdFunc func(ctx context.Context, question string, threshold float64) router.RoutingResponse
}

func (m *mockRouter) Route(ctx context.Context, question string) router.RoutingResponse {
	return m.routeFunc(ctx, question)
}

func (m *mockRouter) RouteWithThreshold(ctx context.Context, question string, threshold float64) router.RoutingResponse {
	return m.routeWithThresholdFunc(ctx, question, threshold)
}

func postAsk(t *testing.T, h *AskHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Ask(rec, req)

	return rec
}

func TestAskHandler_Ask(t *testing.T) {
	t.Run("routes the question and returns the response", func(t *testing.T) {
		var gotQuestion string

		h := NewAskHandler(&mockRouter{
			routeFunc: func(_ context.Context, question string) router.RoutingResponse {
				gotQuestion = question
				return router.RoutingResponse{
					Question:     question,
					Method:       router.MethodTemplate,
					TemplateKey:  "list all stakeholders",
					Similarity:   0.91,
					Answer:       "Found 2 result(s):\nAlice\nBob",
					LatencyClass: router.LatencySubSecond,
				}
			},
		})

		rec := postAsk(t, h, `{"question": "who are the stakeholders"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "who are the stakeholders", gotQuestion)

		var resp router.RoutingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, router.MethodTemplate, resp.Method)
		assert.Equal(t, "list all stakeholders", resp.TemplateKey)
		assert.InDelta(t, 0.91, resp.Similarity, 1e-9)
	})

	t.Run("threshold override uses RouteWithThreshold", func(t *testing.T) {
		var gotThreshold float64

		h := NewAskHandler(&mockRouter{
			routeWithThresholdFunc: func(_ context.Context, question string, threshold float64) router.RoutingResponse {
				gotThreshold = threshold
				return router.RoutingResponse{Question: question, Method: router.MethodNoMatch}
			},
		})

		rec := postAsk(t, h, `{"question": "anything", "threshold": 0.8}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.InDelta(t, 0.8, gotThreshold, 1e-9)
	})

	t.Run("question is trimmed before routing", func(t *testing.T) {
		var gotQuestion string

		h := NewAskHandler(&mockRouter{
			routeFunc: func(_ context.Context, question string) router.RoutingResponse {
				gotQuestion = question
				return router.RoutingResponse{Question: question}
			},
		})

		rec := postAsk(t, h, `{"question": "  list all goals  "}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "list all goals", gotQuestion)
	})

	t.Run("rejects empty question", func(t *testing.T) {
		h := NewAskHandler(&mockRouter{})

		rec := postAsk(t, h, `{"question": "   "}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		h := NewAskHandler(&mockRouter{})

		rec := postAsk(t, h, `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		h := NewAskHandler(&mockRouter{})

		rec := postAsk(t, h, `{"question": "x", "query": "MATCH (n) RETURN n"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects out-of-range threshold", func(t *testing.T) {
		h := NewAskHandler(&mockRouter{})

		for _, body := range []string{
			`{"question": "x", "threshold": 0}`,
			`{"question": "x", "threshold": -0.5}`,
			`{"question": "x", "threshold": 1.5}`,
		} {
			rec := postAsk(t, h, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
		}
	})

	t.Run("rejects oversized question", func(t *testing.T) {
		h := NewAskHandler(&mockRouter{})

		long := strings.Repeat("a", maxQuestionLength+1)
		rec := postAsk(t, h, `{"question": "`+long+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

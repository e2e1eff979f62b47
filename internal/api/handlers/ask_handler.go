package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Snickdx/project-graph/internal/api/response"
	"github.com/Snickdx/project-graph/internal/router"
)

// QuestionRouter answers natural-language questions about the project graph.
type QuestionRouter interface {
	Route(ctx context.Context, question string) router.RoutingResponse
	RouteWithThreshold(ctx context.Context, question string, threshold float64) router.RoutingResponse
}

// AskHandler handles HTTP requests for question answering.
type AskHandler struct {
	router QuestionRouter
}

// NewAskHandler creates a new ask handler.
func NewAskHandler(r QuestionRouter) *AskHandler {
	return &AskHandler{router: r}
}

// AskRequest is the body for POST /v1/ask. Threshold, when set, overrides
// the configured similarity threshold for this request only.
type AskRequest struct {
	Question  string   `json:"question"`
	Threshold *float64 `json:"threshold,omitempty"`
}

const maxQuestionLength = 2000

// Ask handles POST /v1/ask.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")

		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		response.RespondBadRequest(w, "question is required and must be non-empty")

		return
	}

	if len(question) > maxQuestionLength {
		response.RespondBadRequest(w, "question exceeds maximum length")

		return
	}

	if req.Threshold != nil && (*req.Threshold <= 0 || *req.Threshold > 1) {
		response.RespondBadRequest(w, "threshold must be in (0, 1]")

		return
	}

	var resp router.RoutingResponse
	if req.Threshold != nil {
		resp = h.router.RouteWithThreshold(r.Context(), question, *req.Threshold)
	} else {
		resp = h.router.Route(r.Context(), question)
	}

	response.RespondJSON(w, http.StatusOK, resp)
}

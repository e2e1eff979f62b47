// Package router decides, per question, whether a catalog template answers it
// or the question must be delegated to the generative fallback, executes the
// resolved query, and formats a provenance-annotated answer.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Snickdx/project-graph/internal/catalog"
	"github.com/Snickdx/project-graph/internal/generator"
	"github.com/Snickdx/project-graph/internal/graphstore"
	"github.com/Snickdx/project-graph/internal/matcher"
	"github.com/Snickdx/project-graph/internal/observability"
	"github.com/Snickdx/project-graph/internal/ragerrors"
)

// Resolution methods reported in RoutingResponse.Method.
const (
	MethodTemplate = "template"
	MethodFallback = "fallback_generated"
	MethodNoMatch  = "no_match"
	MethodError    = "error"
)

// Latency classes. These are honesty labels about the path taken, not
// measured durations: the template path answers from a pre-built query,
// the fallback path waits on a generation service.
const (
	LatencySubSecond   = "sub-second"
	LatencyMultiSecond = "multi-second"
)

// Display cap for formatted answers. All rows are always carried in
// RoutingResponse.Results; only the answer text is truncated.
const answerRowCap = 10

// DefaultThreshold is the similarity above which a template match is trusted.
// Raising it favors precision (more fallback traffic); lowering it favors
// template-path throughput at the risk of mismatched answers.
const DefaultThreshold = 0.5

// suggestedTopicCap bounds how many template keys a no-match answer lists.
const suggestedTopicCap = 5

// RoutingResponse is the structured result of routing one question.
// Callers always receive one of these; routing never surfaces a Go error.
type RoutingResponse struct {
	Question     string            `json:"question"`
	Method       string            `json:"method"`
	TemplateKey  string            `json:"templateKey,omitempty"`
	Similarity   float64           `json:"similarity"`
	QueryText    string            `json:"queryText,omitempty"`
	Results      graphstore.Result `json:"results"`
	Answer       string            `json:"answer"`
	LatencyClass string            `json:"latencyClass"`
}

// Matcher is the ranking capability the router needs.
type Matcher interface {
	BestMatch(ctx context.Context, question string) (matcher.Match, error)
}

// Router orchestrates match, threshold policy, execution, and answer
// formatting. All referenced state (catalog, index) is immutable after
// construction, so one Router serves concurrent requests without locking.
type Router struct {
	matcher         Matcher
	catalog         *catalog.Catalog
	store           graphstore.QueryStore
	generator       generator.Generator // nil means fallback unavailable
	schemaHint      string
	threshold       float64
	fallbackTimeout time.Duration
	metrics         observability.RouterMetrics
	logger          *slog.Logger
}

// Params configures New. Generator may be nil (no fallback capability);
// Metrics and Logger may be nil. Threshold <= 0 uses DefaultThreshold;
// FallbackTimeout <= 0 disables the deadline around generation + execution.
type Params struct {
	Matcher         Matcher
	Catalog         *catalog.Catalog
	Store           graphstore.QueryStore
	Generator       generator.Generator
	SchemaHint      string
	Threshold       float64
	FallbackTimeout time.Duration
	Metrics         observability.RouterMetrics
	Logger          *slog.Logger
}

// New creates a Router.
func New(p Params) (*Router, error) {
	if p.Matcher == nil {
		return nil, fmt.Errorf("router: matcher is required")
	}

	if p.Catalog == nil {
		return nil, fmt.Errorf("router: catalog is required")
	}

	if p.Store == nil {
		return nil, fmt.Errorf("router: query store is required")
	}

	threshold := p.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Router{
		matcher:         p.Matcher,
		catalog:         p.Catalog,
		store:           p.Store,
		generator:       p.Generator,
		schemaHint:      p.SchemaHint,
		threshold:       threshold,
		fallbackTimeout: p.FallbackTimeout,
		metrics:         p.Metrics,
		logger:          logger,
	}, nil
}

// Route answers the question using the configured threshold.
func (r *Router) Route(ctx context.Context, question string) RoutingResponse {
	return r.RouteWithThreshold(ctx, question, r.threshold)
}

// RouteWithThreshold answers the question, trusting a template match only
// when its similarity reaches threshold. The pipeline is synchronous: rank,
// then apply the threshold policy, then execute exactly one query.
func (r *Router) RouteWithThreshold(ctx context.Context, question string, threshold float64) RoutingResponse {
	start := time.Now()

	resp := RoutingResponse{Question: question}

	match, err := r.matcher.BestMatch(ctx, question)
	if err != nil {
		r.logger.ErrorContext(ctx, "best match failed", "error", err)

		resp.Method = MethodError
		resp.Answer = "Sorry, your question could not be processed: " + err.Error()
		resp.LatencyClass = LatencySubSecond
		r.record(resp.Method, "template", start)

		return resp
	}

	resp.Similarity = match.Score

	if match.Score >= threshold {
		r.routeTemplate(ctx, &resp, match)
		r.record(resp.Method, "template", start)

		return resp
	}

	r.logger.DebugContext(ctx, "below threshold, taking fallback path",
		"best_key", match.Key, "score", match.Score, "threshold", threshold)

	resp.TemplateKey = ""
	r.routeFallback(ctx, &resp)
	r.record(resp.Method, "fallback", start)

	return resp
}

// routeTemplate executes the matched template's static query.
func (r *Router) routeTemplate(ctx context.Context, resp *RoutingResponse, match matcher.Match) {
	resp.TemplateKey = match.Key
	resp.LatencyClass = LatencySubSecond

	tpl, err := r.catalog.Lookup(match.Key)
	if err != nil {
		// The matcher returned a key the catalog doesn't know: the embedding
		// index is stale relative to the catalog. Fatal to this request.
		r.logger.ErrorContext(ctx, "matcher/catalog desynchronized: matched key missing from catalog",
			"key", match.Key, "error", err)

		resp.Method = MethodError
		resp.Answer = "Sorry, your question could not be processed: " + err.Error()

		return
	}

	resp.QueryText = tpl.QueryText

	result, err := r.store.Run(ctx, tpl.QueryText)
	if err != nil {
		r.failExecution(ctx, resp, err)

		return
	}

	resp.Method = MethodTemplate
	resp.Results = result
	resp.Answer = formatAnswer(result)
}

// routeFallback generates a query for the question and executes it. Both
// calls share one deadline: the generation service is the single
// unbounded-latency dependency in the pipeline.
func (r *Router) routeFallback(ctx context.Context, resp *RoutingResponse) {
	resp.LatencyClass = LatencyMultiSecond

	if r.generator == nil {
		resp.Method = MethodNoMatch
		resp.LatencyClass = LatencySubSecond
		resp.Answer = r.noMatchAnswer(resp.Similarity)

		return
	}

	if r.fallbackTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.fallbackTimeout)
		defer cancel()
	}

	queryText, err := r.generator.GenerateQuery(ctx, resp.Question, r.schemaHint)
	if err != nil {
		r.logger.WarnContext(ctx, "fallback generation failed", "error", err)

		resp.Method = MethodError
		resp.Answer = "Sorry, your question could not be answered: " + err.Error()

		return
	}

	resp.QueryText = queryText

	result, err := r.store.Run(ctx, queryText)
	if err != nil {
		r.failExecution(ctx, resp, err)

		return
	}

	resp.Method = MethodFallback
	resp.Results = result
	resp.Answer = formatAnswer(result)
}

// failExecution converts a store failure into an error-classified response
// carrying the backend's message. Never retried: repeating a malformed query
// burns another full cycle without correcting the root cause.
func (r *Router) failExecution(ctx context.Context, resp *RoutingResponse, err error) {
	r.logger.WarnContext(ctx, "query execution failed", "method", resp.Method, "error", err)

	resp.Method = MethodError

	var execErr *ragerrors.ExecutionError
	if errors.As(err, &execErr) {
		resp.Answer = "Error executing query: " + execErr.Message
	} else {
		resp.Answer = "Error executing query: " + err.Error()
	}
}

// noMatchAnswer guides the user when no template fits and no generator is
// configured: rephrase, or ask about one of the suggested topics.
func (r *Router) noMatchAnswer(similarity float64) string {
	keys := r.catalog.Keys()
	if len(keys) > suggestedTopicCap {
		keys = keys[:suggestedTopicCap]
	}

	return fmt.Sprintf(
		"No good template match (similarity: %.3f). Try rephrasing your question, or ask about: %s.",
		similarity, strings.Join(keys, "; "),
	)
}

// formatAnswer renders rows into a readable answer. Only the first
// answerRowCap rows are displayed; the full result set rides along in the
// response.
func formatAnswer(result graphstore.Result) string {
	if result.Empty() {
		return "No results found."
	}

	display := result.Rows
	if len(display) > answerRowCap {
		display = display[:answerRowCap]
	}

	lines := make([]string, 0, len(display))

	for _, row := range display {
		values := make([]string, 0, len(result.Columns))

		for _, col := range result.Columns {
			if v, ok := row[col]; ok && v != nil {
				values = append(values, fmt.Sprintf("%v", v))
			}
		}

		if len(values) > 0 {
			lines = append(lines, strings.Join(values, " | "))
		}
	}

	if len(lines) == 0 {
		return "Results found but no displayable data."
	}

	return fmt.Sprintf("Found %d result(s):\n%s", len(result.Rows), strings.Join(lines, "\n"))
}

func (r *Router) record(method, path string, start time.Time) {
	if r.metrics == nil {
		return
	}

	r.metrics.RecordQuestion(method)
	r.metrics.ObserveRouteDuration(path, time.Since(start).Seconds())
}

package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Snickdx/project-graph/internal/catalog"
	"github.com/Snickdx/project-graph/internal/graphstore"
	"github.com/Snickdx/project-graph/internal/matcher"
	"github.com/Snickdx/project-graph/internal/ragerrors"
)

// scriptedMatcher returns a fixed match regardless of the question.
type scriptedMatcher struct {
	match matcher.Match
	err   error
}

func (m scriptedMatcher) BestMatch(context.Context, string) (matcher.Match, error) {
	return m.match, m.err
}

// funcGenerator adapts a function to the Generator interface.
type funcGenerator func(ctx context.Context, question, schemaHint string) (string, error)

func (f funcGenerator) GenerateQuery(ctx context.Context, question, schemaHint string) (string, error) {
	return f(ctx, question, schemaHint)
}

func stakeholderCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	c, err := catalog.New([]catalog.Template{
		{Key: "list all stakeholders", QueryText: "Q1", Description: "Get all stakeholders"},
	})
	require.NoError(t, err)

	return c
}

func stakeholderResult() graphstore.Result {
	return graphstore.Result{
		Columns: []string{"s.name", "s.department"},
		Rows: []graphstore.Row{
			{"s.name": "Alice", "s.department": "Engineering"},
			{"s.name": "Bob", "s.department": "Sales"},
		},
	}
}

func newRouter(t *testing.T, p Params) *Router {
	t.Helper()

	if p.Catalog == nil {
		p.Catalog = stakeholderCatalog(t)
	}

	if p.Store == nil {
		p.Store = graphstore.NewMemoryStore()
	}

	r, err := New(p)
	require.NoError(t, err)

	return r
}

func TestRouter_TemplatePath(t *testing.T) {
	ctx := context.Background()

	t.Run("high-similarity match executes the template", func(t *testing.T) {
		store := graphstore.NewMemoryStore()
		store.Add("Q1", stakeholderResult())

		r := newRouter(t, Params{
			Matcher: scriptedMatcher{match: matcher.Match{Key: "list all stakeholders", Score: 0.8}},
			Store:   store,
		})

		resp := r.RouteWithThreshold(ctx, "who are the stakeholders", 0.3)

		assert.Equal(t, MethodTemplate, resp.Method)
		assert.Equal(t, "list all stakeholders", resp.TemplateKey)
		assert.Equal(t, "Q1", resp.QueryText)
		assert.InDelta(t, 0.8, resp.Similarity, 1e-9)
		assert.Equal(t, LatencySubSecond, resp.LatencyClass)
		assert.Len(t, resp.Results.Rows, 2)
		assert.Contains(t, resp.Answer, "Found 2 result(s)")
		// Values join in column order with the pipe separator.
		assert.Contains(t, resp.Answer, "Alice | Engineering")
		assert.Contains(t, resp.Answer, "Bob | Sales")
	})

	t.Run("empty result keeps method and says no results", func(t *testing.T) {
		store := graphstore.NewMemoryStore()
		store.Add("Q1", graphstore.Result{Columns: []string{"s.name"}})

		r := newRouter(t, Params{
			Matcher: scriptedMatcher{match: matcher.Match{Key: "list all stakeholders", Score: 0.9}},
			Store:   store,
		})

		resp := r.Route(ctx, "who are the stakeholders")
		assert.Equal(t, MethodTemplate, resp.Method)
		assert.Equal(t, "No results found.", resp.Answer)
	})

	t.Run("execution failure surfaces backend message", func(t *testing.T) {
		store := graphstore.NewMemoryStore()
		store.AddError("Q1", "Invalid input 'Q1': expected MATCH")

		r := newRouter(t, Params{
			Matcher: scriptedMatcher{match: matcher.Match{Key: "list all stakeholders", Score: 0.9}},
			Store:   store,
		})

		resp := r.Route(ctx, "who are the stakeholders")
		assert.Equal(t, MethodError, resp.Method)
		assert.Contains(t, resp.Answer, "Invalid input 'Q1': expected MATCH")
		assert.True(t, resp.Results.Empty())
	})

	t.Run("matched key missing from catalog is fatal to the request", func(t *testing.T) {
		r := newRouter(t, Params{
			Matcher: scriptedMatcher{match: matcher.Match{Key: "ghost key", Score: 0.9}},
		})

		resp := r.Route(ctx, "anything")
		assert.Equal(t, MethodError, resp.Method)
		assert.Contains(t, resp.Answer, "not found")
	})

	t.Run("display is capped but results carry all rows", func(t *testing.T) {
		rows := make([]graphstore.Row, 15)
		for i := range rows {
			rows[i] = graphstore.Row{"s.name": fmt.Sprintf("person-%d", i)}
		}

		store := graphstore.NewMemoryStore()
		store.Add("Q1", graphstore.Result{Columns: []string{"s.name"}, Rows: rows})

		r := newRouter(t, Params{
			Matcher: scriptedMatcher{match: matcher.Match{Key: "list all stakeholders", Score: 0.9}},
			Store:   store,
		})

		resp := r.Route(ctx, "who are the stakeholders")
		assert.Len(t, resp.Results.Rows, 15)
		assert.Contains(t, resp.Answer, "Found 15 result(s)")
		// Header line plus ten display lines.
		assert.Len(t, strings.Split(resp.Answer, "\n"), 11)
	})
}

func TestRouter_FallbackPath(t *testing.T) {
	ctx := context.Background()

	t.Run("low similarity without generator yields no_match with guidance", func(t *testing.T) {
		r := newRouter(t, Params{
			Matcher: scriptedMatcher{match: matcher.Match{Key: "list all stakeholders", Score: 0.1}},
		})

		resp := r.RouteWithThreshold(ctx, "compute the weighted average of all quarterly risk scores", 0.5)

		assert.Equal(t, MethodNoMatch, resp.Method)
		assert.True(t, resp.Results.Empty())
		assert.Empty(t, resp.QueryText)
		assert.Contains(t, resp.Answer, "rephrasing")
		assert.Contains(t, resp.Answer, "list all stakeholders")
	})

	t.Run("generator output is executed", func(t *testing.T) {
		store := graphstore.NewMemoryStore()
		store.Add("MATCH (r:Risk) RETURN avg(r.score)", graphstore.Result{
			Columns: []string{"avg(r.score)"},
			Rows:    []graphstore.Row{{"avg(r.score)": 0.42}},
		})

		var gotSchemaHint string

		gen := funcGenerator(func(_ context.Context, _, schemaHint string) (string, error) {
			gotSchemaHint = schemaHint
			return "MATCH (r:Risk) RETURN avg(r.score)", nil
		})

		r := newRouter(t, Params{
			Matcher:    scriptedMatcher{match: matcher.Match{Key: "list all stakeholders", Score: 0.2}},
			Store:      store,
			Generator:  gen,
			SchemaHint: "Node labels: Risk",
		})

		resp := r.Route(ctx, "average risk score")

		assert.Equal(t, MethodFallback, resp.Method)
		assert.Equal(t, "MATCH (r:Risk) RETURN avg(r.score)", resp.QueryText)
		assert.Equal(t, LatencyMultiSecond, resp.LatencyClass)
		assert.Empty(t, resp.TemplateKey)
		assert.Equal(t, "Node labels: Risk", gotSchemaHint)
		assert.Contains(t, resp.Answer, "Found 1 result(s)")
	})

	t.Run("generation failure is isolated to an error response", func(t *testing.T) {
		gen := funcGenerator(func(context.Context, string, string) (string, error) {
			return "", ragerrors.NewGenerationError("model overloaded")
		})

		r := newRouter(t, Params{
			Matcher:   scriptedMatcher{match: matcher.Match{Key: "list all stakeholders", Score: 0.2}},
			Generator: gen,
		})

		resp := r.Route(ctx, "something novel")

		assert.Equal(t, MethodError, resp.Method)
		assert.True(t, resp.Results.Empty())
		assert.Contains(t, resp.Answer, "model overloaded")
	})

	t.Run("generated query that fails execution is not retried", func(t *testing.T) {
		store := graphstore.NewMemoryStore()
		store.AddError("NOT CYPHER", "Invalid input 'NOT'")

		calls := 0
		gen := funcGenerator(func(context.Context, string, string) (string, error) {
			calls++
			return "NOT CYPHER", nil
		})

		r := newRouter(t, Params{
			Matcher:   scriptedMatcher{match: matcher.Match{Key: "list all stakeholders", Score: 0.2}},
			Store:     store,
			Generator: gen,
		})

		resp := r.Route(ctx, "something novel")

		assert.Equal(t, MethodError, resp.Method)
		assert.Contains(t, resp.Answer, "Invalid input 'NOT'")
		assert.Equal(t, 1, calls)
	})

	t.Run("fallback timeout bounds a hung generator", func(t *testing.T) {
		gen := funcGenerator(func(ctx context.Context, _, _ string) (string, error) {
			<-ctx.Done()
			return "", ragerrors.NewGenerationError(ctx.Err().Error())
		})

		r := newRouter(t, Params{
			Matcher:         scriptedMatcher{match: matcher.Match{Key: "list all stakeholders", Score: 0.2}},
			Generator:       gen,
			FallbackTimeout: 10 * time.Millisecond,
		})

		done := make(chan RoutingResponse, 1)
		go func() { done <- r.Route(ctx, "something novel") }()

		select {
		case resp := <-done:
			assert.Equal(t, MethodError, resp.Method)
		case <-time.After(2 * time.Second):
			t.Fatal("router did not return within the fallback timeout")
		}
	})
}

func TestRouter_ThresholdPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("threshold is monotonic", func(t *testing.T) {
		store := graphstore.NewMemoryStore()
		store.Add("Q1", stakeholderResult())

		r := newRouter(t, Params{
			Matcher: scriptedMatcher{match: matcher.Match{Key: "list all stakeholders", Score: 0.5}},
			Store:   store,
		})

		thresholds := []float64{0.1, 0.3, 0.5, 0.7, 0.9}
		sawFallback := false

		for _, threshold := range thresholds {
			resp := r.RouteWithThreshold(ctx, "who are the stakeholders", threshold)

			if resp.Method == MethodTemplate {
				// Once the fallback side starts, raising the threshold can
				// never flip a question back to the template path.
				assert.False(t, sawFallback, "template path reappeared at threshold %v", threshold)
			} else {
				sawFallback = true
			}
		}

		assert.True(t, sawFallback)
	})

	t.Run("boundary score equal to threshold takes the template path", func(t *testing.T) {
		store := graphstore.NewMemoryStore()
		store.Add("Q1", stakeholderResult())

		r := newRouter(t, Params{
			Matcher: scriptedMatcher{match: matcher.Match{Key: "list all stakeholders", Score: 0.5}},
			Store:   store,
		})

		resp := r.RouteWithThreshold(ctx, "who are the stakeholders", 0.5)
		assert.Equal(t, MethodTemplate, resp.Method)
	})

	t.Run("Route uses the configured default threshold", func(t *testing.T) {
		r := newRouter(t, Params{
			Matcher:   scriptedMatcher{match: matcher.Match{Key: "list all stakeholders", Score: 0.45}},
			Threshold: 0.4,
		})

		store := graphstore.NewMemoryStore()
		store.Add("Q1", stakeholderResult())
		r.store = store

		resp := r.Route(ctx, "who are the stakeholders")
		assert.Equal(t, MethodTemplate, resp.Method)
	})
}

func TestRouter_MatcherFailure(t *testing.T) {
	r := newRouter(t, Params{
		Matcher: scriptedMatcher{err: errors.New("embedding service down")},
	})

	resp := r.Route(context.Background(), "anything")

	assert.Equal(t, MethodError, resp.Method)
	assert.True(t, resp.Results.Empty())
	assert.Contains(t, resp.Answer, "embedding service down")
}

func TestNew_Validation(t *testing.T) {
	cat := stakeholderCatalog(t)
	store := graphstore.NewMemoryStore()
	m := scriptedMatcher{}

	t.Run("requires matcher", func(t *testing.T) {
		_, err := New(Params{Catalog: cat, Store: store})
		assert.Error(t, err)
	})

	t.Run("requires catalog", func(t *testing.T) {
		_, err := New(Params{Matcher: m, Store: store})
		assert.Error(t, err)
	})

	t.Run("requires store", func(t *testing.T) {
		_, err := New(Params{Matcher: m, Catalog: cat})
		assert.Error(t, err)
	})

	t.Run("zero threshold falls back to default", func(t *testing.T) {
		r, err := New(Params{Matcher: m, Catalog: cat, Store: store})
		require.NoError(t, err)
		assert.InDelta(t, DefaultThreshold, r.threshold, 1e-9)
	})
}

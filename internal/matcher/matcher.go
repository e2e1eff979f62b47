// Package matcher embeds questions and catalog templates into a shared vector
// space and ranks templates by cosine similarity to a question.
package matcher

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Snickdx/project-graph/internal/catalog"
	"github.com/Snickdx/project-graph/internal/embeddings"
	"github.com/Snickdx/project-graph/internal/observability"
	"github.com/Snickdx/project-graph/pkg/cache"
	"github.com/Snickdx/project-graph/pkg/vecmath"
)

const questionEmbeddingCacheName = "question_embedding"

// Match is one ranked (template key, similarity score) pair.
// Score is cosine similarity: bounded, symmetric, higher is better.
type Match struct {
	Key   string
	Score float64
}

// Matcher ranks catalog templates against free-text questions. The embedding
// index is built once at construction and is positionally coupled to the
// catalog: index[i] holds the vector for catalog entry i. Neither is mutated
// afterwards, so concurrent Rank calls need no locking. Publishing a changed
// catalog means building a new Matcher and swapping it in, never editing the
// index in place.
type Matcher struct {
	catalog      *catalog.Catalog
	client       embeddings.Client
	index        [][]float32
	queryCache   *cache.LoaderCache[[]float32]
	cacheMetrics observability.CacheMetrics
	logger       *slog.Logger
}

// Params configures New. QueryCacheSize <= 0 disables the question embedding
// cache; CacheMetrics and Logger may be nil.
type Params struct {
	Catalog        *catalog.Catalog
	Embeddings     embeddings.Client
	QueryCacheSize int
	CacheMetrics   observability.CacheMetrics
	Logger         *slog.Logger
}

// New builds the embedding index for every catalog template in one batch call
// and returns a ready matcher. The returned index length always equals the
// catalog size.
func New(ctx context.Context, p Params) (*Matcher, error) {
	if p.Catalog == nil || p.Catalog.Len() == 0 {
		return nil, fmt.Errorf("matcher: catalog must be non-empty")
	}

	if p.Embeddings == nil {
		return nil, fmt.Errorf("matcher: embeddings client is required")
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	texts := make([]string, p.Catalog.Len())
	for i := range texts {
		texts[i] = p.Catalog.At(i).EmbeddingText()
	}

	index, err := p.Embeddings.GetEmbeddings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("build embedding index: %w", err)
	}

	if len(index) != p.Catalog.Len() {
		return nil, fmt.Errorf("embedding index length %d does not match catalog size %d", len(index), p.Catalog.Len())
	}

	for _, vec := range index {
		vecmath.NormalizeL2(vec)
	}

	m := &Matcher{
		catalog:      p.Catalog,
		client:       p.Embeddings,
		index:        index,
		cacheMetrics: p.CacheMetrics,
		logger:       logger,
	}

	if p.QueryCacheSize > 0 {
		queryCache, err := cache.NewLoaderCache[[]float32](p.QueryCacheSize)
		if err != nil {
			return nil, fmt.Errorf("create question embedding cache: %w", err)
		}

		m.queryCache = queryCache
	}

	logger.Info("embedding index built", "templates", p.Catalog.Len())

	return m, nil
}

// IndexSize returns the number of indexed templates.
// Always equals the catalog size.
func (m *Matcher) IndexSize() int {
	return len(m.index)
}

// Rank returns every template key with its similarity to the question, sorted
// by score descending. Ties keep catalog enumeration order (stable sort).
// Deterministic for a fixed embedding model and catalog.
func (m *Matcher) Rank(ctx context.Context, question string) ([]Match, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question must be non-empty")
	}

	embedding, err := m.questionEmbedding(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	matches := make([]Match, len(m.index))
	for i, vec := range m.index {
		matches[i] = Match{
			Key:   m.catalog.At(i).Key,
			Score: vecmath.CosineSimilarity(embedding, vec),
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches, nil
}

// BestMatch returns the single top-ranked (key, score) pair for the question.
// Ties break toward the earliest catalog entry.
func (m *Matcher) BestMatch(ctx context.Context, question string) (Match, error) {
	matches, err := m.Rank(ctx, question)
	if err != nil {
		return Match{}, err
	}

	return matches[0], nil
}

func (m *Matcher) questionEmbedding(ctx context.Context, question string) ([]float32, error) {
	load := func(ctx context.Context, q string) ([]float32, error) {
		vec, err := m.client.GetEmbedding(ctx, q)
		if err != nil {
			return nil, err
		}

		vecmath.NormalizeL2(vec)

		return vec, nil
	}

	if m.queryCache == nil {
		return load(ctx, question)
	}

	vec, hit, err := m.queryCache.Get(ctx, question, load)
	if err != nil {
		return nil, err
	}

	if m.cacheMetrics != nil {
		if hit {
			m.cacheMetrics.RecordHit(questionEmbeddingCacheName)
		} else {
			m.cacheMetrics.RecordMiss(questionEmbeddingCacheName)
		}
	}

	return vec, nil
}

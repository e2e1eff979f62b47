package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/Snickdx/project-graph/internal/api/handlers"
	"github.com/Snickdx/project-graph/internal/api/middleware"
	"github.com/Snickdx/project-graph/internal/catalog"
	"github.com/Snickdx/project-graph/internal/config"
	"github.com/Snickdx/project-graph/internal/embeddings"
	"github.com/Snickdx/project-graph/internal/generator"
	"github.com/Snickdx/project-graph/internal/graphstore"
	"github.com/Snickdx/project-graph/internal/ingest"
	"github.com/Snickdx/project-graph/internal/matcher"
	"github.com/Snickdx/project-graph/internal/observability"
	"github.com/Snickdx/project-graph/internal/router"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Configure slog with the log level from config
	observability.SetupLogging(cfg.LogLevel)

	// Metrics registry with the standard process/runtime collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	// Graph store backend
	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize graph store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Embedding client for template matching
	embeddingClient, err := newEmbeddingClient(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize embedding client", "error", err)
		os.Exit(1)
	}

	templates := catalog.Default()

	m, err := matcher.New(ctx, matcher.Params{
		Catalog:        templates,
		Embeddings:     embeddingClient,
		QueryCacheSize: cfg.QueryCacheSize,
		CacheMetrics:   metrics,
	})
	if err != nil {
		slog.Error("Failed to build embedding index", "error", err)
		os.Exit(1)
	}

	// Fallback generator; nil when GENERATION_PROVIDER is none
	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize query generator", "error", err)
		os.Exit(1)
	}
	if gen == nil {
		slog.Info("Fallback generation disabled (GENERATION_PROVIDER=none)")
	}

	questionRouter, err := router.New(router.Params{
		Matcher:         m,
		Catalog:         templates,
		Store:           store,
		Generator:       gen,
		SchemaHint:      ingest.SchemaHint(),
		Threshold:       cfg.SimilarityThreshold,
		FallbackTimeout: cfg.FallbackTimeout,
		Metrics:         metrics,
	})
	if err != nil {
		slog.Error("Failed to build router", "error", err)
		os.Exit(1)
	}

	askHandler := handlers.NewAskHandler(questionRouter)
	templatesHandler := handlers.NewTemplatesHandler(templates)
	healthHandler := handlers.NewHealthHandler()

	// Set up public endpoints (no authentication required)
	publicMux := http.NewServeMux()
	publicMux.HandleFunc("GET /health", healthHandler.Check)
	publicMux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Set up protected endpoints (authentication required)
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("POST /v1/ask", askHandler.Ask)
	protectedMux.HandleFunc("GET /v1/templates", templatesHandler.List)

	var protectedHandler http.Handler = protectedMux
	protectedHandler = middleware.Auth(cfg.APIKey)(protectedHandler)

	// Combine both handlers
	mainMux := http.NewServeMux()
	mainMux.Handle("/v1/", protectedHandler)
	mainMux.Handle("/", publicMux) // Catch-all for public routes (/health, /metrics)

	// Request ID first, then logging and metrics see it in context
	var handler http.Handler = mainMux
	handler = middleware.Logging(handler)
	handler = middleware.Metrics(metrics)(handler)
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // fallback path waits on generation
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port, "store", cfg.GraphStore, "templates", templates.Len())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

// newStore builds the configured graph store and returns a close func.
func newStore(ctx context.Context, cfg *config.Config) (graphstore.QueryStore, func(), error) {
	if cfg.GraphStore == config.StoreMemory {
		slog.Info("Using in-memory graph store")
		return graphstore.NewMemoryStore(), func() {}, nil
	}

	store, err := graphstore.NewNeo4jStore(ctx, graphstore.Neo4jConfig{
		URI:      cfg.Neo4jURI,
		Username: cfg.Neo4jUsername,
		Password: cfg.Neo4jPassword,
		Database: cfg.Neo4jDatabase,
	}, nil)
	if err != nil {
		return nil, nil, err
	}

	closeStore := func() {
		if err := store.Close(context.Background()); err != nil {
			slog.Error("Failed to close graph store", "error", err)
		}
	}

	return store, closeStore, nil
}

// newEmbeddingClient builds the configured embedding provider.
func newEmbeddingClient(ctx context.Context, cfg *config.Config) (embeddings.Client, error) {
	switch cfg.EmbeddingProvider {
	case config.ProviderOpenAI:
		slog.Info("Embedding provider: openai", "model", cfg.EmbeddingModel)
		return embeddings.NewOpenAIClient(cfg.EmbeddingAPIKey, cfg.EmbeddingModel), nil
	case config.ProviderGoogle:
		slog.Info("Embedding provider: google", "model", cfg.EmbeddingModel)
		return embeddings.NewGoogleClient(ctx, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
	default:
		slog.Info("Embedding provider: mock (deterministic, for development)")
		return embeddings.NewMockClient(), nil
	}
}

// newGenerator builds the configured fallback generator; nil when disabled.
func newGenerator(ctx context.Context, cfg *config.Config) (generator.Generator, error) {
	if cfg.GenerationProvider == config.ProviderNone {
		return nil, nil
	}

	var limiter *rate.Limiter
	if cfg.GenerationRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.GenerationRateLimit), 1)
	}

	switch cfg.GenerationProvider {
	case config.ProviderOpenAI:
		slog.Info("Generation provider: openai", "model", cfg.GenerationModel)
		return generator.NewOpenAIGenerator(cfg.GenerationAPIKey, cfg.GenerationModel, limiter), nil
	default:
		slog.Info("Generation provider: google", "model", cfg.GenerationModel)
		return generator.NewGoogleGenerator(ctx, cfg.GenerationAPIKey, cfg.GenerationModel, limiter)
	}
}

// Command ask answers questions about the project graph from the terminal,
// either one-shot via -q or as an interactive session.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/time/rate"

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
	question := flag.String("q", "", "one-shot question; omit for an interactive session")
	threshold := flag.Float64("threshold", 0, "similarity threshold override in (0, 1]")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	observability.SetupLogging(cfg.LogLevel)

	ctx := context.Background()

	questionRouter, cleanup, err := buildRouter(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup error:", err)
		os.Exit(1)
	}
	defer cleanup()

	override := cfg.SimilarityThreshold
	if *threshold > 0 {
		override = *threshold
	}

	if *question != "" {
		printResponse(questionRouter.RouteWithThreshold(ctx, *question, override))
		return
	}

	runInteractive(ctx, questionRouter, override)
}

// buildRouter wires the full pipeline from config, same as the API server.
func buildRouter(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	cleanup := func() {}

	var store graphstore.QueryStore
	if cfg.GraphStore == config.StoreMemory {
		store = graphstore.NewMemoryStore()
	} else {
		neo4jStore, err := graphstore.NewNeo4jStore(ctx, graphstore.Neo4jConfig{
			URI:      cfg.Neo4jURI,
			Username: cfg.Neo4jUsername,
			Password: cfg.Neo4jPassword,
			Database: cfg.Neo4jDatabase,
		}, nil)
		if err != nil {
			return nil, nil, err
		}

		store = neo4jStore
		cleanup = func() {
			if err := neo4jStore.Close(context.Background()); err != nil {
				slog.Error("Failed to close graph store", "error", err)
			}
		}
	}

	var embeddingClient embeddings.Client
	switch cfg.EmbeddingProvider {
	case config.ProviderOpenAI:
		embeddingClient = embeddings.NewOpenAIClient(cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
	case config.ProviderGoogle:
		client, err := embeddings.NewGoogleClient(ctx, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
		if err != nil {
			return nil, nil, err
		}
		embeddingClient = client
	default:
		embeddingClient = embeddings.NewMockClient()
	}

	templates := catalog.Default()

	m, err := matcher.New(ctx, matcher.Params{
		Catalog:        templates,
		Embeddings:     embeddingClient,
		QueryCacheSize: cfg.QueryCacheSize,
	})
	if err != nil {
		return nil, nil, err
	}

	var gen generator.Generator
	if cfg.GenerationProvider != config.ProviderNone {
		var limiter *rate.Limiter
		if cfg.GenerationRateLimit > 0 {
			limiter = rate.NewLimiter(rate.Limit(cfg.GenerationRateLimit), 1)
		}

		switch cfg.GenerationProvider {
		case config.ProviderOpenAI:
			gen = generator.NewOpenAIGenerator(cfg.GenerationAPIKey, cfg.GenerationModel, limiter)
		default:
			googleGen, err := generator.NewGoogleGenerator(ctx, cfg.GenerationAPIKey, cfg.GenerationModel, limiter)
			if err != nil {
				return nil, nil, err
			}
			gen = googleGen
		}
	}

	questionRouter, err := router.New(router.Params{
		Matcher:         m,
		Catalog:         templates,
		Store:           store,
		Generator:       gen,
		SchemaHint:      ingest.SchemaHint(),
		Threshold:       cfg.SimilarityThreshold,
		FallbackTimeout: cfg.FallbackTimeout,
	})
	if err != nil {
		return nil, nil, err
	}

	return questionRouter, cleanup, nil
}

func runInteractive(ctx context.Context, r *router.Router, threshold float64) {
	fmt.Println("Project graph Q&A. Type 'help' for commands, 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")

		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return
		case "help":
			fmt.Println("Commands:")
			fmt.Println("  help       show this help")
			fmt.Println("  templates  list answerable question templates")
			fmt.Println("  quit       exit")
			fmt.Println("Anything else is treated as a question.")
			continue
		case "templates":
			for _, key := range catalog.Default().Keys() {
				fmt.Println("  -", key)
			}
			continue
		}

		printResponse(r.RouteWithThreshold(ctx, line, threshold))
	}
}

func printResponse(resp router.RoutingResponse) {
	fmt.Println(resp.Answer)
	fmt.Printf("\n[method: %s", resp.Method)

	if resp.TemplateKey != "" {
		fmt.Printf(", template: %s", resp.TemplateKey)
	}

	fmt.Printf(", similarity: %.3f, latency: %s]\n", resp.Similarity, resp.LatencyClass)
}

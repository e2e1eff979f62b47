// Command loader merges a project-graph JSON export into Neo4j.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Snickdx/project-graph/internal/config"
	"github.com/Snickdx/project-graph/internal/graphstore"
	"github.com/Snickdx/project-graph/internal/ingest"
	"github.com/Snickdx/project-graph/internal/observability"
)

func main() {
	file := flag.String("file", "export.json", "path to the project graph export")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	observability.SetupLogging(cfg.LogLevel)

	if cfg.GraphStore != config.StoreNeo4j {
		fmt.Fprintln(os.Stderr, "loader requires GRAPH_STORE=neo4j")
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open export:", err)
		os.Exit(1)
	}
	defer f.Close()

	export, err := ingest.ParseExport(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse export:", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, err := graphstore.NewNeo4jStore(ctx, graphstore.Neo4jConfig{
		URI:      cfg.Neo4jURI,
		Username: cfg.Neo4jUsername,
		Password: cfg.Neo4jPassword,
		Database: cfg.Neo4jDatabase,
	}, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect to neo4j:", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			slog.Error("Failed to close graph store", "error", err)
		}
	}()

	stats, err := ingest.NewLoader(store, nil).Load(ctx, export)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load failed:", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded %d nodes and %d relationships from %s\n", stats.Nodes, stats.Relationships, *file)

	for sheet, count := range stats.NodesBySheet {
		fmt.Printf("  %-24s %d\n", sheet, count)
	}

	if len(stats.SkippedSheets) > 0 {
		fmt.Println("Skipped sheets (invalid labels):", stats.SkippedSheets)
	}
}

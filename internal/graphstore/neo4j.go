package graphstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Snickdx/project-graph/internal/ragerrors"
)

// Neo4jConfig holds connection settings for the live store.
type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string
}

// Neo4jStore is the live QueryStore over the Neo4j Go driver. It also
// implements the loader's write seam (parameterized writes); read queries
// from the catalog and the fallback generator go through Run verbatim.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *slog.Logger
}

var _ QueryStore = (*Neo4jStore)(nil)

// NewNeo4jStore connects to Neo4j and verifies connectivity before returning.
func NewNeo4jStore(ctx context.Context, cfg Neo4jConfig, logger *slog.Logger) (*Neo4jStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}

	return &Neo4jStore{driver: driver, database: cfg.Database, logger: logger}, nil
}

// Run executes the query text verbatim and returns normalized rows.
// Failures are wrapped in an ExecutionError carrying the backend message;
// the query is never retried.
func (s *Neo4jStore) Run(ctx context.Context, query string) (Result, error) {
	eager, err := neo4j.ExecuteQuery(ctx, s.driver, query, nil,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(s.database),
	)
	if err != nil {
		s.logger.WarnContext(ctx, "query execution failed", "error", err)

		return Result{}, ragerrors.NewExecutionError(query, err.Error())
	}

	result := Result{
		Columns: eager.Keys,
		Rows:    make([]Row, 0, len(eager.Records)),
	}

	for _, record := range eager.Records {
		row := make(Row, len(record.Keys))
		for i, key := range record.Keys {
			row[key] = normalizeValue(record.Values[i])
		}

		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

// Write executes a parameterized write statement. Values always go through
// the driver's parameter binding, never string interpolation.
func (s *Neo4jStore) Write(ctx context.Context, query string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(ctx, s.driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(s.database),
	)
	if err != nil {
		return ragerrors.NewExecutionError(query, err.Error())
	}

	return nil
}

// Close releases the underlying driver.
func (s *Neo4jStore) Close(ctx context.Context) error {
	if err := s.driver.Close(ctx); err != nil {
		return fmt.Errorf("close neo4j driver: %w", err)
	}

	return nil
}

// Package config provides application configuration loaded from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable via GRAPH_STORE.
const (
	StoreNeo4j  = "neo4j"
	StoreMemory = "memory"
)

// Model providers selectable via EMBEDDING_PROVIDER / GENERATION_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderGoogle = "google"
	ProviderMock   = "mock"
	ProviderNone   = "none"
)

// Config holds all application configuration.
type Config struct {
	Port     string
	APIKey   string
	LogLevel string

	// Graph store backend: neo4j or memory.
	GraphStore    string
	Neo4jURI      string
	Neo4jUsername string
	Neo4jPassword string
	Neo4jDatabase string

	// Embedding provider: openai, google, or mock.
	EmbeddingProvider string
	EmbeddingModel    string
	EmbeddingAPIKey   string

	// Generation provider for the Cypher fallback: openai, google, or none.
	GenerationProvider string
	GenerationModel    string
	GenerationAPIKey   string

	// Routing policy.
	SimilarityThreshold float64
	FallbackTimeout     time.Duration

	// Max fallback generations per second; <= 0 disables rate limiting.
	GenerationRateLimit float64

	// Question-embedding cache capacity; 0 disables the cache.
	QueryCacheSize int
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration retrieves an environment variable as a duration or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// Load reads configuration from environment variables and returns a Config struct.
// It automatically loads .env file if it exists.
// Returns default values for any missing environment variables.
// API_KEY is required and the function will return an error if it's not set.
func Load() (*Config, error) {
	// Load .env file if it exists. Skip logging when absent (e.g. env from secrets/parameter store).
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		return nil, errors.New("API_KEY environment variable is required but not set")
	}

	graphStore := getEnv("GRAPH_STORE", StoreNeo4j)
	if graphStore != StoreNeo4j && graphStore != StoreMemory {
		return nil, fmt.Errorf("GRAPH_STORE must be %q or %q, got %q", StoreNeo4j, StoreMemory, graphStore)
	}

	embeddingProvider := getEnv("EMBEDDING_PROVIDER", ProviderMock)
	switch embeddingProvider {
	case ProviderOpenAI, ProviderGoogle, ProviderMock:
	default:
		return nil, fmt.Errorf("EMBEDDING_PROVIDER must be one of openai, google, mock, got %q", embeddingProvider)
	}

	generationProvider := getEnv("GENERATION_PROVIDER", ProviderNone)
	switch generationProvider {
	case ProviderOpenAI, ProviderGoogle, ProviderNone:
	default:
		return nil, fmt.Errorf("GENERATION_PROVIDER must be one of openai, google, none, got %q", generationProvider)
	}

	threshold := getEnvAsFloat("SIMILARITY_THRESHOLD", 0.5)
	if threshold <= 0 || threshold > 1 {
		return nil, errors.New("SIMILARITY_THRESHOLD must be in (0, 1]")
	}

	queryCacheSize := getEnvAsInt("QUERY_CACHE_SIZE", 1000)
	if queryCacheSize < 0 {
		return nil, errors.New("QUERY_CACHE_SIZE must be >= 0")
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		APIKey:   apiKey,
		LogLevel: getEnv("LOG_LEVEL", "info"),

		GraphStore:    graphStore,
		Neo4jURI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUsername: getEnv("NEO4J_USERNAME", "neo4j"),
		Neo4jPassword: getEnv("NEO4J_PASSWORD", ""),
		Neo4jDatabase: getEnv("NEO4J_DATABASE", "neo4j"),

		EmbeddingProvider: embeddingProvider,
		EmbeddingModel:    getEnv("EMBEDDING_MODEL", ""),
		EmbeddingAPIKey:   getEnv("EMBEDDING_API_KEY", ""),

		GenerationProvider: generationProvider,
		GenerationModel:    getEnv("GENERATION_MODEL", ""),
		GenerationAPIKey:   getEnv("GENERATION_API_KEY", ""),

		SimilarityThreshold: threshold,
		FallbackTimeout:     getEnvAsDuration("FALLBACK_TIMEOUT", 30*time.Second),
		GenerationRateLimit: getEnvAsFloat("GENERATION_RATE_LIMIT", 1),
		QueryCacheSize:      queryCacheSize,
	}

	if cfg.GraphStore == StoreNeo4j && cfg.Neo4jPassword == "" {
		return nil, errors.New("NEO4J_PASSWORD is required when GRAPH_STORE is neo4j")
	}

	if cfg.EmbeddingProvider != ProviderMock && cfg.EmbeddingAPIKey == "" {
		return nil, fmt.Errorf("EMBEDDING_API_KEY is required when EMBEDDING_PROVIDER is %s", cfg.EmbeddingProvider)
	}

	if cfg.GenerationProvider != ProviderNone && cfg.GenerationAPIKey == "" {
		return nil, fmt.Errorf("GENERATION_API_KEY is required when GENERATION_PROVIDER is %s", cfg.GenerationProvider)
	}

	return cfg, nil
}

package config

import (
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		shouldSet    bool
		want         string
	}{
		{
			name:         "returns environment variable when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			shouldSet:    true,
			want:         "custom",
		},
		{
			name:         "returns default when environment variable not set",
			key:          "TEST_VAR_MISSING",
			defaultValue: "default",
			envValue:     "",
			shouldSet:    false,
			want:         "default",
		},
		{
			name:         "returns default when environment variable is empty string",
			key:          "TEST_VAR_EMPTY",
			defaultValue: "default",
			envValue:     "",
			shouldSet:    true,
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvAsFloat(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue float64
		envValue     string
		shouldSet    bool
		want         float64
	}{
		{
			name:         "returns environment variable as float when set",
			key:          "TEST_FLOAT_VAR",
			defaultValue: 0.5,
			envValue:     "0.75",
			shouldSet:    true,
			want:         0.75,
		},
		{
			name:         "returns default when environment variable not set",
			key:          "TEST_FLOAT_VAR_MISSING",
			defaultValue: 0.5,
			envValue:     "",
			shouldSet:    false,
			want:         0.5,
		},
		{
			name:         "returns default when environment variable is not a valid float",
			key:          "TEST_FLOAT_VAR_INVALID",
			defaultValue: 0.5,
			envValue:     "not_a_number",
			shouldSet:    true,
			want:         0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnvAsFloat(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvAsFloat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue time.Duration
		envValue     string
		shouldSet    bool
		want         time.Duration
	}{
		{
			name:         "parses duration syntax",
			key:          "TEST_DUR_VAR",
			defaultValue: 30 * time.Second,
			envValue:     "45s",
			shouldSet:    true,
			want:         45 * time.Second,
		},
		{
			name:         "returns default when not set",
			key:          "TEST_DUR_VAR_MISSING",
			defaultValue: 30 * time.Second,
			envValue:     "",
			shouldSet:    false,
			want:         30 * time.Second,
		},
		{
			name:         "returns default when invalid",
			key:          "TEST_DUR_VAR_INVALID",
			defaultValue: 30 * time.Second,
			envValue:     "soon",
			shouldSet:    true,
			want:         30 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnvAsDuration(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvAsDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	setRequired := func(t *testing.T) {
		t.Helper()
		t.Setenv("API_KEY", "test-api-key")
		t.Setenv("GRAPH_STORE", "memory")
	}

	t.Run("returns defaults when only required variables are set", func(t *testing.T) {
		setRequired(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Port != "8080" {
			t.Errorf("Port = %v, want 8080", cfg.Port)
		}
		if cfg.EmbeddingProvider != ProviderMock {
			t.Errorf("EmbeddingProvider = %v, want mock", cfg.EmbeddingProvider)
		}
		if cfg.GenerationProvider != ProviderNone {
			t.Errorf("GenerationProvider = %v, want none", cfg.GenerationProvider)
		}
		if cfg.SimilarityThreshold != 0.5 {
			t.Errorf("SimilarityThreshold = %v, want 0.5", cfg.SimilarityThreshold)
		}
		if cfg.FallbackTimeout != 30*time.Second {
			t.Errorf("FallbackTimeout = %v, want 30s", cfg.FallbackTimeout)
		}
		if cfg.QueryCacheSize != 1000 {
			t.Errorf("QueryCacheSize = %v, want 1000", cfg.QueryCacheSize)
		}
	})

	t.Run("fails without API_KEY", func(t *testing.T) {
		t.Setenv("API_KEY", "")
		t.Setenv("GRAPH_STORE", "memory")

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for missing API_KEY")
		}
	})

	t.Run("neo4j store requires a password", func(t *testing.T) {
		t.Setenv("API_KEY", "test-api-key")
		t.Setenv("GRAPH_STORE", "neo4j")
		t.Setenv("NEO4J_PASSWORD", "")

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for missing NEO4J_PASSWORD")
		}
	})

	t.Run("rejects unknown GRAPH_STORE", func(t *testing.T) {
		t.Setenv("API_KEY", "test-api-key")
		t.Setenv("GRAPH_STORE", "sqlite")

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for unknown GRAPH_STORE")
		}
	})

	t.Run("rejects unknown EMBEDDING_PROVIDER", func(t *testing.T) {
		setRequired(t)
		t.Setenv("EMBEDDING_PROVIDER", "cohere")

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for unknown EMBEDDING_PROVIDER")
		}
	})

	t.Run("non-mock embedding provider requires an API key", func(t *testing.T) {
		setRequired(t)
		t.Setenv("EMBEDDING_PROVIDER", "openai")
		t.Setenv("EMBEDDING_API_KEY", "")

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for missing EMBEDDING_API_KEY")
		}
	})

	t.Run("generation provider requires an API key", func(t *testing.T) {
		setRequired(t)
		t.Setenv("GENERATION_PROVIDER", "google")
		t.Setenv("GENERATION_API_KEY", "")

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for missing GENERATION_API_KEY")
		}
	})

	t.Run("rejects SIMILARITY_THRESHOLD outside (0, 1]", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SIMILARITY_THRESHOLD", "1.5")

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for out-of-range threshold")
		}
	})

	t.Run("overrides are honored", func(t *testing.T) {
		setRequired(t)
		t.Setenv("PORT", "3000")
		t.Setenv("SIMILARITY_THRESHOLD", "0.65")
		t.Setenv("FALLBACK_TIMEOUT", "10s")
		t.Setenv("QUERY_CACHE_SIZE", "50")
		t.Setenv("EMBEDDING_PROVIDER", "openai")
		t.Setenv("EMBEDDING_API_KEY", "sk-test")
		t.Setenv("EMBEDDING_MODEL", "text-embedding-3-large")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Port != "3000" {
			t.Errorf("Port = %v, want 3000", cfg.Port)
		}
		if cfg.SimilarityThreshold != 0.65 {
			t.Errorf("SimilarityThreshold = %v, want 0.65", cfg.SimilarityThreshold)
		}
		if cfg.FallbackTimeout != 10*time.Second {
			t.Errorf("FallbackTimeout = %v, want 10s", cfg.FallbackTimeout)
		}
		if cfg.QueryCacheSize != 50 {
			t.Errorf("QueryCacheSize = %v, want 50", cfg.QueryCacheSize)
		}
		if cfg.EmbeddingModel != "text-embedding-3-large" {
			t.Errorf("EmbeddingModel = %v, want text-embedding-3-large", cfg.EmbeddingModel)
		}
	})
}

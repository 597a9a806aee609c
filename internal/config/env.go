package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ErrMissingCredential reports a credential required by the selected provider
// that was not configured.
var ErrMissingCredential = errors.New("required credential not set")

type Config struct {
	Port string

	// Vector store
	VectorBackend  string // "chromem" | "pgvector" | "memory"
	ChromaPath     string
	CollectionName string
	DatabaseURL    string

	// Embeddings / generation
	GeminiAPIKey string
	EmbedModel   string
	EmbedDim     int
	LLMProvider  string // "gemini" | "groq"
	GenModel     string
	GroqAPIKey   string
	GroqModel    string

	// Reranking
	RerankerURL string // empty: built-in lexical scorer

	// Chunking
	MaxTokensPerChunk int
	MergePeers        bool

	// Retrieval defaults
	SimilarityTopK int
	RerankTopN     int
	MaxSources     int

	// Ingestion
	HashAlgorithm     string
	IngestConcurrency int

	LogLevel string
}

// LoadConfig loads the environment variables and returns the config.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "8080"),

		VectorBackend:  getEnv("VECTOR_BACKEND", "chromem"),
		ChromaPath:     getEnv("CHROMA_PATH", "./chroma_db"),
		CollectionName: getEnv("COLLECTION_NAME", "uploaded_docs"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		EmbedModel:   getEnv("EMBED_MODEL", "text-embedding-004"),
		EmbedDim:     getEnvInt("EMBED_DIM", 768),
		LLMProvider:  getEnv("LLM_PROVIDER", "groq"),
		GenModel:     getEnv("GEN_MODEL", "gemini-1.5-flash"),
		GroqAPIKey:   getEnv("GROQ_API_KEY", ""),
		GroqModel:    getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),

		RerankerURL: getEnv("RERANKER_URL", ""),

		MaxTokensPerChunk: getEnvInt("MAX_TOKENS_PER_CHUNK", 512),
		MergePeers:        getEnvBool("MERGE_PEERS", true),

		SimilarityTopK: getEnvInt("SIMILARITY_TOP_K", 10),
		RerankTopN:     getEnvInt("RERANKER_TOP_N", 3),
		MaxSources:     getEnvInt("MAX_SOURCES", 3),

		HashAlgorithm:     getEnv("HASH_ALGORITHM", "sha256"),
		IngestConcurrency: getEnvInt("INGEST_CONCURRENCY", 1),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks settings that cannot be defaulted for the selected backends.
func (c *Config) Validate() error {
	switch c.VectorBackend {
	case "chromem", "pgvector", "memory":
	default:
		return fmt.Errorf("unknown VECTOR_BACKEND %q", c.VectorBackend)
	}
	if c.VectorBackend == "pgvector" && c.DatabaseURL == "" {
		return errors.New("DATABASE_URL not set for pgvector backend")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY: %w", ErrMissingCredential)
	}
	if c.LLMProvider == "groq" && c.GroqAPIKey == "" {
		return fmt.Errorf("GROQ_API_KEY: %w", ErrMissingCredential)
	}
	return nil
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

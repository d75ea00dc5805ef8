package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	DocsiftAPIKey string

	// Embeddings
	OpenAIAPIKey   string
	EmbeddingModel string

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentParse int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Heading detection policy
	H1Ratio         float64
	H2Ratio         float64
	H3Ratio         float64
	MaxHeadingWords int

	// Relevance policy
	TaskWeight    float64
	PersonaWeight float64

	// Condensation policy
	TopSections      int
	MaxSentences     int
	MinSentenceChars int
	VectorFloor      float64
	KeywordFloor     float64
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		DocsiftAPIKey: os.Getenv("DOCSIFT_API_KEY"),

		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel: envOr("EMBEDDING_MODEL", "text-embedding-3-small"),

		WorkerCount:        envInt("WORKER_COUNT", 4),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentParse: envInt("MAX_CONCURRENT_PARSE", 4),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		H1Ratio:         envFloat("H1_RATIO", 0.90),
		H2Ratio:         envFloat("H2_RATIO", 0.75),
		H3Ratio:         envFloat("H3_RATIO", 0.60),
		MaxHeadingWords: envInt("MAX_HEADING_WORDS", 20),

		TaskWeight:    envFloat("TASK_WEIGHT", 0.7),
		PersonaWeight: envFloat("PERSONA_WEIGHT", 0.3),

		TopSections:      envInt("TOP_SECTIONS", 10),
		MaxSentences:     envInt("MAX_SNIPPET_SENTENCES", 3),
		MinSentenceChars: envInt("MIN_SENTENCE_CHARS", 20),
		VectorFloor:      envFloat("VECTOR_SCORE_FLOOR", 0.3),
		KeywordFloor:     envFloat("KEYWORD_SCORE_FLOOR", 0.1),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentParse <= 0 {
		cfg.MaxConcurrentParse = 4
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.TopSections <= 0 {
		cfg.TopSections = 10
	}

	return cfg
}

func (c Config) Validate() error {
	if c.DocsiftAPIKey == "" {
		return fmt.Errorf("DOCSIFT_API_KEY is required")
	}
	if c.H1Ratio <= 0 || c.H1Ratio > 1 {
		return fmt.Errorf("H1_RATIO must be in (0,1]")
	}
	if c.H2Ratio <= 0 || c.H2Ratio >= c.H1Ratio {
		return fmt.Errorf("H2_RATIO must be in (0, H1_RATIO)")
	}
	if c.H3Ratio <= 0 || c.H3Ratio >= c.H2Ratio {
		return fmt.Errorf("H3_RATIO must be in (0, H2_RATIO)")
	}
	// OPENAI_API_KEY is optional: without it the service runs entirely in
	// keyword-fallback scoring mode.
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

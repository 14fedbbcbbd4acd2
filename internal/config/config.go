// Package config loads docshelf configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// Provider identifies an LLM/embedding backend.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// LLM / embeddings
	LLMProvider   Provider
	LLMModel      string
	EmbedProvider Provider
	EmbedModel    string
	EmbedDim      int
	OllamaHost    string
	OpenAIAPIKey  string
	AnthropicKey  string

	// HTTP server
	ServerPort string

	// Ingestion
	JobRetention  time.Duration
	RetrieveLimit int
	OCRCommand    string // external OCR command line, empty disables OCR

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "docshelf"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "documents"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LLMProvider:   Provider(getEnv("DOCSHELF_LLM_PROVIDER", string(ProviderOllama))),
		LLMModel:      getEnv("DOCSHELF_LLM_MODEL", "llama3.2:1b"),
		EmbedProvider: Provider(getEnv("DOCSHELF_EMBED_PROVIDER", string(ProviderOllama))),
		EmbedModel:    getEnv("DOCSHELF_EMBED_MODEL", "all-minilm:l6-v2"),
		EmbedDim:      parseInt(getEnv("DOCSHELF_EMBED_DIM", "384"), 384),
		OllamaHost:    getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		AnthropicKey:  getEnv("ANTHROPIC_API_KEY", ""),

		ServerPort: getEnv("DOCSHELF_SERVER_PORT", "8000"),

		JobRetention:  parseDuration(getEnv("DOCSHELF_JOB_RETENTION", "1h"), time.Hour),
		RetrieveLimit: parseInt(getEnv("DOCSHELF_RETRIEVE_LIMIT", "3"), 3),
		OCRCommand:    getEnv("DOCSHELF_OCR_COMMAND", ""),

		LogFile:  getEnv("DOCSHELF_LOG_FILE", "/tmp/docshelf.log"),
		LogLevel: parseLogLevel(getEnv("DOCSHELF_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseDuration(s string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func parseInt(s string, defaultVal int) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return defaultVal
		}
		n = n*10 + int(r-'0')
	}
	if n <= 0 {
		return defaultVal
	}
	return n
}

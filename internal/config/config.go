package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string
	LogLevel string

	// Vector index backend: "qdrant" or "sqlite".
	VectorBackend    string
	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string
	DatabasePath     string

	ChatModel            string
	ChatTemperature      float64
	EmbeddingModel       string
	EmbeddingDimension   int
	RerankEmbeddingModel string

	RetrieveTopK          int
	ContextCharBudget     int
	RequestTimeoutSeconds int
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		VectorBackend:    getEnv("VECTOR_BACKEND", "sqlite"),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6334"),
		QdrantAPIKey:     getEnv("QDRANT_API_KEY", ""),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "documents"),
		DatabasePath:     getEnv("DATABASE_PATH", "docuchat.db"),

		ChatModel:            getEnv("CHAT_MODEL", "gpt-3.5-turbo"),
		ChatTemperature:      getEnvAsFloat("CHAT_TEMPERATURE", 0.7),
		EmbeddingModel:       getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"),
		EmbeddingDimension:   getEnvAsInt("EMBEDDING_DIMENSION", 1536),
		RerankEmbeddingModel: getEnv("RERANK_EMBEDDING_MODEL", "text-embedding-3-small"),

		RetrieveTopK:          getEnvAsInt("RETRIEVE_TOP_K", 10),
		ContextCharBudget:     getEnvAsInt("CONTEXT_CHAR_BUDGET", 8000),
		RequestTimeoutSeconds: getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 60),
	}

	if AppConfig.VectorBackend != "qdrant" && AppConfig.VectorBackend != "sqlite" {
		log.Fatalf("Unknown VECTOR_BACKEND %q, expected \"qdrant\" or \"sqlite\"", AppConfig.VectorBackend)
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

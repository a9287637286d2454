// Command ingest chunks a document, embeds the chunks and rebuilds the
// vector index with them. Rebuilds are full delete-and-recreate: do not run
// an ingestion while the server is answering queries against the same
// index.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/docuchat-ai/docuchat/internal/config"
	"github.com/docuchat-ai/docuchat/internal/index"
	"github.com/docuchat-ai/docuchat/internal/ingest"
	"github.com/docuchat-ai/docuchat/internal/llm"
)

func main() {
	filePath := flag.String("file", "", "Path to a .txt or .md document to ingest")
	source := flag.String("source", "", "Source label stored with each chunk (defaults to the file path)")
	flag.Parse()

	config.LoadConfig()
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if *filePath == "" {
		logger.Fatal().Msg("-file is required")
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logger.Fatal().Msg("OPENAI_API_KEY environment variable is required for ingestion")
	}

	idx, err := openIndex(config.AppConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize vector index")
	}
	defer idx.Close()

	provider := llm.New(apiKey, llm.Config{
		EmbeddingModel:       config.AppConfig.EmbeddingModel,
		RerankEmbeddingModel: config.AppConfig.RerankEmbeddingModel,
	})

	ingestor := ingest.NewIngestor(idx, provider.Providers().Primary, config.AppConfig.EmbeddingDimension, logger)

	count, err := ingestor.IngestFile(context.Background(), *filePath, *source)
	if err != nil {
		logger.Fatal().Err(err).Int("indexed", count).Msg("ingestion failed")
	}
	logger.Info().Int("chunks", count).Str("file", *filePath).Msg("ingestion complete")
}

func openIndex(cfg config.Config) (index.Index, error) {
	switch cfg.VectorBackend {
	case "qdrant":
		return index.NewQdrant(index.QdrantConfig{
			URL:        cfg.QdrantURL,
			APIKey:     cfg.QdrantAPIKey,
			Collection: cfg.QdrantCollection,
		})
	default:
		return index.NewSQLite(cfg.DatabasePath)
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/docuchat-ai/docuchat/internal/api"
	"github.com/docuchat-ai/docuchat/internal/config"
	"github.com/docuchat-ai/docuchat/internal/core"
	"github.com/docuchat-ai/docuchat/internal/index"
	"github.com/docuchat-ai/docuchat/internal/llm"
)

func main() {
	config.LoadConfig()

	logger := newLogger(config.AppConfig.LogLevel)

	idx, err := openIndex(config.AppConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize vector index")
	}
	defer idx.Close()

	llmCfg := llm.Config{
		ChatModel:            config.AppConfig.ChatModel,
		Temperature:          config.AppConfig.ChatTemperature,
		EmbeddingModel:       config.AppConfig.EmbeddingModel,
		RerankEmbeddingModel: config.AppConfig.RerankEmbeddingModel,
	}

	pipeline := core.NewPipeline(
		core.NewRetriever(idx, config.AppConfig.RetrieveTopK),
		core.NewReranker(),
		core.NewAssembler(config.AppConfig.ContextCharBudget),
		core.NewMemory(),
		logger.With().Str("component", "pipeline").Logger(),
	)

	timeout := time.Duration(config.AppConfig.RequestTimeoutSeconds) * time.Second
	apiHandler := api.NewAPIHandler(
		pipeline,
		func(apiKey string) core.Providers {
			return llm.New(apiKey, llmCfg).Providers()
		},
		func(ctx context.Context, apiKey string) bool {
			return llm.New(apiKey, llmCfg).ValidateKey(ctx)
		},
		timeout,
		logger.With().Str("component", "api").Logger(),
	)
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: timeout + 15*time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Str("backend", config.AppConfig.VectorBackend).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}
	logger.Info().Msg("server exited gracefully")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
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

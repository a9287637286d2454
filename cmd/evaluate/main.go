// Command evaluate runs the built-in question set against a running
// service and writes a CSV report of lexical answer-quality metrics.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/docuchat-ai/docuchat/internal/eval"
)

func main() {
	baseURL := flag.String("base-url", "http://localhost:8080", "Base URL of the running service")
	outPath := flag.String("out", "evaluation_results.csv", "Path for the CSV report")
	timeout := flag.Duration("timeout", 2*time.Minute, "Per-question request timeout")
	flag.Parse()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logger.Fatal().Msg("OPENAI_API_KEY environment variable is required for evaluation")
	}

	client := eval.NewClient(*baseURL, &http.Client{Timeout: *timeout})

	rows, err := eval.Run(context.Background(), client, apiKey, eval.Dataset, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("evaluation failed")
	}

	out, err := os.Create(*outPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create report file")
	}
	defer out.Close()

	if err := eval.WriteReport(out, rows); err != nil {
		logger.Fatal().Err(err).Msg("failed to write report")
	}

	var f1Sum, recallSum float64
	for _, row := range rows {
		f1Sum += row.F1
		recallSum += row.ContextRecall
	}
	n := float64(len(rows))
	logger.Info().
		Int("questions", len(rows)).
		Float64("mean_f1", f1Sum/n).
		Float64("mean_context_recall", recallSum/n).
		Str("report", *outPath).
		Msg("evaluation complete")
}

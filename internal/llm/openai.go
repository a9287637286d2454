// Package llm provides credential-scoped clients for the OpenAI API. A
// Provider is constructed per request from that request's API key and
// discarded at request end; keys are never cached or logged.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/docuchat-ai/docuchat/internal/core"
)

// Config holds the fixed model configuration. Model names and temperature
// are service configuration, never user-controlled.
type Config struct {
	ChatModel   string
	Temperature float64
	// EmbeddingModel is the primary (indexing/retrieval) embedding space.
	EmbeddingModel string
	// RerankEmbeddingModel is the independent secondary space used only
	// for reranking.
	RerankEmbeddingModel string
}

// Provider is a set of OpenAI clients bound to one API key.
type Provider struct {
	client openai.Client
	cfg    Config
}

func New(apiKey string, cfg Config) *Provider {
	return &Provider{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		cfg:    cfg,
	}
}

// Providers returns the pipeline-facing view of this credential's clients.
func (p *Provider) Providers() core.Providers {
	return core.Providers{
		Primary: &embedder{client: p.client, model: p.cfg.EmbeddingModel},
		Rerank:  &embedder{client: p.client, model: p.cfg.RerankEmbeddingModel},
		Chat:    &chatModel{client: p.client, model: p.cfg.ChatModel, temperature: p.cfg.Temperature},
	}
}

// ValidateKey checks the credential with a lightweight models lookup. Any
// failure, including network errors, reports the key as unusable.
func (p *Provider) ValidateKey(ctx context.Context) bool {
	_, err := p.client.Models.List(ctx)
	return err == nil
}

type embedder struct {
	client openai.Client
	model  string
}

func (e *embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	res, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, wrapAPIError(fmt.Errorf("openai embeddings request failed: %w", err))
	}
	if len(res.Data) != len(texts) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d inputs", len(res.Data), len(texts))
	}

	vectors := make([][]float32, len(res.Data))
	for _, d := range res.Data {
		vector := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vector[i] = float32(v)
		}
		vectors[d.Index] = vector
	}
	return vectors, nil
}

type chatModel struct {
	client      openai.Client
	model       string
	temperature float64
}

func (c *chatModel) Complete(ctx context.Context, system string, history []core.Turn, user string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(system))
	for _, turn := range history {
		switch turn.Role {
		case core.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(user))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return "", wrapAPIError(fmt.Errorf("openai chat completion failed: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no completion choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// wrapAPIError tags auth rejections with core.ErrInvalidCredential so the
// pipeline can report the credential stage without echoing the key.
func wrapAPIError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		if apierr.StatusCode == http.StatusUnauthorized || apierr.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: %w", core.ErrInvalidCredential, err)
		}
	}
	return err
}

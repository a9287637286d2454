package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/docuchat-ai/docuchat/internal/core"
)

// ProviderFactory builds the credential-scoped model clients for one
// request. The returned providers must not be reused across requests.
type ProviderFactory func(apiKey string) core.Providers

// KeyValidator reports whether a credential is usable.
type KeyValidator func(ctx context.Context, apiKey string) bool

type APIHandler struct {
	pipeline  *core.Pipeline
	providers ProviderFactory
	validate  KeyValidator
	timeout   time.Duration
	log       zerolog.Logger
}

func NewAPIHandler(pipeline *core.Pipeline, providers ProviderFactory, validate KeyValidator, timeout time.Duration, log zerolog.Logger) *APIHandler {
	return &APIHandler{
		pipeline:  pipeline,
		providers: providers,
		validate:  validate,
		timeout:   timeout,
		log:       log,
	}
}

type QueryRequest struct {
	UserInput    string `json:"user_input"`
	OpenAIAPIKey string `json:"openai_api_key"`
	SessionID    string `json:"session_id,omitempty"`
}

type QueryResponse struct {
	Response           string   `json:"response"`
	SessionID          string   `json:"session_id"`
	RetrievedDocuments []string `json:"retrieved_documents"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

func (h *APIHandler) QueryHandler(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	if req.UserInput == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Missing 'user_input' in request body."})
		return
	}
	if req.OpenAIAPIKey == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Missing 'openai_api_key' in request body."})
		return
	}

	session := req.SessionID
	if session == "" {
		session = uuid.NewString()
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.pipeline.Answer(ctx, session, req.UserInput, h.providers(req.OpenAIAPIKey))
	if err != nil {
		status := http.StatusBadGateway
		stage := ""
		var stageErr *core.StageError
		if errors.As(err, &stageErr) {
			stage = string(stageErr.Stage)
			if stageErr.Stage == core.StageCredential {
				status = http.StatusUnauthorized
			}
		}
		h.log.Error().Err(err).Str("session", session).Str("stage", stage).Msg("query pipeline failed")
		writeJSON(w, status, ErrorResponse{Error: "Failed to answer query", Stage: stage})
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Response:           result.Response,
		SessionID:          session,
		RetrievedDocuments: result.Documents,
	})
}

type ValidateKeyRequest struct {
	OpenAIAPIKey string `json:"openai_api_key"`
}

type ValidateKeyResponse struct {
	Valid bool `json:"valid"`
}

func (h *APIHandler) ValidateKeyHandler(w http.ResponseWriter, r *http.Request) {
	var req ValidateKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	if req.OpenAIAPIKey == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Missing 'openai_api_key' in request body."})
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	writeJSON(w, http.StatusOK, ValidateKeyResponse{Valid: h.validate(ctx, req.OpenAIAPIKey)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

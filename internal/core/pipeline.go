package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// NoInformationMessage is returned when retrieval produces no usable
// context. It is a graceful outcome, not an error.
const NoInformationMessage = "Sorry, I couldn't find relevant information."

const systemInstruction = "You are a helpful assistant that answers questions about the user's uploaded documents. " +
	"Answer based on the provided context. If the answer is not found in the context, clearly state that you " +
	"don't have the information. Keep answers concise and directly related to the question. Do not make up information."

// Result is the outcome of one completed query.
type Result struct {
	Response string
	// Documents holds the reranked chunk texts the answer was grounded on,
	// in rank order.
	Documents []string
}

// Pipeline runs one query through retrieve, rerank, assemble and generate.
// Stages execute strictly in that order; the first failure aborts the rest
// and surfaces as a StageError. The request context cancels in-flight
// provider calls at every suspension point.
type Pipeline struct {
	retriever *Retriever
	reranker  *Reranker
	assembler *Assembler
	memory    *Memory
	log       zerolog.Logger
}

func NewPipeline(retriever *Retriever, reranker *Reranker, assembler *Assembler, memory *Memory, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		retriever: retriever,
		reranker:  reranker,
		assembler: assembler,
		memory:    memory,
		log:       log,
	}
}

// Memory exposes the session store, for callers that need to inspect
// history.
func (p *Pipeline) Memory() *Memory {
	return p.memory
}

// Answer handles one user question for a session using the request-scoped
// providers. On completion (including the no-information path) the
// question/answer exchange is appended to the session's history.
func (p *Pipeline) Answer(ctx context.Context, session, question string, prov Providers) (*Result, error) {
	log := p.log.With().Str("session", session).Logger()

	candidates, err := p.retriever.Retrieve(ctx, question, prov.Primary)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("candidates", len(candidates)).Msg("retrieved candidate chunks")

	ranked, err := p.reranker.Rerank(ctx, question, candidates, prov.Rerank)
	if err != nil {
		return nil, err
	}

	contextBlock := p.assembler.Assemble(ranked)
	documents := make([]string, len(ranked))
	for i, rc := range ranked {
		documents[i] = rc.Text
	}

	if contextBlock == "" {
		log.Info().Msg("no relevant chunks found, returning no-information message")
		p.memory.AppendExchange(session, question, NoInformationMessage)
		return &Result{Response: NoInformationMessage, Documents: documents}, nil
	}

	history := p.memory.History(session)
	answer, err := prov.Chat.Complete(ctx, systemInstruction, history, userPrompt(contextBlock, question))
	if err != nil {
		return nil, stageError(StageGeneration, fmt.Errorf("chat completion failed: %w", err))
	}

	p.memory.AppendExchange(session, question, answer)
	log.Info().Int("context_chunks", len(ranked)).Msg("generated grounded answer")
	return &Result{Response: answer, Documents: documents}, nil
}

func userPrompt(contextBlock, question string) string {
	return fmt.Sprintf("Use the following context from the uploaded documents to answer my question.\n\n"+
		"--- CONTEXT START ---\n%s\n--- CONTEXT END ---\n\nQuestion: %s", contextBlock, question)
}

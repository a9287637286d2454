package core

import (
	"context"
	"errors"

	"github.com/docuchat-ai/docuchat/internal/index"
)

// fakeEmbedder returns canned vectors per text and counts calls so tests
// can assert how often the embedding service was hit.
type fakeEmbedder struct {
	vectors        map[string][]float32
	fallbackVector []float32
	calls          int
	err            error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := f.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = f.fallbackVector
		}
	}
	return out, nil
}

// fakeChat records the last completion request and counts calls.
type fakeChat struct {
	answer      string
	err         error
	calls       int
	lastSystem  string
	lastHistory []Turn
	lastUser    string
}

func (f *fakeChat) Complete(_ context.Context, system string, history []Turn, user string) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastHistory = history
	f.lastUser = user
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

// fakeIndex serves fixed hits or a fixed error.
type fakeIndex struct {
	hits  []index.Hit
	err   error
	calls int
}

func (f *fakeIndex) Search(_ context.Context, _ []float32, limit int) ([]index.Hit, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	hits := f.hits
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

var errBoom = errors.New("boom")

package eval

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenF1(t *testing.T) {
	tests := []struct {
		name      string
		answer    string
		reference string
		want      float64
	}{
		{"identical", "habits compound over time", "habits compound over time", 1},
		{"no overlap", "completely different words", "habits compound over time", 0},
		{"empty answer", "", "habits compound", 0},
		{"empty reference", "habits compound", "", 0},
		{"case and punctuation ignored", "Habits compound, over time!", "habits compound over time", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TokenF1(tt.answer, tt.reference), 1e-9)
		})
	}
}

func TestTokenF1PartialOverlap(t *testing.T) {
	// answer: 4 tokens, reference: 4 tokens, 2 shared.
	// precision = recall = 0.5, so f1 = 0.5.
	got := TokenF1("habits compound quite slowly", "habits compound over time")
	assert.InDelta(t, 0.5, got, 1e-9)
}

func TestTokenF1CountsDuplicatesAsMultiset(t *testing.T) {
	// "very" appears once in the reference, so the repeated token in the
	// answer only matches once.
	got := TokenF1("very very good", "very good")
	// overlap 2, precision 2/3, recall 1.
	assert.InDelta(t, 0.8, got, 1e-9)
}

func TestContextRecall(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		contexts  []string
		want      float64
	}{
		{"full coverage", "habits compound", []string{"habits compound over time"}, 1},
		{"half coverage", "habits vanish", []string{"habits compound over time"}, 0.5},
		{"no contexts", "habits compound", nil, 0},
		{"empty reference", "", []string{"some context"}, 0},
		{"spread across contexts", "habits compound", []string{"habits matter", "returns compound"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ContextRecall(tt.reference, tt.contexts), 1e-9)
		})
	}
}

func TestWriteReport(t *testing.T) {
	rows := []Row{
		{
			Question:      "What is the habit loop?",
			Answer:        "Cue, craving, response, reward.",
			Contexts:      []string{"first chunk", "second chunk"},
			Reference:     "The habit loop is cue, craving, response and reward.",
			F1:            0.75,
			ContextRecall: 0.5,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"question", "answer", "contexts", "reference", "f1", "context_recall"}, records[0])
	assert.Equal(t, "What is the habit loop?", records[1][0])
	assert.Equal(t, "first chunk\n---\nsecond chunk", records[1][2])
	assert.Equal(t, "0.7500", records[1][4])
	assert.Equal(t, "0.5000", records[1][5])
}

func TestClientQuery(t *testing.T) {
	var got queryRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/query", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(queryResponse{
			Response:           "an answer",
			SessionID:          "s1",
			RetrievedDocuments: []string{"ctx"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	answer, contexts, err := client.Query(context.Background(), "a question", "sk-test", "")
	require.NoError(t, err)
	assert.Equal(t, "an answer", answer)
	assert.Equal(t, []string{"ctx"}, contexts)
	assert.Equal(t, "a question", got.UserInput)
	assert.Equal(t, "sk-test", got.OpenAIAPIKey)
}

func TestClientQueryNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"Failed to answer query"}`, http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, _, err := client.Query(context.Background(), "q", "sk-test", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestRunScoresEverySample(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Empty(t, req.SessionID, "each sample must start a fresh session")
		json.NewEncoder(w).Encode(queryResponse{
			Response:           req.UserInput,
			SessionID:          "fresh",
			RetrievedDocuments: []string{req.UserInput},
		})
	}))
	defer srv.Close()

	samples := []Sample{
		{Question: "alpha beta", Reference: "alpha beta"},
		{Question: "gamma delta", Reference: "unrelated tokens"},
	}
	rows, err := Run(context.Background(), NewClient(srv.URL, nil), "sk-test", samples, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.InDelta(t, 1, rows[0].F1, 1e-9)
	assert.InDelta(t, 1, rows[0].ContextRecall, 1e-9)
	assert.InDelta(t, 0, rows[1].F1, 1e-9)
	assert.Equal(t, "gamma delta", rows[1].Answer)
}

// Package eval measures answer quality by running a question set against a
// running service and scoring the answers against reference answers with
// deterministic lexical metrics, then writing a CSV report.
package eval

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
)

// Row is one evaluated question in the report.
type Row struct {
	Question      string
	Answer        string
	Contexts      []string
	Reference     string
	F1            float64
	ContextRecall float64
}

// Client calls the query endpoint of a running service.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type queryRequest struct {
	UserInput    string `json:"user_input"`
	OpenAIAPIKey string `json:"openai_api_key"`
	SessionID    string `json:"session_id,omitempty"`
}

type queryResponse struct {
	Response           string   `json:"response"`
	SessionID          string   `json:"session_id"`
	RetrievedDocuments []string `json:"retrieved_documents"`
}

// Query asks the service one question. An empty session means the service
// allocates a fresh one.
func (c *Client) Query(ctx context.Context, question, apiKey, session string) (answer string, contexts []string, err error) {
	payload, err := json.Marshal(queryRequest{UserInput: question, OpenAIAPIKey: apiKey, SessionID: session})
	if err != nil {
		return "", nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/query", bytes.NewReader(payload))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("query request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", nil, fmt.Errorf("query returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", nil, fmt.Errorf("failed to decode query response: %w", err)
	}
	return out.Response, out.RetrievedDocuments, nil
}

// Run evaluates every sample in the dataset, one fresh session per
// question so conversation memory cannot bleed between samples.
func Run(ctx context.Context, client *Client, apiKey string, samples []Sample, log zerolog.Logger) ([]Row, error) {
	rows := make([]Row, 0, len(samples))
	for i, sample := range samples {
		answer, contexts, err := client.Query(ctx, sample.Question, apiKey, "")
		if err != nil {
			return rows, fmt.Errorf("sample %d (%q): %w", i, sample.Question, err)
		}

		row := Row{
			Question:      sample.Question,
			Answer:        answer,
			Contexts:      contexts,
			Reference:     sample.Reference,
			F1:            TokenF1(answer, sample.Reference),
			ContextRecall: ContextRecall(sample.Reference, contexts),
		}
		rows = append(rows, row)
		log.Info().Int("sample", i+1).Int("total", len(samples)).
			Float64("f1", row.F1).Float64("context_recall", row.ContextRecall).
			Msg("evaluated question")
	}
	return rows, nil
}

// TokenF1 is the harmonic mean of token precision and recall between an
// answer and the reference answer.
func TokenF1(answer, reference string) float64 {
	answerTokens := tokenize(answer)
	referenceTokens := tokenize(reference)
	if len(answerTokens) == 0 || len(referenceTokens) == 0 {
		return 0
	}

	refCounts := make(map[string]int, len(referenceTokens))
	for _, t := range referenceTokens {
		refCounts[t]++
	}
	overlap := 0
	for _, t := range answerTokens {
		if refCounts[t] > 0 {
			refCounts[t]--
			overlap++
		}
	}
	if overlap == 0 {
		return 0
	}

	precision := float64(overlap) / float64(len(answerTokens))
	recall := float64(overlap) / float64(len(referenceTokens))
	return 2 * precision * recall / (precision + recall)
}

// ContextRecall is the fraction of distinct reference tokens that appear
// anywhere in the retrieved contexts.
func ContextRecall(reference string, contexts []string) float64 {
	referenceTokens := tokenize(reference)
	if len(referenceTokens) == 0 {
		return 0
	}

	contextSet := make(map[string]struct{})
	for _, c := range contexts {
		for _, t := range tokenize(c) {
			contextSet[t] = struct{}{}
		}
	}

	distinct := make(map[string]struct{}, len(referenceTokens))
	for _, t := range referenceTokens {
		distinct[t] = struct{}{}
	}

	found := 0
	for t := range distinct {
		if _, ok := contextSet[t]; ok {
			found++
		}
	}
	return float64(found) / float64(len(distinct))
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// WriteReport writes the rows as CSV, one line per question.
func WriteReport(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"question", "answer", "contexts", "reference", "f1", "context_recall"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Question,
			row.Answer,
			strings.Join(row.Contexts, "\n---\n"),
			row.Reference,
			strconv.FormatFloat(row.F1, 'f', 4, 64),
			strconv.FormatFloat(row.ContextRecall, 'f', 4, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("hello world", 1000, 200)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0])
}

func TestSplitTextEmptyInput(t *testing.T) {
	assert.Nil(t, SplitText("", 1000, 200))
	assert.Nil(t, SplitText("   \n\t ", 1000, 200))
}

func TestSplitTextChunkSizeBound(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 1000)) // ~5000 chars
	chunks := SplitText(text, 1000, 200)

	require.GreaterOrEqual(t, len(chunks), 5)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 1000, "chunk %d exceeds size", i)
		assert.NotEmpty(t, chunk)
	}
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("alpha beta gamma delta ", 200))
	chunks := SplitText(text, 500, 100)
	require.Greater(t, len(chunks), 1)

	// Consecutive chunks share their overlap region.
	for i := 1; i < len(chunks); i++ {
		head := chunks[i]
		if len(head) > 50 {
			head = head[:50]
		}
		assert.Contains(t, chunks[i-1], strings.TrimSpace(head), "chunk %d does not overlap its predecessor", i)
	}
}

func TestSplitTextBreaksOnWhitespace(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("sometoken ", 300))
	chunks := SplitText(text, 1000, 200)
	for i, chunk := range chunks {
		// Chunks end on a whole token; they may begin mid-token where the
		// overlap window landed, so every field is a suffix of the token.
		assert.True(t, strings.HasSuffix(chunk, "sometoken"), "chunk %d cut mid-word at its end", i)
		for _, token := range strings.Fields(chunk) {
			assert.True(t, strings.HasSuffix("sometoken", token), "unexpected field %q", token)
		}
	}
}

func TestSplitTextNoWhitespace(t *testing.T) {
	// Unbreakable input falls back to hard cuts.
	text := strings.Repeat("x", 2500)
	chunks := SplitText(text, 1000, 200)
	require.GreaterOrEqual(t, len(chunks), 3)
	assert.Equal(t, 1000, len(chunks[0]))
}

package ingest

import "strings"

const (
	// DefaultChunkSize and DefaultChunkOverlap follow the reference
	// ingestion settings: 1000-character chunks with 200 characters of
	// overlap between neighbors.
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// SplitText splits text into fixed-size overlapping chunks. Cut points back
// off to the last whitespace inside the window when one exists, so words are
// not split mid-token. Leading/trailing whitespace is trimmed per chunk and
// empty chunks are dropped.
func SplitText(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 5
	}

	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else if cut := lastWhitespace(runes[start:end]); cut > overlap {
			end = start + cut
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}
		start = end - overlap
	}
	return chunks
}

// lastWhitespace returns the index just past the last whitespace run in the
// window, or -1 when the window has none.
func lastWhitespace(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		switch window[i] {
		case ' ', '\n', '\t', '\r':
			return i
		}
	}
	return -1
}

package ingest

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultChunkSize is the default number of characters per chunk.
	DefaultChunkSize = 500
	// DefaultChunkOverlap is the default number of characters shared with
	// the previous chunk.
	DefaultChunkOverlap = 50
)

// separators are the preferred break points within a window, best first:
// paragraph, line, sentence, word. A window with none of them is cut hard.
var separators = []string{"\n\n", "\n", ". ", " "}

// Chunker splits extracted page texts into overlapping fixed-size passages.
// Splitting is purely a function of the input text, so identical input
// always yields an identical chunk sequence. That determinism is what makes
// skipping re-chunking on duplicate uploads safe.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker with the given window size and overlap,
// both measured in characters (runes). Non-positive sizes fall back to the
// defaults; an overlap that is not smaller than the size is clamped.
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	if overlap >= size {
		overlap = size / 10
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split concatenates the page texts and produces overlapping windows of at
// most the configured size. Each window prefers to end at a paragraph, line,
// sentence, or word boundary before falling back to a hard character cut,
// and the next window starts overlap characters before the previous break.
// Empty or whitespace-only input yields zero chunks.
func (c *Chunker) Split(pages []string) []string {
	text := strings.Join(pages, "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)

	var chunks []string
	start := 0
	for start < n {
		end := start + c.size
		if end >= n {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		cut := start + c.boundaryOffset(string(runes[start:end]))
		chunks = append(chunks, string(runes[start:cut]))
		start = cut - c.overlap
	}

	return chunks
}

// boundaryOffset returns the rune offset within the window at which to cut,
// just after the best separator found. Offsets not larger than the overlap
// are rejected so every window extends past the shared prefix and the split
// always makes progress. Falls back to the full window size.
func (c *Chunker) boundaryOffset(window string) int {
	for _, sep := range separators {
		idx := strings.LastIndex(window, sep)
		if idx < 0 {
			continue
		}
		offset := utf8.RuneCountInString(window[:idx]) + utf8.RuneCountInString(sep)
		if offset > c.overlap {
			return offset
		}
	}
	return c.size
}

package ingest

import (
	"fmt"
	"strings"

	"intellidocs/internal/extract"
)

// DefaultChunkSize is the default maximum number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters
// between consecutive chunks.
const DefaultChunkOverlap = 150

// Chunker splits extracted page text into overlapping fixed-size windows.
// Sizes are measured in runes so multi-byte text chunks consistently.
type Chunker struct {
	maxSize int
	overlap int
}

// NewChunker creates a chunker with the given maximum chunk size and overlap.
// Overlap must be smaller than the chunk size or every window would start
// inside the previous one and chunking could not make progress.
func NewChunker(maxSize, overlap int) (*Chunker, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", maxSize)
	}
	if overlap < 0 || overlap >= maxSize {
		return nil, fmt.Errorf("overlap must be in [0, %d), got %d", maxSize, overlap)
	}
	return &Chunker{maxSize: maxSize, overlap: overlap}, nil
}

// Chunk splits the ordered page texts into overlapping chunks. Pages are
// joined with a single newline and offsets are recorded against that joined
// text. Consecutive chunks overlap by exactly the configured overlap count,
// and trailing content shorter than a full window still becomes its own
// final chunk. The result is deterministic for identical input.
func (c *Chunker) Chunk(pages []extract.Page) []Chunk {
	texts := make([]string, len(pages))
	for i, page := range pages {
		texts[i] = page.Text
	}
	runes := []rune(strings.Join(texts, "\n"))
	if len(runes) == 0 {
		return nil
	}

	stride := c.maxSize - c.overlap
	chunks := make([]Chunk, 0, len(runes)/stride+1)

	for start := 0; start < len(runes); start += stride {
		end := start + c.maxSize
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, Chunk{
			Text:        string(runes[start:end]),
			StartOffset: start,
		})

		if end == len(runes) {
			break
		}
	}

	return chunks
}

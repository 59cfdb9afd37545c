package ingest

import (
	"strings"
	"testing"

	"intellidocs/internal/extract"
)

func TestNewChunker(t *testing.T) {
	tests := []struct {
		name    string
		maxSize int
		overlap int
		wantErr bool
	}{
		{name: "valid", maxSize: 1000, overlap: 150, wantErr: false},
		{name: "zero overlap", maxSize: 100, overlap: 0, wantErr: false},
		{name: "zero size", maxSize: 0, overlap: 0, wantErr: true},
		{name: "negative size", maxSize: -1, overlap: 0, wantErr: true},
		{name: "negative overlap", maxSize: 100, overlap: -1, wantErr: true},
		{name: "overlap equals size", maxSize: 100, overlap: 100, wantErr: true},
		{name: "overlap exceeds size", maxSize: 100, overlap: 150, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChunker(tt.maxSize, tt.overlap)
			if tt.wantErr && err == nil {
				t.Errorf("NewChunker(%d, %d) expected error, got nil", tt.maxSize, tt.overlap)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("NewChunker(%d, %d) unexpected error: %v", tt.maxSize, tt.overlap, err)
			}
		})
	}
}

func TestChunker_Chunk_EmptyInput(t *testing.T) {
	chunker, err := NewChunker(100, 20)
	if err != nil {
		t.Fatalf("NewChunker() error = %v", err)
	}

	if got := chunker.Chunk(nil); got != nil {
		t.Errorf("Chunk(nil) = %v, want nil", got)
	}
	if got := chunker.Chunk([]extract.Page{{Number: 1, Text: ""}}); got != nil {
		t.Errorf("Chunk(empty page) = %v, want nil", got)
	}
}

func TestChunker_Chunk_SingleChunk(t *testing.T) {
	chunker, err := NewChunker(100, 20)
	if err != nil {
		t.Fatalf("NewChunker() error = %v", err)
	}

	text := "short document"
	chunks := chunker.Chunk([]extract.Page{{Number: 1, Text: text}})

	if len(chunks) != 1 {
		t.Fatalf("Chunk() produced %d chunks, want 1", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("Chunk() text = %q, want %q", chunks[0].Text, text)
	}
	if chunks[0].StartOffset != 0 {
		t.Errorf("Chunk() start offset = %d, want 0", chunks[0].StartOffset)
	}
}

func TestChunker_Chunk_OverlapAndBounds(t *testing.T) {
	chunker, err := NewChunker(10, 3)
	if err != nil {
		t.Fatalf("NewChunker() error = %v", err)
	}

	// 25 characters, stride 7: windows at 0, 7, 14, 21.
	text := "abcdefghijklmnopqrstuvwxy"
	chunks := chunker.Chunk([]extract.Page{{Number: 1, Text: text}})

	if len(chunks) != 4 {
		t.Fatalf("Chunk() produced %d chunks, want 4", len(chunks))
	}

	runes := []rune(text)
	for i, chunk := range chunks {
		if len([]rune(chunk.Text)) > 10 {
			t.Errorf("chunk[%d] exceeds max size: %d runes", i, len([]rune(chunk.Text)))
		}
		wantStart := i * 7
		if chunk.StartOffset != wantStart {
			t.Errorf("chunk[%d] start offset = %d, want %d", i, chunk.StartOffset, wantStart)
		}
		// Offsets point back into the joined text.
		end := chunk.StartOffset + len([]rune(chunk.Text))
		if string(runes[chunk.StartOffset:end]) != chunk.Text {
			t.Errorf("chunk[%d] text does not match offset slice", i)
		}
	}

	// Consecutive chunks share exactly the overlap region.
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		curr := []rune(chunks[i].Text)
		if len(prev) < 10 {
			continue // last full window already checked via offsets
		}
		overlap := string(prev[len(prev)-3:])
		if !strings.HasPrefix(string(curr), overlap) {
			t.Errorf("chunk[%d] does not start with previous chunk's overlap %q", i, overlap)
		}
	}

	// Trailing content shorter than a window still becomes a final chunk.
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last.Text) {
		t.Errorf("final chunk %q is not a suffix of the input", last.Text)
	}
}

func TestChunker_Chunk_JoinsPagesWithNewline(t *testing.T) {
	chunker, err := NewChunker(100, 0)
	if err != nil {
		t.Fatalf("NewChunker() error = %v", err)
	}

	pages := []extract.Page{
		{Number: 1, Text: "first page"},
		{Number: 2, Text: "second page"},
	}
	chunks := chunker.Chunk(pages)

	if len(chunks) != 1 {
		t.Fatalf("Chunk() produced %d chunks, want 1", len(chunks))
	}
	if chunks[0].Text != "first page\nsecond page" {
		t.Errorf("Chunk() text = %q, want pages joined with newline", chunks[0].Text)
	}
}

func TestChunker_Chunk_Deterministic(t *testing.T) {
	chunker, err := NewChunker(10, 3)
	if err != nil {
		t.Fatalf("NewChunker() error = %v", err)
	}

	pages := []extract.Page{{Number: 1, Text: strings.Repeat("deterministic ", 20)}}
	first := chunker.Chunk(pages)
	second := chunker.Chunk(pages)

	if len(first) != len(second) {
		t.Fatalf("Chunk() chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Text != second[i].Text || first[i].StartOffset != second[i].StartOffset {
			t.Errorf("chunk[%d] differs between identical runs", i)
		}
	}
}

func TestChunker_Chunk_MultiByteRunes(t *testing.T) {
	chunker, err := NewChunker(5, 1)
	if err != nil {
		t.Fatalf("NewChunker() error = %v", err)
	}

	text := "héllö wörld ünïcodé"
	chunks := chunker.Chunk([]extract.Page{{Number: 1, Text: text}})

	for i, chunk := range chunks {
		if n := len([]rune(chunk.Text)); n > 5 {
			t.Errorf("chunk[%d] has %d runes, want at most 5", i, n)
		}
	}

	// Reassembling via offsets covers the whole input.
	runes := []rune(text)
	last := chunks[len(chunks)-1]
	if last.StartOffset+len([]rune(last.Text)) != len(runes) {
		t.Error("final chunk does not reach end of input")
	}
}

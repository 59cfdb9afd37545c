package vectorstore

import (
	"github.com/coder/hnsw"

	"intellidocs/internal/ingest"
)

// Index is a loaded, searchable vector index for one namespace. It is
// immutable after construction; rebuilding a namespace produces a new Index.
type Index struct {
	graph      *hnsw.Graph[int]
	chunks     []ingest.Chunk
	generation uint64
	dimension  int
}

// Generation returns the build generation this index was loaded from.
func (ix *Index) Generation() uint64 {
	return ix.generation
}

// Dimension returns the vector dimensionality of the index.
func (ix *Index) Dimension() int {
	return ix.dimension
}

// Len returns the number of chunks in the index.
func (ix *Index) Len() int {
	return len(ix.chunks)
}

// Search returns up to k chunks most similar to the query vector, ordered by
// descending cosine similarity. With k at least the index size, every chunk
// is returned.
func (ix *Index) Search(query []float32, k int) []SearchResult {
	if k <= 0 {
		return nil
	}

	neighbors := ix.graph.Search(query, k)
	results := make([]SearchResult, 0, len(neighbors))
	for _, node := range neighbors {
		if node.Key < 0 || node.Key >= len(ix.chunks) {
			continue
		}
		results = append(results, SearchResult{
			Chunk: ix.chunks[node.Key],
			Score: 1 - hnsw.CosineDistance(query, node.Value),
		})
	}
	return results
}

package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_store.go -package=mocks intellidocs/internal/vectorstore Store

import (
	"context"
	"errors"

	"intellidocs/internal/ingest"
)

var (
	// ErrNotFound is returned when no valid index exists for a namespace.
	ErrNotFound = errors.New("index not found for namespace")
	// ErrEmptyBuild is returned when Build is called with zero chunks.
	ErrEmptyBuild = errors.New("cannot build an index from zero chunks")
	// ErrBadNamespace is returned for namespace strings that cannot name an
	// index directory.
	ErrBadNamespace = errors.New("invalid namespace")
)

// SearchResult pairs a retrieved chunk with its similarity score.
type SearchResult struct {
	Chunk ingest.Chunk
	Score float32 // Cosine similarity, higher is more similar
}

// Store persists one vector index per namespace and enforces the
// replace-not-append policy: building into a namespace discards any index
// that was there before.
type Store interface {
	// Exists reports whether a loadable index is present for the namespace.
	// Partial on-disk state (graph without payload or vice versa) counts as
	// non-existence.
	Exists(namespace string) bool

	// Delete removes the namespace's index files. Deleting a namespace that
	// has no index is a no-op, not an error.
	Delete(namespace string) error

	// Build replaces the namespace's index with one containing the given
	// chunk/vector pairs and returns the new index generation. The previous
	// index stays visible to readers until the new one is complete.
	Build(ctx context.Context, namespace string, chunks []ingest.Chunk, vectors [][]float32) (uint64, error)

	// Load deserializes the namespace's persisted index into a searchable
	// in-memory structure. Returns ErrNotFound when Exists is false.
	Load(ctx context.Context, namespace string) (*Index, error)

	// Generation returns the namespace's current index generation, or zero
	// when no index exists. Generations increase monotonically across
	// rebuilds, so a changed generation means a reload is due.
	Generation(namespace string) uint64

	// Path returns the directory the namespace's index lives in.
	Path(namespace string) string
}

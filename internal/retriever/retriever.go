package retriever

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks intellidocs/internal/retriever Embedder

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"intellidocs/internal/contextutil"
	"intellidocs/internal/ingest"
	"intellidocs/internal/vectorstore"
)

// ErrStoreNotLoaded is returned when a query arrives for a namespace that has
// no loaded index. This is distinct from a loaded index returning zero
// matches, which yields an empty result instead.
var ErrStoreNotLoaded = errors.New("vector store not loaded for namespace")

// Embedder maps text to fixed-dimension vectors. The same embedder must be
// used at index-build time and at query time or retrieval degenerates to
// noise; the query vector has to live in the chunk vectors' space.
type Embedder interface {
	// EmbedTexts returns one vector per input text, order preserving.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever answers top-k similarity queries against one namespace's loaded
// index. It watches the store's index generation and transparently reloads
// when an ingestion has replaced the index since the last load.
type Retriever struct {
	store     vectorstore.Store
	embedder  Embedder
	namespace string

	mu    sync.RWMutex
	index *vectorstore.Index
}

// New creates a retriever bound to the given namespace and attempts an
// initial load. A namespace with no persisted index leaves the retriever in
// the not-loaded state; that is not an error until someone queries it.
func New(ctx context.Context, store vectorstore.Store, embedder Embedder, namespace string) *Retriever {
	r := &Retriever{
		store:     store,
		embedder:  embedder,
		namespace: namespace,
	}
	_ = r.Reload(ctx)
	return r
}

// Namespace returns the namespace this retriever is bound to.
func (r *Retriever) Namespace() string {
	return r.namespace
}

// Generation returns the generation of the currently loaded index, or zero
// when no index is loaded.
func (r *Retriever) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.index == nil {
		return 0
	}
	return r.index.Generation()
}

// Reload re-attempts to load the namespace's persisted index, replacing any
// currently loaded one. Idempotent; when no index exists the retriever is
// left (or put back) in the not-loaded state without error.
func (r *Retriever) Reload(ctx context.Context) error {
	index, err := r.store.Load(ctx, r.namespace)
	if err != nil {
		if errors.Is(err, vectorstore.ErrNotFound) {
			r.mu.Lock()
			r.index = nil
			r.mu.Unlock()
			return nil
		}
		return fmt.Errorf("failed to reload index for namespace %s: %w", r.namespace, err)
	}

	r.mu.Lock()
	r.index = index
	r.mu.Unlock()
	return nil
}

// RetrieveContext embeds the query and returns up to k chunks ordered by
// descending similarity. Returns ErrStoreNotLoaded when the namespace has no
// built index.
func (r *Retriever) RetrieveContext(ctx context.Context, query string, k int) ([]ingest.Chunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	r.refresh(ctx)

	r.mu.RLock()
	index := r.index
	r.mu.RUnlock()

	if index == nil {
		return nil, fmt.Errorf("%w: %s", ErrStoreNotLoaded, r.namespace)
	}

	vectors, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	results := index.Search(vectors[0], k)
	chunks := make([]ingest.Chunk, len(results))
	for i, result := range results {
		chunks[i] = result.Chunk
	}

	logger.InfoContext(ctx, "context retrieved",
		"namespace", r.namespace,
		"k", k,
		"results", len(chunks),
		"generation", index.Generation(),
	)
	return chunks, nil
}

// refresh reloads the index when the store's persisted generation has moved
// past the loaded one, so queries pick up a completed ingestion even if the
// explicit reload was missed.
func (r *Retriever) refresh(ctx context.Context) {
	current := r.store.Generation(r.namespace)

	r.mu.RLock()
	loaded := uint64(0)
	if r.index != nil {
		loaded = r.index.Generation()
	}
	r.mu.RUnlock()

	if current != loaded {
		logger := contextutil.LoggerFromContext(ctx)
		if err := r.Reload(ctx); err != nil {
			logger.WarnContext(ctx, "failed to refresh index", "namespace", r.namespace, "error", err)
		}
	}
}

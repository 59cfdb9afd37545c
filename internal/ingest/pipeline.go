package ingest

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks intellidocs/internal/ingest Embedder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"intellidocs/internal/contextutil"
	"intellidocs/internal/extract"
	"intellidocs/internal/storage"
)

var (
	// ErrUnsupportedFile is returned when the upload is not a PDF.
	ErrUnsupportedFile = errors.New("only PDF files are supported")
	// ErrEmptyUpload is returned when the upload has no content.
	ErrEmptyUpload = errors.New("uploaded file is empty")
)

// Embedder maps chunk texts to fixed-dimension vectors, order preserving.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// IndexBuilder is the pipeline's view of the vector index store: it replaces
// a namespace's index with a freshly built one and reports where it lives.
type IndexBuilder interface {
	Build(ctx context.Context, namespace string, chunks []Chunk, vectors [][]float32) (uint64, error)
	Path(namespace string) string
}

// Pipeline orchestrates a document's path from raw PDF bytes to a persisted
// vector index: persist original, extract, chunk, embed, build.
type Pipeline struct {
	dataRoot  string
	extractor extract.Extractor
	chunker   *Chunker
	embedder  Embedder
	store     IndexBuilder
	docs      storage.DocumentStore
	builds    storage.BuildStore
}

// NewPipeline creates an ingestion pipeline. docs and builds may be nil when
// no registry is wanted (tests); everything else is required.
func NewPipeline(
	dataRoot string,
	extractor extract.Extractor,
	chunker *Chunker,
	embedder Embedder,
	store IndexBuilder,
	docs storage.DocumentStore,
	builds storage.BuildStore,
) *Pipeline {
	return &Pipeline{
		dataRoot:  dataRoot,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		docs:      docs,
		builds:    builds,
	}
}

// Ingest processes one uploaded PDF into the namespace's index, replacing
// whatever index the namespace had before. Within one call the steps are
// strictly sequential; nothing here synchronizes with other in-flight
// requests. The validation errors are raised before any bytes are written.
func (p *Pipeline) Ingest(ctx context.Context, fileBytes []byte, filename, namespace string, extraMeta map[string]string) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filename)
	}
	if len(fileBytes) == 0 {
		return nil, ErrEmptyUpload
	}

	storedName, storedPath, err := p.saveOriginal(fileBytes, filename)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "original file saved", "stored_name", storedName, "bytes", len(fileBytes))

	pages, err := p.extractor.ExtractPages(ctx, storedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", filename, err)
	}

	chunks := p.chunker.Chunk(pages)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks produced", extract.ErrExtraction)
	}
	for i := range chunks {
		chunks[i].Source = storedName
		chunks[i].Namespace = namespace
		if len(extraMeta) > 0 {
			meta := make(map[string]string, len(extraMeta))
			for k, v := range extraMeta {
				meta[k] = v
			}
			chunks[i].Meta = meta
		}
	}
	logger.InfoContext(ctx, "document chunked", "pages", len(pages), "chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(vectors))
	}

	generation, err := p.store.Build(ctx, namespace, chunks, vectors)
	if err != nil {
		return nil, fmt.Errorf("failed to build index for namespace %s: %w", namespace, err)
	}

	p.record(ctx, namespace, filename, storedName, len(pages), len(chunks), generation)

	logger.InfoContext(ctx, "ingestion completed",
		"namespace", namespace,
		"chunks_added", len(chunks),
		"generation", generation,
	)
	return &Result{
		Namespace:    namespace,
		ChunksAdded:  len(chunks),
		IndexPath:    p.store.Path(namespace),
		OriginalFile: storedName,
	}, nil
}

// saveOriginal persists the upload under a collision-resistant generated
// name. Originals are immutable once written and never garbage collected.
func (p *Pipeline) saveOriginal(fileBytes []byte, filename string) (storedName, storedPath string, err error) {
	storedName = fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(filename))
	storedPath = filepath.Join(p.dataRoot, storedName)
	if err := os.WriteFile(storedPath, fileBytes, 0644); err != nil {
		return "", "", fmt.Errorf("failed to save original file: %w", err)
	}
	return storedName, storedPath, nil
}

// record writes the registry entries for a completed ingestion. The index is
// already durable at this point, so registry failures are logged rather than
// failing the upload.
func (p *Pipeline) record(ctx context.Context, namespace, filename, storedName string, pages, chunkCount int, generation uint64) {
	logger := contextutil.LoggerFromContext(ctx)

	if p.docs != nil {
		doc := &storage.DocumentRecord{
			ID:         uuid.New().String(),
			Namespace:  namespace,
			Filename:   filepath.Base(filename),
			StoredName: storedName,
			Pages:      pages,
			ChunkCount: chunkCount,
		}
		if err := p.docs.Insert(ctx, doc); err != nil {
			logger.WarnContext(ctx, "failed to record document", "error", err)
		}
	}

	if p.builds != nil {
		build := &storage.BuildRecord{
			Namespace:  namespace,
			Generation: generation,
			ChunkCount: chunkCount,
		}
		if err := p.builds.Insert(ctx, build); err != nil {
			logger.WarnContext(ctx, "failed to record index build", "error", err)
		}
	}
}

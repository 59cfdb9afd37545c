package vectorstore

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/coder/hnsw"
	"github.com/google/uuid"

	"intellidocs/internal/contextutil"
	"intellidocs/internal/ingest"
)

const (
	graphFile    = "index.hnsw"
	payloadFile  = "chunks.json"
	manifestFile = "manifest.json"
)

// manifest describes a persisted index build. It sits next to the graph and
// payload files inside the namespace directory.
type manifest struct {
	Generation uint64    `json:"generation"`
	Dimension  int       `json:"dimension"`
	ChunkCount int       `json:"chunk_count"`
	BuiltAt    time.Time `json:"built_at"`
}

// DiskStore implements Store with one directory per namespace under a common
// root. The HNSW graph and the chunk payloads are written as sibling files;
// a build replaces the whole namespace directory in a single rename, so a
// concurrent reader observes either the previous complete index or the new
// one, never a half-written state.
type DiskStore struct {
	root string
}

// NewDiskStore creates a disk-backed vector index store rooted at root.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create index root: %w", err)
	}
	return &DiskStore{root: root}, nil
}

// Path returns the directory the namespace's index lives in.
func (s *DiskStore) Path(namespace string) string {
	return filepath.Join(s.root, namespace)
}

// validNamespace rejects names that would escape the index root or collide
// with the store's temporary build directories.
func validNamespace(namespace string) bool {
	if namespace == "" || strings.HasPrefix(namespace, ".") {
		return false
	}
	return !strings.ContainsAny(namespace, "/\\")
}

// Exists reports whether both the graph file and the payload file are present
// for the namespace. One without the other is treated as non-existence.
func (s *DiskStore) Exists(namespace string) bool {
	if !validNamespace(namespace) {
		return false
	}
	dir := s.Path(namespace)
	for _, name := range []string{graphFile, payloadFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

// Delete removes all files under the namespace's index path. A missing path
// is a no-op.
func (s *DiskStore) Delete(namespace string) error {
	if !validNamespace(namespace) {
		return fmt.Errorf("%w: %q", ErrBadNamespace, namespace)
	}
	if err := os.RemoveAll(s.Path(namespace)); err != nil {
		return fmt.Errorf("failed to delete index for namespace %s: %w", namespace, err)
	}
	return nil
}

// Generation returns the namespace's current index generation, or zero when
// no index (or no readable manifest) exists.
func (s *DiskStore) Generation(namespace string) uint64 {
	if !s.Exists(namespace) {
		return 0
	}
	m, err := s.readManifest(s.Path(namespace))
	if err != nil {
		return 0
	}
	return m.Generation
}

// Build writes a fresh index for the namespace from the given chunk/vector
// pairs and swaps it into place, replacing any previous index. The returned
// generation is one past the generation being replaced.
func (s *DiskStore) Build(ctx context.Context, namespace string, chunks []ingest.Chunk, vectors [][]float32) (uint64, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if !validNamespace(namespace) {
		return 0, fmt.Errorf("%w: %q", ErrBadNamespace, namespace)
	}
	if len(chunks) == 0 {
		return 0, ErrEmptyBuild
	}
	if len(chunks) != len(vectors) {
		return 0, fmt.Errorf("chunk/vector count mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}
	dimension := len(vectors[0])
	for i, vec := range vectors {
		if len(vec) != dimension {
			return 0, fmt.Errorf("vector %d has dimension %d, expected %d", i, len(vec), dimension)
		}
	}

	graph := hnsw.NewGraph[int]()
	graph.Distance = hnsw.CosineDistance
	nodes := make([]hnsw.Node[int], len(vectors))
	for i, vec := range vectors {
		nodes[i] = hnsw.MakeNode(i, vec)
	}
	graph.Add(nodes...)

	generation := s.Generation(namespace) + 1

	// Stage the full index in a hidden temp directory first.
	tmpDir := filepath.Join(s.root, ".build-"+uuid.New().String())
	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create build directory: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(tmpDir)
	}()

	if err := s.writeGraph(filepath.Join(tmpDir, graphFile), graph); err != nil {
		return 0, err
	}
	if err := writeJSON(filepath.Join(tmpDir, payloadFile), chunks); err != nil {
		return 0, err
	}
	m := manifest{
		Generation: generation,
		Dimension:  dimension,
		ChunkCount: len(chunks),
		BuiltAt:    time.Now().UTC(),
	}
	if err := writeJSON(filepath.Join(tmpDir, manifestFile), m); err != nil {
		return 0, err
	}

	if err := s.swap(tmpDir, s.Path(namespace)); err != nil {
		return 0, err
	}

	logger.InfoContext(ctx, "index built",
		"namespace", namespace,
		"generation", generation,
		"chunks", len(chunks),
		"dimension", dimension,
	)
	return generation, nil
}

// swap moves the staged index into the canonical namespace path. The old
// directory is moved aside before the new one is renamed in, and restored if
// that rename fails.
func (s *DiskStore) swap(staged, canonical string) error {
	old := ""
	if _, err := os.Stat(canonical); err == nil {
		old = filepath.Join(s.root, ".old-"+uuid.New().String())
		if err := os.Rename(canonical, old); err != nil {
			return fmt.Errorf("failed to move previous index aside: %w", err)
		}
	}

	if err := os.Rename(staged, canonical); err != nil {
		if old != "" {
			_ = os.Rename(old, canonical)
		}
		return fmt.Errorf("failed to move index into place: %w", err)
	}

	if old != "" {
		_ = os.RemoveAll(old)
	}
	return nil
}

// Load deserializes the persisted index for the namespace. The persisted
// format is trusted; the index is only ever produced and consumed by this
// process.
func (s *DiskStore) Load(ctx context.Context, namespace string) (*Index, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if !s.Exists(namespace) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, namespace)
	}
	dir := s.Path(namespace)

	f, err := os.Open(filepath.Join(dir, graphFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open index graph: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	graph := hnsw.NewGraph[int]()
	if err := graph.Import(bufio.NewReader(f)); err != nil {
		return nil, fmt.Errorf("failed to import index graph: %w", err)
	}

	var chunks []ingest.Chunk
	if err := readJSON(filepath.Join(dir, payloadFile), &chunks); err != nil {
		return nil, fmt.Errorf("failed to read chunk payloads: %w", err)
	}

	m, err := s.readManifest(dir)
	if err != nil {
		return nil, err
	}
	if graph.Len() != len(chunks) {
		return nil, fmt.Errorf("index graph has %d nodes but payload has %d chunks", graph.Len(), len(chunks))
	}

	logger.InfoContext(ctx, "index loaded",
		"namespace", namespace,
		"generation", m.Generation,
		"chunks", len(chunks),
	)
	return &Index{
		graph:      graph,
		chunks:     chunks,
		generation: m.Generation,
		dimension:  m.Dimension,
	}, nil
}

func (s *DiskStore) writeGraph(path string, graph *hnsw.Graph[int]) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create graph file: %w", err)
	}
	if err := graph.Export(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to export graph: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close graph file: %w", err)
	}
	return nil
}

func (s *DiskStore) readManifest(dir string) (*manifest, error) {
	var m manifest
	if err := readJSON(filepath.Join(dir, manifestFile), &m); err != nil {
		return nil, fmt.Errorf("failed to read index manifest: %w", err)
	}
	return &m, nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

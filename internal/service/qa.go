package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_qa_service.go -package=mocks -mock_names=QAService=MockQAService intellidocs/internal/service QAService

import (
	"context"
	"fmt"
	"sync"

	"intellidocs/internal/answer"
	"intellidocs/internal/contextutil"
	"intellidocs/internal/ingest"
	"intellidocs/internal/retriever"
	"intellidocs/internal/vectorstore"
)

// QAService is the request-handling layer's view of the core pipeline: it
// sequences ingest-then-reload on upload and dispatches questions to the
// right namespace.
type QAService interface {
	// Ingest processes an uploaded PDF into the namespace and makes the new
	// index visible to subsequent queries before returning.
	Ingest(ctx context.Context, fileBytes []byte, filename, namespace string) (*ingest.Result, error)
	// Answer returns the generated answer for a question against a namespace.
	Answer(ctx context.Context, namespace, query string) (string, error)
}

// Options configures a QA service.
type Options struct {
	Pipeline       *ingest.Pipeline
	Store          vectorstore.Store
	Embedder       retriever.Embedder
	Generator      answer.Generator
	PromptTemplate string
	RetrievalK     int
	CacheSize      int
}

// session holds the per-namespace retriever and composer pair. Composers
// carry the namespace's answer cache, so sessions live for the process.
type session struct {
	retriever *retriever.Retriever
	composer  *answer.Composer
}

// qaService implements QAService.
type qaService struct {
	opts Options

	mu       sync.Mutex
	sessions map[string]*session
}

// NewQAService creates a new QAService.
func NewQAService(opts Options) QAService {
	return &qaService{
		opts:     opts,
		sessions: make(map[string]*session),
	}
}

// Ingest runs the pipeline and then reloads the namespace's retriever, so a
// query arriving right after a successful upload sees the new index
// (read-after-write for the uploading caller).
func (s *qaService) Ingest(ctx context.Context, fileBytes []byte, filename, namespace string) (*ingest.Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	result, err := s.opts.Pipeline.Ingest(ctx, fileBytes, filename, namespace, nil)
	if err != nil {
		return nil, err
	}

	sess, err := s.session(ctx, namespace)
	if err != nil {
		return nil, err
	}
	if err := sess.retriever.Reload(ctx); err != nil {
		return nil, fmt.Errorf("failed to reload retriever after ingestion: %w", err)
	}

	logger.InfoContext(ctx, "namespace ready for queries", "namespace", namespace, "chunks", result.ChunksAdded)
	return result, nil
}

// Answer dispatches the question to the namespace's composer. Not-loaded and
// validation errors propagate to the caller untouched.
func (s *qaService) Answer(ctx context.Context, namespace, query string) (string, error) {
	sess, err := s.session(ctx, namespace)
	if err != nil {
		return "", err
	}
	return sess.composer.Answer(ctx, query)
}

// session returns the namespace's retriever/composer pair, creating it on
// first use.
func (s *qaService) session(ctx context.Context, namespace string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[namespace]; ok {
		return sess, nil
	}

	ret := retriever.New(ctx, s.opts.Store, s.opts.Embedder, namespace)
	composer, err := answer.NewComposer(ret, s.opts.Generator, s.opts.PromptTemplate, s.opts.RetrievalK, s.opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create composer for namespace %s: %w", namespace, err)
	}

	sess := &session{retriever: ret, composer: composer}
	s.sessions[namespace] = sess
	return sess, nil
}

package answer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_generator.go -package=mocks intellidocs/internal/answer Generator
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_context_retriever.go -package=mocks intellidocs/internal/answer ContextRetriever

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"intellidocs/internal/contextutil"
	"intellidocs/internal/ingest"
)

// DefaultK is the number of context chunks retrieved per question.
const DefaultK = 5

// MaxK bounds how many chunks a single question may pull into the prompt.
const MaxK = 20

// Generator produces text from a fully composed prompt. It is an opaque
// remote call; the composer applies no retries of its own.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ContextRetriever supplies the most relevant chunks for a query, and the
// generation of the index they came from.
type ContextRetriever interface {
	RetrieveContext(ctx context.Context, query string, k int) ([]ingest.Chunk, error)
	Generation() uint64
}

// Composer answers questions by filling a prompt template with retrieved
// context and invoking the generator. Answers are memoized in a bounded LRU
// keyed by the exact query string plus the index generation it was answered
// against, so rebuilding a namespace's index naturally invalidates stale
// entries.
type Composer struct {
	retriever ContextRetriever
	generator Generator
	template  string
	k         int
	cache     *lru.Cache[string, string]
}

// NewComposer creates a composer. The template must contain the {question}
// and {context} placeholders.
func NewComposer(retriever ContextRetriever, generator Generator, template string, k, cacheSize int) (*Composer, error) {
	if !strings.Contains(template, "{question}") || !strings.Contains(template, "{context}") {
		return nil, fmt.Errorf("prompt template must contain {question} and {context} placeholders")
	}
	if k <= 0 {
		k = DefaultK
	}
	if k > MaxK {
		k = MaxK
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create answer cache: %w", err)
	}
	return &Composer{
		retriever: retriever,
		generator: generator,
		template:  template,
		k:         k,
		cache:     cache,
	}, nil
}

// Answer returns the generated answer for the query. Identical queries
// against the same index generation are served from the cache without any
// retrieval or generation work. Retrieval failures propagate uncached; a
// failed generation call is converted into a readable answer string so the
// chat experience degrades instead of terminating, and is never cached.
func (c *Composer) Answer(ctx context.Context, query string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	key := cacheKey(c.retriever.Generation(), query)
	if cached, ok := c.cache.Get(key); ok {
		logger.InfoContext(ctx, "answer served from cache", "query_length", len(query))
		return cached, nil
	}

	chunks, err := c.retriever.RetrieveContext(ctx, query, c.k)
	if err != nil {
		return "", err
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	prompt := strings.ReplaceAll(c.template, "{question}", query)
	prompt = strings.ReplaceAll(prompt, "{context}", strings.Join(texts, "\n"))

	text, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		logger.ErrorContext(ctx, "generation call failed", "error", err)
		return fmt.Sprintf("Sorry, I could not generate an answer: %v", err), nil
	}

	c.cache.Add(key, text)
	logger.InfoContext(ctx, "answer generated",
		"query_length", len(query),
		"chunks_used", len(chunks),
		"answer_length", len(text),
	)
	return text, nil
}

// cacheKey joins generation and query with a separator that cannot occur in
// either, keeping distinct (generation, query) pairs distinct.
func cacheKey(generation uint64, query string) string {
	return fmt.Sprintf("%d\x00%s", generation, query)
}

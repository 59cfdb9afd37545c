package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"intellidocs/internal/config"
	"intellidocs/internal/extract"
	"intellidocs/internal/http"
	"intellidocs/internal/ingest"
	"intellidocs/internal/llm"
	"intellidocs/internal/service"
	"intellidocs/internal/storage"
	"intellidocs/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize the document registry
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	docRepo := storage.NewDocumentRepo(db)
	buildRepo := storage.NewBuildRepo(db)

	// Initialize the on-disk vector store
	vectorStore, err := vectorstore.NewDiskStore(cfg.IndexRoot)
	if err != nil {
		log.Fatalf("Failed to create vector store: %v", err)
	}
	slog.Info("Vector store ready", "root", cfg.IndexRoot)

	// Validate embedding client vector size (fail-fast)
	ctx := context.Background()
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.VectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.VectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.VectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.VectorSize)

	// Create the ingestion pipeline
	chunker, err := ingest.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatalf("Failed to create chunker: %v", err)
	}
	pipeline := ingest.NewPipeline(
		cfg.DataRoot,
		extract.NewPDFExtractor(),
		chunker,
		embedder,
		vectorStore,
		docRepo,
		buildRepo,
	)

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	// Create the QA service
	qaService := service.NewQAService(service.Options{
		Pipeline:       pipeline,
		Store:          vectorStore,
		Embedder:       embedder,
		Generator:      llmClient,
		PromptTemplate: cfg.PromptTemplate,
		RetrievalK:     cfg.RetrievalK,
		CacheSize:      cfg.AnswerCacheSize,
	})
	slog.Info("QA service initialized", "default_namespace", cfg.DefaultNamespace)

	// Create router with dependencies
	deps := &http.Deps{
		QAService:        qaService,
		DocumentStore:    docRepo,
		VectorStore:      vectorStore,
		DB:               db,
		DefaultNamespace: cfg.DefaultNamespace,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}

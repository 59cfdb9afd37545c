package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"intellidocs/internal/handlers"
	"intellidocs/internal/service"
	"intellidocs/internal/storage"
	"intellidocs/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	QAService        service.QAService
	DocumentStore    storage.DocumentStore
	VectorStore      vectorstore.Store
	DB               *sql.DB
	DefaultNamespace string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	uploadHandler := handlers.NewUploadHandler(deps.QAService, deps.DefaultNamespace)
	queryHandler := handlers.NewQueryHandler(deps.QAService, deps.DefaultNamespace)
	documentsHandler := handlers.NewDocumentsHandler(deps.DocumentStore, deps.DefaultNamespace)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.VectorStore, deps.DefaultNamespace)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/upload", uploadHandler)
		r.Method(http.MethodPost, "/query", queryHandler)
		r.Method(http.MethodGet, "/documents", documentsHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}

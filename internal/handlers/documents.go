package handlers

import (
	"net/http"
	"time"

	"intellidocs/internal/contextutil"
	"intellidocs/internal/storage"
)

// DocumentsHandler lists the documents ingested into a namespace.
type DocumentsHandler struct {
	docs             storage.DocumentStore
	defaultNamespace string
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(docs storage.DocumentStore, defaultNamespace string) *DocumentsHandler {
	return &DocumentsHandler{docs: docs, defaultNamespace: defaultNamespace}
}

// DocumentResponse represents one ingested document in the listing.
type DocumentResponse struct {
	ID         string    `json:"id"`
	Namespace  string    `json:"namespace"`
	Filename   string    `json:"filename"`
	Pages      int       `json:"pages"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// ServeHTTP lists documents for the "namespace" query parameter, defaulting
// when absent. Only the most recently ingested document backs the namespace's
// index; earlier entries are history.
func (h *DocumentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		writeError(ctx, w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	namespace := r.URL.Query().Get("namespace")
	if namespace == "" {
		namespace = h.defaultNamespace
	}

	records, err := h.docs.ListByNamespace(ctx, namespace)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "namespace", namespace, "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "failed to list documents")
		return
	}

	docs := make([]DocumentResponse, 0, len(records))
	for _, record := range records {
		docs = append(docs, DocumentResponse{
			ID:         record.ID,
			Namespace:  record.Namespace,
			Filename:   record.Filename,
			Pages:      record.Pages,
			ChunkCount: record.ChunkCount,
			CreatedAt:  record.CreatedAt,
		})
	}

	writeJSON(ctx, w, http.StatusOK, docs)
}

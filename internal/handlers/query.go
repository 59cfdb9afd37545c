package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"intellidocs/internal/contextutil"
	"intellidocs/internal/retriever"
	"intellidocs/internal/service"
)

// QueryHandler handles question requests against an ingested document.
type QueryHandler struct {
	svc              service.QAService
	defaultNamespace string
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(svc service.QAService, defaultNamespace string) *QueryHandler {
	return &QueryHandler{svc: svc, defaultNamespace: defaultNamespace}
}

// QueryRequest represents the HTTP request payload for queries.
type QueryRequest struct {
	Query     string `json:"query"`
	Namespace string `json:"namespace,omitempty"`
}

// QueryResponse represents the HTTP response payload for queries.
type QueryResponse struct {
	Response string `json:"response"`
}

// ServeHTTP answers the question in the request body. Querying a namespace
// that has never been ingested is a 404, not an empty answer.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		writeError(ctx, w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Query == "" {
		writeError(ctx, w, http.StatusBadRequest, "query cannot be empty")
		return
	}
	namespace := req.Namespace
	if namespace == "" {
		namespace = h.defaultNamespace
	}

	logger.InfoContext(ctx, "query received", "namespace", namespace, "query_length", len(req.Query))

	text, err := h.svc.Answer(ctx, namespace, req.Query)
	if err != nil {
		if errors.Is(err, retriever.ErrStoreNotLoaded) {
			writeError(ctx, w, http.StatusNotFound, "no document has been ingested into this namespace yet")
			return
		}
		logger.ErrorContext(ctx, "query failed", "namespace", namespace, "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "failed to answer query")
		return
	}

	writeJSON(ctx, w, http.StatusOK, QueryResponse{Response: text})
}

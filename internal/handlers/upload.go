package handlers

import (
	"errors"
	"io"
	"net/http"

	"intellidocs/internal/contextutil"
	"intellidocs/internal/extract"
	"intellidocs/internal/ingest"
	"intellidocs/internal/service"
)

// maxUploadBytes bounds how much of a multipart upload is held in memory.
const maxUploadBytes = 64 << 20

// UploadHandler handles PDF uploads.
type UploadHandler struct {
	svc              service.QAService
	defaultNamespace string
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(svc service.QAService, defaultNamespace string) *UploadHandler {
	return &UploadHandler{svc: svc, defaultNamespace: defaultNamespace}
}

// ServeHTTP ingests the uploaded PDF into the requested namespace (the
// "namespace" form field, defaulting when absent) and responds with the
// ingestion result. Validation and extraction failures map to 400.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		writeError(ctx, w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.WarnContext(ctx, "failed to parse multipart form", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, "missing file field")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read upload", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	namespace := r.FormValue("namespace")
	if namespace == "" {
		namespace = h.defaultNamespace
	}

	logger.InfoContext(ctx, "upload received", "filename", header.Filename, "namespace", namespace, "bytes", len(fileBytes))

	result, err := h.svc.Ingest(ctx, fileBytes, header.Filename, namespace)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrUnsupportedFile), errors.Is(err, ingest.ErrEmptyUpload):
			logger.WarnContext(ctx, "upload rejected", "filename", header.Filename, "error", err)
			writeError(ctx, w, http.StatusBadRequest, err.Error())
		case errors.Is(err, extract.ErrExtraction):
			logger.WarnContext(ctx, "document could not be processed", "filename", header.Filename, "error", err)
			writeError(ctx, w, http.StatusBadRequest, "the document could not be processed")
		default:
			logger.ErrorContext(ctx, "ingestion failed", "filename", header.Filename, "error", err)
			writeError(ctx, w, http.StatusInternalServerError, "failed to ingest document")
		}
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"intellidocs/internal/extract"
	"intellidocs/internal/ingest"
	service_mocks "intellidocs/internal/service/mocks"
)

// multipartUpload builds a multipart body with a file field and an optional
// namespace field.
func multipartUpload(t *testing.T, filename, content, namespace string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write file part: %v", err)
	}
	if namespace != "" {
		if err := writer.WriteField("namespace", namespace); err != nil {
			t.Fatalf("WriteField() error = %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestUploadHandler_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service_mocks.NewMockQAService(ctrl)
	svc.EXPECT().Ingest(gomock.Any(), []byte("%PDF-content"), "report.pdf", "default").
		Return(&ingest.Result{
			Namespace:    "default",
			ChunksAdded:  12,
			IndexPath:    "vectorstores/default",
			OriginalFile: "abc_report.pdf",
		}, nil)

	handler := NewUploadHandler(svc, "default")

	body, contentType := multipartUpload(t, "report.pdf", "%PDF-content", "")
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var result ingest.Result
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.ChunksAdded != 12 {
		t.Errorf("chunks_added = %d, want 12", result.ChunksAdded)
	}
	if result.OriginalFile != "abc_report.pdf" {
		t.Errorf("original_file = %q, want abc_report.pdf", result.OriginalFile)
	}
}

func TestUploadHandler_ExplicitNamespace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service_mocks.NewMockQAService(ctrl)
	svc.EXPECT().Ingest(gomock.Any(), gomock.Any(), "report.pdf", "research").
		Return(&ingest.Result{Namespace: "research", ChunksAdded: 1}, nil)

	handler := NewUploadHandler(svc, "default")

	body, contentType := multipartUpload(t, "report.pdf", "content", "research")
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestUploadHandler_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "unsupported file", err: ingest.ErrUnsupportedFile, wantStatus: http.StatusBadRequest},
		{name: "empty upload", err: ingest.ErrEmptyUpload, wantStatus: http.StatusBadRequest},
		{name: "extraction failure", err: extract.ErrExtraction, wantStatus: http.StatusBadRequest},
		{name: "internal failure", err: errors.New("index build failed"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := service_mocks.NewMockQAService(ctrl)
			svc.EXPECT().Ingest(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil, tt.err)

			handler := NewUploadHandler(svc, "default")

			body, contentType := multipartUpload(t, "doc.pdf", "content", "")
			req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var resp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if resp.Error == "" {
				t.Error("error response has empty message")
			}
		})
	}
}

func TestUploadHandler_MissingFileField(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service_mocks.NewMockQAService(ctrl)
	handler := NewUploadHandler(svc, "default")

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	_ = writer.WriteField("namespace", "default")
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestUploadHandler_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service_mocks.NewMockQAService(ctrl)
	handler := NewUploadHandler(svc, "default")

	req := httptest.NewRequest(http.MethodGet, "/api/upload", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// embedResponse builds an embeddings API response with one vector per input.
func embedResponse(vectors ...[]float64) map[string]any {
	data := make([]map[string]any, len(vectors))
	for i, vec := range vectors {
		data[i] = map[string]any{"embedding": vec}
	}
	return map[string]any{"data": data}
}

func TestNewEmbeddingsClient(t *testing.T) {
	client := NewEmbeddingsClient("http://localhost:8081", "test-key", "test-model", 384)
	if client == nil {
		t.Fatal("NewEmbeddingsClient() returned nil")
	}
	if client.ExpectedSize != 384 {
		t.Errorf("NewEmbeddingsClient() ExpectedSize = %d, want 384", client.ExpectedSize)
	}
}

func TestEmbeddingsClient_EmbedTexts(t *testing.T) {
	tests := []struct {
		name       string
		texts      []string
		serverResp func(w http.ResponseWriter, r *http.Request)
		wantCount  int
		wantErr    bool
	}{
		{
			name:  "successful embedding",
			texts: []string{"first", "second"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/embeddings" {
					t.Errorf("expected /v1/embeddings, got %s", r.URL.Path)
				}

				var req embeddingsRequest
				_ = json.NewDecoder(r.Body).Decode(&req) // Ignore decode error in test
				if len(req.Input) != 2 {
					t.Errorf("expected 2 inputs, got %d", len(req.Input))
				}

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(embedResponse([]float64{1, 0, 0}, []float64{0, 1, 0}))
			},
			wantCount: 2,
			wantErr:   false,
		},
		{
			name:  "count mismatch",
			texts: []string{"first", "second"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(embedResponse([]float64{1, 0, 0}))
			},
			wantErr: true,
		},
		{
			name:  "wrong vector size",
			texts: []string{"first"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(embedResponse([]float64{1, 0}))
			},
			wantErr: true,
		},
		{
			name:  "server error",
			texts: []string{"first"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewEmbeddingsClient(server.URL, "test-key", "test-model", 3)
			vectors, err := client.EmbedTexts(context.Background(), tt.texts)

			if tt.wantErr {
				if err == nil {
					t.Errorf("EmbedTexts() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("EmbedTexts() unexpected error: %v", err)
				return
			}

			if len(vectors) != tt.wantCount {
				t.Errorf("EmbedTexts() returned %d vectors, want %d", len(vectors), tt.wantCount)
			}
			for i, vec := range vectors {
				if len(vec) != 3 {
					t.Errorf("vector[%d] has size %d, want 3", i, len(vec))
				}
			}
		})
	}
}

func TestEmbeddingsClient_EmbedTexts_EmptyInput(t *testing.T) {
	client := NewEmbeddingsClient("http://localhost:8081", "test-key", "test-model", 3)
	if _, err := client.EmbedTexts(context.Background(), nil); err == nil {
		t.Error("EmbedTexts() with empty input expected error, got nil")
	}
}

func TestEmbeddingsClient_EmbedTexts_PreservesOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(embedResponse(
			[]float64{1, 0, 0},
			[]float64{0, 1, 0},
			[]float64{0, 0, 1},
		))
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "test-model", 3)
	vectors, err := client.EmbedTexts(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}

	if vectors[0][0] != 1 || vectors[1][1] != 1 || vectors[2][2] != 1 {
		t.Errorf("EmbedTexts() vectors out of order: %v", vectors)
	}
}

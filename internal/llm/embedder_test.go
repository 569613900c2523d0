package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeEmbeddingsServer returns an OpenAI-compatible embeddings endpoint that
// answers every input with a vector of the given size.
func fakeEmbeddingsServer(t *testing.T, vectorSize int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}

		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		type embeddingData struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}
		data := make([]embeddingData, len(req.Input))
		for i := range req.Input {
			vec := make([]float32, vectorSize)
			vec[0] = float32(i + 1)
			data[i] = embeddingData{Index: i, Embedding: vec}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
}

func TestOpenAIEmbedder_EmbedTexts(t *testing.T) {
	srv := fakeEmbeddingsServer(t, 4)
	defer srv.Close()

	embedder := NewOpenAIEmbedder(srv.URL+"/v1", "test-key", "test-model", 4)

	vectors, err := embedder.EmbedTexts(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	if vectors[0][0] != 1 || vectors[1][0] != 2 {
		t.Error("vectors not returned in input order")
	}
	for i, vec := range vectors {
		if len(vec) != 4 {
			t.Errorf("vector %d: expected size 4, got %d", i, len(vec))
		}
	}
}

func TestOpenAIEmbedder_EmbedTexts_SizeMismatch(t *testing.T) {
	srv := fakeEmbeddingsServer(t, 3)
	defer srv.Close()

	embedder := NewOpenAIEmbedder(srv.URL+"/v1", "test-key", "test-model", 4)

	_, err := embedder.EmbedTexts(context.Background(), []string{"text"})
	if err == nil {
		t.Fatal("expected size mismatch error")
	}
	if !strings.Contains(err.Error(), "expected 4") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestOpenAIEmbedder_EmbedTexts_EmptyInput(t *testing.T) {
	embedder := NewOpenAIEmbedder("", "test-key", "test-model", 4)

	if _, err := embedder.EmbedTexts(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestOpenAIEmbedder_EmbedTexts_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	embedder := NewOpenAIEmbedder(srv.URL+"/v1", "test-key", "test-model", 4)

	if _, err := embedder.EmbedTexts(context.Background(), []string{"text"}); err == nil {
		t.Fatal("expected error when backend fails")
	}
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"docqa/internal/ingest"
	"docqa/internal/storage"
	storagemocks "docqa/internal/storage/mocks"
	"docqa/internal/vectorstore"
	vsmocks "docqa/internal/vectorstore/mocks"
)

func newChunkRouter(handler *ChunkHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/documents/{filename}/chunks/{index}", handler.ServeHTTP)
	return r
}

func TestChunkHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	docRepo := storagemocks.NewMockDocumentStore(ctrl)
	vectorStore := vsmocks.NewMockVectorStore(ctrl)
	router := newChunkRouter(NewChunkHandler(docRepo, vectorStore, "documents"))

	docRepo.EXPECT().
		GetByFilename(gomock.Any(), "report.pdf").
		Return(&storage.DocumentRecord{Fingerprint: "abc123", ChunkCount: 5}, nil)
	vectorStore.EXPECT().
		Get(gomock.Any(), "documents", ingest.ChunkKey("abc123", 2)).
		Return("the chunk text", nil)

	req := httptest.NewRequest(http.MethodGet, "/documents/report.pdf/chunks/2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp ChunkResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Content != "the chunk text" {
		t.Errorf("unexpected content: %q", resp.Content)
	}
}

func TestChunkHandler_UnknownFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	docRepo := storagemocks.NewMockDocumentStore(ctrl)
	vectorStore := vsmocks.NewMockVectorStore(ctrl)
	router := newChunkRouter(NewChunkHandler(docRepo, vectorStore, "documents"))

	docRepo.EXPECT().
		GetByFilename(gomock.Any(), "missing.pdf").
		Return(nil, storage.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/documents/missing.pdf/chunks/0", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestChunkHandler_IndexOutOfRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	docRepo := storagemocks.NewMockDocumentStore(ctrl)
	vectorStore := vsmocks.NewMockVectorStore(ctrl)
	router := newChunkRouter(NewChunkHandler(docRepo, vectorStore, "documents"))

	docRepo.EXPECT().
		GetByFilename(gomock.Any(), "report.pdf").
		Return(&storage.DocumentRecord{Fingerprint: "abc123", ChunkCount: 3}, nil).
		Times(2)

	// Index equal to chunk count is past the end: indexes are 0-based.
	for _, path := range []string{
		"/documents/report.pdf/chunks/3",
		"/documents/report.pdf/chunks/-1",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, w.Code)
		}
	}
}

func TestChunkHandler_MissingPoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	docRepo := storagemocks.NewMockDocumentStore(ctrl)
	vectorStore := vsmocks.NewMockVectorStore(ctrl)
	router := newChunkRouter(NewChunkHandler(docRepo, vectorStore, "documents"))

	docRepo.EXPECT().
		GetByFilename(gomock.Any(), "report.pdf").
		Return(&storage.DocumentRecord{Fingerprint: "abc123", ChunkCount: 5}, nil)
	vectorStore.EXPECT().
		Get(gomock.Any(), "documents", gomock.Any()).
		Return("", vectorstore.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/documents/report.pdf/chunks/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestChunkHandler_NonNumericIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	docRepo := storagemocks.NewMockDocumentStore(ctrl)
	vectorStore := vsmocks.NewMockVectorStore(ctrl)
	router := newChunkRouter(NewChunkHandler(docRepo, vectorStore, "documents"))

	req := httptest.NewRequest(http.MethodGet, "/documents/report.pdf/chunks/first", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

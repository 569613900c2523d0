package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/mock/gomock"

	handlermocks "docqa/internal/handlers/mocks"
	qamocks "docqa/internal/qa/mocks"
	"docqa/internal/storage"
	storagemocks "docqa/internal/storage/mocks"
	vsmocks "docqa/internal/vectorstore/mocks"
)

func newTestRouter(t *testing.T) (http.Handler, *Deps) {
	t.Helper()
	ctrl := gomock.NewController(t)

	db, err := storage.New(filepath.Join(t.TempDir(), "router.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	deps := &Deps{
		Ingestor:    handlermocks.NewMockIngestor(ctrl),
		DocRepo:     storagemocks.NewMockDocumentStore(ctrl),
		VectorStore: vsmocks.NewMockVectorStore(ctrl),
		Retriever:   qamocks.NewMockRetriever(ctrl),
		Engine:      qamocks.NewMockEngine(ctrl),
		DB:          db,
		Collection:  "documents",
	}
	return NewRouter(deps), deps
}

func TestRouter_Root(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp["message"] == "" {
		t.Error("expected a welcome message")
	}
}

func TestRouter_ListRoute(t *testing.T) {
	router, deps := newTestRouter(t)

	deps.DocRepo.(*storagemocks.MockDocumentStore).EXPECT().
		ListAll(gomock.Any()).
		Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/documents/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRouter_SearchNotTreatedAsFilename(t *testing.T) {
	router, _ := newTestRouter(t)

	// A GET to /documents/search must hit the search handler, not the
	// filename wildcard; with no query it fails validation, not lookup.
	req := httptest.NewRequest(http.MethodGet, "/documents/search", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 from search validation, got %d", w.Code)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/documents/upload", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("unexpected allow-origin header: %q", got)
	}
}

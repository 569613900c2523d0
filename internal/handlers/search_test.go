package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	qamocks "docqa/internal/qa/mocks"
	"docqa/internal/vectorstore"
)

func TestSearchHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	retriever := qamocks.NewMockRetriever(ctrl)
	handler := NewSearchHandler(retriever)

	retriever.EXPECT().
		Retrieve(gomock.Any(), "quarterly revenue", "").
		Return([]vectorstore.SearchResult{
			{Text: "Revenue grew 12%.", Score: 0.9},
			{Text: "Costs were flat.", Score: 0.7},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/documents/search?query=quarterly+revenue", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp SearchResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Matches) != 2 || resp.Matches[0] != "Revenue grew 12%." {
		t.Errorf("unexpected matches: %v", resp.Matches)
	}
}

func TestSearchHandler_EmptyIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	retriever := qamocks.NewMockRetriever(ctrl)
	handler := NewSearchHandler(retriever)

	retriever.EXPECT().
		Retrieve(gomock.Any(), "anything", "").
		Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/documents/search?query=anything", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp SearchResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Matches == nil || len(resp.Matches) != 0 {
		t.Errorf("expected empty matches list, got %v", resp.Matches)
	}
}

func TestSearchHandler_MissingQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewSearchHandler(qamocks.NewMockRetriever(ctrl))

	req := httptest.NewRequest(http.MethodGet, "/documents/search", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSearchHandler_StoreUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	retriever := qamocks.NewMockRetriever(ctrl)
	handler := NewSearchHandler(retriever)

	retriever.EXPECT().
		Retrieve(gomock.Any(), gomock.Any(), "").
		Return(nil, vectorstore.ErrUnavailable)

	req := httptest.NewRequest(http.MethodGet, "/documents/search?query=x", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != "store_unavailable" {
		t.Errorf("expected store_unavailable kind, got %q", resp.Error)
	}
}

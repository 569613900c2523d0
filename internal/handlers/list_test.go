package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"docqa/internal/storage"
	storagemocks "docqa/internal/storage/mocks"
)

func TestListHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	docRepo := storagemocks.NewMockDocumentStore(ctrl)
	handler := NewListHandler(docRepo)

	docRepo.EXPECT().
		ListAll(gomock.Any()).
		Return([]*storage.DocumentRecord{
			{Filename: "a.pdf", PageCount: 2, Summary: "First doc", ChunkCount: 4},
			{Filename: "b.pdf", PageCount: 5, Summary: "Second doc", ChunkCount: 9},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp ListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(resp.Documents))
	}
	if resp.Documents[0].Filename != "a.pdf" || resp.Documents[0].ChunkCount != 4 {
		t.Errorf("unexpected document: %+v", resp.Documents[0])
	}
	// Listing exposes metadata only, never chunk text or storage paths.
	if resp.Documents[0].Path != "" {
		t.Errorf("path should not be exposed in listings: %q", resp.Documents[0].Path)
	}
}

func TestListHandler_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	docRepo := storagemocks.NewMockDocumentStore(ctrl)
	handler := NewListHandler(docRepo)

	docRepo.EXPECT().ListAll(gomock.Any()).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp ListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Documents) != 0 {
		t.Errorf("expected no documents, got %d", len(resp.Documents))
	}
}

func TestListHandler_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	docRepo := storagemocks.NewMockDocumentStore(ctrl)
	handler := NewListHandler(docRepo)

	docRepo.EXPECT().ListAll(gomock.Any()).Return(nil, errors.New("db closed"))

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	qamocks "docqa/internal/qa/mocks"
	"docqa/internal/vectorstore"
)

func TestAskHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := qamocks.NewMockEngine(ctrl)
	handler := NewAskHandler(engine)

	engine.EXPECT().
		Ask(gomock.Any(), "report.pdf", "What happened to revenue?").
		Return("Revenue grew 12%.", nil)

	body := `{"document": "report.pdf", "question": "What happened to revenue?"}`
	req := httptest.NewRequest(http.MethodPost, "/documents/ask", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp AskResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer != "Revenue grew 12%." {
		t.Errorf("unexpected answer: %q", resp.Answer)
	}
}

func TestAskHandler_EmptyQuestion(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewAskHandler(qamocks.NewMockEngine(ctrl))

	body := `{"document": "report.pdf", "question": ""}`
	req := httptest.NewRequest(http.MethodPost, "/documents/ask", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAskHandler_InvalidBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewAskHandler(qamocks.NewMockEngine(ctrl))

	req := httptest.NewRequest(http.MethodPost, "/documents/ask", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAskHandler_StoreUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := qamocks.NewMockEngine(ctrl)
	handler := NewAskHandler(engine)

	engine.EXPECT().
		Ask(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", vectorstore.ErrUnavailable)

	body := `{"document": "report.pdf", "question": "anything"}`
	req := httptest.NewRequest(http.MethodPost, "/documents/ask", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

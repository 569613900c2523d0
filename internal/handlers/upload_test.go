package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"docqa/internal/handlers/mocks"
	"docqa/internal/pdf"
	"docqa/internal/storage"
)

// multipartBody builds a multipart form with a single "file" field.
func multipartBody(t *testing.T, fieldName, filename string, contents []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(contents); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, writer.FormDataContentType()
}

func TestUploadHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	ingestor := mocks.NewMockIngestor(ctrl)
	handler := NewUploadHandler(ingestor)

	ingestor.EXPECT().
		Ingest(gomock.Any(), "report.pdf", []byte("pdf bytes")).
		Return(&storage.DocumentRecord{
			Filename:   "report.pdf",
			Path:       "/data/report.pdf",
			PageCount:  3,
			Summary:    "Quarterly report",
			ChunkCount: 7,
		}, nil)

	body, contentType := multipartBody(t, "file", "report.pdf", []byte("pdf bytes"))
	req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp UploadResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Message != "File 'report.pdf' uploaded successfully" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
	if resp.Metadata.ChunkCount != 7 || resp.Metadata.PageCount != 3 {
		t.Errorf("unexpected metadata: %+v", resp.Metadata)
	}
}

func TestUploadHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		ingestErr  error
		wantStatus int
		wantKind   string
	}{
		{name: "duplicate", ingestErr: storage.ErrDuplicate, wantStatus: http.StatusConflict, wantKind: "duplicate_content"},
		{name: "unsupported format", ingestErr: pdf.ErrUnsupportedFormat, wantStatus: http.StatusBadRequest, wantKind: "unsupported_format"},
		{name: "no text", ingestErr: pdf.ErrNoText, wantStatus: http.StatusBadRequest, wantKind: "extraction_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ingestor := mocks.NewMockIngestor(ctrl)
			handler := NewUploadHandler(ingestor)

			ingestor.EXPECT().
				Ingest(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil, tt.ingestErr)

			body, contentType := multipartBody(t, "file", "doc.pdf", []byte("bytes"))
			req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}

			var resp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Error != tt.wantKind {
				t.Errorf("expected kind %q, got %q", tt.wantKind, resp.Error)
			}
			if resp.Message == "" {
				t.Error("expected a human-readable message")
			}
		})
	}
}

func TestUploadHandler_MissingFileField(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewUploadHandler(mocks.NewMockIngestor(ctrl))

	body, contentType := multipartBody(t, "wrong_field", "doc.pdf", []byte("bytes"))
	req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

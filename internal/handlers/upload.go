package handlers

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_ingestor.go -package=mocks docqa/internal/handlers Ingestor

import (
	"context"
	"io"
	"net/http"

	"docqa/internal/contextutil"
	"docqa/internal/storage"
)

// maxUploadBytes caps the multipart form held in memory per upload.
const maxUploadBytes = 32 << 20

// Ingestor runs the upload pipeline and its inverse.
type Ingestor interface {
	Ingest(ctx context.Context, filename string, contents []byte) (*storage.DocumentRecord, error)
	Delete(ctx context.Context, filename string) error
}

// UploadHandler handles document upload requests.
type UploadHandler struct {
	ingestor Ingestor
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(ingestor Ingestor) *UploadHandler {
	return &UploadHandler{ingestor: ingestor}
}

// DocumentMetadata is the metadata record exposed over HTTP.
//
// swagger:model DocumentMetadata
type DocumentMetadata struct {
	Filename   string `json:"filename"`
	Path       string `json:"path,omitempty"`
	PageCount  int    `json:"page_count"`
	Summary    string `json:"summary"`
	ChunkCount int    `json:"chunk_count"`
}

// UploadResponse represents a successful upload.
//
// swagger:model UploadResponse
type UploadResponse struct {
	Message  string           `json:"message"`
	Metadata DocumentMetadata `json:"metadata"`
}

// ServeHTTP handles document upload requests.
//
// swagger:route POST /documents/upload uploadDocument
//
// # Upload a PDF document
//
// Accepts a multipart form with a "file" field, extracts and indexes its
// text, and returns the stored metadata. Identical content is rejected even
// under a different filename.
//
// responses:
//
//	'201':
//	  description: Document ingested
//	  schema:
//	    "$ref": "#/definitions/UploadResponse"
//	'400':
//	  description: Unreadable document or no extractable text
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'409':
//	  description: Duplicate content
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.WarnContext(ctx, "invalid multipart form", "error", err)
		writeError(w, http.StatusBadRequest, kindInternal, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.WarnContext(ctx, "missing file field", "error", err)
		writeError(w, http.StatusBadRequest, kindInternal, "A \"file\" form field is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	contents, err := io.ReadAll(file)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read upload", "error", err)
		writeError(w, http.StatusInternalServerError, kindInternal, "Failed to read uploaded file")
		return
	}

	record, err := h.ingestor.Ingest(ctx, header.Filename, contents)
	if err != nil {
		handleError(w, ctx, err, "Upload failed")
		return
	}

	writeJSON(w, http.StatusCreated, UploadResponse{
		Message: "File '" + record.Filename + "' uploaded successfully",
		Metadata: DocumentMetadata{
			Filename:   record.Filename,
			Path:       record.Path,
			PageCount:  record.PageCount,
			Summary:    record.Summary,
			ChunkCount: record.ChunkCount,
		},
	})
}

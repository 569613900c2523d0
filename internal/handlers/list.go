package handlers

import (
	"net/http"

	"docqa/internal/contextutil"
	"docqa/internal/storage"
)

// ListHandler handles document listing requests.
type ListHandler struct {
	docRepo storage.DocumentStore
}

// NewListHandler creates a new ListHandler.
func NewListHandler(docRepo storage.DocumentStore) *ListHandler {
	return &ListHandler{docRepo: docRepo}
}

// ListResponse represents the document listing.
//
// swagger:model ListResponse
type ListResponse struct {
	Documents []DocumentMetadata `json:"documents"`
}

// ServeHTTP handles document listing requests. Chunk text is never included.
//
// swagger:route GET /documents listDocuments
//
// # List uploaded documents
//
// responses:
//
//	'200':
//	  description: All document metadata records
//	  schema:
//	    "$ref": "#/definitions/ListResponse"
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	records, err := h.docRepo.ListAll(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "error", err)
		writeError(w, http.StatusInternalServerError, kindInternal, "Failed to list documents")
		return
	}

	documents := make([]DocumentMetadata, 0, len(records))
	for _, record := range records {
		documents = append(documents, DocumentMetadata{
			Filename:   record.Filename,
			PageCount:  record.PageCount,
			Summary:    record.Summary,
			ChunkCount: record.ChunkCount,
		})
	}

	writeJSON(w, http.StatusOK, ListResponse{Documents: documents})
}

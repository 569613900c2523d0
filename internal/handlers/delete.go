package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"docqa/internal/contextutil"
)

// DeleteHandler handles document deletion requests.
type DeleteHandler struct {
	ingestor Ingestor
}

// NewDeleteHandler creates a new DeleteHandler.
func NewDeleteHandler(ingestor Ingestor) *DeleteHandler {
	return &DeleteHandler{ingestor: ingestor}
}

// DeleteResponse represents a successful deletion.
//
// swagger:model DeleteResponse
type DeleteResponse struct {
	Message string `json:"message"`
}

// ServeHTTP handles document deletion requests.
//
// swagger:route DELETE /documents/{filename} deleteDocument
//
// # Delete a document
//
// Removes the document's index entries, its stored file, and its metadata.
// The metadata record is removed last, so a document whose chunks could not
// be deleted still shows up in listings.
//
// responses:
//
//	'200':
//	  description: Document deleted
//	  schema:
//	    "$ref": "#/definitions/DeleteResponse"
//	'404':
//	  description: Unknown filename
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	filename := chi.URLParam(r, "filename")
	if filename == "" {
		writeError(w, http.StatusBadRequest, kindInternal, "Filename is required")
		return
	}

	if err := h.ingestor.Delete(ctx, filename); err != nil {
		handleError(w, ctx, err, "Deletion failed")
		return
	}

	logger.InfoContext(ctx, "document deleted", "filename", filename)
	writeJSON(w, http.StatusOK, DeleteResponse{
		Message: "File '" + filename + "' deleted successfully",
	})
}

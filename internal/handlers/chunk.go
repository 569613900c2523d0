package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"docqa/internal/contextutil"
	"docqa/internal/ingest"
	"docqa/internal/storage"
	"docqa/internal/vectorstore"
)

// ChunkHandler handles requests for individual document chunks.
type ChunkHandler struct {
	docRepo     storage.DocumentStore
	vectorStore vectorstore.VectorStore
	collection  string
}

// NewChunkHandler creates a new ChunkHandler.
func NewChunkHandler(docRepo storage.DocumentStore, vectorStore vectorstore.VectorStore, collection string) *ChunkHandler {
	return &ChunkHandler{
		docRepo:     docRepo,
		vectorStore: vectorStore,
		collection:  collection,
	}
}

// ChunkResponse represents a single chunk's text.
//
// swagger:model ChunkResponse
type ChunkResponse struct {
	Content string `json:"content"`
}

// ServeHTTP handles chunk retrieval requests. The index path parameter is
// 0-based: chunk 0 is the first chunk of the document.
//
// swagger:route GET /documents/{filename}/chunks/{index} getChunk
//
// # Fetch one chunk of a document
//
// responses:
//
//	'200':
//	  description: Chunk text
//	  schema:
//	    "$ref": "#/definitions/ChunkResponse"
//	'404':
//	  description: Unknown filename or chunk index
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *ChunkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	filename := chi.URLParam(r, "filename")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, kindInternal, "Chunk index must be an integer")
		return
	}

	doc, err := h.docRepo.GetByFilename(ctx, filename)
	if err != nil {
		handleError(w, ctx, err, "Failed to look up document")
		return
	}

	if index < 0 || index >= doc.ChunkCount {
		writeError(w, http.StatusNotFound, kindNotFound, "Chunk not found.")
		return
	}

	text, err := h.vectorStore.Get(ctx, h.collection, ingest.ChunkKey(doc.Fingerprint, index))
	if err != nil {
		handleError(w, ctx, err, "Failed to retrieve chunk")
		return
	}

	logger.DebugContext(ctx, "chunk served", "filename", filename, "index", index)
	writeJSON(w, http.StatusOK, ChunkResponse{Content: text})
}

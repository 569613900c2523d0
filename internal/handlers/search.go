package handlers

import (
	"net/http"

	"docqa/internal/contextutil"
	"docqa/internal/qa"
)

// SearchHandler handles passage search requests.
type SearchHandler struct {
	retriever qa.Retriever
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(retriever qa.Retriever) *SearchHandler {
	return &SearchHandler{retriever: retriever}
}

// SearchResponse represents the matching passages, best first.
//
// swagger:model SearchResponse
type SearchResponse struct {
	Matches []string `json:"matches"`
}

// ServeHTTP handles passage search requests.
//
// swagger:route GET /documents/search searchDocuments
//
// # Search indexed passages
//
// Returns the passages most similar to the query across all documents.
// An empty index yields an empty matches list.
//
// responses:
//
//	'200':
//	  description: Matching passages
//	  schema:
//	    "$ref": "#/definitions/SearchResponse"
//	'503':
//	  description: Vector store unavailable
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, kindInternal, "A \"query\" parameter is required")
		return
	}

	results, err := h.retriever.Retrieve(ctx, query, "")
	if err != nil {
		handleError(w, ctx, err, "Search failed")
		return
	}

	matches := make([]string, 0, len(results))
	for _, result := range results {
		matches = append(matches, result.Text)
	}

	logger.InfoContext(ctx, "search served", "matches", len(matches))
	writeJSON(w, http.StatusOK, SearchResponse{Matches: matches})
}

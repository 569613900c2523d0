package handlers

import (
	"encoding/json"
	"net/http"

	"docqa/internal/contextutil"
	"docqa/internal/qa"
)

// AskHandler handles question answering requests.
type AskHandler struct {
	engine qa.Engine
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(engine qa.Engine) *AskHandler {
	return &AskHandler{engine: engine}
}

// AskRequest represents the HTTP request payload for questions.
//
// swagger:model AskRequest
type AskRequest struct {
	// Filename of the document the question is about
	Document string `json:"document"`

	// The question to answer
	Question string `json:"question"`
}

// AskResponse represents the HTTP response payload for questions.
//
// swagger:model AskResponse
type AskResponse struct {
	Answer string `json:"answer"`
}

// ServeHTTP handles question answering requests.
//
// swagger:route POST /documents/ask askQuestion
//
// # Ask a question about a document
//
// Retrieves the passages most relevant to the question and generates an
// answer from them. Generation failures degrade to a fixed answer string
// rather than an error status.
//
// responses:
//
//	'200':
//	  description: Generated answer
//	  schema:
//	    "$ref": "#/definitions/AskResponse"
//	'400':
//	  description: Missing question
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'503':
//	  description: Vector store unavailable
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, kindInternal, "Invalid request body")
		return
	}

	if req.Question == "" {
		writeError(w, http.StatusBadRequest, kindInternal, "Question is required")
		return
	}

	answer, err := h.engine.Ask(ctx, req.Document, req.Question)
	if err != nil {
		handleError(w, ctx, err, "Failed to process question")
		return
	}

	writeJSON(w, http.StatusOK, AskResponse{Answer: answer})
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"docqa/internal/contextutil"
	"docqa/internal/pdf"
	"docqa/internal/storage"
	"docqa/internal/vectorstore"
)

// ErrorResponse represents an error response.
//
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Machine-readable error kind
	Error string `json:"error"`

	// Human-readable description
	Message string `json:"message"`
}

// Error kinds returned in the "error" field. Every failure path maps to
// exactly one kind so callers can distinguish them without parsing messages.
const (
	kindDuplicateContent  = "duplicate_content"
	kindUnsupportedFormat = "unsupported_format"
	kindExtractionError   = "extraction_error"
	kindNotFound          = "not_found"
	kindStoreUnavailable  = "store_unavailable"
	kindInternal          = "internal"
)

// statusForError maps a domain error to its HTTP status, error kind, and
// default message.
func statusForError(err error) (int, string, string) {
	switch {
	case errors.Is(err, storage.ErrDuplicate):
		return http.StatusConflict, kindDuplicateContent, "Duplicate file detected."
	case errors.Is(err, pdf.ErrUnsupportedFormat):
		return http.StatusBadRequest, kindUnsupportedFormat, "File is not a readable PDF document."
	case errors.Is(err, pdf.ErrNoText):
		return http.StatusBadRequest, kindExtractionError, "No text could be extracted from the document."
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, kindNotFound, "File not found."
	case errors.Is(err, vectorstore.ErrNotFound):
		return http.StatusNotFound, kindNotFound, "Chunk not found."
	case errors.Is(err, vectorstore.ErrUnavailable):
		return http.StatusServiceUnavailable, kindStoreUnavailable, "Vector store unavailable."
	default:
		return http.StatusInternalServerError, kindInternal, ""
	}
}

// handleError logs a domain error and writes the mapped error response.
// fallbackMsg is used for errors with no specific mapping.
func handleError(w http.ResponseWriter, ctx context.Context, err error, fallbackMsg string) {
	logger := contextutil.LoggerFromContext(ctx)

	status, kind, message := statusForError(err)
	if message == "" {
		message = fallbackMsg
	}

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "request failed", "kind", kind, "error", err)
	} else {
		logger.WarnContext(ctx, "request rejected", "kind", kind, "error", err)
	}

	writeError(w, status, kind, message)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   kind,
		Message: message,
	})
}

// writeJSON writes a success response.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

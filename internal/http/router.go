package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docqa/internal/handlers"
	"docqa/internal/qa"
	"docqa/internal/storage"
	"docqa/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Ingestor    handlers.Ingestor
	DocRepo     storage.DocumentStore
	VectorStore vectorstore.VectorStore
	Retriever   qa.Retriever
	Engine      qa.Engine
	DB          *sql.DB
	Collection  string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(LoggerMiddleware)

	uploadHandler := handlers.NewUploadHandler(deps.Ingestor)
	deleteHandler := handlers.NewDeleteHandler(deps.Ingestor)
	listHandler := handlers.NewListHandler(deps.DocRepo)
	chunkHandler := handlers.NewChunkHandler(deps.DocRepo, deps.VectorStore, deps.Collection)
	searchHandler := handlers.NewSearchHandler(deps.Retriever)
	askHandler := handlers.NewAskHandler(deps.Engine)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.DB, deps.Collection)

	r.Route("/documents", func(r chi.Router) {
		r.Method(http.MethodGet, "/", listHandler)
		r.Method(http.MethodPost, "/upload", uploadHandler)
		// Fixed-path routes are registered before the filename wildcard so
		// "search" and "ask" are never treated as filenames.
		r.Method(http.MethodGet, "/search", searchHandler)
		r.Method(http.MethodPost, "/ask", askHandler)
		r.Method(http.MethodDelete, "/{filename}", deleteHandler)
		r.Method(http.MethodGet, "/{filename}/chunks/{index}", chunkHandler)
	})

	r.Method(http.MethodGet, "/api/health", healthHandler)
	r.Method(http.MethodGet, "/", handlers.NewRootHandler())

	return r
}

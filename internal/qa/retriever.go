package qa

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_retriever.go -package=mocks docqa/internal/qa Retriever

import (
	"context"
	"fmt"
	"log/slog"

	"docqa/internal/contextutil"
	"docqa/internal/llm"
	"docqa/internal/vectorstore"
)

// DefaultK is the number of passages retrieved per query.
const DefaultK = 5

// Retriever finds the passages most similar to a query.
type Retriever interface {
	// Retrieve embeds the query and returns up to k passages nearest-first.
	// A non-empty fingerprint restricts the search to one document. An empty
	// index yields an empty slice, not an error.
	Retrieve(ctx context.Context, query string, fingerprint string) ([]vectorstore.SearchResult, error)
}

type vectorRetriever struct {
	embedder    llm.Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	k           int
	logger      *slog.Logger
}

// NewRetriever creates a retriever over the shared embedder and vector
// store. k values below 1 fall back to DefaultK.
func NewRetriever(embedder llm.Embedder, vectorStore vectorstore.VectorStore, collection string, k int) Retriever {
	if k < 1 {
		k = DefaultK
	}
	return &vectorRetriever{
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		k:           k,
		logger:      slog.Default(),
	}
}

func (r *vectorRetriever) Retrieve(ctx context.Context, query string, fingerprint string) ([]vectorstore.SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	embeddings, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed query", "error", err)
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	results, err := r.vectorStore.Search(ctx, r.collection, embeddings[0], r.k, fingerprint)
	if err != nil {
		logger.ErrorContext(ctx, "vector search failed", "error", err)
		return nil, fmt.Errorf("failed to search vector store: %w", err)
	}

	logger.InfoContext(ctx, "retrieval completed", "results", len(results), "k", r.k, "scoped", fingerprint != "")
	return results, nil
}

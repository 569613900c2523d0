package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks docqa/internal/vectorstore VectorStore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested point does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnavailable is returned when the backing store cannot be reached.
var ErrUnavailable = errors.New("vector store unavailable")

// Point represents an indexed passage: its chunk key, embedding, and payload.
// The chunk key has the form "{fingerprint}_chunk_{index}" with a 0-based index.
type Point struct {
	ChunkKey string
	Vec      []float32
	Payload  map[string]any
}

// SearchResult represents a single nearest-neighbor match.
type SearchResult struct {
	ChunkKey string
	Score    float32
	Text     string
	Meta     map[string]any
}

// VectorStore defines the interface for vector storage operations.
// Mutations are synchronous: once Upsert or DeleteByFingerprint returns,
// the change is visible to subsequent searches.
type VectorStore interface {
	// Upsert inserts or updates points. Idempotent per chunk key: inserting
	// the same key twice overwrites instead of duplicating.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns up to k nearest matches, best first. An empty index
	// yields an empty slice, not an error. A non-empty fingerprint scopes
	// the search to chunks of that document.
	Search(ctx context.Context, collection string, query []float32, k int, fingerprint string) ([]SearchResult, error)

	// DeleteByFingerprint removes all chunks belonging to a document.
	DeleteByFingerprint(ctx context.Context, collection, fingerprint string) error

	// Get returns the passage text stored under a chunk key, or ErrNotFound.
	Get(ctx context.Context, collection, chunkKey string) (string, error)

	// CountByFingerprint returns the number of chunks stored for a document.
	CountByFingerprint(ctx context.Context, collection, fingerprint string) (int, error)

	// CollectionExists checks if the collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)
}

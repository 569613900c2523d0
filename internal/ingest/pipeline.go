package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"docqa/internal/contextutil"
	"docqa/internal/llm"
	"docqa/internal/storage"
	"docqa/internal/vectorstore"
)

// summaryLength is the number of leading characters of the first page kept
// as the document summary.
const summaryLength = 200

// noContentSummary is recorded when a document yields no extractable text
// for its summary.
const noContentSummary = "No content extracted."

// DocumentLoader extracts ordered page texts from a stored file.
type DocumentLoader interface {
	Load(path string) ([]string, error)
}

// Pipeline orchestrates the ingestion of an uploaded document: hashing,
// deduplication, persistence to disk, extraction, chunking, embedding,
// vector indexing, and the final metadata commit.
//
// The metadata insert is the commit point. Every step after the file is
// persisted carries compensating cleanup, so a failed upload leaves no
// stored file, no vector entries, and no metadata record behind.
type Pipeline struct {
	dataDir     string
	collection  string
	docRepo     storage.DocumentStore
	vectorStore vectorstore.VectorStore
	embedder    llm.Embedder
	loader      DocumentLoader
	chunker     *Chunker
	logger      *slog.Logger

	// inflight guards concurrent uploads of identical content: the dedup
	// check and final insert are separated by expensive work, so without it
	// two racing identical uploads would both pass the check. The metadata
	// store's conditional insert remains the final authority.
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	dataDir string,
	collection string,
	docRepo storage.DocumentStore,
	vectorStore vectorstore.VectorStore,
	embedder llm.Embedder,
	loader DocumentLoader,
	chunker *Chunker,
) *Pipeline {
	return &Pipeline{
		dataDir:     dataDir,
		collection:  collection,
		docRepo:     docRepo,
		vectorStore: vectorStore,
		embedder:    embedder,
		loader:      loader,
		chunker:     chunker,
		logger:      slog.Default(),
		inflight:    make(map[string]struct{}),
	}
}

// begin registers a fingerprint as being ingested. Returns false if another
// upload of the same content is already in flight.
func (p *Pipeline) begin(fingerprint string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.inflight[fingerprint]; ok {
		return false
	}
	p.inflight[fingerprint] = struct{}{}
	return true
}

// end releases the in-flight registration for a fingerprint.
func (p *Pipeline) end(fingerprint string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, fingerprint)
}

// Ingest runs the full upload pipeline for a file's contents and returns the
// committed metadata record.
//
// Returns storage.ErrDuplicate when content with the same fingerprint already
// exists (or is concurrently being ingested), and passes through the loader's
// errors for unparseable or text-free files.
func (p *Pipeline) Ingest(ctx context.Context, filename string, contents []byte) (*storage.DocumentRecord, error) {
	logger := contextutil.LoggerFromContext(ctx)

	fingerprint := Fingerprint(contents)
	logger.InfoContext(ctx, "ingestion started", "filename", filename, "fingerprint", fingerprint, "bytes", len(contents))

	if !p.begin(fingerprint) {
		logger.InfoContext(ctx, "rejecting concurrent duplicate upload", "fingerprint", fingerprint)
		return nil, storage.ErrDuplicate
	}
	defer p.end(fingerprint)

	// Persist to a temporary location first; the file only takes its final
	// name once the dedup check has passed.
	finalPath := filepath.Join(p.dataDir, filepath.Base(filename))
	tempPath := finalPath + ".tmp"
	if err := os.WriteFile(tempPath, contents, 0644); err != nil {
		return nil, fmt.Errorf("failed to write uploaded file: %w", err)
	}

	// Dedup check against the metadata store.
	_, err := p.docRepo.GetByFingerprint(ctx, fingerprint)
	if err == nil {
		p.removeFile(ctx, tempPath)
		logger.InfoContext(ctx, "rejecting duplicate upload", "fingerprint", fingerprint)
		return nil, storage.ErrDuplicate
	}
	if !errors.Is(err, storage.ErrNotFound) {
		p.removeFile(ctx, tempPath)
		return nil, fmt.Errorf("failed to check for duplicate: %w", err)
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		p.removeFile(ctx, tempPath)
		return nil, fmt.Errorf("failed to store uploaded file: %w", err)
	}

	// Extract page texts. Page order determines chunk sequence numbering.
	pages, err := p.loader.Load(finalPath)
	if err != nil {
		p.removeFile(ctx, finalPath)
		return nil, err
	}

	chunks := p.chunker.Split(pages)
	if len(chunks) == 0 {
		p.removeFile(ctx, finalPath)
		return nil, fmt.Errorf("document yielded no chunks")
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		p.removeFile(ctx, finalPath)
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		p.removeFile(ctx, finalPath)
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	points := make([]vectorstore.Point, len(chunks))
	for i, chunk := range chunks {
		key := ChunkKey(fingerprint, i)
		points[i] = vectorstore.Point{
			ChunkKey: key,
			Vec:      embeddings[i],
			Payload: map[string]any{
				"chunk_key":   key,
				"fingerprint": fingerprint,
				"chunk_index": i,
				"filename":    filename,
				"text":        chunk,
			},
		}
	}

	if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
		// Remove whatever subset made it into the index before the failure.
		p.removeVectors(ctx, fingerprint)
		p.removeFile(ctx, finalPath)
		return nil, fmt.Errorf("failed to index chunks: %w", err)
	}

	// Upserts are synchronous, so the index must now hold exactly one point
	// per chunk. A mismatch means a partial write; roll it back.
	indexed, err := p.vectorStore.CountByFingerprint(ctx, p.collection, fingerprint)
	if err != nil {
		logger.WarnContext(ctx, "could not verify indexed chunk count", "fingerprint", fingerprint, "error", err)
	} else if indexed != len(chunks) {
		p.removeVectors(ctx, fingerprint)
		p.removeFile(ctx, finalPath)
		return nil, fmt.Errorf("indexed chunk count mismatch: expected %d, got %d", len(chunks), indexed)
	}

	record := &storage.DocumentRecord{
		Fingerprint: fingerprint,
		Filename:    filename,
		Path:        finalPath,
		PageCount:   len(pages),
		Summary:     summarize(pages),
		ChunkCount:  len(chunks),
	}

	// Commit point. The primary key constraint resolves any remaining race:
	// if a concurrent upload won, roll back this attempt's side effects.
	if err := p.docRepo.Insert(ctx, record); err != nil {
		p.removeVectors(ctx, fingerprint)
		p.removeFile(ctx, finalPath)
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, storage.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to commit metadata: %w", err)
	}

	logger.InfoContext(ctx, "ingestion committed",
		"filename", filename,
		"fingerprint", fingerprint,
		"pages", record.PageCount,
		"chunks", record.ChunkCount,
	)
	return record, nil
}

// Delete removes a document by filename: its vector entries, its stored
// file, and finally its metadata record. The metadata record goes last so a
// partially deleted document remains visible in listings instead of leaving
// invisible orphaned chunks.
func (p *Pipeline) Delete(ctx context.Context, filename string) error {
	logger := contextutil.LoggerFromContext(ctx)

	doc, err := p.docRepo.GetByFilename(ctx, filename)
	if err != nil {
		return err
	}

	if err := p.vectorStore.DeleteByFingerprint(ctx, p.collection, doc.Fingerprint); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}

	p.removeFile(ctx, doc.Path)

	if err := p.docRepo.Delete(ctx, doc.Fingerprint); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to delete metadata: %w", err)
	}

	logger.InfoContext(ctx, "document deleted", "filename", filename, "fingerprint", doc.Fingerprint)
	return nil
}

// removeFile deletes a stored file, logging instead of failing: cleanup
// must not mask the error that triggered it.
func (p *Pipeline) removeFile(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to remove stored file", "path", path, "error", err)
	}
}

// removeVectors deletes a document's vector entries, logging on failure.
func (p *Pipeline) removeVectors(ctx context.Context, fingerprint string) {
	if err := p.vectorStore.DeleteByFingerprint(ctx, p.collection, fingerprint); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to clean up vector entries", "fingerprint", fingerprint, "error", err)
	}
}

// summarize returns the leading excerpt of the first page.
func summarize(pages []string) string {
	if len(pages) == 0 {
		return noContentSummary
	}
	first := strings.TrimSpace(pages[0])
	if first == "" {
		return noContentSummary
	}
	runes := []rune(first)
	if len(runes) > summaryLength {
		return string(runes[:summaryLength])
	}
	return first
}

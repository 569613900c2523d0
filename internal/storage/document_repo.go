package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks docqa/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// DocumentStore defines the interface for document metadata operations.
// It is the source of truth for which documents exist.
type DocumentStore interface {
	// Insert stores a new document record. Returns ErrDuplicate if a record
	// with the same fingerprint already exists; the insert is atomic, so
	// concurrent inserts of the same fingerprint cannot both succeed.
	Insert(ctx context.Context, doc *DocumentRecord) error
	// GetByFingerprint returns the record for a fingerprint, or ErrNotFound.
	GetByFingerprint(ctx context.Context, fingerprint string) (*DocumentRecord, error)
	// GetByFilename returns the record for a filename, or ErrNotFound.
	GetByFilename(ctx context.Context, filename string) (*DocumentRecord, error)
	// Delete removes the record for a fingerprint. Returns ErrNotFound if
	// no such record exists.
	Delete(ctx context.Context, fingerprint string) error
	// ListAll returns all document records.
	ListAll(ctx context.Context) ([]*DocumentRecord, error)
}

// DocumentRepo provides methods for document metadata operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Insert stores a new document record.
// The primary key on fingerprint makes this a conditional insert: a second
// insert of the same fingerprint fails with ErrDuplicate.
func (r *DocumentRepo) Insert(ctx context.Context, doc *DocumentRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO documents (fingerprint, filename, path, page_count, summary, chunk_count) VALUES (?, ?, ?, ?, ?, ?)",
		doc.Fingerprint, doc.Filename, doc.Path, doc.PageCount, doc.Summary, doc.ChunkCount,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) &&
			(sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
				sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// GetByFingerprint returns the record for a fingerprint, or ErrNotFound.
func (r *DocumentRepo) GetByFingerprint(ctx context.Context, fingerprint string) (*DocumentRecord, error) {
	return r.get(ctx, "fingerprint = ?", fingerprint)
}

// GetByFilename returns the record for a filename, or ErrNotFound.
func (r *DocumentRepo) GetByFilename(ctx context.Context, filename string) (*DocumentRecord, error) {
	return r.get(ctx, "filename = ?", filename)
}

func (r *DocumentRepo) get(ctx context.Context, where string, arg any) (*DocumentRecord, error) {
	var doc DocumentRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT fingerprint, filename, path, page_count, summary, chunk_count, created_at FROM documents WHERE "+where,
		arg,
	).Scan(&doc.Fingerprint, &doc.Filename, &doc.Path, &doc.PageCount, &doc.Summary, &doc.ChunkCount, &doc.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	return &doc, nil
}

// Delete removes the record for a fingerprint.
func (r *DocumentRepo) Delete(ctx context.Context, fingerprint string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE fingerprint = ?", fingerprint)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// ListAll returns all document records ordered by creation time.
func (r *DocumentRepo) ListAll(ctx context.Context) ([]*DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT fingerprint, filename, path, page_count, summary, chunk_count, created_at FROM documents ORDER BY created_at",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []*DocumentRecord
	for rows.Next() {
		var doc DocumentRecord
		if err := rows.Scan(&doc.Fingerprint, &doc.Filename, &doc.Path, &doc.PageCount, &doc.Summary, &doc.ChunkCount, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}

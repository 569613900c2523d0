package storage

import "time"

// DocumentRecord is the metadata record for an ingested document.
// The fingerprint is the hex SHA-256 of the uploaded file bytes; it is the
// primary key, so re-inserting the same content fails rather than duplicating.
type DocumentRecord struct {
	Fingerprint string    // Content hash, stable across re-uploads of identical bytes
	Filename    string    // Original upload filename
	Path        string    // Location of the stored file on disk
	PageCount   int       // Number of pages extracted from the source
	Summary     string    // Leading excerpt of the first page
	ChunkCount  int       // Number of chunks indexed for this document
	CreatedAt   time.Time
}

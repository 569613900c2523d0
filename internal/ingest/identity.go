package ingest

import (
	"crypto/sha256"
	"fmt"
)

// Fingerprint computes the content fingerprint for a file: the hex SHA-256
// of its bytes. It is stable across re-uploads of identical content and is
// the namespace root for all chunk keys derived from the document.
func Fingerprint(contents []byte) string {
	sum := sha256.Sum256(contents)
	return fmt.Sprintf("%x", sum)
}

// ChunkKey composes the identifier of a chunk from its document fingerprint
// and 0-based sequence index.
func ChunkKey(fingerprint string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", fingerprint, index)
}

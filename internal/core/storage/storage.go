package storage

import "errors"

// Store-specific errors
var (
	ErrDocumentNotFound = errors.New("document not found")
)

// DocumentStore is the persistence boundary: a key-value document store
// accessed only by name. The core never assumes anything about the backing
// medium; user records, backups, and snapshots all pass through this
// interface.
type DocumentStore interface {
	// Put stores a document under name, overwriting any prior version.
	Put(name string, doc []byte) error
	// Get returns the document stored under name, or ErrDocumentNotFound.
	Get(name string) ([]byte, error)
	// Delete removes a document; absent names are a no-op.
	Delete(name string) error
	// List returns the names of stored documents with the given prefix.
	List(prefix string) ([]string, error)
}

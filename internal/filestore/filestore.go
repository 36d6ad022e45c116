// Package filestore defines the opaque file-store boundary. The engine only
// ever persists the reference string a store hands back; file content is
// never inspected.
package filestore

import "context"

// Store is the contract consumed by the document service.
type Store interface {
	// Store uploads the given bytes under the given name and returns an
	// opaque reference.
	Store(ctx context.Context, content []byte, name string) (string, error)
	// Move relocates a stored file into another folder. Used best-effort
	// when a document is archived.
	Move(ctx context.Context, ref, targetFolder string) error
}

package ports

import "context"

// StateStore persists opaque state blobs.
// Implementations are used outside the frame loop and may block on I/O.
type StateStore interface {
	// Write persists the blob under key, replacing any previous value.
	Write(ctx context.Context, key string, blob []byte) error

	// Read retrieves the blob for key.
	// Returns domain.ErrStateNotFound if nothing was written.
	Read(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the keys currently stored.
	List(ctx context.Context) ([]string, error)
}

package port

// BlobStore is byte-blob key/value persistence with last-write-wins
// semantics. Each key is serialized and loaded independently; corruption of
// one key must not prevent loading the others.
type BlobStore interface {
	// Get returns the blob for key. The second return is false when the key
	// is absent.
	Get(key string) ([]byte, bool, error)

	// Set stores the blob for key, overwriting any previous value.
	Set(key string, value []byte) error

	// Delete removes the key. Deleting an absent key is a no-op.
	Delete(key string) error
}

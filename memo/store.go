package memo

// store represents a key-value storage backend for cache records
// (Bolt, in-memory, etc.).
type store interface {
	// Get retrieves a record by key. Returns nil if not found.
	Get(key string) ([]byte, error)

	// Put stores a record.
	Put(key string, value []byte) error

	// Delete removes a key. Absent keys are not an error.
	Delete(key string) error

	// Close closes the storage.
	Close() error
}

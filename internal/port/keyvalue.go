package port

// KeyValue is the persisted key/value surface entity collections are stored on.
// Each value holds a whole serialized collection.
type KeyValue interface {
	// Get returns the stored value and whether the key exists
	Get(key string) ([]byte, bool, error)

	// Set replaces the value stored under key
	Set(key string, value []byte) error
}

// KeyValueStore is a KeyValue with a transaction boundary
type KeyValueStore interface {
	KeyValue

	// Update runs fn against a transactional view.
	// Writes made through tx become visible only if fn returns nil.
	Update(fn func(tx KeyValue) error) error

	// Ping checks storage connectivity
	Ping() error

	// Close releases the underlying resources
	Close() error
}

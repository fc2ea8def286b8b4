package storage

import "fmt"

// Store kinds accepted by NewStore.
const (
	KindMemory = "memory"
	KindSQLite = "sqlite"
)

// DefaultStoreKind is the backend used when no kind is requested. Builds
// compiled with -tags sqlite default to the sqlite backend, all others
// default to the in-memory store.
func DefaultStoreKind() string { return defaultStoreKind() }

// NewStore builds a store of the requested kind. The sqlitePath argument
// is only consulted for the sqlite backend.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case KindMemory:
		return NewMemoryStore(), nil
	case KindSQLite:
		return newSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
}

// CloseIfSupported closes stores that hold external resources. The
// in-memory store has nothing to release and is passed through silently.
func CloseIfSupported(s Store) error {
	closer, ok := s.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}

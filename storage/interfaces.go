package storage

import (
	"context"

	"github.com/poiesic/milvusprovider/core"
)

// ConnectionRepository persists connection registry entries.
// Implementations must be thread-safe and support concurrent access.
type ConnectionRepository interface {
	// PutConnections inserts or replaces one or more connections.
	// Sets InsertedAt on first insert and UpdatedAt on every write.
	// Returns the connections with timestamps populated.
	PutConnections(ctx context.Context, conns ...*core.Connection) ([]*core.Connection, error)

	// GetConnection retrieves a single connection by ID.
	// Returns ErrNotFound if the connection doesn't exist.
	GetConnection(ctx context.Context, id string) (*core.Connection, error)

	// ListConnections returns every stored connection ordered by ID.
	ListConnections(ctx context.Context) ([]*core.Connection, error)

	// DeleteConnections removes connections by their IDs.
	// Returns ErrNotFound if any connection doesn't exist.
	DeleteConnections(ctx context.Context, ids ...string) error

	// Close releases resources held by the repository.
	Close() error
}

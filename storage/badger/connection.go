// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/milvusprovider/core"
	"github.com/poiesic/milvusprovider/storage"
)

// ConnectionRepository implements storage.ConnectionRepository for BadgerDB.
type ConnectionRepository struct {
	backend *Backend
}

var _ storage.ConnectionRepository = (*ConnectionRepository)(nil)

// NewConnectionRepository creates a new ConnectionRepository.
func NewConnectionRepository(backend *Backend) *ConnectionRepository {
	return &ConnectionRepository{
		backend: backend,
	}
}

// Close releases resources. ConnectionRepository has no resources to release.
func (r *ConnectionRepository) Close() error {
	return nil
}

// PutConnections inserts or replaces one or more connections.
func (r *ConnectionRepository) PutConnections(ctx context.Context, conns ...*core.Connection) ([]*core.Connection, error) {
	for _, conn := range conns {
		if err := core.ValidateConnection(conn); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Stored timestamps have microsecond precision.
		now := time.Now().UTC().Truncate(time.Microsecond)
		for _, conn := range conns {
			key := makeConnectionKey(conn.ID)

			// Keep the original insert time on replace
			old, err := readConnection(tx, key)
			if err != nil {
				return err
			}
			if old != nil {
				conn.InsertedAt = old.InsertedAt
			} else if conn.InsertedAt.IsZero() {
				conn.InsertedAt = now
			}
			conn.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalConnection(conn)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return conns, nil
}

// GetConnection retrieves a single connection by ID.
// The returned error wraps both storage.ErrNotFound and core.ErrConnectionNotFound
// when the ID is unknown.
func (r *ConnectionRepository) GetConnection(ctx context.Context, id string) (*core.Connection, error) {
	var result *core.Connection
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readConnection(tx, makeConnectionKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return notFound(id)
		}
		return nil
	}, false)
	return result, err
}

// Lookup lets the repository act as a connection registry source.
func (r *ConnectionRepository) Lookup(ctx context.Context, id string) (*core.Connection, error) {
	return r.GetConnection(ctx, id)
}

// ListConnections returns every stored connection ordered by ID.
func (r *ConnectionRepository) ListConnections(ctx context.Context) ([]*core.Connection, error) {
	var result []*core.Connection
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(connectionPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var conn *core.Connection
			err := iter.Item().Value(func(val []byte) error {
				var err error
				conn, err = storage.UnmarshalConnection(val)
				return err
			})
			if err != nil {
				return err
			}
			result = append(result, conn)
		}
		return nil
	}, false)
	return result, err
}

// DeleteConnections removes connections by their IDs.
func (r *ConnectionRepository) DeleteConnections(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeConnectionKey(id)
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return notFound(id)
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readConnection reads a connection from a transaction.
// Returns nil, nil if the key doesn't exist.
func readConnection(tx *badger.Txn, key []byte) (*core.Connection, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var conn *core.Connection
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		conn, unmarshalErr = storage.UnmarshalConnection(val)
		return unmarshalErr
	})
	return conn, err
}

func notFound(id string) error {
	return fmt.Errorf("%w: %q: %w", storage.ErrNotFound, id, core.ErrConnectionNotFound)
}

package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/poiesic/milvusprovider/core"
)

// Source looks up registry entries by connection identifier.
// Unknown identifiers must yield an error wrapping core.ErrConnectionNotFound.
type Source interface {
	Lookup(ctx context.Context, id string) (*core.Connection, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, id string) (*core.Connection, error)

// Lookup calls f.
func (f SourceFunc) Lookup(ctx context.Context, id string) (*core.Connection, error) {
	return f(ctx, id)
}

// NotFound returns the error sources report for unknown identifiers.
func NotFound(id string) error {
	return fmt.Errorf("%w: %q", core.ErrConnectionNotFound, id)
}

type chain []Source

// Chain returns a Source that asks each source in order.
// Only not-found results fall through to the next source; any other error stops the lookup.
func Chain(sources ...Source) Source {
	return chain(sources)
}

func (c chain) Lookup(ctx context.Context, id string) (*core.Connection, error) {
	for _, src := range c {
		conn, err := src.Lookup(ctx, id)
		if err == nil && conn != nil {
			return conn, nil
		}
		if err != nil && !errors.Is(err, core.ErrConnectionNotFound) {
			return nil, err
		}
	}
	return nil, NotFound(id)
}

// StaticSource serves connections from memory.
type StaticSource struct {
	mu    sync.RWMutex
	conns map[string]*core.Connection
}

var _ Source = (*StaticSource)(nil)

// NewStaticSource creates a StaticSource holding conns.
func NewStaticSource(conns ...*core.Connection) *StaticSource {
	s := &StaticSource{conns: make(map[string]*core.Connection, len(conns))}
	for _, conn := range conns {
		s.conns[conn.ID] = conn
	}
	return s
}

// Put adds or replaces a connection.
func (s *StaticSource) Put(conn *core.Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn.ID] = conn
}

// Lookup returns the connection registered under id.
func (s *StaticSource) Lookup(ctx context.Context, id string) (*core.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conn, ok := s.conns[id]
	if !ok {
		return nil, NotFound(id)
	}
	return conn, nil
}

package mock

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/poiesic/milvusprovider/core"
	"github.com/poiesic/milvusprovider/hook"
)

// MockFactory builds MockClients and counts constructions.
type MockFactory struct {
	// BuildFunc replaces the default construction if set.
	BuildFunc func(ctx context.Context, spec *core.ConnectionSpec) (*MockClient, error)

	// Configure is applied to every client built by default construction.
	Configure func(c *MockClient)

	constructions atomic.Int64

	mu      sync.Mutex
	clients []*MockClient
}

// NewMockFactory creates a factory with default behavior.
func NewMockFactory() *MockFactory {
	return &MockFactory{}
}

// Build satisfies hook.ClientFactory.
func (f *MockFactory) Build(ctx context.Context, spec *core.ConnectionSpec) (hook.Client, error) {
	f.constructions.Add(1)

	var (
		client *MockClient
		err    error
	)
	if f.BuildFunc != nil {
		client, err = f.BuildFunc(ctx, spec)
		if err != nil {
			return nil, err
		}
	} else {
		client = NewMockClient()
		if f.Configure != nil {
			f.Configure(client)
		}
	}
	client.Spec = spec

	f.mu.Lock()
	f.clients = append(f.clients, client)
	f.mu.Unlock()
	return client, nil
}

// Constructions returns the number of Build calls.
func (f *MockFactory) Constructions() int {
	return int(f.constructions.Load())
}

// Clients returns every client built so far.
func (f *MockFactory) Clients() []*MockClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*MockClient(nil), f.clients...)
}

// Last returns the most recently built client, or nil.
func (f *MockFactory) Last() *MockClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.clients) == 0 {
		return nil
	}
	return f.clients[len(f.clients)-1]
}

package mock

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/poiesic/milvusprovider/core"
	"github.com/poiesic/milvusprovider/hook"
)

// MockClient is a test double for hook.Client.
type MockClient struct {
	// InsertFunc is called by Insert if set.
	// If nil, reports every record as inserted with sequential IDs.
	InsertFunc func(ctx context.Context, req *core.IngestRequest) (*core.InsertResult, error)

	// ProbeFunc is called by Probe if set.
	ProbeFunc func(ctx context.Context) error

	// CloseFunc is called by Close if set.
	CloseFunc func(ctx context.Context) error

	// Spec is the connection the client was constructed from.
	Spec *core.ConnectionSpec

	insertCalls atomic.Int64
	probeCalls  atomic.Int64
	closeCalls  atomic.Int64

	mu       sync.Mutex
	requests []*core.IngestRequest
}

var _ hook.Client = (*MockClient)(nil)

// NewMockClient creates a mock client with default behavior.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Insert records the request and returns the configured result.
func (m *MockClient) Insert(ctx context.Context, req *core.IngestRequest) (*core.InsertResult, error) {
	m.insertCalls.Add(1)
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, req)
	}

	ids := make([]any, len(req.Records))
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	return &core.InsertResult{InsertCount: int64(len(req.Records)), IDs: ids}, nil
}

// Probe succeeds unless ProbeFunc says otherwise.
func (m *MockClient) Probe(ctx context.Context) error {
	m.probeCalls.Add(1)
	if m.ProbeFunc != nil {
		return m.ProbeFunc(ctx)
	}
	return nil
}

// Close succeeds unless CloseFunc says otherwise.
func (m *MockClient) Close(ctx context.Context) error {
	m.closeCalls.Add(1)
	if m.CloseFunc != nil {
		return m.CloseFunc(ctx)
	}
	return nil
}

// InsertCalls returns the number of Insert calls.
func (m *MockClient) InsertCalls() int {
	return int(m.insertCalls.Load())
}

// ProbeCalls returns the number of Probe calls.
func (m *MockClient) ProbeCalls() int {
	return int(m.probeCalls.Load())
}

// CloseCalls returns the number of Close calls.
func (m *MockClient) CloseCalls() int {
	return int(m.closeCalls.Load())
}

// Requests returns the insert requests received so far.
func (m *MockClient) Requests() []*core.IngestRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*core.IngestRequest(nil), m.requests...)
}

package hook

import (
	"context"

	"github.com/poiesic/milvusprovider/core"
)

// Client is a ready-to-use handle to the remote vector database.
// Implementations must be safe for concurrent use.
type Client interface {
	// Insert writes the request's records into its collection.
	// A request timeout overrides the connection timeout.
	Insert(ctx context.Context, req *core.IngestRequest) (*core.InsertResult, error)

	// Probe performs one lightweight round trip to the remote service.
	Probe(ctx context.Context) error

	// Close releases the network session.
	Close(ctx context.Context) error
}

// ClientFactory constructs a client from a resolved connection.
// Construction must use every field of the connection spec.
type ClientFactory func(ctx context.Context, spec *core.ConnectionSpec) (Client, error)

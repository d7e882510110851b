package hook

import "errors"

var (
	// ErrResolverRequired is returned when a connection resolver is not provided.
	ErrResolverRequired = errors.New("connection resolver required")

	// ErrClientFactoryRequired is returned when a client factory is not provided.
	ErrClientFactoryRequired = errors.New("client factory required")
)

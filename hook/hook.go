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


package hook

import (
	"context"
	"log/slog"
	"sync"

	"github.com/poiesic/milvusprovider/core"
	"github.com/poiesic/milvusprovider/registry"
)

// Hook provides a memoized client for one named connection.
// At most one client is constructed per Hook, even under concurrent first access.
type Hook struct {
	connID   string
	resolver registry.ConnectionResolver
	factory  ClientFactory
	validate bool
	logger   *slog.Logger

	mu     sync.Mutex
	client Client
	spec   *core.ConnectionSpec
}

// Option configures a Hook.
type Option func(*Hook)

// WithConnID sets the connection identifier.
// Default is core.DefaultConnID.
func WithConnID(id string) Option {
	return func(h *Hook) {
		h.connID = id
	}
}

// WithValidation enables or disables the probe run right after construction.
// Default is enabled, so misconfiguration fails on first use instead of on the first real operation.
func WithValidation(enabled bool) Option {
	return func(h *Hook) {
		h.validate = enabled
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hook) {
		if logger == nil {
			logger = slog.Default()
		}
		h.logger = logger
	}
}

// New creates a Hook. No connection is resolved until Client is called.
func New(resolver registry.ConnectionResolver, factory ClientFactory, opts ...Option) (*Hook, error) {
	if resolver == nil {
		return nil, ErrResolverRequired
	}
	if factory == nil {
		return nil, ErrClientFactoryRequired
	}

	h := &Hook{
		connID:   core.DefaultConnID,
		resolver: resolver,
		factory:  factory,
		validate: true,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.connID == "" {
		return nil, core.ErrInvalidConnectionID
	}
	h.logger = h.logger.With("component", "milvus-hook", "conn_id", h.connID)
	return h, nil
}

// ConnID returns the connection identifier this hook serves.
func (h *Hook) ConnID() string {
	return h.connID
}

// Resolve resolves the hook's connection without constructing a client.
func (h *Hook) Resolve(ctx context.Context) (*core.ConnectionSpec, error) {
	return h.resolver.Resolve(ctx, h.connID)
}

// Client returns the cached client, constructing and validating it on first use.
// A failed construction is not cached: the next call attempts it again.
func (h *Hook) Client(ctx context.Context) (Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client != nil {
		return h.client, nil
	}

	spec, err := h.resolver.Resolve(ctx, h.connID)
	if err != nil {
		h.logger.Error("failed to resolve connection", "err", err)
		return nil, err
	}

	logger := h.logger.With("uri", spec.URI, "fingerprint", spec.Fingerprint())
	logger.Debug("constructing client")

	client, err := h.factory(ctx, spec)
	if err != nil {
		logger.Error("failed to construct client", "err", err)
		return nil, err
	}

	if h.validate {
		if err := client.Probe(ctx); err != nil {
			logger.Error("client validation failed", "err", err)
			if closeErr := client.Close(ctx); closeErr != nil {
				logger.Warn("failed to close rejected client", "err", closeErr)
			}
			return nil, err
		}
	}

	logger.Info("client ready", "validated", h.validate)
	h.client = client
	h.spec = spec
	return client, nil
}

// Spec returns the connection the cached client was built from, or nil before first use.
func (h *Hook) Spec() *core.ConnectionSpec {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.spec
}

// Close releases the cached client, if any. The hook never closes the client on its own.
// A later Client call constructs a new one.
func (h *Hook) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client == nil {
		return nil
	}
	err := h.client.Close(ctx)
	h.client = nil
	h.spec = nil
	return err
}

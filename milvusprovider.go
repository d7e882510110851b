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


// Package milvusprovider wires the connection registry, hooks and ingestion
// tasks together.
package milvusprovider

import (
	"log/slog"
	"sync"

	"github.com/poiesic/milvusprovider/ai"
	"github.com/poiesic/milvusprovider/ai/openai"
	"github.com/poiesic/milvusprovider/hook"
	"github.com/poiesic/milvusprovider/ingestion"
	"github.com/poiesic/milvusprovider/milvus"
	"github.com/poiesic/milvusprovider/registry"
	"github.com/poiesic/milvusprovider/storage"
	"github.com/poiesic/milvusprovider/storage/badger"
)

// Provider owns the connection registry and hands out hooks and tasks bound to it.
type Provider struct {
	backend  *badger.Backend
	connRepo *badger.ConnectionRepository
	resolver *registry.Resolver
	factory  hook.ClientFactory
	aiConfig *ai.Config
	logger   *slog.Logger

	embedOnce sync.Once
	embedder  ai.Embedder
	embedErr  error
}

// Option configures a Provider.
type Option func(*options)

type options struct {
	inMemory   bool
	factory    hook.ClientFactory
	envOptions []registry.EnvOption
	useEnv     bool
	aiConfig   *ai.Config
	logger     *slog.Logger
}

// WithInMemory keeps the registry in memory. The path passed to Open is ignored.
func WithInMemory() Option {
	return func(o *options) {
		o.inMemory = true
	}
}

// WithClientFactory replaces the Milvus client factory used by hooks.
func WithClientFactory(factory hook.ClientFactory) Option {
	return func(o *options) {
		o.factory = factory
	}
}

// WithEnvSource configures the environment source consulted before the stored registry.
func WithEnvSource(opts ...registry.EnvOption) Option {
	return func(o *options) {
		o.useEnv = true
		o.envOptions = opts
	}
}

// WithoutEnvSource resolves connections from the stored registry only.
func WithoutEnvSource() Option {
	return func(o *options) {
		o.useEnv = false
	}
}

// WithAIConfig sets the embedding service configuration used by Embedder.
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) {
		o.aiConfig = cfg
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Open opens the connection registry stored at path.
// Connections resolve from MILVUS_CONN_<ID> environment variables first, then the registry.
func Open(path string, opts ...Option) (*Provider, error) {
	o := &options{
		factory:  milvus.NewClient,
		useEnv:   true,
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	backend, err := badger.OpenBackend(path, o.inMemory)
	if err != nil {
		return nil, err
	}
	connRepo := badger.NewConnectionRepository(backend)

	var source registry.Source = connRepo
	if o.useEnv {
		source = registry.Chain(registry.NewEnvSource(o.envOptions...), connRepo)
	}

	return &Provider{
		backend:  backend,
		connRepo: connRepo,
		resolver: registry.NewResolver(source),
		factory:  o.factory,
		aiConfig: o.aiConfig,
		logger:   o.logger,
	}, nil
}

// Close closes the registry. Hooks and runners created from the provider must be closed by their owners.
func (p *Provider) Close() error {
	if err := p.connRepo.Close(); err != nil {
		p.logger.Error("error closing connection repository", "err", err)
		return err
	}
	if err := p.backend.Close(); err != nil {
		p.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Connections returns the stored connection registry.
func (p *Provider) Connections() storage.ConnectionRepository {
	return p.connRepo
}

// Resolver returns the resolver backing every hook.
func (p *Provider) Resolver() *registry.Resolver {
	return p.resolver
}

// NewHook creates a hook for connID. An empty connID selects core.DefaultConnID.
func (p *Provider) NewHook(connID string, opts ...hook.Option) (*hook.Hook, error) {
	all := []hook.Option{hook.WithLogger(p.logger)}
	if connID != "" {
		all = append(all, hook.WithConnID(connID))
	}
	all = append(all, opts...)
	return hook.New(p.resolver, p.factory, all...)
}

func (p *Provider) hookFactory() ingestion.HookFactory {
	return func(connID string) (*hook.Hook, error) {
		return p.NewHook(connID)
	}
}

// NewTask creates an ingestion task whose hook is created from this provider.
func (p *Provider) NewTask(collection string, data any, opts ...ingestion.TaskOption) (*ingestion.Task, error) {
	all := append([]ingestion.TaskOption{ingestion.WithLogger(p.logger)}, opts...)
	return ingestion.NewTask(p.hookFactory(), collection, data, all...)
}

// NewRunner creates a runner sharing one hook per connection.
func (p *Provider) NewRunner(opts ...ingestion.RunnerOption) (*ingestion.Runner, error) {
	all := append([]ingestion.RunnerOption{ingestion.WithRunnerLogger(p.logger)}, opts...)
	return ingestion.NewRunner(p.hookFactory(), all...)
}

// Embedder returns the embedder built from the provider's AI configuration.
// It is constructed on first call.
func (p *Provider) Embedder() (ai.Embedder, error) {
	p.embedOnce.Do(func() {
		p.embedder, p.embedErr = openai.NewEmbedder(p.aiConfig, openai.WithLogger(p.logger))
	})
	return p.embedder, p.embedErr
}

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


package milvus

import (
	"context"
	"log/slog"
	"time"

	"github.com/milvus-io/milvus/client/v2/milvusclient"
	"github.com/poiesic/milvusprovider/core"
	"github.com/poiesic/milvusprovider/hook"
)

// Client implements hook.Client on the Milvus Go SDK.
type Client struct {
	cli     *milvusclient.Client
	timeout time.Duration
	logger  *slog.Logger
}

var (
	_ hook.Client        = (*Client)(nil)
	_ hook.ClientFactory = NewClient
)

// NewClient connects to the Milvus instance described by spec.
// The connection timeout, when set, bounds the connect call and is the
// default deadline of every later call.
func NewClient(ctx context.Context, spec *core.ConnectionSpec) (hook.Client, error) {
	timeout := spec.Timeout()

	callCtx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	cli, err := milvusclient.New(callCtx, buildConfig(spec))
	if err != nil {
		return nil, classify(err, nil)
	}

	return &Client{
		cli:     cli,
		timeout: timeout,
		logger:  slog.Default().With("component", "milvus-client", "uri", spec.URI),
	}, nil
}

// buildConfig maps every connection field onto the SDK configuration.
func buildConfig(spec *core.ConnectionSpec) *milvusclient.ClientConfig {
	cfg := &milvusclient.ClientConfig{
		Address: spec.URI,
	}
	if spec.Login != nil {
		cfg.Username = *spec.Login
	}
	if spec.Password != nil {
		cfg.Password = *spec.Password
	}
	if spec.Extra.DBName != nil {
		cfg.DBName = *spec.Extra.DBName
	}
	if spec.Extra.Token != nil {
		cfg.APIKey = *spec.Extra.Token
	}
	return cfg
}

// Probe lists collections as a connectivity and authorization check.
func (c *Client) Probe(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	names, err := c.cli.ListCollections(ctx, milvusclient.NewListCollectionOption())
	if err != nil {
		return classify(err, nil)
	}
	c.logger.Debug("probe succeeded", "collections", len(names))
	return nil
}

// Insert performs one row-based insert. Nothing is retried.
func (c *Client) Insert(ctx context.Context, req *core.IngestRequest) (*core.InsertResult, error) {
	if err := core.ValidateIngestRequest(req); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, c.insertTimeout(req))
	defer cancel()

	rows := make([]any, len(req.Records))
	for i, record := range req.Records {
		rows[i] = map[string]any(record)
	}

	opt := milvusclient.NewRowBasedInsertOption(req.CollectionName, rows...)
	if req.PartitionName != "" {
		// WithPartition sets the partition in place on the embedded column option.
		opt.WithPartition(req.PartitionName)
	}

	res, err := c.cli.Insert(ctx, opt)
	if err != nil {
		return nil, classify(err, core.ErrRemoteOperationFailed)
	}

	result := &core.InsertResult{InsertCount: res.InsertCount}
	if res.IDs != nil {
		result.IDs = make([]any, 0, res.IDs.Len())
		for i := 0; i < res.IDs.Len(); i++ {
			id, err := res.IDs.Get(i)
			if err != nil {
				return result, classify(err, core.ErrRemoteOperationFailed)
			}
			result.IDs = append(result.IDs, id)
		}
	}

	c.logger.Debug("insert completed",
		"collection", req.CollectionName,
		"partition", req.PartitionName,
		"inserted", result.InsertCount)
	return result, nil
}

// insertTimeout picks the request override when it is positive, else the connection timeout.
func (c *Client) insertTimeout(req *core.IngestRequest) time.Duration {
	if req.Timeout != nil && *req.Timeout > 0 {
		return *req.Timeout
	}
	return c.timeout
}

// Close releases the gRPC session.
func (c *Client) Close(ctx context.Context) error {
	return c.cli.Close(ctx)
}

// withTimeout bounds ctx by timeout when one is configured.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

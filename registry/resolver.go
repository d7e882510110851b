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


package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/milvusprovider/core"
)

// Extension keys understood in a connection's extra map.
const (
	ExtraDBName  = "db_name"
	ExtraToken   = "token"
	ExtraTimeout = "timeout"
)

// ConnectionResolver resolves a connection identifier into a ConnectionSpec.
type ConnectionResolver interface {
	Resolve(ctx context.Context, id string) (*core.ConnectionSpec, error)
}

// Resolver implements ConnectionResolver on top of a Source.
// It has no state besides the source and performs no side effects.
type Resolver struct {
	source Source
}

var _ ConnectionResolver = (*Resolver)(nil)

// NewResolver creates a Resolver reading from source.
func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// Resolve looks up id and converts the entry into a ConnectionSpec.
// Errors from the source are returned unchanged. Absent credentials are nil,
// which keeps them distinguishable from an explicitly empty credential.
func (r *Resolver) Resolve(ctx context.Context, id string) (*core.ConnectionSpec, error) {
	if id == "" {
		return nil, core.ErrInvalidConnectionID
	}

	conn, err := r.source.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, NotFound(id)
	}

	extras, err := DecodeExtras(conn.Extra)
	if err != nil {
		return nil, fmt.Errorf("connection %q: %w", id, err)
	}

	return &core.ConnectionSpec{
		ID:       conn.ID,
		URI:      conn.URI,
		Login:    clone(conn.Login),
		Password: clone(conn.Password),
		Extra:    extras,
	}, nil
}

// MaxTimeoutSeconds is the largest timeout a time.Duration can represent.
const MaxTimeoutSeconds = float64(math.MaxInt64 / int64(time.Second))

// DecodeExtras decodes the JSON extension map of a registry entry.
// Keys that are missing or null stay nil. Unknown keys are ignored.
// The timeout may be a JSON number or a numeric string, in seconds.
func DecodeExtras(raw string) (core.Extras, error) {
	var extras core.Extras
	if strings.TrimSpace(raw) == "" {
		return extras, nil
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return extras, fmt.Errorf("%w: %w", core.ErrInvalidExtra, err)
	}

	var err error
	if extras.DBName, err = stringField(m, ExtraDBName); err != nil {
		return extras, err
	}
	if extras.Token, err = stringField(m, ExtraToken); err != nil {
		return extras, err
	}
	if extras.TimeoutSeconds, err = secondsField(m, ExtraTimeout); err != nil {
		return extras, err
	}
	return extras, nil
}

func stringField(m map[string]any, key string) (*string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a string, got %T", core.ErrInvalidExtra, key, v)
	}
	return &s, nil
}

func secondsField(m map[string]any, key string) (*float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}

	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be numeric: %w", core.ErrInvalidExtra, key, err)
		}
		f = parsed
	default:
		return nil, fmt.Errorf("%w: %s must be a number, got %T", core.ErrInvalidExtra, key, v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %s must be finite", core.ErrInvalidExtra, key)
	}
	if f < 0 {
		return nil, fmt.Errorf("%w: %s cannot be negative", core.ErrInvalidExtra, key)
	}
	if f > MaxTimeoutSeconds {
		return nil, fmt.Errorf("%w: %s exceeds %.0f seconds", core.ErrInvalidExtra, key, MaxTimeoutSeconds)
	}
	return &f, nil
}

// clone copies an optional credential so a resolved spec never aliases the registry entry.
// nil stays nil and an explicitly empty credential stays "".
func clone(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

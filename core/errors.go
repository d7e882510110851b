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


package core

import "errors"

// Connection errors
var (
	// ErrConnectionNotFound indicates the identifier is not registered.
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrInvalidConnectionID indicates an empty connection identifier.
	ErrInvalidConnectionID = errors.New("connection id cannot be empty")

	// ErrInvalidConnection indicates a Connection failed validation.
	ErrInvalidConnection = errors.New("invalid connection")

	// ErrEmptyURI indicates the URI field is empty.
	ErrEmptyURI = errors.New("uri cannot be empty")

	// ErrInvalidExtra indicates the extension map could not be decoded.
	ErrInvalidExtra = errors.New("invalid connection extra")
)

// Remote service errors, as classified by the client adapter.
var (
	// ErrConnectionRefused indicates the remote service could not be reached.
	ErrConnectionRefused = errors.New("connection refused")

	// ErrAuthenticationFailed indicates the credentials were rejected.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrTimeout indicates a remote call exceeded its deadline.
	ErrTimeout = errors.New("timeout")

	// ErrRemoteOperationFailed indicates the remote service rejected an operation.
	ErrRemoteOperationFailed = errors.New("remote operation failed")
)

// Ingest validation errors
var (
	// ErrInvalidIngestRequest indicates an IngestRequest failed validation.
	ErrInvalidIngestRequest = errors.New("invalid ingest request")

	// ErrEmptyCollectionName indicates the collection name is empty.
	ErrEmptyCollectionName = errors.New("collection name cannot be empty")

	// ErrNoRecords indicates there is nothing to insert.
	ErrNoRecords = errors.New("records cannot be empty")

	// ErrUnsupportedData indicates the payload is not a mapping or a sequence of mappings.
	ErrUnsupportedData = errors.New("data must be a mapping or a sequence of mappings")
)

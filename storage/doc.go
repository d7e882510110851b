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


// Package storage provides the persistence layer for the connection registry.
//
// The ConnectionRepository interface decouples the registry from its backing
// store. The BadgerDB implementation lives in the badger subpackage and keeps
// each entry as a compact mus-encoded value keyed by connection ID.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/registry", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	repo := badger.NewConnectionRepository(backend)
//	_, err = repo.PutConnections(ctx, &core.Connection{
//	    ID:  "milvus_default",
//	    URI: "http://localhost:19530",
//	})
//
// Tests can use an in-memory registry:
//
//	repo, backend, err := badger.NewMemoryRepository()
//
// # Absent vs empty credentials
//
// Login and Password are stored with an explicit presence flag, so a nil
// credential survives a round trip as nil and an empty one as "".
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage

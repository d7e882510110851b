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


// Package ai defines the embedding abstraction used by ingestion tasks.
//
// Ingestion can optionally fill a vector field from a text field before rows
// are written to Milvus. The Embedder interface keeps that step independent of
// any particular embedding service.
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible APIs through langchaingo
//   - ai/mock: deterministic test double
//
// Public constructors (openai.NewEmbedder) return the ai.Embedder interface.
// The mock constructor returns the concrete type so tests can inspect call
// counts and inject behavior.
package ai

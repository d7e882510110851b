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


// Package ingestion writes records into a Milvus collection through a hook.
//
// A Task is a unit of work a scheduler invokes with a TaskContext. Executing
// it validates the payload, optionally fills a vector field with embeddings,
// obtains the hook's cached client and forwards exactly one insert. Failures
// from the hook or the insert call are returned unchanged and never retried.
//
// A Runner executes many tasks on an ants worker pool. Tasks that name the
// same connection share one hook, so at most one client is constructed per
// connection regardless of how many tasks race for it.
package ingestion

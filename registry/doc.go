// Copyright 2025 Kadir Pekel
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

// Package registry is the agent-facing surface of the research loop
// registry: a single Execute entry point that an agent framework wires
// up as a tool call, dispatching the start/checkpoint/continue/status/
// list/close actions against a file-backed looprecord.Document.
//
// A Registry is constructed once per agent session, the way hector's
// runtime.Runtime is assembled from factories and services via
// functional options. The session key supplied at construction is
// resolved once, through identity.Resolver, into the ownerAgentId used
// for every subsequent operation — callers never pass an agent id
// directly, which is what keeps the not-found/not-accessible boundary
// meaningful.
//
// Mutating actions (start, checkpoint, continue, close) go through
// store.FileStore.WithLock, so concurrent callers against the same
// document serialize on the sidecar lock file. Read-only actions
// (status, list) use FileStore.Read directly and may observe a slightly
// stale but always well-formed snapshot.
package registry

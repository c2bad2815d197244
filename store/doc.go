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

// Package store implements the registry's persistence layer: atomic
// read/write of a single versioned JSON document plus exclusive advisory
// locking with stale-lock recovery, as described in spec section 4.1.
//
// # Layout
//
// The document lives at <dir>/loops.json. Mutators acquire a sibling
// lock file (<dir>/loops.json.lock) via exclusive-create before
// performing a read-modify-write; readers that only observe state (the
// registry's status/list operations) read without the lock and may see a
// slightly stale but always valid snapshot, since writes land via
// rename and never leave a torn file on disk.
//
// # Corruption policy
//
// A missing, unparseable, or wrong-schema-version file is treated as an
// empty document on read. This is a deliberate trade-off that gives up
// lossless recovery: the contents of a corrupt file are not kept, and the
// next successful write rewrites the file from whatever the in-memory
// document holds.
package store
